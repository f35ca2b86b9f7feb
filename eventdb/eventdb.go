// Copyright (c) 2025 The Hoard developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventdb persists vault events in sqlite and serves filtered
// queries over them. It implements vault.Sink.
package eventdb

import (
	"context"
	"database/sql"
	"math/big"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/hoard-network/hoard/hoard"
	"github.com/hoard-network/hoard/vault"
)

const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	kind TEXT NOT NULL,
	time INTEGER NOT NULL,
	owner BLOB(20) NOT NULL,
	collection BLOB(20) NOT NULL,
	itemID BLOB(32) NOT NULL,
	reward TEXT,
	penalty TEXT
);

CREATE INDEX IF NOT EXISTS event_time ON event(time);
CREATE INDEX IF NOT EXISTS event_owner ON event(owner, collection);
CREATE INDEX IF NOT EXISTS event_item ON event(collection, itemID);`

// EventDB stores vault events at the given sqlite path.
type EventDB struct {
	path string
	db   *sql.DB
}

// New creates or opens the event db at the given path.
func New(path string) (eventDB *EventDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if eventDB == nil {
			db.Close()
		}
	}()
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, err
	}
	return &EventDB{path, db}, nil
}

// NewMem creates an event db in ram.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Close closes the event db.
func (db *EventDB) Close() {
	db.db.Close()
}

func (db *EventDB) Path() string {
	return db.path
}

// Append stores one event. It implements vault.Sink.
func (db *EventDB) Append(ev *vault.Event) error {
	_, err := db.db.Exec(
		"INSERT INTO event(kind, time, owner, collection, itemID, reward, penalty) VALUES(?,?,?,?,?,?,?)",
		ev.Kind,
		ev.Time,
		ev.Owner.Bytes(),
		ev.Collection.Bytes(),
		ev.ItemID.Bytes(),
		bigToCol(ev.Reward),
		bigToCol(ev.Penalty),
	)
	return errors.Wrap(err, "append event")
}

// Order of filtered results.
type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Options paginates filtered results.
type Options struct {
	Offset uint64
	Limit  uint64
}

// Range bounds results by event time, inclusive on both ends.
type Range struct {
	From uint64
	To   uint64
}

// Filter selects events. Nil criteria fields match everything.
type Filter struct {
	Kind       string
	Owner      *hoard.Address
	Collection *hoard.Address
	ItemID     *hoard.Bytes32
	Range      *Range
	Options    *Options
	Order      Order
}

// Filter returns events matching the filter, in emission order.
func (db *EventDB) Filter(ctx context.Context, filter *Filter) ([]*vault.Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, "SELECT kind, time, owner, collection, itemID, reward, penalty FROM event ORDER BY seq ASC")
	}
	var args []any
	stmt := "SELECT kind, time, owner, collection, itemID, reward, penalty FROM event WHERE 1"
	if filter.Kind != "" {
		args = append(args, filter.Kind)
		stmt += " AND kind = ?"
	}
	if filter.Owner != nil {
		args = append(args, filter.Owner.Bytes())
		stmt += " AND owner = ?"
	}
	if filter.Collection != nil {
		args = append(args, filter.Collection.Bytes())
		stmt += " AND collection = ?"
	}
	if filter.ItemID != nil {
		args = append(args, filter.ItemID.Bytes())
		stmt += " AND itemID = ?"
	}
	if filter.Range != nil {
		args = append(args, filter.Range.From)
		stmt += " AND time >= ?"
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt += " AND time <= ?"
		}
	}
	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}
	if filter.Options != nil {
		args = append(args, filter.Options.Offset, filter.Options.Limit)
		stmt += " LIMIT ?, ?"
	}
	return db.queryEvents(ctx, stmt, args...)
}

func (db *EventDB) queryEvents(ctx context.Context, stmt string, args ...any) ([]*vault.Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query events")
	}
	defer rows.Close()

	var events []*vault.Event
	for rows.Next() {
		var (
			kind            string
			time            uint64
			owner           []byte
			collection      []byte
			itemID          []byte
			reward, penalty sql.NullString
		)
		if err := rows.Scan(&kind, &time, &owner, &collection, &itemID, &reward, &penalty); err != nil {
			return nil, errors.Wrap(err, "scan event")
		}
		ev := &vault.Event{
			Kind:       kind,
			Time:       time,
			Owner:      hoard.BytesToAddress(owner),
			Collection: hoard.BytesToAddress(collection),
			ItemID:     hoard.BytesToBytes32(itemID),
		}
		if ev.Reward, err = colToBig(reward); err != nil {
			return nil, err
		}
		if ev.Penalty, err = colToBig(penalty); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func bigToCol(v *big.Int) any {
	if v == nil {
		return nil
	}
	return v.String()
}

func colToBig(col sql.NullString) (*big.Int, error) {
	if !col.Valid {
		return nil, nil
	}
	v, ok := new(big.Int).SetString(col.String, 10)
	if !ok {
		return nil, errors.Errorf("malformed amount column %q", col.String)
	}
	return v, nil
}
