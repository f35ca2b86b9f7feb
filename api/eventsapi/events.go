// Copyright (c) 2025 The Hoard developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventsapi serves filtered queries over the recorded vault
// events.
package eventsapi

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/hoard-network/hoard/api/restutil"
	"github.com/hoard-network/hoard/eventdb"
	"github.com/hoard-network/hoard/hoard"
	"github.com/hoard-network/hoard/vault"
)

// Event is the wire form of a recorded vault event.
type Event struct {
	Kind       string        `json:"kind"`
	Time       uint64        `json:"time"`
	Owner      hoard.Address `json:"owner"`
	Collection hoard.Address `json:"collection"`
	ItemID     hoard.Bytes32 `json:"itemID"`
	Reward     string        `json:"reward,omitempty"`
	Penalty    string        `json:"penalty,omitempty"`
}

func convertEvent(ev *vault.Event) *Event {
	converted := &Event{
		Kind:       ev.Kind,
		Time:       ev.Time,
		Owner:      ev.Owner,
		Collection: ev.Collection,
		ItemID:     ev.ItemID,
	}
	if ev.Reward != nil {
		converted.Reward = ev.Reward.String()
	}
	if ev.Penalty != nil {
		converted.Penalty = ev.Penalty.String()
	}
	return converted
}

// Filter is the wire form of an event query.
type Filter struct {
	Kind       string           `json:"kind,omitempty"`
	Owner      *hoard.Address   `json:"owner,omitempty"`
	Collection *hoard.Address   `json:"collection,omitempty"`
	ItemID     *hoard.Bytes32   `json:"itemID,omitempty"`
	Range      *eventdb.Range   `json:"range,omitempty"`
	Options    *eventdb.Options `json:"options,omitempty"`
	Order      eventdb.Order    `json:"order,omitempty"`
}

// EventsAPI serves the event query endpoint over an event db.
type EventsAPI struct {
	db    *eventdb.EventDB
	limit uint64
}

func New(db *eventdb.EventDB, limit uint64) *EventsAPI {
	return &EventsAPI{db, limit}
}

func (e *EventsAPI) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var filter Filter
	if err := restutil.ParseJSON(req.Body, &filter); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	options := filter.Options
	if options == nil {
		// ensure an unbounded query cannot exceed the configured limit
		options = &eventdb.Options{Offset: 0, Limit: e.limit + 1}
	}
	events, err := e.db.Filter(req.Context(), &eventdb.Filter{
		Kind:       filter.Kind,
		Owner:      filter.Owner,
		Collection: filter.Collection,
		ItemID:     filter.ItemID,
		Range:      filter.Range,
		Options:    options,
		Order:      filter.Order,
	})
	if err != nil {
		return err
	}
	if uint64(len(events)) > e.limit {
		return restutil.Forbidden(fmt.Errorf("the number of filtered events exceeds the maximum allowed value of %d, please use pagination", e.limit))
	}

	converted := make([]*Event, 0, len(events))
	for _, ev := range events {
		converted = append(converted, convertEvent(ev))
	}
	return restutil.WriteJSON(w, converted)
}

func (e *EventsAPI) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /events").
		HandlerFunc(restutil.WrapHandlerFunc(e.handleFilter))
}
