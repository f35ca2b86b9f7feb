// Copyright (c) 2025 The Hoard developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventsapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoard-network/hoard/api/eventsapi"
	"github.com/hoard-network/hoard/eventdb"
	"github.com/hoard-network/hoard/hoard"
	"github.com/hoard-network/hoard/vault"
)

var (
	owner      = hoard.BytesToAddress([]byte("owner"))
	collection = hoard.BytesToAddress([]byte("collection"))
)

func newTestServer(t *testing.T, limit uint64) *httptest.Server {
	db, err := eventdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	for i := 0; i < 5; i++ {
		require.NoError(t, db.Append(&vault.Event{
			Kind:       vault.KindClaimed,
			Time:       uint64(100 * (i + 1)),
			Owner:      owner,
			Collection: collection,
			ItemID:     hoard.BigToBytes32(big.NewInt(int64(i))),
			Reward:     big.NewInt(int64(i)),
		}))
	}

	router := mux.NewRouter()
	eventsapi.New(db, limit).Mount(router, "/events")

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func filter(t *testing.T, server *httptest.Server, body *eventsapi.Filter) (int, []byte) {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(server.URL+"/events", "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer res.Body.Close()
	payload, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, payload
}

func TestFilterAll(t *testing.T) {
	server := newTestServer(t, 10)

	status, body := filter(t, server, &eventsapi.Filter{})
	require.Equal(t, http.StatusOK, status)

	var events []*eventsapi.Event
	require.NoError(t, json.Unmarshal(body, &events))
	require.Len(t, events, 5)
	assert.Equal(t, vault.KindClaimed, events[0].Kind)
	assert.Equal(t, owner, events[0].Owner)
}

func TestFilterRange(t *testing.T) {
	server := newTestServer(t, 10)

	status, body := filter(t, server, &eventsapi.Filter{
		Range: &eventdb.Range{From: 200, To: 400},
	})
	require.Equal(t, http.StatusOK, status)

	var events []*eventsapi.Event
	require.NoError(t, json.Unmarshal(body, &events))
	assert.Len(t, events, 3)
}

func TestFilterPaginationEnforced(t *testing.T) {
	server := newTestServer(t, 3)

	status, _ := filter(t, server, &eventsapi.Filter{})
	assert.Equal(t, http.StatusForbidden, status)

	status, body := filter(t, server, &eventsapi.Filter{
		Options: &eventdb.Options{Offset: 0, Limit: 3},
	})
	require.Equal(t, http.StatusOK, status)

	var events []*eventsapi.Event
	require.NoError(t, json.Unmarshal(body, &events))
	assert.Len(t, events, 3)
}

func TestFilterDescending(t *testing.T) {
	server := newTestServer(t, 10)

	status, body := filter(t, server, &eventsapi.Filter{Order: eventdb.DESC})
	require.Equal(t, http.StatusOK, status)

	var events []*eventsapi.Event
	require.NoError(t, json.Unmarshal(body, &events))
	require.Len(t, events, 5)
	assert.Equal(t, uint64(500), events[0].Time)
}
