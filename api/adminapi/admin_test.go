// Copyright (c) 2025 The Hoard developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package adminapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoard-network/hoard/api/adminapi"
	"github.com/hoard-network/hoard/hoard"
	"github.com/hoard-network/hoard/issuer"
	"github.com/hoard-network/hoard/kv"
	"github.com/hoard-network/hoard/registry"
	"github.com/hoard-network/hoard/sslot"
	"github.com/hoard-network/hoard/state"
	"github.com/hoard-network/hoard/vault"
)

func newTestServer(t *testing.T) (*httptest.Server, *slog.LevelVar) {
	store, err := kv.OpenMemDB()
	require.NoError(t, err)
	st := state.New(store)

	reg := registry.New(sslot.NewContext(hoard.RegistryAddress, st), hoard.VaultAddress)
	iss := issuer.New(sslot.NewContext(hoard.IssuerAddress, st), hoard.VaultAddress)
	v := vault.New(st, reg, iss, nil)

	logLevel := new(slog.LevelVar)
	router := mux.NewRouter()
	adminapi.New(v, logLevel).Mount(router, "/admin")

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, logLevel
}

func postJSON(t *testing.T, url string, body any) (int, []byte) {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer res.Body.Close()
	payload, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, payload
}

func TestParamsRoundTrip(t *testing.T) {
	server, _ := newTestServer(t)

	rate := "1000"
	lockPeriod := uint64(604800)
	maxPenaltyBps := uint64(5000)
	treasury := hoard.BytesToAddress([]byte("treasury"))

	status, body := postJSON(t, server.URL+"/admin/params", &adminapi.ParamsRequest{
		RewardRate:    &rate,
		LockPeriod:    &lockPeriod,
		MaxPenaltyBps: &maxPenaltyBps,
		Treasury:      &treasury,
	})
	require.Equal(t, http.StatusOK, status)

	var params adminapi.ParamsResponse
	require.NoError(t, json.Unmarshal(body, &params))
	assert.Equal(t, "1000", params.RewardRate)
	assert.Equal(t, uint64(604800), params.LockPeriod)
	assert.Equal(t, uint64(5000), params.MaxPenaltyBps)
	assert.Equal(t, treasury, params.Treasury)

	res, err := http.Get(server.URL + "/admin/params")
	require.NoError(t, err)
	defer res.Body.Close()
	require.NoError(t, json.NewDecoder(res.Body).Decode(&params))
	assert.Equal(t, uint64(604800), params.LockPeriod)
}

func TestParamsValidation(t *testing.T) {
	server, _ := newTestServer(t)

	badBps := uint64(10001)
	status, _ := postJSON(t, server.URL+"/admin/params", &adminapi.ParamsRequest{MaxPenaltyBps: &badBps})
	assert.Equal(t, http.StatusBadRequest, status)

	badRate := "not-a-number"
	status, _ = postJSON(t, server.URL+"/admin/params", &adminapi.ParamsRequest{RewardRate: &badRate})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestWhitelist(t *testing.T) {
	server, _ := newTestServer(t)

	status, _ := postJSON(t, server.URL+"/admin/whitelist", &adminapi.WhitelistRequest{
		Collection: hoard.BytesToAddress([]byte("collection")),
		Eligible:   true,
	})
	assert.Equal(t, http.StatusOK, status)

	status, _ = postJSON(t, server.URL+"/admin/whitelist", &adminapi.WhitelistRequest{})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestLogLevel(t *testing.T) {
	server, logLevel := newTestServer(t)

	status, body := postJSON(t, server.URL+"/admin/loglevel", &adminapi.LogLevelRequest{Level: "debug"})
	require.Equal(t, http.StatusOK, status)

	var level adminapi.LogLevelResponse
	require.NoError(t, json.Unmarshal(body, &level))
	assert.Equal(t, "debug", level.CurrentLevel)
	assert.Equal(t, slog.LevelDebug, logLevel.Level())

	status, _ = postJSON(t, server.URL+"/admin/loglevel", &adminapi.LogLevelRequest{Level: "noisy"})
	assert.Equal(t, http.StatusBadRequest, status)
}
