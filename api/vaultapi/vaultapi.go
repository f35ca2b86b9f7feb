// Copyright (c) 2025 The Hoard developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package vaultapi exposes the stake operations over REST.
package vaultapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/hoard-network/hoard/api/restutil"
	"github.com/hoard-network/hoard/hoard"
	"github.com/hoard-network/hoard/vault"
)

// VaultAPI serves the stake endpoints over a vault.
type VaultAPI struct {
	vault *vault.Vault
}

func New(v *vault.Vault) *VaultAPI {
	return &VaultAPI{v}
}

func parseKey(req *http.Request) (hoard.Address, hoard.Bytes32, error) {
	vars := mux.Vars(req)
	collection, err := hoard.ParseAddress(vars["collection"])
	if err != nil {
		return hoard.Address{}, hoard.Bytes32{}, restutil.BadRequest(errors.WithMessage(err, "collection"))
	}
	itemID, err := hoard.ParseBytes32(vars["itemID"])
	if err != nil {
		return hoard.Address{}, hoard.Bytes32{}, restutil.BadRequest(errors.WithMessage(err, "itemID"))
	}
	return collection, itemID, nil
}

// parseNow resolves the optional now query parameter, defaulting to server
// time.
func parseNow(req *http.Request) (uint64, error) {
	value := req.URL.Query().Get("now")
	if value == "" {
		return uint64(time.Now().Unix()), nil
	}
	now, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, restutil.BadRequest(errors.WithMessage(err, "now"))
	}
	return now, nil
}

func (va *VaultAPI) parseOp(req *http.Request) (hoard.Address, hoard.Address, []hoard.Bytes32, uint64, error) {
	vars := mux.Vars(req)
	collection, err := hoard.ParseAddress(vars["collection"])
	if err != nil {
		return hoard.Address{}, hoard.Address{}, nil, 0, restutil.BadRequest(errors.WithMessage(err, "collection"))
	}
	var op OpRequest
	if err := restutil.ParseJSON(req.Body, &op); err != nil {
		return hoard.Address{}, hoard.Address{}, nil, 0, restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if op.Caller.IsZero() {
		return hoard.Address{}, hoard.Address{}, nil, 0, restutil.BadRequest(errors.New("caller required"))
	}
	if len(op.Items) == 0 {
		return hoard.Address{}, hoard.Address{}, nil, 0, restutil.BadRequest(errors.New("items required"))
	}
	now := op.Now
	if now == 0 {
		now = uint64(time.Now().Unix())
	}
	return op.Caller, collection, op.Items, now, nil
}

func (va *VaultAPI) handleGetStake(w http.ResponseWriter, req *http.Request) error {
	collection, itemID, err := parseKey(req)
	if err != nil {
		return err
	}
	record, err := va.vault.GetStake(collection, itemID)
	if err != nil {
		return err
	}
	if record == nil {
		return restutil.NotFound(errors.New("not staked"))
	}
	return restutil.WriteJSON(w, convertStake(record))
}

func (va *VaultAPI) handleGetReward(w http.ResponseWriter, req *http.Request) error {
	collection, itemID, err := parseKey(req)
	if err != nil {
		return err
	}
	now, err := parseNow(req)
	if err != nil {
		return err
	}
	reward, err := va.vault.PendingReward(collection, itemID, now)
	if err != nil {
		return restutil.VaultError(err)
	}
	return restutil.WriteJSON(w, &RewardResponse{Reward: reward.String()})
}

func (va *VaultAPI) handleGetPenalty(w http.ResponseWriter, req *http.Request) error {
	collection, itemID, err := parseKey(req)
	if err != nil {
		return err
	}
	now, err := parseNow(req)
	if err != nil {
		return err
	}
	bps, err := va.vault.PenaltyPreview(collection, itemID, now)
	if err != nil {
		return restutil.VaultError(err)
	}
	return restutil.WriteJSON(w, &PenaltyResponse{PenaltyBps: bps})
}

func (va *VaultAPI) handleGetItems(w http.ResponseWriter, req *http.Request) error {
	vars := mux.Vars(req)
	owner, err := hoard.ParseAddress(vars["owner"])
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "owner"))
	}
	collection, err := hoard.ParseAddress(vars["collection"])
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "collection"))
	}
	items, err := va.vault.StakedItems(owner, collection)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &ItemsResponse{
		Count: uint64(len(items)),
		Items: items,
	})
}

func (va *VaultAPI) handleDeposit(w http.ResponseWriter, req *http.Request) error {
	caller, collection, items, now, err := va.parseOp(req)
	if err != nil {
		return err
	}
	if err := va.vault.DepositMany(caller, collection, items, now); err != nil {
		return restutil.VaultError(err)
	}
	return restutil.WriteJSON(w, &OpResponse{})
}

func (va *VaultAPI) handleClaim(w http.ResponseWriter, req *http.Request) error {
	caller, collection, items, now, err := va.parseOp(req)
	if err != nil {
		return err
	}
	reward, err := va.vault.ClaimMany(caller, collection, items, now)
	if err != nil {
		return restutil.VaultError(err)
	}
	return restutil.WriteJSON(w, &OpResponse{Reward: amount(reward)})
}

func (va *VaultAPI) handleExit(w http.ResponseWriter, req *http.Request) error {
	caller, collection, items, now, err := va.parseOp(req)
	if err != nil {
		return err
	}
	reward, err := va.vault.ExitManyAfterLock(caller, collection, items, now)
	if err != nil {
		return restutil.VaultError(err)
	}
	return restutil.WriteJSON(w, &OpResponse{Reward: amount(reward)})
}

func (va *VaultAPI) handleExitNow(w http.ResponseWriter, req *http.Request) error {
	caller, collection, items, now, err := va.parseOp(req)
	if err != nil {
		return err
	}
	reward, penalty, err := va.vault.ExitManyNow(caller, collection, items, now)
	if err != nil {
		return restutil.VaultError(err)
	}
	return restutil.WriteJSON(w, &OpResponse{Reward: amount(reward), Penalty: amount(penalty)})
}

func (va *VaultAPI) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{collection}/{itemID}").
		Methods(http.MethodGet).
		Name("GET /stakes/{collection}/{itemID}").
		HandlerFunc(restutil.WrapHandlerFunc(va.handleGetStake))
	sub.Path("/{collection}/{itemID}/reward").
		Methods(http.MethodGet).
		Name("GET /stakes/{collection}/{itemID}/reward").
		HandlerFunc(restutil.WrapHandlerFunc(va.handleGetReward))
	sub.Path("/{collection}/{itemID}/penalty").
		Methods(http.MethodGet).
		Name("GET /stakes/{collection}/{itemID}/penalty").
		HandlerFunc(restutil.WrapHandlerFunc(va.handleGetPenalty))
	sub.Path("/{collection}/deposits").
		Methods(http.MethodPost).
		Name("POST /stakes/{collection}/deposits").
		HandlerFunc(restutil.WrapHandlerFunc(va.handleDeposit))
	sub.Path("/{collection}/claims").
		Methods(http.MethodPost).
		Name("POST /stakes/{collection}/claims").
		HandlerFunc(restutil.WrapHandlerFunc(va.handleClaim))
	sub.Path("/{collection}/exits").
		Methods(http.MethodPost).
		Name("POST /stakes/{collection}/exits").
		HandlerFunc(restutil.WrapHandlerFunc(va.handleExit))
	sub.Path("/{collection}/immediate-exits").
		Methods(http.MethodPost).
		Name("POST /stakes/{collection}/immediate-exits").
		HandlerFunc(restutil.WrapHandlerFunc(va.handleExitNow))
}

// MountOwners mounts the per-owner enumeration endpoint.
func (va *VaultAPI) MountOwners(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{owner}/collections/{collection}/items").
		Methods(http.MethodGet).
		Name("GET /owners/{owner}/collections/{collection}/items").
		HandlerFunc(restutil.WrapHandlerFunc(va.handleGetItems))
}
