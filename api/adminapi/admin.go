// Copyright (c) 2025 The Hoard developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package adminapi exposes the governable parameters and the runtime log
// level. It is meant to be served on a separate, non-public listener.
package adminapi

import (
	"log/slog"
	"math/big"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/hoard-network/hoard/api/restutil"
	"github.com/hoard-network/hoard/hoard"
	"github.com/hoard-network/hoard/log"
	"github.com/hoard-network/hoard/vault"
)

// ParamsResponse is the wire form of the current configuration.
type ParamsResponse struct {
	RewardRate    string        `json:"rewardRate"`
	LockPeriod    uint64        `json:"lockPeriod"`
	MaxPenaltyBps uint64        `json:"maxPenaltyBps"`
	Treasury      hoard.Address `json:"treasury"`
}

// ParamsRequest updates configuration values. Nil fields are untouched.
type ParamsRequest struct {
	RewardRate    *string        `json:"rewardRate,omitempty"`
	LockPeriod    *uint64        `json:"lockPeriod,omitempty"`
	MaxPenaltyBps *uint64        `json:"maxPenaltyBps,omitempty"`
	Treasury      *hoard.Address `json:"treasury,omitempty"`
}

// WhitelistRequest adds or removes a collection from the whitelist.
type WhitelistRequest struct {
	Collection hoard.Address `json:"collection"`
	Eligible   bool          `json:"eligible"`
}

// LogLevelResponse reports the current log level.
type LogLevelResponse struct {
	CurrentLevel string `json:"currentLevel"`
}

// LogLevelRequest sets the log level.
type LogLevelRequest struct {
	Level string `json:"level"`
}

// AdminAPI serves the admin endpoints over a vault.
type AdminAPI struct {
	vault    *vault.Vault
	logLevel *slog.LevelVar
}

func New(v *vault.Vault, logLevel *slog.LevelVar) *AdminAPI {
	return &AdminAPI{v, logLevel}
}

func (a *AdminAPI) handleGetParams(w http.ResponseWriter, _ *http.Request) error {
	p := a.vault.Params()
	rate, err := p.RewardRate()
	if err != nil {
		return err
	}
	lockPeriod, err := p.LockPeriod()
	if err != nil {
		return err
	}
	maxPenaltyBps, err := p.MaxPenaltyBps()
	if err != nil {
		return err
	}
	treasury, err := p.Treasury()
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &ParamsResponse{
		RewardRate:    rate.String(),
		LockPeriod:    lockPeriod,
		MaxPenaltyBps: maxPenaltyBps,
		Treasury:      treasury,
	})
}

func (a *AdminAPI) handleSetParams(w http.ResponseWriter, req *http.Request) error {
	var body ParamsRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.RewardRate != nil {
		rate, ok := new(big.Int).SetString(*body.RewardRate, 10)
		if !ok {
			return restutil.BadRequest(errors.New("rewardRate: malformed amount"))
		}
		if err := a.vault.SetRewardRate(rate); err != nil {
			return restutil.VaultError(err)
		}
	}
	if body.LockPeriod != nil {
		if err := a.vault.SetLockPeriod(*body.LockPeriod); err != nil {
			return restutil.VaultError(err)
		}
	}
	if body.MaxPenaltyBps != nil {
		if err := a.vault.SetMaxPenaltyBps(*body.MaxPenaltyBps); err != nil {
			return restutil.VaultError(err)
		}
	}
	if body.Treasury != nil {
		if err := a.vault.SetTreasury(*body.Treasury); err != nil {
			return restutil.VaultError(err)
		}
	}
	return a.handleGetParams(w, req)
}

func (a *AdminAPI) handleSetWhitelist(w http.ResponseWriter, req *http.Request) error {
	var body WhitelistRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Collection.IsZero() {
		return restutil.BadRequest(errors.New("collection required"))
	}
	if err := a.vault.SetWhitelisted(body.Collection, body.Eligible); err != nil {
		return restutil.VaultError(err)
	}
	return restutil.WriteJSON(w, restutil.M{"collection": body.Collection, "eligible": body.Eligible})
}

func (a *AdminAPI) handleGetLogLevel(w http.ResponseWriter, _ *http.Request) error {
	return restutil.WriteJSON(w, &LogLevelResponse{
		CurrentLevel: log.LevelString(a.logLevel.Level()),
	})
}

func (a *AdminAPI) handleSetLogLevel(w http.ResponseWriter, req *http.Request) error {
	var body LogLevelRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	switch body.Level {
	case "trace":
		a.logLevel.Set(log.LevelTrace)
	case "debug":
		a.logLevel.Set(log.LevelDebug)
	case "info":
		a.logLevel.Set(log.LevelInfo)
	case "warn":
		a.logLevel.Set(log.LevelWarn)
	case "error":
		a.logLevel.Set(log.LevelError)
	case "crit":
		a.logLevel.Set(log.LevelCrit)
	default:
		return restutil.BadRequest(errors.Errorf("invalid verbosity level %q", body.Level))
	}
	return a.handleGetLogLevel(w, req)
}

func (a *AdminAPI) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/params").
		Methods(http.MethodGet).
		Name("GET /admin/params").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleGetParams))
	sub.Path("/params").
		Methods(http.MethodPost).
		Name("POST /admin/params").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleSetParams))
	sub.Path("/whitelist").
		Methods(http.MethodPost).
		Name("POST /admin/whitelist").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleSetWhitelist))
	sub.Path("/loglevel").
		Methods(http.MethodGet).
		Name("GET /admin/loglevel").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleGetLogLevel))
	sub.Path("/loglevel").
		Methods(http.MethodPost).
		Name("POST /admin/loglevel").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleSetLogLevel))
}
