// Copyright (c) 2025 The Hoard developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package api assembles the REST surface of the vault service.
package api

import (
	"log/slog"
	"net/http"
	"net/http/pprof"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/hoard-network/hoard/api/adminapi"
	"github.com/hoard-network/hoard/api/eventsapi"
	"github.com/hoard-network/hoard/api/restutil"
	"github.com/hoard-network/hoard/api/vaultapi"
	"github.com/hoard-network/hoard/eventdb"
	"github.com/hoard-network/hoard/metrics"
	"github.com/hoard-network/hoard/vault"
)

// Options tunes the assembled handler.
type Options struct {
	AllowedOrigins string
	EventsLimit    uint64
	PprofOn        bool
	EnableMetrics  bool
}

// New returns the public api handler. The event db may be nil to disable
// the events endpoint.
func New(v *vault.Vault, eventDB *eventdb.EventDB, opts Options) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	va := vaultapi.New(v)
	va.Mount(router, "/stakes")
	va.MountOwners(router, "/owners")
	if eventDB != nil {
		eventsapi.New(eventDB, opts.EventsLimit).
			Mount(router, "/events")
	}

	router.Path("/health").Methods(http.MethodGet).HandlerFunc(
		restutil.WrapHandlerFunc(func(w http.ResponseWriter, _ *http.Request) error {
			total, err := v.TotalStakes()
			if err != nil {
				return err
			}
			return restutil.WriteJSON(w, restutil.M{"healthy": true, "totalStakes": total})
		}))

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)
	return handler.ServeHTTP
}

// NewAdmin returns the admin handler, served on a separate listener.
func NewAdmin(v *vault.Vault, logLevel *slog.LevelVar) http.HandlerFunc {
	router := mux.NewRouter()
	adminapi.New(v, logLevel).Mount(router, "/admin")
	if handler := metrics.HTTPHandler(); handler != nil {
		router.Path("/metrics").Methods(http.MethodGet).Handler(handler)
	}
	return router.ServeHTTP
}
