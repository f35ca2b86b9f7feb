// Copyright (c) 2025 The Hoard developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/hoard-network/hoard/api"
	"github.com/hoard-network/hoard/eventdb"
	"github.com/hoard-network/hoard/hoard"
	"github.com/hoard-network/hoard/issuer"
	"github.com/hoard-network/hoard/log"
	"github.com/hoard-network/hoard/metrics"
	"github.com/hoard-network/hoard/registry"
	"github.com/hoard-network/hoard/sslot"
	"github.com/hoard-network/hoard/state"
	"github.com/hoard-network/hoard/vault"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Hoard",
		Usage:     "Item stake vault service",
		Copyright: "2025 The Hoard developers",
		Flags: []cli.Flag{
			dataDirFlag,
			configFlag,
			memFlag,
			apiAddrFlag,
			adminAddrFlag,
			apiCorsFlag,
			apiEventsLimitFlag,
			cacheFlag,
			dbCacheFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			pprofFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	logLevel, err := initLogger(ctx)
	if err != nil {
		return err
	}
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	dataDir := ctx.String(dataDirFlag.Name)
	store, err := openMainDB(ctx, dataDir)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing main database..."); store.Close() }()

	eventDB, err := openEventDB(ctx, dataDir)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing event database..."); eventDB.Close() }()

	st := state.New(store)
	reg := registry.New(sslot.NewContext(hoard.RegistryAddress, st), hoard.VaultAddress)
	iss := issuer.New(sslot.NewContext(hoard.IssuerAddress, st), hoard.VaultAddress)
	v := vault.New(st, reg, iss, eventDB)

	if err := bootstrap(ctx, st, v, reg, iss); err != nil {
		return err
	}

	return serve(ctx, v, eventDB, logLevel)
}

// bootstrap grants the vault the minting capability and applies the boot
// configuration, if one was given.
func bootstrap(ctx *cli.Context, st *state.State, v *vault.Vault, reg *registry.Registry, iss *issuer.Issuer) error {
	minter, err := iss.Minter()
	if err != nil {
		return err
	}
	if minter.IsZero() {
		if err := iss.InitializeMinter(hoard.VaultAddress); err != nil {
			return err
		}
	}

	if path := ctx.String(configFlag.Name); path != "" {
		config, err := loadBootConfig(path)
		if err != nil {
			return err
		}
		if err := applyBootConfig(config, v, reg); err != nil {
			return err
		}
		logger.Info("boot configuration applied", "path", path)
	}
	return st.Commit()
}

func serve(ctx *cli.Context, v *vault.Vault, eventDB *eventdb.EventDB, logLevel *slog.LevelVar) error {
	apiHandler := api.New(v, eventDB, api.Options{
		AllowedOrigins: ctx.String(apiCorsFlag.Name),
		EventsLimit:    ctx.Uint64(apiEventsLimitFlag.Name),
		PprofOn:        ctx.Bool(pprofFlag.Name),
		EnableMetrics:  ctx.Bool(enableMetricsFlag.Name),
	})
	apiSrv := &http.Server{
		Addr:    ctx.String(apiAddrFlag.Name),
		Handler: apiHandler,
	}
	adminSrv := &http.Server{
		Addr:    ctx.String(adminAddrFlag.Name),
		Handler: api.NewAdmin(v, logLevel),
	}

	printStartupMessage(ctx, ctx.String(dataDirFlag.Name))

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(runCtx)
	group.Go(func() error {
		logger.Info("API service started", "addr", apiSrv.Addr)
		if err := apiSrv.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		logger.Info("admin service started", "addr", adminSrv.Addr)
		if err := adminSrv.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		apiSrv.Shutdown(shutdownCtx)
		adminSrv.Shutdown(shutdownCtx)
		return nil
	})
	return group.Wait()
}
