// Copyright (c) 2025 The Hoard developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/elastic/gosigar"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/hoard-network/hoard/eventdb"
	"github.com/hoard-network/hoard/kv"
	"github.com/hoard-network/hoard/log"
)

func defaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "Hoard")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "Hoard")
		default:
			return filepath.Join(home, ".hoard")
		}
	}
	return ""
}

func initLogger(ctx *cli.Context) (*slog.LevelVar, error) {
	level, err := log.FromLegacyLevel(ctx.Int(verbosityFlag.Name))
	if err != nil {
		return nil, err
	}
	logLevel := new(slog.LevelVar)
	logLevel.Set(level)

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stdout, logLevel)
	} else {
		useColor := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
		handler = log.NewTerminalHandlerWithLevel(os.Stdout, logLevel, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
	return logLevel, nil
}

// normalizeCacheSize clamps the database cache to half of the physical
// ram.
func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 128 {
		sizeMB = 128
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem", "err", err)
	} else {
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func openMainDB(ctx *cli.Context, dataDir string) (kv.Store, error) {
	if ctx.Bool(memFlag.Name) {
		return kv.OpenMemDB()
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, errors.Wrap(err, "create data dir")
	}
	store, err := kv.OpenLevelDB(filepath.Join(dataDir, "main.db"), normalizeCacheSize(ctx.Int(dbCacheFlag.Name)))
	if err != nil {
		return nil, errors.Wrap(err, "open main database")
	}
	if size := ctx.Int(cacheFlag.Name); size > 0 {
		store = kv.NewCached(store, size)
	}
	return store, nil
}

func openEventDB(ctx *cli.Context, dataDir string) (*eventdb.EventDB, error) {
	if ctx.Bool(memFlag.Name) {
		return eventdb.NewMem()
	}
	db, err := eventdb.New(filepath.Join(dataDir, "events.db"))
	return db, errors.Wrap(err, "open event database")
}

func printStartupMessage(ctx *cli.Context, dataDir string) {
	fmt.Printf(`Starting %v
    Data dir    [ %v ]
    API portal  [ http://%v/ ]
    Admin       [ http://%v/admin ]
`,
		ctx.App.Name,
		dataDir,
		ctx.String(apiAddrFlag.Name),
		ctx.String(adminAddrFlag.Name),
	)
}
