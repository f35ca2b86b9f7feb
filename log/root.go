// Copyright (c) 2025 The Hoard developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"log/slog"
	"os"
	"slices"
	"sync/atomic"
)

// rootHandler is the handler installed by SetDefault. The root logger and
// everything derived from it resolve it at write time, so package-level
// loggers created before initialization still pick up the configured
// handler.
var rootHandler atomic.Value

// handlerBox keeps the concrete type stored in rootHandler consistent, as
// atomic.Value requires.
type handlerBox struct{ h slog.Handler }

var root = &logger{slog.New(&liveHandler{})}

func init() {
	rootHandler.Store(handlerBox{DiscardHandler()})
}

// liveHandler defers every call to the currently installed root handler,
// replaying accumulated WithAttrs/WithGroup derivations on top of it.
type liveHandler struct {
	derivations []func(slog.Handler) slog.Handler
}

func (h *liveHandler) resolve() slog.Handler {
	inner := rootHandler.Load().(handlerBox).h
	for _, derive := range h.derivations {
		inner = derive(inner)
	}
	return inner
}

func (h *liveHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.resolve().Enabled(ctx, level)
}

func (h *liveHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.resolve().Handle(ctx, r)
}

func (h *liveHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &liveHandler{append(slices.Clip(h.derivations), func(inner slog.Handler) slog.Handler {
		return inner.WithAttrs(attrs)
	})}
}

func (h *liveHandler) WithGroup(name string) slog.Handler {
	return &liveHandler{append(slices.Clip(h.derivations), func(inner slog.Handler) slog.Handler {
		return inner.WithGroup(name)
	})}
}

// SetDefault installs the handler backing the default global logger.
func SetDefault(l Logger) {
	rootHandler.Store(handlerBox{l.Handler()})
	if lg, ok := l.(*logger); ok {
		slog.SetDefault(lg.inner)
	}
}

// Root returns the root logger.
func Root() Logger {
	return root
}

// WithContext returns a logger carrying the given attributes; the usual
// first pair is "pkg" naming the calling package.
func WithContext(ctx ...any) Logger {
	return Root().With(ctx...)
}

// The following functions bypass the exported logger methods (logger.Debug,
// etc.) to keep the call depth the same for all paths to logger.write so
// runtime.Caller(2) always refers to the call site in client code.

// Trace is a convenient alias for Root().Trace.
func Trace(msg string, ctx ...any) {
	root.write(LevelTrace, msg, ctx...)
}

// Debug is a convenient alias for Root().Debug.
func Debug(msg string, ctx ...any) {
	root.write(slog.LevelDebug, msg, ctx...)
}

// Info is a convenient alias for Root().Info.
func Info(msg string, ctx ...any) {
	root.write(slog.LevelInfo, msg, ctx...)
}

// Warn is a convenient alias for Root().Warn.
func Warn(msg string, ctx ...any) {
	root.write(slog.LevelWarn, msg, ctx...)
}

// Error is a convenient alias for Root().Error.
func Error(msg string, ctx ...any) {
	root.write(slog.LevelError, msg, ctx...)
}

// Crit is a convenient alias for Root().Crit, followed by exit.
func Crit(msg string, ctx ...any) {
	root.write(LevelCrit, msg, ctx...)
	os.Exit(1)
}
