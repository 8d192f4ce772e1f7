// Package logx holds the logger shared by every engine package.
//
// By default nothing is logged. Programs install a handler once at startup:
//
//	logx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
package logx

import (
	"context"
	"log/slog"
	"sync/atomic"
)

type discard struct{}

func (discard) Enabled(context.Context, slog.Level) bool  { return false }
func (discard) Handle(context.Context, slog.Record) error { return nil }
func (discard) WithAttrs([]slog.Attr) slog.Handler        { return discard{} }
func (discard) WithGroup(string) slog.Handler             { return discard{} }

var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(slog.New(discard{}))
}

// SetLogger replaces the engine logger. Passing nil silences logging again.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(discard{})
	}
	current.Store(l)
}

// Logger returns the engine logger.
func Logger() *slog.Logger { return current.Load() }
