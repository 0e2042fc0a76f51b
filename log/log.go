// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log is a thin layer over the go-ethereum logger. Package loggers
// created with WithContext resolve the root logger on every call, so they
// follow SetDefault even when created during package initialization.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	ethlog "github.com/ethereum/go-ethereum/log"
)

const (
	LevelTrace = ethlog.LevelTrace
	LevelDebug = ethlog.LevelDebug
	LevelInfo  = ethlog.LevelInfo
	LevelWarn  = ethlog.LevelWarn
	LevelError = ethlog.LevelError
	LevelCrit  = ethlog.LevelCrit
)

// Root returns the root logger.
func Root() ethlog.Logger {
	return ethlog.Root()
}

// SetDefault replaces the root logger.
func SetDefault(l ethlog.Logger) {
	ethlog.SetDefault(l)
}

// NewLogger creates a logger writing to h.
func NewLogger(h slog.Handler) ethlog.Logger {
	return ethlog.NewLogger(h)
}

// NewHandler returns a terminal handler, or a JSON one, filtering below level.
func NewHandler(w io.Writer, level slog.Level, json, color bool) slog.Handler {
	if json {
		return ethlog.JSONHandlerWithLevel(w, level)
	}
	return ethlog.NewTerminalHandlerWithLevel(w, level, color)
}

// LevelFromString parses names such as "debug" or "warn".
func LevelFromString(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "trace", "trce":
		return LevelTrace, nil
	case "debug", "dbug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn":
		return LevelWarn, nil
	case "error", "eror":
		return LevelError, nil
	case "crit":
		return LevelCrit, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Logger carries a fixed context that is prepended to every record.
type Logger struct {
	ctx []any
}

// WithContext returns a logger that adds ctx to every record it writes.
func WithContext(ctx ...any) *Logger {
	return &Logger{ctx: ctx}
}

// With returns a logger with ctx appended to the receiver's context.
func (l *Logger) With(ctx ...any) *Logger {
	return &Logger{ctx: slices.Concat(l.ctx, ctx)}
}

func (l *Logger) Trace(msg string, ctx ...any) { Root().Trace(msg, slices.Concat(l.ctx, ctx)...) }
func (l *Logger) Debug(msg string, ctx ...any) { Root().Debug(msg, slices.Concat(l.ctx, ctx)...) }
func (l *Logger) Info(msg string, ctx ...any)  { Root().Info(msg, slices.Concat(l.ctx, ctx)...) }
func (l *Logger) Warn(msg string, ctx ...any)  { Root().Warn(msg, slices.Concat(l.ctx, ctx)...) }
func (l *Logger) Error(msg string, ctx ...any) { Root().Error(msg, slices.Concat(l.ctx, ctx)...) }
