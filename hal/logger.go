// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package hal holds a process-wide structured logger, used by res, so
// that res does not import slog directly and duplicate the "what if
// nobody configured one" fallback.
package hal

import (
	"log/slog"
	"os"
	"sync/atomic"
)

var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

// Logger returns the process-wide logger. Safe for concurrent use,
// including concurrent calls to SetLogger.
func Logger() *slog.Logger {
	return logger.Load()
}

// SetLogger replaces the process-wide logger, for a host application that
// wants render-queue diagnostics folded into its own structured log.
func SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}
	logger.Store(l)
}
