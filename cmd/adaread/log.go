// SPDX-FileCopyrightText: 2024-2026 go-adabas contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/docker/go-units"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logMaxBackups = 3
	logMaxAge     = 28 // days
)

// newLogger returns a text logger writing to stderr or, if a log file is configured,
// to a rotating log file. The returned closer needs to be called on exit.
func newLogger(cfg *config) (*slog.Logger, io.Closer) {
	opts := &slog.HandlerOptions{Level: cfg.logLevel}
	if cfg.logFile == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), io.NopCloser(nil)
	}
	w := &lumberjack.Logger{
		Filename:   cfg.logFile,
		MaxSize:    max(1, int(int64(cfg.logSize)/units.MiB)), // megabytes
		MaxBackups: logMaxBackups,
		MaxAge:     logMaxAge,
		Compress:   true,
	}
	return slog.New(slog.NewTextHandler(w, opts)), w
}
