// SPDX-FileCopyrightText: 2024-2026 go-adabas contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/docker/go-units"
)

// Flag name constants.
const (
	fnFixture   = "fixture"
	fnFileNo    = "file"
	fnFormat    = "fb"
	fnSearch    = "sb"
	fnValue     = "vb"
	fnRBSize    = "rbsize"
	fnLimit     = "limit"
	fnLogFile   = "logfile"
	fnLogSize   = "logsize"
	fnLogLevel  = "loglevel"
	fnPrintStat = "stats"
)

// Environment constants.
const (
	envFixture = "ADAREADFIXTURE"
	envLogFile = "ADAREADLOGFILE"
)

// byteSizeValue is a flag value accepting human readable sizes like 4KiB or 1MB.
type byteSizeValue int64

func (v *byteSizeValue) String() string { return units.BytesSize(float64(*v)) }

func (v *byteSizeValue) Set(s string) error {
	size, err := units.RAMInBytes(s)
	if err != nil {
		return err
	}
	if size <= 0 {
		return fmt.Errorf("invalid size %s", s)
	}
	*v = byteSizeValue(size)
	return nil
}

type config struct {
	fixture  string
	fileNo   uint
	fb       string
	sb       string
	vb       string
	rbSize   byteSizeValue
	limit    int
	logFile  string
	logSize  byteSizeValue
	logLevel slog.Level
	stats    bool
}

const (
	defRBSize  = 4 * units.KiB
	defLogSize = 10 * units.MiB
)

func newFlagSet(name string, cfg *config) *flag.FlagSet {
	cfg.rbSize = defRBSize
	cfg.logSize = defLogSize

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&cfg.fixture, fnFixture, getStringEnv(envFixture, ""), fmt.Sprintf("TOML fixture the in-memory engine is loaded from (environment variable: %s)", envFixture))
	fs.UintVar(&cfg.fileNo, fnFileNo, 0, "file number (default: first file of the fixture)")
	fs.StringVar(&cfg.fb, fnFormat, "", "format buffer, e.g. AA,AE. (default: all fields of the file)")
	fs.StringVar(&cfg.sb, fnSearch, "", "search buffer, e.g. AW,6,A. (read physical if empty)")
	fs.StringVar(&cfg.vb, fnValue, "", "value buffer of the search")
	fs.Var(&cfg.rbSize, fnRBSize, "record buffer size")
	fs.IntVar(&cfg.limit, fnLimit, 0, "maximum number of records printed (0: no limit)")
	fs.StringVar(&cfg.logFile, fnLogFile, getStringEnv(envLogFile, ""), fmt.Sprintf("rotating log file (environment variable: %s)", envLogFile))
	fs.Var(&cfg.logSize, fnLogSize, "log file size before rotation")
	fs.TextVar(&cfg.logLevel, fnLogLevel, slog.LevelInfo, "log level (DEBUG, INFO, WARN, ERROR)")
	fs.BoolVar(&cfg.stats, fnPrintStat, false, "print connector statistics")
	// forward driver flags (e.g. protocol trace) registered on the command line flag set
	flag.VisitAll(func(f *flag.Flag) { fs.Var(f.Value, f.Name, f.Usage) })
	return fs
}

func getStringEnv(key, defValue string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defValue
	}
	return value
}
