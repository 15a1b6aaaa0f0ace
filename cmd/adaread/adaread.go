// SPDX-FileCopyrightText: 2024-2026 go-adabas contributors
//
// SPDX-License-Identifier: Apache-2.0

// Adaread reads the records of a file of an in-memory engine loaded from a TOML fixture,
// either physical sequential or as result of a search.
//
// Usage:
//
//	adaread -fixture employees.toml -file 12 -fb AA,AE. -sb AW,6,A. -vb READER
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/docker/go-units"
	"github.com/go-adabas/adabas/driver"
	"github.com/go-adabas/adabas/driver/memengine"
)

const cmdID = "ADAR"

var errLimit = errors.New("record limit reached")

func main() { os.Exit(adaread(os.Args)) }

// adaread returns the process exit code after the log file and the signal handler are released.
func adaread(args []string) int {
	cfg := &config{}
	fs := newFlagSet(args[0], cfg)
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	logger, closer := newLogger(cfg)
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Stdout, cfg, logger); err != nil {
		log.Print(err)
		return 1
	}
	return 0
}

func run(ctx context.Context, w io.Writer, cfg *config, logger *slog.Logger) error {
	if cfg.fixture == "" {
		return fmt.Errorf("missing flag -%s", fnFixture)
	}
	engine, err := memengine.LoadFile(cfg.fixture)
	if err != nil {
		return err
	}
	engine.SetLogger(logger)

	fileNo, fb, err := resolveFile(engine, cfg)
	if err != nil {
		return err
	}

	connector := driver.NewConnector(engine)
	defer connector.Close()
	connector.SetDBID(engine.DBID())
	connector.SetLogger(logger)

	conn := connector.NewConn()
	defer conn.Close()

	cmd := driver.NewCommand()
	if err := cmd.SetCommandCode(driver.CmdOpen); err != nil {
		return err
	}
	cmd.SetDBID(connector.DBID())
	if _, err := conn.Exec(ctx, cmd); err != nil {
		return err
	}

	rb := make([]byte, cfg.rbSize)
	cmd.Clear()
	cmd.SetDBID(connector.DBID())
	cmd.SetFileNo(fileNo)
	if err := cmd.SetCommandID(cmdID); err != nil {
		return err
	}
	cmd.SetFormatBufferLength(uint32(len(fb)))
	cmd.SetFormatBuffer([]byte(fb))
	cmd.SetRecordBufferLength(uint32(len(rb)))
	cmd.SetRecordBuffer(rb)

	n := 0
	printRecord := func(cmd *driver.Command) error {
		if cfg.limit > 0 && n >= cfg.limit {
			return errLimit
		}
		n++
		_, err := fmt.Fprintf(w, "%8d %s\n", cmd.ISN(), strings.TrimRight(string(cmd.RecordBuffer()), " \x00"))
		return err
	}

	if cfg.sb != "" {
		err = find(ctx, w, conn, cmd, cfg, printRecord)
	} else {
		if err = cmd.SetCommandCode(driver.CmdReadPhysical); err == nil {
			_, err = conn.ReadLoop(ctx, cmd, printRecord)
		}
	}
	if err != nil && !errors.Is(err, errLimit) {
		return err
	}
	fmt.Fprintf(w, "%d records\n", n)

	cmd.Clear()
	if err := cmd.SetCommandCode(driver.CmdClose); err != nil {
		return err
	}
	cmd.SetDBID(connector.DBID())
	if _, err := conn.Exec(ctx, cmd); err != nil {
		return err
	}

	if cfg.stats {
		stats := connector.Stats()
		fmt.Fprintf(w, "commands %d sent %s received %s\n",
			stats.Commands,
			units.HumanSize(float64(stats.BytesSent)),
			units.HumanSize(float64(stats.BytesReceived)),
		)
	}
	return nil
}

// find executes a search delivering the first record and reads the remaining records of the
// ISN list saved under the command id.
func find(ctx context.Context, w io.Writer, conn *driver.Conn, cmd *driver.Command, cfg *config, fn func(cmd *driver.Command) error) error {
	sb, vb := []byte(cfg.sb), []byte(cfg.vb)
	if err := cmd.SetCommandCode(driver.CmdFind); err != nil {
		return err
	}
	cmd.SetSearchBufferLength(uint32(len(sb)))
	cmd.SetSearchBuffer(sb)
	cmd.SetValueBufferLength(uint32(len(vb)))
	cmd.SetValueBuffer(vb)
	if _, err := conn.Exec(ctx, cmd); err != nil {
		return err
	}
	fmt.Fprintf(w, "%d records found\n", cmd.ISNQuantity())
	if cmd.ISNQuantity() == 0 {
		return nil
	}
	if err := fn(cmd); err != nil {
		return err
	}

	// read next ISN of the saved list
	cmd.SetSearchBuffer(nil)
	cmd.SetValueBuffer(nil)
	if err := cmd.SetCommandCode(driver.CmdReadISN); err != nil {
		return err
	}
	cmd.SetCommandOption2(driver.OptGetNext)
	_, err := conn.ReadLoop(ctx, cmd, fn)
	return err
}

// resolveFile returns the file number and the format buffer to read with.
func resolveFile(engine *memengine.Engine, cfg *config) (uint16, string, error) {
	fileNo := uint16(cfg.fileNo)
	if fileNo == 0 {
		files := engine.Files()
		if len(files) == 0 {
			return 0, "", errors.New("fixture does not define any file")
		}
		fileNo = files[0]
	}
	if cfg.fb != "" {
		return fileNo, cfg.fb, nil
	}
	defs, err := engine.Fields(fileNo)
	if err != nil {
		return 0, "", err
	}
	names := make([]string, 0, len(defs))
	for _, d := range defs {
		names = append(names, d.Name)
	}
	return fileNo, strings.Join(names, ",") + ".", nil
}
