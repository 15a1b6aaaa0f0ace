// SPDX-FileCopyrightText: 2024-2026 go-adabas contributors
//
// SPDX-License-Identifier: Apache-2.0

package trace

import (
	"bytes"
	"flag"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrace(t *testing.T) {
	var b bytes.Buffer
	tr := NewTrace("test")
	tr.SetLogger(slog.New(slog.NewTextHandler(&b, nil)))

	tr.Output("off", slog.Int("n", 1))
	require.Zero(t, b.Len())

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.Var(NewFlag(tr), "trace", "enable trace")
	require.NoError(t, fs.Parse([]string{"-trace"}))
	require.True(t, tr.On())

	tr.Output("on", slog.Int("n", 2))
	require.Contains(t, b.String(), "msg=on n=2")

	require.NoError(t, fs.Set("trace", "false"))
	require.False(t, tr.On())
	require.Error(t, fs.Set("trace", "maybe"))

	// zero value flag as created by the flag package for defaults
	require.Equal(t, "false", (&Flag{}).String())
}
