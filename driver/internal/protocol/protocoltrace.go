// SPDX-FileCopyrightText: 2024-2026 go-adabas contributors
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"flag"
	"log/slog"

	"github.com/go-adabas/adabas/driver/internal/trace"
)

var protocolTrace = trace.NewTrace("adabas", "protocol")

var protocolTraceFlag = trace.NewFlag(protocolTrace)

func init() {
	flag.Var(protocolTraceFlag, "adabas.protocol.trace", "enabling adabas protocol trace")
}

const (
	upStreamPrefix   = "→"
	downStreamPrefix = "←"
)

func streamPrefix(upStream bool) string {
	if upStream {
		return upStreamPrefix
	}
	return downStreamPrefix
}

// SetTrace enables or disables the protocol trace.
func SetTrace(on bool) { protocolTrace.SetOn(on) }

// TraceOn returns true if the protocol trace is enabled.
func TraceOn() bool { return protocolTrace.On() }

// TraceCall traces a control block and the declared buffer lengths before (up) or after an engine call.
func TraceCall(up bool, acb *ACB, bufs *Buffers) {
	if !protocolTrace.On() {
		return
	}
	attrs := make([]slog.Attr, 0, NumBuffers+1)
	attrs = append(attrs, slog.String("acb", acb.String()))
	for i, b := range bufs {
		if b != nil {
			attrs = append(attrs, slog.Int(bufferNames[i], len(b)))
		}
	}
	protocolTrace.Output(streamPrefix(up)+"ACB", attrs...)
}
