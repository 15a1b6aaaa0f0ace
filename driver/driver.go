// SPDX-FileCopyrightText: 2024-2026 go-adabas contributors
//
// SPDX-License-Identifier: Apache-2.0

/*
Package driver is a client protocol layer for ADABAS style databases.

A Command holds the control block fields and the format, record, search, value and ISN buffers of an
engine call. Commands are executed on a Conn, created by a Connector for an Engine:

	connector := driver.NewConnector(engine)
	conn := connector.NewConn()
	defer conn.Close()

	cmd := driver.NewCommand()
	cmd.SetCommandCode(driver.CmdOpen)
	cmd.SetDBID(88)
	rsp, err := conn.Exec(ctx, cmd)

Response codes Normal, FunctionCompleted and EOF are returned without error, every other response code
is returned as *EngineError.
*/
package driver

import p "github.com/go-adabas/adabas/driver/internal/protocol"

// DriverVersion is the version number of the adabas driver.
const DriverVersion = "0.1.0"

// DriverName is the scheme of adabas data source names.
const DriverName = "adabas"

// SetProtocolTrace enables or disables the trace of control blocks passed to and returned by engines.
// The trace can be enabled via the command line flag adabas.protocol.trace as well.
func SetProtocolTrace(on bool) { p.SetTrace(on) }

// ProtocolTrace returns true if the protocol trace is enabled.
func ProtocolTrace() bool { return p.TraceOn() }
