// SPDX-FileCopyrightText: 2024-2026 go-adabas contributors
//
// SPDX-License-Identifier: Apache-2.0

package driver

import p "github.com/go-adabas/adabas/driver/internal/protocol"

// ResponseCode is the response code of an executed command.
type ResponseCode = p.ResponseCode

// Success is the value of a completed engine call, reported by session level commands (OP, CL, ET, BT, RC).
// Normal is the record level success marker used within read loops. Both share the wire value 0.
const (
	Success ResponseCode = 0
	Normal               = p.RspNormal
	EOF                  = p.RspEOF
)

// Engine response codes.
const (
	FunctionCompleted    = p.RspFunctionCompleted
	TransactionAborted   = p.RspTransactionAborted
	InvalidFileNumber    = p.RspInvalidFileNumber
	FileChanged          = p.RspFileChanged
	InvalidCommandID     = p.RspInvalidCommandID
	InvalidUserCommandID = p.RspInvalidUserCommandID
	InvalidCommand       = p.RspInvalidCommand
	InvalidStartISN      = p.RspInvalidStartISN
	ISNBufferError       = p.RspISNBufferError
	InvalidAddition1     = p.RspInvalidAddition1
	InvalidCommandOption = p.RspInvalidCommandOption
	FormatBufferError    = p.RspFormatBufferError
	RecordBufferSyntax   = p.RspRecordBufferSyntax
	RecordBufferTooShort = p.RspRecordBufferTooShort
	SearchBufferError    = p.RspSearchBufferError
	InvalidISN           = p.RspInvalidISN
	HoldConflict         = p.RspHoldConflict
	NotActive            = p.RspNotActive
	SecurityViolation    = p.RspSecurityViolation
)

// Command codes.
const (
	CmdOpen            = p.CmdOpen
	CmdClose           = p.CmdClose
	CmdEndTransaction  = p.CmdEndTransaction
	CmdBackout         = p.CmdBackout
	CmdReleaseCID      = p.CmdReleaseCID
	CmdReadISN         = p.CmdReadISN
	CmdReadPhysical    = p.CmdReadPhysical
	CmdReadLogical     = p.CmdReadLogical
	CmdReadISNHold     = p.CmdReadISNHold
	CmdReadPhysHold    = p.CmdReadPhysHold
	CmdReadLogicalHold = p.CmdReadLogicalHold
	CmdReadHistogram   = p.CmdReadHistogram
	CmdFind            = p.CmdFind
	CmdFindSorted      = p.CmdFindSorted
	CmdFindHold        = p.CmdFindHold
	CmdProcessISNLists = p.CmdProcessISNLists
	CmdStore           = p.CmdStore
	CmdStoreISN        = p.CmdStoreISN
	CmdUpdate          = p.CmdUpdate
	CmdDelete          = p.CmdDelete
	CmdHold            = p.CmdHold
	CmdRelease         = p.CmdRelease
	CmdReadFDT         = p.CmdReadFDT
)

// Command option values.
const (
	OptKeepISN    = p.OptKeepISN
	OptRestricted = p.OptRestricted
	OptReturn     = p.OptReturn
	OptRead       = p.OptRead
	OptMultiFetch = p.OptMultiFetch
	OptSortedList = p.OptSortedList
	OptHoldISN    = p.OptHoldISN
	OptGlobID     = p.OptGlobID
	OptGetNext    = p.OptGetNext
	OptISNSeq     = p.OptISNSeq
	OptAscend     = p.OptAscend
	OptDescend    = p.OptDescend
	OptAndISN     = p.OptAndISN
	OptOrISN      = p.OptOrISN
	OptNotISN     = p.OptNotISN
)
