// SPDX-FileCopyrightText: 2024-2026 go-adabas contributors
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import "fmt"

// ResponseCode is the response code an engine reports in the control block.
type ResponseCode uint16

// Response codes.
const (
	RspNormal               ResponseCode = 0   // ADA_NORMAL: command completed, a record was delivered.
	RspFunctionCompleted    ResponseCode = 2   // ADA_FNCMP: function completed with a warning.
	RspEOF                  ResponseCode = 3   // ADA_EOF: end of file or end of ISN list reached.
	RspTransactionAborted   ResponseCode = 9   // ADA_TABT: transaction aborted by the engine.
	RspInvalidFileNumber    ResponseCode = 17  // ADA_INFIN: invalid or not loaded file.
	RspFileChanged          ResponseCode = 18  // ADA_FICHA: file number changed within a sequence.
	RspInvalidCommandID     ResponseCode = 20  // ADA_INCID: invalid command id.
	RspInvalidUserCommandID ResponseCode = 21  // ADA_IUCID: command id not known by the engine.
	RspInvalidCommand       ResponseCode = 22  // ADA_CMDINV: invalid command code.
	RspInvalidStartISN      ResponseCode = 23  // ADA_ISNSV: invalid starting ISN.
	RspISNBufferError       ResponseCode = 24  // ADA_BUISN: ISN buffer error.
	RspInvalidAddition1     ResponseCode = 28  // ADA_IADD1: invalid additions 1 field.
	RspInvalidCommandOption ResponseCode = 34  // invalid command option.
	RspFormatBufferError    ResponseCode = 41  // ADA_ERFBU: error in format buffer.
	RspRecordBufferSyntax   ResponseCode = 50  // ADA_INVRB: syntax error in record buffer.
	RspRecordBufferTooShort ResponseCode = 53  // ADA_RBTS: record buffer too short.
	RspSearchBufferError    ResponseCode = 60  // ADA_ERSBU: error in search or value buffer.
	RspInvalidISN           ResponseCode = 113 // ADA_INVIS: ISN not found.
	RspHoldConflict         ResponseCode = 145 // ADA_NLOCK: record held by another user.
	RspNotActive            ResponseCode = 148 // ADA_ANACT: engine or session not active.
	RspSecurityViolation    ResponseCode = 200 // ADA_SECUR: security violation.
)

var rspNames = map[ResponseCode]string{
	RspNormal:               "NORMAL",
	RspFunctionCompleted:    "FNCMP",
	RspEOF:                  "EOF",
	RspTransactionAborted:   "TABT",
	RspInvalidFileNumber:    "INFIN",
	RspFileChanged:          "FICHA",
	RspInvalidCommandID:     "INCID",
	RspInvalidUserCommandID: "IUCID",
	RspInvalidCommand:       "CMDINV",
	RspInvalidStartISN:      "ISNSV",
	RspISNBufferError:       "BUISN",
	RspInvalidAddition1:     "IADD1",
	RspInvalidCommandOption: "COPT",
	RspFormatBufferError:    "ERFBU",
	RspRecordBufferSyntax:   "INVRB",
	RspRecordBufferTooShort: "RBTS",
	RspSearchBufferError:    "ERSBU",
	RspInvalidISN:           "INVIS",
	RspHoldConflict:         "NLOCK",
	RspNotActive:            "ANACT",
	RspSecurityViolation:    "SECUR",
}

func (rsp ResponseCode) String() string {
	if name, ok := rspNames[rsp]; ok {
		return fmt.Sprintf("%s(%d)", name, uint16(rsp))
	}
	return fmt.Sprintf("RSP(%d)", uint16(rsp))
}

// IsWarning returns true if the response code signals a completed command with a warning.
func (rsp ResponseCode) IsWarning() bool { return rsp == RspFunctionCompleted }

// IsEOF returns true if the response code signals the end of a result set.
func (rsp ResponseCode) IsEOF() bool { return rsp == RspEOF }

// IsError returns true for every response code which is neither normal, a warning nor EOF.
func (rsp ResponseCode) IsError() bool {
	return rsp != RspNormal && !rsp.IsWarning() && !rsp.IsEOF()
}
