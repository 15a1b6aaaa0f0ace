// SPDX-FileCopyrightText: 2024-2026 go-adabas contributors
//
// SPDX-License-Identifier: Apache-2.0

package protocol

// Command option 1 values.
const (
	OptKeepISN    byte = 'K' // keep ISN list after the last ISN was read.
	OptRestricted byte = 'R' // restrict the result to ISNs in the ISN buffer.
	OptReturn     byte = 'F' // return immediately if a record is held.
	OptRead       byte = 'P' // read prefetch.
	OptMultiFetch byte = 'M' // multi fetch.
	OptSortedList byte = 'S' // save the ISN list sorted.
)

// Command option 1 or command option 2 values.
const (
	OptHoldISN byte = 'H' // put the ISN into hold status.
	OptGlobID  byte = 'G' // global command id.
)

// Command option 2 values.
const (
	OptGetNext byte = 'N' // read the next ISN (L1).
	OptISNSeq  byte = 'I' // ISN sequence.
	OptAscend  byte = 'A' // ascending order.
	OptDescend byte = 'D' // descending order.
	OptAndISN  byte = 'A' // and ISN lists (S8).
	OptOrISN   byte = 'O' // or ISN lists (S8).
	OptNotISN  byte = 'N' // not ISN lists (S8).
)
