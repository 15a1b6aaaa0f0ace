// SPDX-FileCopyrightText: 2024-2026 go-adabas contributors
//
// SPDX-License-Identifier: Apache-2.0

package protocol

// Command codes.
const (
	CmdOpen            = "OP"
	CmdClose           = "CL"
	CmdEndTransaction  = "ET"
	CmdBackout         = "BT"
	CmdReleaseCID      = "RC"
	CmdReadISN         = "L1"
	CmdReadPhysical    = "L2"
	CmdReadLogical     = "L3"
	CmdReadISNHold     = "L4"
	CmdReadPhysHold    = "L5"
	CmdReadLogicalHold = "L6"
	CmdReadHistogram   = "L9"
	CmdFind            = "S1"
	CmdFindSorted      = "S2"
	CmdFindHold        = "S4"
	CmdProcessISNLists = "S8"
	CmdStore           = "N1"
	CmdStoreISN        = "N2"
	CmdUpdate          = "A1"
	CmdDelete          = "E1"
	CmdHold            = "HI"
	CmdRelease         = "RI"
	CmdReadFDT         = "LF"
)

// Command categories.
const (
	CatSession = iota
	CatRead
	CatSearch
	CatModify
	CatOther
	NumCat
)

// CommandInfo describes the preconditions of a command code.
type CommandInfo struct {
	Code       string
	Category   int
	FileScoped bool
	// Buffers lists the buffers which need to be attached with a declared length greater than zero.
	Buffers []int
}

var (
	fbrb    = []int{FormatBuffer, RecordBuffer}
	sbvb    = []int{SearchBuffer, ValueBuffer}
	fbrbsbv = []int{FormatBuffer, RecordBuffer, SearchBuffer, ValueBuffer}
)

var commandInfos = map[string]*CommandInfo{
	CmdOpen:            {Code: CmdOpen, Category: CatSession},
	CmdClose:           {Code: CmdClose, Category: CatSession},
	CmdEndTransaction:  {Code: CmdEndTransaction, Category: CatSession},
	CmdBackout:         {Code: CmdBackout, Category: CatSession},
	CmdReleaseCID:      {Code: CmdReleaseCID, Category: CatSession},
	CmdReadISN:         {Code: CmdReadISN, Category: CatRead, FileScoped: true, Buffers: fbrb},
	CmdReadPhysical:    {Code: CmdReadPhysical, Category: CatRead, FileScoped: true, Buffers: fbrb},
	CmdReadLogical:     {Code: CmdReadLogical, Category: CatRead, FileScoped: true, Buffers: fbrbsbv},
	CmdReadISNHold:     {Code: CmdReadISNHold, Category: CatRead, FileScoped: true, Buffers: fbrb},
	CmdReadPhysHold:    {Code: CmdReadPhysHold, Category: CatRead, FileScoped: true, Buffers: fbrb},
	CmdReadLogicalHold: {Code: CmdReadLogicalHold, Category: CatRead, FileScoped: true, Buffers: fbrbsbv},
	CmdReadHistogram:   {Code: CmdReadHistogram, Category: CatRead, FileScoped: true, Buffers: fbrbsbv},
	CmdFind:            {Code: CmdFind, Category: CatSearch, FileScoped: true, Buffers: sbvb},
	CmdFindSorted:      {Code: CmdFindSorted, Category: CatSearch, FileScoped: true, Buffers: sbvb},
	CmdFindHold:        {Code: CmdFindHold, Category: CatSearch, FileScoped: true, Buffers: sbvb},
	CmdProcessISNLists: {Code: CmdProcessISNLists, Category: CatSearch, FileScoped: true},
	CmdStore:           {Code: CmdStore, Category: CatModify, FileScoped: true, Buffers: fbrb},
	CmdStoreISN:        {Code: CmdStoreISN, Category: CatModify, FileScoped: true, Buffers: fbrb},
	CmdUpdate:          {Code: CmdUpdate, Category: CatModify, FileScoped: true, Buffers: fbrb},
	CmdDelete:          {Code: CmdDelete, Category: CatModify, FileScoped: true},
	CmdHold:            {Code: CmdHold, Category: CatOther, FileScoped: true},
	CmdRelease:         {Code: CmdRelease, Category: CatOther},
	CmdReadFDT:         {Code: CmdReadFDT, Category: CatOther, FileScoped: true, Buffers: []int{RecordBuffer}},
}

// LookupCommand returns the command information for code.
// Unknown codes are passed to the engine unchecked, so a generic description is returned with ok == false.
func LookupCommand(code string) (info *CommandInfo, ok bool) {
	if info, ok = commandInfos[code]; ok {
		return info, true
	}
	return &CommandInfo{Code: code, Category: CatOther}, false
}
