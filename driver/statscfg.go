// SPDX-FileCopyrightText: 2024-2026 go-adabas contributors
//
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	_ "embed" // embed stats configuration
	"encoding/json"
	"fmt"
	"slices"

	p "github.com/go-adabas/adabas/driver/internal/protocol"
)

//go:embed statscfg.json
var statsCfgRaw []byte

var statsCfg struct {
	TimeTexts       []string  `json:"timeTexts"`
	TimeUpperBounds []float64 `json:"timeUpperBounds"`
}

func loadStatsCfg() error {
	if err := json.Unmarshal(statsCfgRaw, &statsCfg); err != nil {
		return fmt.Errorf("invalid statscfg.json file: %w", err)
	}

	if len(statsCfg.TimeTexts) != NumStatsTime {
		return fmt.Errorf("invalid number of statscfg.json timeTexts %d - expected %d", len(statsCfg.TimeTexts), NumStatsTime)
	}
	if len(statsCfg.TimeUpperBounds) == 0 {
		return fmt.Errorf("number of statscfg.json timeUpperBounds needs to be greater than %d", 0)
	}

	// sort and dedup timeBuckets
	slices.Sort(statsCfg.TimeUpperBounds)
	statsCfg.TimeUpperBounds = slices.Compact(statsCfg.TimeUpperBounds)
	return nil
}

func init() {
	if err := loadStatsCfg(); err != nil {
		panic(err) // invalid embedded configuration
	}
}

// NumStatsTime is the number of time statistic categories (one per command category).
const NumStatsTime = p.NumCat

// StatsTimeTexts returns the texts of the time statistic categories.
func StatsTimeTexts() []string { return slices.Clone(statsCfg.TimeTexts) }
