// Package series builds multi-series chart rows from per-record category
// maps whose key sets differ.
package series

import (
	"math"

	"speech-insights-go/internal/types"
)

// Unit declares how input weights are stored.
type Unit int

const (
	// Fraction weights are 0–1 and are multiplied by 100.
	Fraction Unit = iota
	// Percent weights are already 0–100.
	Percent
)

// Input is one record's category distribution.
type Input struct {
	RecordID string
	Values   types.Distribution
}

type Options struct {
	Unit Unit
	// Round rounds every output value to the nearest integer.
	Round bool
	// Exclude lists category keys that are not chart categories.
	Exclude []string
}

// Build returns one row per category in the union of all inputs, in
// first-seen order. Records lacking a category get 0 for it.
func Build(inputs []Input, opts Options) []types.Row {
	skip := make(map[string]bool, len(opts.Exclude))
	for _, k := range opts.Exclude {
		skip[k] = true
	}

	seen := map[string]bool{}
	var union []string
	for _, in := range inputs {
		for _, cw := range in.Values {
			if skip[cw.Category] || seen[cw.Category] {
				continue
			}
			seen[cw.Category] = true
			union = append(union, cw.Category)
		}
	}

	lookups := make([]map[string]float64, len(inputs))
	for i, in := range inputs {
		lookups[i] = in.Values.Index()
	}

	factor := 1.0
	if opts.Unit == Fraction {
		factor = 100
	}

	rows := make([]types.Row, 0, len(union))
	for _, cat := range union {
		row := types.Row{Category: cat, Values: make([]types.SeriesValue, len(inputs))}
		for i, in := range inputs {
			v := lookups[i][cat] * factor
			if math.IsNaN(v) || math.IsInf(v, 0) {
				v = 0
			}
			if opts.Round {
				v = math.Round(v)
			}
			row.Values[i] = types.SeriesValue{RecordID: in.RecordID, Value: v}
		}
		rows = append(rows, row)
	}
	return rows
}

// FromRecords collects the named distribution of every record. Records
// without it contribute an empty distribution so they still get a column.
func FromRecords(records []types.AnalysisRecord, name string) []Input {
	out := make([]Input, len(records))
	for i, r := range records {
		out[i] = Input{RecordID: r.ID, Values: r.CategoryDistributions[name]}
	}
	return out
}
