package types

import (
	"bytes"
	"encoding/json"
)

// --------------------------------------------
// Normalizer output
// --------------------------------------------

// MetricValue is a scalar rescaled to 0–100. Missing marks a value that was
// absent or malformed in the source record and defaulted to 0.
type MetricValue struct {
	Value   float64 `json:"value"`
	Missing bool    `json:"missing"`
}

// LabelValue is a normalized categorical label.
type LabelValue struct {
	Label   string `json:"label"`
	Missing bool   `json:"missing"`
}

type NormalizedMetrics struct {
	RecordID string                 `json:"recordId"`
	Title    string                 `json:"title"`
	Scalars  map[Metric]MetricValue `json:"scalars"`
	Labels   map[string]LabelValue  `json:"labels"`
}

// Value returns the normalized value of m, 0 when unknown.
func (n NormalizedMetrics) Value(m Metric) float64 {
	return n.Scalars[m].Value
}

// IsMissing reports whether m was defaulted.
func (n NormalizedMetrics) IsMissing(m Metric) bool {
	v, ok := n.Scalars[m]
	return !ok || v.Missing
}

// Label returns the normalized categorical label for name.
func (n NormalizedMetrics) Label(name string) string {
	return n.Labels[name].Label
}

func (n NormalizedMetrics) DisplayName() string {
	if n.Title != "" {
		return n.Title
	}
	return n.RecordID
}

// --------------------------------------------
// Ranking
// --------------------------------------------

type RankedRecord struct {
	RecordID       string   `json:"recordId"`
	Title          string   `json:"title"`
	Rank           int      `json:"rank"`
	EmpathyScore   float64  `json:"empathyScore"`
	SentimentScore float64  `json:"sentimentScore"`
	CompositeScore float64  `json:"compositeScore"`
	Strengths      []string `json:"strengths"`
}

// --------------------------------------------
// Union series
// --------------------------------------------

// SeriesValue is one record's value within a Row.
type SeriesValue struct {
	RecordID string
	Value    float64
}

// RowCategoryKey is the reserved key holding a Row's category label.
const RowCategoryKey = "category"

// Row is one category of a multi-series chart. It encodes as a flat object:
// "category" first, then one key per record id in input order. A record id
// that would collide with "category" or an earlier key is written with
// leading underscores until it is unique.
type Row struct {
	Category string
	Values   []SeriesValue
}

// Value returns the value recorded for recordID.
func (r Row) Value(recordID string) (float64, bool) {
	for _, v := range r.Values {
		if v.RecordID == recordID {
			return v.Value, true
		}
	}
	return 0, false
}

func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"` + RowCategoryKey + `":`)
	c, err := json.Marshal(r.Category)
	if err != nil {
		return nil, err
	}
	buf.Write(c)
	used := map[string]bool{RowCategoryKey: true}
	for _, v := range r.Values {
		key := v.RecordID
		for used[key] {
			key = "_" + key
		}
		used[key] = true
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(k)
		buf.WriteByte(':')
		buf.WriteString(formatFloat(v.Value))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// --------------------------------------------
// Insights
// --------------------------------------------

type Insights struct {
	CommonThemes []string `json:"commonThemes"`
	Differences  []string `json:"differences"`
	Similarities []string `json:"similarities"`
	KeyInsights  []string `json:"keyInsights"`
}

// --------------------------------------------
// Distributions over historical records
// --------------------------------------------

// BucketDef is a half-open range [Low, High). The last bucket of a set is
// treated as closed on High.
type BucketDef struct {
	Label string  `json:"label" yaml:"label"`
	Low   float64 `json:"low" yaml:"low"`
	High  float64 `json:"high" yaml:"high"`
}

type BucketCount struct {
	Label string  `json:"label"`
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

type BucketCounts struct {
	Metric     Metric        `json:"metric"`
	Buckets    []BucketCount `json:"buckets"`
	Total      int           `json:"total"`
	Unbucketed int           `json:"unbucketed"`
}

type CategoryCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// MetricSummary describes the spread of one metric over records where it
// was present.
type MetricSummary struct {
	Metric  Metric  `json:"metric"`
	Count   int     `json:"count"`
	Missing int     `json:"missing"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
}
