// Package normalizer turns loosely typed analysis records into a fixed metric
// set on a single 0–100 scale.
package normalizer

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"speech-insights-go/internal/types"
)

// Scale describes how a metric is stored upstream.
type Scale struct {
	// Factor converts the stored value to 0–100.
	Factor float64
}

var (
	Percent  = Scale{Factor: 1}
	Fraction = Scale{Factor: 100}
)

// MetricScales is the default table: empathy and authenticity arrive as 0–100
// scores, sentiment and confidence as 0–1 fractions.
var MetricScales = map[types.Metric]Scale{
	types.Empathy:      Percent,
	types.Sentiment:    Fraction,
	types.Authenticity: Percent,
	types.Confidence:   Fraction,
}

// LabelDefaults holds the substitute for an absent categorical label.
var LabelDefaults = map[string]string{
	types.OverallSentiment: "neutral",
	types.DominantEmotion:  "unknown",
	types.Language:         "unknown",
	types.UrgencyLevel:     "unknown",
}

// Normalize extracts the known metrics from r. It never fails: absent or
// malformed values become 0 (or the label default) and are flagged Missing.
func Normalize(r types.AnalysisRecord) types.NormalizedMetrics {
	out := types.NormalizedMetrics{
		RecordID: r.ID,
		Title:    r.Title,
		Scalars:  make(map[types.Metric]types.MetricValue, len(types.Metrics)),
		Labels:   make(map[string]types.LabelValue, len(types.Labels)),
	}
	for _, m := range types.Metrics {
		out.Scalars[m] = scalar(r.ScalarMetrics[string(m)], MetricScales[m])
	}
	for _, name := range types.Labels {
		out.Labels[name] = label(r.CategoricalMetrics[name], LabelDefaults[name])
	}
	return out
}

// NormalizeAll normalizes every record, preserving order.
func NormalizeAll(records []types.AnalysisRecord) []types.NormalizedMetrics {
	out := make([]types.NormalizedMetrics, len(records))
	for i, r := range records {
		out[i] = Normalize(r)
	}
	return out
}

// Value returns the normalized value of a single metric of r.
func Value(r types.AnalysisRecord, m types.Metric) types.MetricValue {
	scale, ok := MetricScales[m]
	if !ok {
		scale = Percent
	}
	return scalar(r.ScalarMetrics[string(m)], scale)
}

// Label returns the normalized categorical label name of r.
func Label(r types.AnalysisRecord, name string) types.LabelValue {
	def, ok := LabelDefaults[name]
	if !ok {
		def = "unknown"
	}
	return label(r.CategoricalMetrics[name], def)
}

func scalar(raw any, scale Scale) types.MetricValue {
	f, ok := Number(raw)
	if !ok {
		return types.MetricValue{Value: 0, Missing: true}
	}
	if scale.Factor == 0 {
		scale = Percent
	}
	return types.MetricValue{Value: clamp(f * scale.Factor)}
}

func label(raw any, def string) types.LabelValue {
	s, ok := raw.(string)
	if ok {
		s = strings.ToLower(strings.TrimSpace(s))
	}
	if s == "" {
		return types.LabelValue{Label: def, Missing: true}
	}
	return types.LabelValue{Label: s}
}

// Number reports the finite float held by v. Strings are not numbers here:
// upstream sends numeric metrics as JSON numbers.
func Number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		p, err := strconv.ParseFloat(string(n), 64)
		if err != nil {
			return 0, false
		}
		f = p
	case *float64:
		if n == nil {
			return 0, false
		}
		f = *n
	case *int:
		if n == nil {
			return 0, false
		}
		f = float64(*n)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func clamp(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 100:
		return 100
	}
	return f
}
