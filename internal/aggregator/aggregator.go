package aggregator

import (
	"fmt"
	"sort"
	"strings"

	"speech-insights-go/internal/normalizer"
	"speech-insights-go/internal/types"
)

// EmpathyTiers is the three-way split used on the reports dashboard.
var EmpathyTiers = []types.BucketDef{
	{Label: "Low", Low: 0, High: 60},
	{Label: "Medium", Low: 60, High: 80},
	{Label: "High", Low: 80, High: 100},
}

// EmpathyLevels is the five-way split used on single analysis pages.
var EmpathyLevels = []types.BucketDef{
	{Label: "Low", Low: 0, High: 20},
	{Label: "Low-Moderate", Low: 20, High: 40},
	{Label: "Moderate", Low: 40, High: 60},
	{Label: "Moderate-High", Low: 60, High: 80},
	{Label: "High", Low: 80, High: 100},
}

// BucketSet resolves a named bucket set: "tiers" (the default) or "levels".
func BucketSet(name string) ([]types.BucketDef, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "tiers":
		return EmpathyTiers, nil
	case "levels":
		return EmpathyLevels, nil
	}
	return nil, fmt.Errorf("unknown bucket set %q", name)
}

// SentimentLabels are always reported, even with a zero count.
var SentimentLabels = []string{"positive", "neutral", "negative"}

// Aggregate counts records per bucket of metric. Each value lands in the
// first bucket whose [Low, High) range holds it; the last bucket also takes
// its High bound. Missing values count as 0. Empty buckets are kept.
func Aggregate(records []types.AnalysisRecord, metric types.Metric, buckets []types.BucketDef) types.BucketCounts {
	out := types.BucketCounts{
		Metric:  metric,
		Buckets: make([]types.BucketCount, len(buckets)),
		Total:   len(records),
	}
	for i, b := range buckets {
		out.Buckets[i] = types.BucketCount{Label: b.Label, Low: b.Low, High: b.High}
	}
	for _, r := range records {
		v := normalizer.Value(r, metric).Value
		if i := bucketOf(v, buckets); i >= 0 {
			out.Buckets[i].Count++
		} else {
			out.Unbucketed++
		}
	}
	return out
}

func bucketOf(v float64, buckets []types.BucketDef) int {
	last := len(buckets) - 1
	for i, b := range buckets {
		if v < b.Low {
			continue
		}
		if v < b.High || (i == last && v == b.High) {
			return i
		}
	}
	return -1
}

// Summarize reports count, min, max and average of metric over the records
// where it is present.
func Summarize(records []types.AnalysisRecord, metric types.Metric) types.MetricSummary {
	s := types.MetricSummary{Metric: metric}
	sum := 0.0
	for _, r := range records {
		v := normalizer.Value(r, metric)
		if v.Missing {
			s.Missing++
			continue
		}
		if s.Count == 0 || v.Value < s.Min {
			s.Min = v.Value
		}
		if s.Count == 0 || v.Value > s.Max {
			s.Max = v.Value
		}
		sum += v.Value
		s.Count++
	}
	if s.Count > 0 {
		s.Average = sum / float64(s.Count)
	}
	return s
}

// CountCategories counts records per normalized label of the categorical
// metric name. Labels in known come first, in the given order and even when
// zero; the rest follow by count, ties in first-seen order.
func CountCategories(records []types.AnalysisRecord, name string, known ...string) []types.CategoryCount {
	counts := map[string]int{}
	var order []string
	for _, r := range records {
		l := normalizer.Label(r, name).Label
		if _, ok := counts[l]; !ok {
			order = append(order, l)
		}
		counts[l]++
	}

	out := make([]types.CategoryCount, 0, len(known)+len(order))
	isKnown := make(map[string]bool, len(known))
	for _, k := range known {
		if isKnown[k] {
			continue
		}
		isKnown[k] = true
		out = append(out, types.CategoryCount{Label: k, Count: counts[k]})
	}
	rest := make([]types.CategoryCount, 0, len(order))
	for _, l := range order {
		if !isKnown[l] {
			rest = append(rest, types.CategoryCount{Label: l, Count: counts[l]})
		}
	}
	sort.SliceStable(rest, func(i, j int) bool { return rest[i].Count > rest[j].Count })
	return append(out, rest...)
}

// CountThemes counts in how many records each theme appears, comparing
// trimmed lower-cased text. The most common come first, ties in first-seen
// order; limit <= 0 keeps all.
func CountThemes(records []types.AnalysisRecord, limit int) []types.CategoryCount {
	counts := map[string]int{}
	display := map[string]string{}
	var order []string
	for _, r := range records {
		seen := map[string]bool{}
		for _, raw := range r.Themes {
			d := strings.TrimSpace(raw)
			k := strings.ToLower(d)
			if k == "" || seen[k] {
				continue
			}
			seen[k] = true
			if _, ok := counts[k]; !ok {
				order = append(order, k)
				display[k] = d
			}
			counts[k]++
		}
	}
	out := make([]types.CategoryCount, len(order))
	for i, k := range order {
		out[i] = types.CategoryCount{Label: display[k], Count: counts[k]}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
