// Package insights compares a set of analysis records and phrases what they
// share, where they differ and which record stands out.
package insights

import (
	"fmt"
	"strings"

	"speech-insights-go/internal/aggregator"
	"speech-insights-go/internal/normalizer"
	"speech-insights-go/internal/ranker"
	"speech-insights-go/internal/types"
)

type theme struct {
	key     string
	display string
	holders []int
}

// Extract derives common themes, differences, similarities and key insights
// for records. Every list is ordered by record input order.
func Extract(records []types.AnalysisRecord) (types.Insights, error) {
	if err := types.RequireRecords("compare", len(records), ranker.MinRecords); err != nil {
		return types.Insights{}, err
	}

	themes := collectThemes(records)
	out := types.Insights{
		CommonThemes: []string{},
		Differences:  []string{},
		Similarities: []string{},
		KeyInsights:  []string{},
	}
	for _, th := range themes {
		if len(th.holders) == len(records) {
			out.CommonThemes = append(out.CommonThemes, th.display)
		}
	}
	for _, th := range themes {
		if len(th.holders) < len(records) {
			out.Differences = append(out.Differences, themeDifference(th, records))
		}
	}

	normalized := normalizer.NormalizeAll(records)
	if d := sentimentDifference(normalized); d != "" {
		out.Differences = append(out.Differences, d)
	}

	out.Similarities = similarities(normalized, out.CommonThemes)
	out.KeyInsights = keyInsights(records, normalized)
	return out, nil
}

// collectThemes groups themes case-insensitively. A record repeating a
// theme holds it once.
func collectThemes(records []types.AnalysisRecord) []*theme {
	byKey := map[string]*theme{}
	var ordered []*theme
	for i, r := range records {
		for _, raw := range r.Themes {
			display := strings.TrimSpace(raw)
			key := strings.ToLower(display)
			if key == "" {
				continue
			}
			th, ok := byKey[key]
			if !ok {
				th = &theme{key: key, display: display}
				byKey[key] = th
				ordered = append(ordered, th)
			}
			if n := len(th.holders); n == 0 || th.holders[n-1] != i {
				th.holders = append(th.holders, i)
			}
		}
	}
	return ordered
}

func themeDifference(th *theme, records []types.AnalysisRecord) string {
	if len(th.holders) == 1 {
		return fmt.Sprintf("%q is only discussed in %s", th.display, records[th.holders[0]].DisplayName())
	}
	var with, without []string
	h := 0
	for i, r := range records {
		if h < len(th.holders) && th.holders[h] == i {
			with = append(with, r.DisplayName())
			h++
		} else {
			without = append(without, r.DisplayName())
		}
	}
	return fmt.Sprintf("%q appears in %s but not in %s", th.display, joinNames(with), joinNames(without))
}

func sentimentDifference(normalized []types.NormalizedMetrics) string {
	var parts []string
	labels := map[string]bool{}
	for _, n := range normalized {
		l := n.Labels[types.OverallSentiment]
		if l.Missing {
			continue
		}
		labels[l.Label] = true
		parts = append(parts, fmt.Sprintf("%s is %s", n.DisplayName(), l.Label))
	}
	if len(labels) < 2 {
		return ""
	}
	return "Overall sentiment differs: " + strings.Join(parts, ", ")
}

func similarities(normalized []types.NormalizedMetrics, common []string) []string {
	out := []string{}
	if l, ok := sharedLabel(normalized, types.OverallSentiment); ok {
		out = append(out, fmt.Sprintf("All speeches share a %s overall sentiment", l))
	}
	if l, ok := sharedLabel(normalized, types.DominantEmotion); ok {
		out = append(out, fmt.Sprintf("All speeches are dominated by %s", l))
	}
	switch len(common) {
	case 0:
	case 1:
		out = append(out, fmt.Sprintf("All speeches discuss %s", common[0]))
	default:
		out = append(out, fmt.Sprintf("All speeches discuss %d common themes: %s", len(common), strings.Join(common, ", ")))
	}
	return out
}

// sharedLabel reports the label carried by every record. A single missing
// label means there is none.
func sharedLabel(normalized []types.NormalizedMetrics, name string) (string, bool) {
	shared := ""
	for i, n := range normalized {
		l := n.Labels[name]
		if l.Missing {
			return "", false
		}
		if i == 0 {
			shared = l.Label
		} else if l.Label != shared {
			return "", false
		}
	}
	return shared, shared != ""
}

func keyInsights(records []types.AnalysisRecord, normalized []types.NormalizedMetrics) []string {
	out := []string{}
	if i := ranker.Leader(normalized, types.Empathy); i >= 0 {
		out = append(out, fmt.Sprintf("%s shows the highest empathy (%.1f)",
			normalized[i].DisplayName(), normalized[i].Value(types.Empathy)))
	}
	if i := ranker.Leader(normalized, types.Sentiment); i >= 0 {
		out = append(out, fmt.Sprintf("%s has the most positive sentiment (%.1f)",
			normalized[i].DisplayName(), normalized[i].Value(types.Sentiment)))
	}
	if i := ranker.Leader(normalized, types.Authenticity); i >= 0 {
		out = append(out, fmt.Sprintf("%s comes across as the most authentic (%.1f)",
			normalized[i].DisplayName(), normalized[i].Value(types.Authenticity)))
	}
	if s := aggregator.Summarize(records, types.Empathy); s.Count >= 2 {
		out = append(out, fmt.Sprintf("Empathy scores range from %.1f to %.1f (average %.1f)", s.Min, s.Max, s.Average))
	}
	return out
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
}
