// Package comparison assembles everything a comparison view needs from a set
// of analysis records: rankings, insights and chart series.
package comparison

import (
	"speech-insights-go/internal/aggregator"
	"speech-insights-go/internal/insights"
	"speech-insights-go/internal/normalizer"
	"speech-insights-go/internal/ranker"
	"speech-insights-go/internal/series"
	"speech-insights-go/internal/types"
)

// ProfileMetaKey is carried inside some emotion profiles next to the
// emotion weights and is not itself an emotion.
const ProfileMetaKey = "dominant_emotion"

type RecordRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// RecordLabel is one record's normalized categorical label.
type RecordLabel struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Label   string `json:"label"`
	Missing bool   `json:"missing"`
}

type Metrics struct {
	EmpathyRange          types.MetricSummary   `json:"empathyRange"`
	SentimentDistribution []types.CategoryCount `json:"sentimentDistribution"`
	UrgencyComparison     []RecordLabel         `json:"urgencyComparison"`
	UrgencyDistribution   []types.CategoryCount `json:"urgencyDistribution"`
	EmotionSeries         []types.Row           `json:"emotionSeries"`
	TopicSeries           []types.Row           `json:"topicSeries"`
	CommonThemes          []string              `json:"commonThemes"`
}

type Result struct {
	Records  []RecordRef          `json:"records"`
	Rankings []types.RankedRecord `json:"rankings"`
	Insights types.Insights       `json:"insights"`
	Metrics  Metrics              `json:"metrics"`
}

// Compare runs the full comparison. It fails before any computation when
// fewer than two records are given.
func Compare(records []types.AnalysisRecord) (Result, error) {
	if err := types.RequireRecords("compare", len(records), ranker.MinRecords); err != nil {
		return Result{}, err
	}

	rankings, err := ranker.Rank(normalizer.NormalizeAll(records))
	if err != nil {
		return Result{}, err
	}
	ins, err := insights.Extract(records)
	if err != nil {
		return Result{}, err
	}

	refs := make([]RecordRef, len(records))
	urgency := make([]RecordLabel, len(records))
	for i, r := range records {
		refs[i] = RecordRef{ID: r.ID, Title: r.Title}
		l := normalizer.Label(r, types.UrgencyLevel)
		urgency[i] = RecordLabel{ID: r.ID, Title: r.Title, Label: l.Label, Missing: l.Missing}
	}

	return Result{
		Records:  refs,
		Rankings: rankings,
		Insights: ins,
		Metrics: Metrics{
			EmpathyRange:          aggregator.Summarize(records, types.Empathy),
			SentimentDistribution: aggregator.CountCategories(records, types.OverallSentiment, aggregator.SentimentLabels...),
			UrgencyComparison:     urgency,
			UrgencyDistribution:   aggregator.CountCategories(records, types.UrgencyLevel),
			EmotionSeries: series.Build(series.FromRecords(records, types.Emotions), series.Options{
				Unit:    series.Fraction,
				Round:   true,
				Exclude: []string{ProfileMetaKey},
			}),
			TopicSeries: series.Build(series.FromRecords(records, types.Topics), series.Options{
				Unit: series.Fraction,
			}),
			CommonThemes: ins.CommonThemes,
		},
	}, nil
}
