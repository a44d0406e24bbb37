package dataset

import (
	"fmt"

	"speech-insights-go/internal/aggregator"
	"speech-insights-go/internal/logger"
	"speech-insights-go/internal/types"
)

// TopThemesLimit caps Summary.TopThemes.
const TopThemesLimit = 5

// Summary describes a historical record set for dashboards.
type Summary struct {
	TotalRecords          int                   `json:"totalRecords"`
	EmpathyRange          types.MetricSummary   `json:"empathyRange"`
	EmpathyTiers          types.BucketCounts    `json:"empathyTiers"`
	SentimentDistribution []types.CategoryCount `json:"sentimentDistribution"`
	LanguageDistribution  []types.CategoryCount `json:"languageDistribution"`
	TopThemes             []types.CategoryCount `json:"topThemes"`
}

// Summarize aggregates records into a Summary.
func Summarize(records []types.AnalysisRecord) Summary {
	return Summary{
		TotalRecords:          len(records),
		EmpathyRange:          aggregator.Summarize(records, types.Empathy),
		EmpathyTiers:          aggregator.Aggregate(records, types.Empathy, aggregator.EmpathyTiers),
		SentimentDistribution: aggregator.CountCategories(records, types.OverallSentiment, aggregator.SentimentLabels...),
		LanguageDistribution:  aggregator.CountCategories(records, types.Language),
		TopThemes:             aggregator.CountThemes(records, TopThemesLimit),
	}
}

// LoadAndSummarize reads the dataset at path and summarizes it.
func LoadAndSummarize(path string, log *logger.Logger) ([]types.AnalysisRecord, Summary, error) {
	entry := log.Component("dataset.summary").WithField("path", path)
	entry.Info("opening dataset for summarization")

	records, err := Load(path)
	if err != nil {
		entry.WithError(err).Error("load failed")
		return nil, Summary{}, fmt.Errorf("load dataset: %w", err)
	}

	ds := Summarize(records)
	entry.WithFields(map[string]interface{}{
		"total_records":   ds.TotalRecords,
		"empathy_missing": ds.EmpathyRange.Missing,
		"languages":       len(ds.LanguageDistribution),
	}).Info("dataset summarization complete")
	for _, b := range ds.EmpathyTiers.Buckets {
		entry.WithField("tier", b.Label).WithField("count", b.Count).Debug("empathy tier")
	}
	return records, ds, nil
}
