package types

import (
	"fmt"
	"strings"
)

// Metric names a scalar score carried by an analysis record.
type Metric string

const (
	Empathy      Metric = "empathy"
	Sentiment    Metric = "sentiment"
	Authenticity Metric = "authenticity"
	Confidence   Metric = "confidence"
)

// Metrics lists every known scalar metric in a fixed order.
var Metrics = []Metric{Empathy, Sentiment, Authenticity, Confidence}

// ParseMetric resolves a metric name case-insensitively, defaulting to
// empathy when name is empty.
func ParseMetric(name string) (Metric, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Empathy, nil
	}
	for _, m := range Metrics {
		if strings.EqualFold(string(m), name) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown metric %q", name)
}

// Categorical label names.
const (
	OverallSentiment = "overallSentiment"
	DominantEmotion  = "dominantEmotion"
	Language         = "language"
	UrgencyLevel     = "urgencyLevel"
)

// Labels lists every known categorical metric in a fixed order.
var Labels = []string{OverallSentiment, DominantEmotion, Language, UrgencyLevel}

// Distribution names.
const (
	Emotions = "emotions"
	Topics   = "topics"
)

// AnalysisRecord is one completed analysis of a single speech as produced by
// the analysis backend. Every field except ID may be partially present.
type AnalysisRecord struct {
	ID                    string                  `json:"id" yaml:"id"`
	Title                 string                  `json:"title" yaml:"title"`
	ScalarMetrics         map[string]any          `json:"scalarMetrics,omitempty" yaml:"scalarMetrics,omitempty"`
	CategoricalMetrics    map[string]any          `json:"categoricalMetrics,omitempty" yaml:"categoricalMetrics,omitempty"`
	CategoryDistributions map[string]Distribution `json:"categoryDistributions,omitempty" yaml:"categoryDistributions,omitempty"`
	Themes                []string                `json:"themes,omitempty" yaml:"themes,omitempty"`
}

// DisplayName returns the title, falling back to the id.
func (r AnalysisRecord) DisplayName() string {
	if r.Title != "" {
		return r.Title
	}
	return r.ID
}
