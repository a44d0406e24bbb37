package ranker

import (
	"sort"

	"speech-insights-go/internal/types"
)

// Composite weighting and badge thresholds. Scores are on the 0–100 scale.
const (
	EmpathyWeight   = 0.6
	SentimentWeight = 0.4

	HighEmpathyThreshold       = 80.0
	PositiveSentimentThreshold = 70.0

	MinRecords = 2
)

const (
	BadgeHighEmpathy       = "High Empathy"
	BadgePositiveSentiment = "Positive Sentiment"
	BadgeEmpathyLeader     = "Empathy Leader"
)

// Composite returns the weighted empathy/sentiment score of n.
func Composite(n types.NormalizedMetrics) float64 {
	return EmpathyWeight*n.Value(types.Empathy) + SentimentWeight*n.Value(types.Sentiment)
}

// Rank orders records by composite score, highest first. Equal scores keep
// their input order and still receive successive ranks.
func Rank(records []types.NormalizedMetrics) ([]types.RankedRecord, error) {
	if err := types.RequireRecords("rank", len(records), MinRecords); err != nil {
		return nil, err
	}

	leader := EmpathyLeader(records)
	ranked := make([]types.RankedRecord, len(records))
	for i, n := range records {
		empathy := n.Value(types.Empathy)
		sentiment := n.Value(types.Sentiment)
		strengths := []string{}
		if empathy >= HighEmpathyThreshold {
			strengths = append(strengths, BadgeHighEmpathy)
		}
		if sentiment >= PositiveSentimentThreshold {
			strengths = append(strengths, BadgePositiveSentiment)
		}
		if i == leader {
			strengths = append(strengths, BadgeEmpathyLeader)
		}
		ranked[i] = types.RankedRecord{
			RecordID:       n.RecordID,
			Title:          n.Title,
			EmpathyScore:   empathy,
			SentimentScore: sentiment,
			CompositeScore: Composite(n),
			Strengths:      strengths,
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CompositeScore > ranked[j].CompositeScore
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked, nil
}

// EmpathyLeader returns the index of the first record holding the highest
// empathy, or -1 when no record has a present, positive empathy value.
func EmpathyLeader(records []types.NormalizedMetrics) int {
	return Leader(records, types.Empathy)
}

// Leader returns the index of the first record holding the highest value of
// m, or -1 when no record has a present, positive value.
func Leader(records []types.NormalizedMetrics, m types.Metric) int {
	best := -1
	for i, n := range records {
		if n.IsMissing(m) || n.Value(m) <= 0 {
			continue
		}
		if best == -1 || n.Value(m) > records[best].Value(m) {
			best = i
		}
	}
	return best
}
