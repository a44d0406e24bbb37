package normalizer

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"speech-insights-go/internal/types"
)

func TestNormalize_RescalesFractions(t *testing.T) {
	rec := types.AnalysisRecord{
		ID:    "a",
		Title: "Speech A",
		ScalarMetrics: map[string]any{
			"empathy":      90.0,
			"sentiment":    0.8,
			"authenticity": 72,
			"confidence":   json.Number("0.95"),
		},
	}
	n := Normalize(rec)

	assert.Equal(t, "a", n.RecordID)
	assert.Equal(t, "Speech A", n.Title)
	assert.InDelta(t, 90, n.Value(types.Empathy), 1e-9)
	assert.InDelta(t, 80, n.Value(types.Sentiment), 1e-9)
	assert.InDelta(t, 72, n.Value(types.Authenticity), 1e-9)
	assert.InDelta(t, 95, n.Value(types.Confidence), 1e-9)
	for _, m := range types.Metrics {
		assert.False(t, n.IsMissing(m), "metric %s", m)
	}
}

func TestNormalize_MissingFieldDefaultsToZero(t *testing.T) {
	rec := types.AnalysisRecord{
		ID:            "c",
		ScalarMetrics: map[string]any{"empathy": nil, "sentiment": 0.5},
	}
	n := Normalize(rec)

	assert.Equal(t, 0.0, n.Value(types.Empathy))
	assert.True(t, n.IsMissing(types.Empathy))
	assert.InDelta(t, 50, n.Value(types.Sentiment), 1e-9)
	assert.True(t, n.IsMissing(types.Authenticity))
}

func TestNormalize_MalformedValuesDegrade(t *testing.T) {
	tests := []struct {
		name string
		raw  any
	}{
		{"string", "87"},
		{"bool", true},
		{"nan", math.NaN()},
		{"inf", math.Inf(1)},
		{"nil pointer", (*float64)(nil)},
		{"map", map[string]any{"score": 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Normalize(types.AnalysisRecord{ID: "x", ScalarMetrics: map[string]any{"empathy": tt.raw}})
			assert.Equal(t, 0.0, n.Value(types.Empathy))
			assert.True(t, n.IsMissing(types.Empathy))
		})
	}
}

func TestNormalize_ClampsIntoRange(t *testing.T) {
	n := Normalize(types.AnalysisRecord{ScalarMetrics: map[string]any{"empathy": 140.0, "sentiment": -0.3}})
	assert.Equal(t, 100.0, n.Value(types.Empathy))
	assert.Equal(t, 0.0, n.Value(types.Sentiment))
	assert.False(t, n.IsMissing(types.Sentiment))
}

func TestNormalize_LegitimateZeroIsNotMissing(t *testing.T) {
	n := Normalize(types.AnalysisRecord{ScalarMetrics: map[string]any{"empathy": 0}})
	assert.Equal(t, 0.0, n.Value(types.Empathy))
	assert.False(t, n.IsMissing(types.Empathy))
}

func TestNormalize_Labels(t *testing.T) {
	n := Normalize(types.AnalysisRecord{CategoricalMetrics: map[string]any{
		"overallSentiment": "  Positive ",
		"dominantEmotion":  42,
		"language":         "",
	}})

	assert.Equal(t, "positive", n.Label(types.OverallSentiment))
	assert.False(t, n.Labels[types.OverallSentiment].Missing)
	assert.Equal(t, "unknown", n.Label(types.DominantEmotion))
	assert.True(t, n.Labels[types.DominantEmotion].Missing)
	assert.Equal(t, "unknown", n.Label(types.Language))

	empty := Normalize(types.AnalysisRecord{})
	assert.Equal(t, "neutral", empty.Label(types.OverallSentiment))
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	scalars := map[string]any{"sentiment": 0.4}
	rec := types.AnalysisRecord{ID: "a", ScalarMetrics: scalars}
	_ = Normalize(rec)

	require.Len(t, scalars, 1)
	assert.Equal(t, 0.4, scalars["sentiment"])
}

func TestNormalizeAll_PreservesOrder(t *testing.T) {
	out := NormalizeAll([]types.AnalysisRecord{{ID: "b"}, {ID: "a"}, {ID: "c"}})
	require.Len(t, out, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{out[0].RecordID, out[1].RecordID, out[2].RecordID})
}

func TestValue_SingleMetric(t *testing.T) {
	v := Value(types.AnalysisRecord{ScalarMetrics: map[string]any{"confidence": 0.25}}, types.Confidence)
	assert.InDelta(t, 25, v.Value, 1e-9)
	assert.False(t, v.Missing)
}
