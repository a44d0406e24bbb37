package ranker

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"speech-insights-go/internal/normalizer"
	"speech-insights-go/internal/types"
)

func record(id string, scalars map[string]any) types.NormalizedMetrics {
	return normalizer.Normalize(types.AnalysisRecord{ID: id, Title: "Speech " + id, ScalarMetrics: scalars})
}

func TestRank_BasicOrdering(t *testing.T) {
	a := record("A", map[string]any{"empathy": 90.0, "sentiment": 0.8})
	b := record("B", map[string]any{"empathy": 60.0, "sentiment": 0.5})

	ranked, err := Rank([]types.NormalizedMetrics{b, a})
	require.NoError(t, err)
	require.Len(t, ranked, 2)

	assert.Equal(t, "A", ranked[0].RecordID)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.InDelta(t, 86, ranked[0].CompositeScore, 1e-9)
	assert.Equal(t, []string{BadgeHighEmpathy, BadgePositiveSentiment, BadgeEmpathyLeader}, ranked[0].Strengths)

	assert.Equal(t, "B", ranked[1].RecordID)
	assert.Equal(t, 2, ranked[1].Rank)
	assert.InDelta(t, 56, ranked[1].CompositeScore, 1e-9)
	assert.Empty(t, ranked[1].Strengths)
	assert.NotNil(t, ranked[1].Strengths)
}

func TestRank_MissingEmpathy(t *testing.T) {
	c := record("C", map[string]any{"sentiment": 0.5})
	d := record("D", map[string]any{"empathy": 10.0})

	ranked, err := Rank([]types.NormalizedMetrics{c, d})
	require.NoError(t, err)
	assert.Equal(t, "C", ranked[0].RecordID)
	assert.InDelta(t, 20, ranked[0].CompositeScore, 1e-9)
	assert.Equal(t, 0.0, ranked[0].EmpathyScore)
	assert.InDelta(t, 6, ranked[1].CompositeScore, 1e-9)
}

func TestRank_TiesKeepInputOrder(t *testing.T) {
	in := []types.NormalizedMetrics{
		record("first", nil),
		record("top", map[string]any{"empathy": 50.0}),
		record("second", nil),
		record("third", map[string]any{}),
	}
	ranked, err := Rank(in)
	require.NoError(t, err)

	ids := make([]string, len(ranked))
	for i, r := range ranked {
		ids[i] = r.RecordID
		assert.Equal(t, i+1, r.Rank)
	}
	assert.Equal(t, []string{"top", "first", "second", "third"}, ids)
}

func TestRank_ScoresAreMonotonic(t *testing.T) {
	in := []types.NormalizedMetrics{
		record("a", map[string]any{"empathy": 12.0, "sentiment": 0.9}),
		record("b", map[string]any{"empathy": 77.0, "sentiment": 0.1}),
		record("c", map[string]any{"empathy": 45.0, "sentiment": 0.45}),
		record("d", map[string]any{"empathy": 99.0}),
	}
	ranked, err := Rank(in)
	require.NoError(t, err)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].CompositeScore, ranked[i].CompositeScore)
	}
}

func TestRank_InsufficientInput(t *testing.T) {
	_, err := Rank([]types.NormalizedMetrics{record("solo", map[string]any{"empathy": 90.0})})
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrInsufficientInput))

	_, err = Rank(nil)
	assert.True(t, errors.Is(err, types.ErrInsufficientInput))
}

func TestRank_EmpathyLeaderTieGoesToFirst(t *testing.T) {
	in := []types.NormalizedMetrics{
		record("x", map[string]any{"empathy": 70.0}),
		record("y", map[string]any{"empathy": 70.0, "sentiment": 1.0}),
	}
	ranked, err := Rank(in)
	require.NoError(t, err)

	assert.Equal(t, "y", ranked[0].RecordID)
	assert.NotContains(t, ranked[0].Strengths, BadgeEmpathyLeader)
	assert.Contains(t, ranked[1].Strengths, BadgeEmpathyLeader)
}

func TestRank_NoLeaderWithoutEmpathy(t *testing.T) {
	ranked, err := Rank([]types.NormalizedMetrics{record("a", nil), record("b", nil)})
	require.NoError(t, err)
	for _, r := range ranked {
		assert.Empty(t, r.Strengths)
		assert.Equal(t, 0.0, r.CompositeScore)
	}
}

func TestRank_Deterministic(t *testing.T) {
	in := []types.NormalizedMetrics{
		record("a", map[string]any{"empathy": 40.0, "sentiment": 0.5}),
		record("b", map[string]any{"empathy": 40.0, "sentiment": 0.5}),
		record("c", map[string]any{"empathy": 85.0}),
	}
	first, err := Rank(in)
	require.NoError(t, err)
	second, err := Rank(in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
