package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"speech-insights-go/internal/dataset"
	"speech-insights-go/internal/logger"
	"speech-insights-go/internal/types"
)

type fakeFetcher struct {
	records map[string]types.AnalysisRecord
	err     error
	calls   int
}

func (f *fakeFetcher) FetchRecords(_ context.Context, ids []string) ([]types.AnalysisRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]types.AnalysisRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, f.records[id])
	}
	return out, nil
}

const twoRecords = `{"records":[
  {"id":"A","title":"Rally","scalarMetrics":{"empathy":90,"sentiment":0.8},"themes":["jobs"]},
  {"id":"B","title":"Debate","scalarMetrics":{"empathy":60,"sentiment":0.5},"themes":["jobs","tax"]}
]}`

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, New(logger.Discard(), nil, nil, nil).Routes(), "GET", "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestCompare_InlineRecords(t *testing.T) {
	rec := do(t, New(logger.Discard(), nil, nil, nil).Routes(), "POST", "/compare", twoRecords)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Rankings []types.RankedRecord `json:"rankings"`
		Insights types.Insights       `json:"insights"`
		Date     string               `json:"comparisonDate"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Rankings, 2)
	assert.Equal(t, "A", body.Rankings[0].RecordID)
	assert.Equal(t, []string{"jobs"}, body.Insights.CommonThemes)
	assert.NotEmpty(t, body.Date)
}

func TestCompare_SingleRecordIsBadRequest(t *testing.T) {
	body := `{"records":[{"id":"A","scalarMetrics":{"empathy":90}}]}`
	rec := do(t, New(logger.Discard(), nil, nil, nil).Routes(), "POST", "/compare", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "need at least 2 records")
}

func TestCompare_ByIDs(t *testing.T) {
	f := &fakeFetcher{records: map[string]types.AnalysisRecord{
		"s1": {ID: "s1", ScalarMetrics: map[string]any{"empathy": 40.0}},
		"s2": {ID: "s2", ScalarMetrics: map[string]any{"empathy": 80.0}},
	}}
	rec := do(t, New(logger.Discard(), f, nil, nil).Routes(), "POST", "/compare", `{"speech_ids":["s1","s2"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, f.calls)
	assert.Contains(t, rec.Body.String(), `"recordId": "s2"`)
}

func TestCompare_ByIDsFailsFastWithoutFetching(t *testing.T) {
	f := &fakeFetcher{}
	rec := do(t, New(logger.Discard(), f, nil, nil).Routes(), "POST", "/compare", `{"speech_ids":["s1"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, f.calls)
}

func TestCompare_UpstreamFailure(t *testing.T) {
	f := &fakeFetcher{err: errors.New("backend down")}
	rec := do(t, New(logger.Discard(), f, nil, nil).Routes(), "POST", "/compare", `{"speech_ids":["s1","s2"]}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec = do(t, New(logger.Discard(), nil, nil, nil).Routes(), "POST", "/compare", `{"speech_ids":["s1","s2"]}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCompare_BadJSON(t *testing.T) {
	rec := do(t, New(logger.Discard(), nil, nil, nil).Routes(), "POST", "/compare", `{"records":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExport_XLSX(t *testing.T) {
	rec := do(t, New(logger.Discard(), nil, nil, nil).Routes(), "POST", "/compare/export?format=xlsx", twoRecords)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Rankings")

	rec = do(t, New(logger.Discard(), nil, nil, nil).Routes(), "POST", "/compare/export?format=pdf", twoRecords)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDistributionAndSummary(t *testing.T) {
	history, err := dataset.DecodeJSON([]byte(`[
	  {"speech_id":"1","empathy_score":10},
	  {"speech_id":"2","empathy_score":35},
	  {"speech_id":"3","empathy_score":55},
	  {"speech_id":"4","empathy_score":75},
	  {"speech_id":"5","empathy_score":95}
	]`))
	require.NoError(t, err)
	summary := dataset.Summarize(history)
	h := New(logger.Discard(), nil, history, &summary).Routes()

	rec := do(t, h, "GET", "/distribution?metric=empathy&tiers=levels", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var counts types.BucketCounts
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))
	require.Len(t, counts.Buckets, 5)
	for _, b := range counts.Buckets {
		assert.Equal(t, 1, b.Count, b.Label)
	}

	rec = do(t, h, "GET", "/distribution?metric=charisma", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, "GET", "/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalRecords": 5`)

	rec = do(t, New(logger.Discard(), nil, nil, nil).Routes(), "GET", "/summary", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
