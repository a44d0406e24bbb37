// Package server exposes the comparison engine over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"speech-insights-go/internal/aggregator"
	"speech-insights-go/internal/comparison"
	"speech-insights-go/internal/dataset"
	"speech-insights-go/internal/logger"
	"speech-insights-go/internal/ranker"
	"speech-insights-go/internal/report"
	"speech-insights-go/internal/types"
	"speech-insights-go/internal/upstream"
)

// RecordFetcher resolves analysis ids into records.
type RecordFetcher interface {
	FetchRecords(ctx context.Context, ids []string) ([]types.AnalysisRecord, error)
}

type Server struct {
	log     *logger.Logger
	fetcher RecordFetcher
	history []types.AnalysisRecord
	summary *dataset.Summary
	maxBody int64
	now     func() time.Time
}

// New builds a server. fetcher may be nil when no backend is configured;
// history may be empty when no dataset was loaded.
func New(log *logger.Logger, fetcher RecordFetcher, history []types.AnalysisRecord, summary *dataset.Summary) *Server {
	return &Server{
		log:     log,
		fetcher: fetcher,
		history: history,
		summary: summary,
		maxBody: 8 << 20,
		now:     time.Now,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /compare", s.handleCompare)
	mux.HandleFunc("POST /compare/export", s.handleExport)
	mux.HandleFunc("GET /distribution", s.handleDistribution)
	mux.HandleFunc("GET /summary", s.handleSummary)
	return mux
}

type compareRequest struct {
	Records   json.RawMessage `json:"records"`
	SpeechIDs []string        `json:"speech_ids"`
}

type compareResponse struct {
	comparison.Result
	ComparisonDate string `json:"comparisonDate"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.log.WithRequest(r).Debug("health check")
	fmt.Fprint(w, "ok")
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	reqLog := s.log.WithRequest(r).WithField("handler", "compare")
	res, status, err := s.compare(w, r)
	if err != nil {
		reqLog.WithError(err).WithField("status", status).Warn("compare failed")
		writeError(w, status, err)
		return
	}
	reqLog.WithField("records", len(res.Records)).Info("comparison computed")
	writeJSON(w, http.StatusOK, compareResponse{Result: res, ComparisonDate: s.now().UTC().Format(time.RFC3339)})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	reqLog := s.log.WithRequest(r).WithField("handler", "export")
	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res, status, err := s.compare(w, r)
	if err != nil {
		reqLog.WithError(err).WithField("status", status).Warn("export failed")
		writeError(w, status, err)
		return
	}
	name := fmt.Sprintf("comparison_report_%d.%s", s.now().Unix(), format)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if err := report.Write(w, format, res); err != nil {
		reqLog.WithError(err).Error("failed to write report")
	}
}

func (s *Server) compare(w http.ResponseWriter, r *http.Request) (comparison.Result, int, error) {
	var req compareRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody)).Decode(&req); err != nil {
		return comparison.Result{}, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err)
	}

	var records []types.AnalysisRecord
	switch {
	case len(req.Records) > 0 && string(req.Records) != "null":
		decoded, err := dataset.DecodeJSON(req.Records)
		if err != nil {
			return comparison.Result{}, http.StatusBadRequest, err
		}
		records = decoded
	default:
		if err := types.RequireRecords("compare", len(req.SpeechIDs), ranker.MinRecords); err != nil {
			return comparison.Result{}, http.StatusBadRequest, err
		}
		if s.fetcher == nil {
			return comparison.Result{}, http.StatusServiceUnavailable, errors.New("no analysis backend configured")
		}
		fetched, err := s.fetcher.FetchRecords(r.Context(), req.SpeechIDs)
		if errors.Is(err, upstream.ErrNotConfigured) {
			return comparison.Result{}, http.StatusServiceUnavailable, err
		}
		if err != nil {
			return comparison.Result{}, http.StatusBadGateway, err
		}
		records = fetched
	}

	res, err := comparison.Compare(records)
	if err != nil {
		return comparison.Result{}, statusFor(err), err
	}
	return res, http.StatusOK, nil
}

func (s *Server) handleDistribution(w http.ResponseWriter, r *http.Request) {
	if s.summary == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("no dataset loaded"))
		return
	}
	q := r.URL.Query()
	metric, err := types.ParseMetric(q.Get("metric"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	buckets, err := aggregator.BucketSet(q.Get("tiers"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.log.WithRequest(r).WithField("metric", metric).Debug("distribution requested")
	writeJSON(w, http.StatusOK, aggregator.Aggregate(s.history, metric, buckets))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if s.summary == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("no dataset loaded"))
		return
	}
	writeJSON(w, http.StatusOK, s.summary)
}

func statusFor(err error) int {
	if errors.Is(err, types.ErrInsufficientInput) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
