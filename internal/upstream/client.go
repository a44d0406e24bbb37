// Package upstream fetches finished analyses from the analysis backend.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"speech-insights-go/internal/dataset"
	"speech-insights-go/internal/logger"
	"speech-insights-go/internal/types"
)

// ErrNotConfigured is returned when no backend URL is set.
var ErrNotConfigured = errors.New("upstream url not configured")

// StatusError is a non-2xx response from the backend.
type StatusError struct {
	ID     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("analysis %s: upstream status %d: %s", e.ID, e.Status, e.Body)
}

type Client struct {
	BaseURL      string
	HTTP         *http.Client
	Timeout      time.Duration
	MaxRetryTime time.Duration
	Log          *logger.Logger
}

func New(baseURL string, timeout, maxRetry time.Duration, log *logger.Logger) *Client {
	return &Client{
		BaseURL:      strings.TrimRight(baseURL, "/"),
		HTTP:         &http.Client{Timeout: timeout},
		Timeout:      timeout,
		MaxRetryTime: maxRetry,
		Log:          log,
	}
}

// FetchRecord loads one analysis. Transport errors and 5xx responses are
// retried with exponential backoff; other statuses fail immediately.
func (c *Client) FetchRecord(ctx context.Context, id string) (types.AnalysisRecord, error) {
	if c.BaseURL == "" {
		return types.AnalysisRecord{}, ErrNotConfigured
	}
	log := c.Log.Component("upstream").WithField("speech_id", id)
	endpoint := c.BaseURL + "/api/v1/analyses/" + url.PathEscape(id)

	var rec types.AnalysisRecord
	attempt := 0
	op := func() error {
		attempt++
		reqCtx, cancel := context.WithTimeout(ctx, c.Timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.HTTP.Do(req)
		if err != nil {
			log.WithError(err).WithField("attempt", attempt).Warn("upstream request failed")
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode >= 500 {
			log.WithField("status", resp.StatusCode).WithField("attempt", attempt).Warn("upstream server error")
			return &StatusError{ID: id, Status: resp.StatusCode, Body: string(body)}
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(&StatusError{ID: id, Status: resp.StatusCode, Body: string(body)})
		}

		rec, err = dataset.DecodeDocument(body)
		if err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = c.MaxRetryTime
	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		log.WithError(err).Error("fetch analysis failed")
		return types.AnalysisRecord{}, fmt.Errorf("fetch analysis %s: %w", id, err)
	}
	if rec.ID == "" {
		rec.ID = id
	}
	log.WithField("attempts", attempt).Debug("analysis fetched")
	return rec, nil
}

// FetchRecords loads every id in order, stopping at the first failure.
func (c *Client) FetchRecords(ctx context.Context, ids []string) ([]types.AnalysisRecord, error) {
	out := make([]types.AnalysisRecord, 0, len(ids))
	for _, id := range ids {
		rec, err := c.FetchRecord(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
