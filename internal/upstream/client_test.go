package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"speech-insights-go/internal/logger"
)

func newClient(url string) *Client {
	return New(url, 2*time.Second, 3*time.Second, logger.Discard())
}

func TestFetchRecords_PreservesOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v1/analyses/s1":
			w.Write([]byte(`{"speech_id":"s1","filename":"one.mp4","empathy_score":70}`))
		case "/api/v1/analyses/s2":
			w.Write([]byte(`{"id":"s2","title":"two","scalarMetrics":{"sentiment":0.4}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	records, err := newClient(srv.URL+"/").FetchRecords(context.Background(), []string{"s2", "s1"})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "s2", records[0].ID)
	assert.Equal(t, "two", records[0].Title)
	assert.Equal(t, "s1", records[1].ID)
	assert.Equal(t, "one.mp4", records[1].Title)
}

func TestFetchRecord_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"empathy_score":55}`))
	}))
	defer srv.Close()

	rec, err := newClient(srv.URL).FetchRecord(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", rec.ID)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFetchRecord_NotFoundIsPermanent(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "no such analysis", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).FetchRecord(context.Background(), "missing")
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Status)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetchRecord_NotConfigured(t *testing.T) {
	_, err := newClient("").FetchRecord(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
