package main

import (
	"fmt"
	"net/http"
	"time"

	"speech-insights-go/internal/config"
	"speech-insights-go/internal/dataset"
	"speech-insights-go/internal/logger"
	"speech-insights-go/internal/server"
	"speech-insights-go/internal/types"
	"speech-insights-go/internal/upstream"
)

func main() {
	cfg := config.Load()

	log := logger.New(logger.Options{Environment: cfg.Environment, Level: cfg.LogLevel})
	log.WithField("service", "speech-insights-go").Info("starting service")

	// historical records back /distribution and /summary
	var (
		history []types.AnalysisRecord
		summary *dataset.Summary
	)
	if cfg.DatasetPath != "" {
		log.WithField("dataset_path", cfg.DatasetPath).Info("loading dataset summary")
		records, s, err := dataset.LoadAndSummarize(cfg.DatasetPath, log)
		if err != nil {
			log.WithError(err).Fatal("failed to load dataset summary")
		}
		history, summary = records, &s
	} else {
		log.Warn("DATASET_PATH not set, distribution and summary endpoints disabled")
	}

	client := upstream.New(cfg.UpstreamURL, cfg.UpstreamTimeout, cfg.UpstreamMaxRetry, log)
	if cfg.UpstreamURL == "" {
		log.Warn("UPSTREAM_URL not set, comparisons by speech id are disabled")
	}

	srv := server.New(log, client, history, summary)

	addr := fmt.Sprintf(":%s", cfg.Port)
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.WithField("addr", addr).Info("listening")
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server terminated")
	}
}
