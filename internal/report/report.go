// Package report serializes comparison results for download.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"speech-insights-go/internal/comparison"
	"speech-insights-go/internal/types"
)

// Format is an export format.
type Format string

const (
	JSON Format = "json"
	XLSX Format = "xlsx"
)

// ParseFormat maps a user supplied name onto a Format, defaulting to JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return JSON, nil
	case "xlsx", "excel":
		return XLSX, nil
	}
	return "", fmt.Errorf("unsupported report format %q", s)
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == XLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/json"
}

// Write renders res in format f.
func Write(w io.Writer, f Format, res comparison.Result) error {
	if f == XLSX {
		return WriteXLSX(w, res)
	}
	return WriteJSON(w, res)
}

// WriteJSON writes res as indented JSON.
func WriteJSON(w io.Writer, res comparison.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

const (
	SheetRankings = "Rankings"
	SheetInsights = "Insights"
	SheetEmotions = "Emotions"
	SheetTopics   = "Topics"
)

// WriteXLSX writes res as a workbook with one sheet per view.
func WriteXLSX(w io.Writer, res comparison.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetRankings); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	rankRows := [][]any{{"Rank", "ID", "Title", "Composite", "Empathy", "Sentiment", "Strengths"}}
	for _, r := range res.Rankings {
		rankRows = append(rankRows, []any{
			r.Rank, r.RecordID, r.Title, r.CompositeScore, r.EmpathyScore, r.SentimentScore,
			strings.Join(r.Strengths, ", "),
		})
	}
	if err := writeRows(f, SheetRankings, rankRows); err != nil {
		return err
	}

	insightRows := [][]any{{"Kind", "Statement"}}
	add := func(kind string, items []string) {
		for _, s := range items {
			insightRows = append(insightRows, []any{kind, s})
		}
	}
	add("Key insight", res.Insights.KeyInsights)
	add("Common theme", res.Insights.CommonThemes)
	add("Similarity", res.Insights.Similarities)
	add("Difference", res.Insights.Differences)
	if err := addSheet(f, SheetInsights, insightRows); err != nil {
		return err
	}

	if err := addSheet(f, SheetEmotions, seriesRows(res.Records, res.Metrics.EmotionSeries)); err != nil {
		return err
	}
	if err := addSheet(f, SheetTopics, seriesRows(res.Records, res.Metrics.TopicSeries)); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func seriesRows(records []comparison.RecordRef, rows []types.Row) [][]any {
	header := []any{"Category"}
	for _, r := range records {
		header = append(header, r.ID)
	}
	out := [][]any{header}
	for _, row := range rows {
		line := []any{row.Category}
		for _, r := range records {
			v, _ := row.Value(r.ID)
			line = append(line, v)
		}
		out = append(out, line)
	}
	return out
}

func addSheet(f *excelize.File, name string, rows [][]any) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("new sheet %s: %w", name, err)
	}
	return writeRows(f, name, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
