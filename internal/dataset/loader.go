package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"speech-insights-go/internal/types"
)

// Load reads analysis records from a .json, .yaml/.yml or .xlsx file.
func Load(path string) ([]types.AnalysisRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return loadXLSX(path)
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		return DecodeJSON(data)
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		return DecodeYAML(data)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", filepath.Ext(path))
	}
}

// DecodeJSON accepts an array of records or an object wrapping one under
// "records" or "analyses". Elements may be in either record or backend
// document shape.
func DecodeJSON(data []byte) ([]types.AnalysisRecord, error) {
	data = bytes.TrimSpace(data)
	var items []json.RawMessage
	if len(data) > 0 && data[0] == '{' {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		list, ok := wrapper["records"]
		if !ok {
			list, ok = wrapper["analyses"]
		}
		if !ok {
			return nil, fmt.Errorf("decode json: expected an array or a records/analyses list")
		}
		data = list
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	out := make([]types.AnalysisRecord, 0, len(items))
	for i, item := range items {
		rec, err := DecodeDocument(item)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// DecodeYAML accepts a sequence of records or a mapping with a "records" list.
func DecodeYAML(data []byte) ([]types.AnalysisRecord, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	root := node.Content[0]
	if root.Kind == yaml.MappingNode {
		var wrapper struct {
			Records []types.AnalysisRecord `yaml:"records"`
		}
		if err := root.Decode(&wrapper); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		return wrapper.Records, nil
	}
	var records []types.AnalysisRecord
	if err := root.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return records, nil
}

const (
	emotionPrefix = "emotion:"
	topicPrefix   = "topic:"
)

type column struct {
	scalar   types.Metric
	label    string
	dist     string
	category string
	id       bool
	title    bool
	themes   bool
}

// loadXLSX reads the first sheet. Columns are matched by header text;
// "emotion:<name>" and "topic:<name>" columns fill distributions.
func loadXLSX(path string) ([]types.AnalysisRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, fmt.Errorf("no data rows")
	}

	cols := make([]column, len(rows[0]))
	for i, h := range rows[0] {
		cols[i] = classify(h)
	}

	var out []types.AnalysisRecord
	for i, r := range rows {
		if i == 0 || blank(r) {
			continue
		}
		rec := types.AnalysisRecord{}
		for j, cell := range r {
			if j >= len(cols) {
				break
			}
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			apply(&rec, cols[j], cell)
		}
		if rec.ID == "" {
			rec.ID = fmt.Sprintf("row-%d", i+1)
		}
		out = append(out, rec)
	}
	return out, nil
}

func classify(header string) column {
	h := strings.ToLower(strings.TrimSpace(header))
	switch {
	case strings.HasPrefix(h, emotionPrefix):
		return column{dist: types.Emotions, category: strings.TrimSpace(h[len(emotionPrefix):])}
	case strings.HasPrefix(h, topicPrefix):
		return column{dist: types.Topics, category: strings.TrimSpace(h[len(topicPrefix):])}
	case strings.Contains(h, "confidence"):
		return column{scalar: types.Confidence}
	case strings.Contains(h, "empathy"):
		return column{scalar: types.Empathy}
	case strings.Contains(h, "authenticity"):
		return column{scalar: types.Authenticity}
	case strings.Contains(h, "sentiment") && (strings.Contains(h, "overall") || strings.Contains(h, "label")):
		return column{label: types.OverallSentiment}
	case strings.Contains(h, "sentiment"):
		return column{scalar: types.Sentiment}
	case strings.Contains(h, "emotion"):
		return column{label: types.DominantEmotion}
	case strings.Contains(h, "language"):
		return column{label: types.Language}
	case strings.Contains(h, "urgency"):
		return column{label: types.UrgencyLevel}
	case strings.Contains(h, "theme"):
		return column{themes: true}
	case h == "id" || strings.HasSuffix(h, " id") || strings.HasSuffix(h, "_id"):
		return column{id: true}
	case strings.Contains(h, "title") || strings.Contains(h, "filename") || h == "name":
		return column{title: true}
	}
	return column{}
}

func apply(rec *types.AnalysisRecord, c column, cell string) {
	switch {
	case c.id:
		rec.ID = cell
	case c.title:
		rec.Title = cell
	case c.themes:
		rec.Themes = splitThemes(cell)
	case c.scalar != "":
		if rec.ScalarMetrics == nil {
			rec.ScalarMetrics = map[string]any{}
		}
		if f, err := strconv.ParseFloat(cell, 64); err == nil {
			rec.ScalarMetrics[string(c.scalar)] = f
		} else {
			rec.ScalarMetrics[string(c.scalar)] = cell
		}
	case c.label != "":
		if rec.CategoricalMetrics == nil {
			rec.CategoricalMetrics = map[string]any{}
		}
		rec.CategoricalMetrics[c.label] = cell
	case c.dist != "":
		f, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return
		}
		if rec.CategoryDistributions == nil {
			rec.CategoryDistributions = map[string]types.Distribution{}
		}
		rec.CategoryDistributions[c.dist] = append(rec.CategoryDistributions[c.dist],
			types.CategoryWeight{Category: c.category, Weight: f})
	}
}

func splitThemes(cell string) []string {
	sep := ","
	if strings.Contains(cell, ";") {
		sep = ";"
	}
	var out []string
	for _, p := range strings.Split(cell, sep) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
