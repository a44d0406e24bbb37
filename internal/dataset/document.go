package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"

	"speech-insights-go/internal/types"
)

// Backend document keys, by record field. The first key present wins.
var (
	idKeys     = []string{"id", "speech_id", "_id", "analysis_id"}
	titleKeys  = []string{"title", "filename", "leader_name"}
	scalarKeys = map[types.Metric][]string{
		types.Empathy:      {"empathy_score", "empathy"},
		types.Sentiment:    {"sentiment_score", "sentiment"},
		types.Authenticity: {"authenticity_score", "authenticity"},
		types.Confidence:   {"confidence", "confidence_score"},
	}
	labelKeys = map[string][]string{
		types.OverallSentiment: {"overall_sentiment"},
		types.DominantEmotion:  {"dominant_emotion"},
		types.Language:         {"language_detected", "language"},
		types.UrgencyLevel:     {"urgency_level"},
	}
	distributionKeys = map[string][]string{
		types.Emotions: {"emotional_profile", "emotions"},
		types.Topics:   {"topics", "topic_distribution"},
	}
	themeKeys = []string{"key_themes", "themes"}
)

// DecodeDocument decodes one record. Objects carrying scalarMetrics,
// categoricalMetrics or categoryDistributions are read as records; anything
// else is treated as a flat analysis backend document.
func DecodeDocument(data []byte) (types.AnalysisRecord, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return types.AnalysisRecord{}, fmt.Errorf("decode document: %w", err)
	}
	if isRecordShape(raw) {
		return fromRecordShape(raw), nil
	}
	return FromDocument(raw), nil
}

// fromRecordShape reads a record field by field. A malformed field is
// dropped rather than failing the record; the normalizer then defaults it.
func fromRecordShape(raw map[string]json.RawMessage) types.AnalysisRecord {
	rec := types.AnalysisRecord{
		ID:                 firstString(raw, []string{"id"}),
		Title:              firstString(raw, []string{"title"}),
		ScalarMetrics:      objectField(raw, "scalarMetrics"),
		CategoricalMetrics: objectField(raw, "categoricalMetrics"),
		Themes:             stringList(raw, []string{"themes"}),
	}

	var dists map[string]json.RawMessage
	if msg, ok := raw["categoryDistributions"]; ok && json.Unmarshal(msg, &dists) == nil {
		for name, msg := range dists {
			var d types.Distribution
			if err := json.Unmarshal(msg, &d); err != nil || d == nil {
				continue
			}
			if rec.CategoryDistributions == nil {
				rec.CategoryDistributions = map[string]types.Distribution{}
			}
			rec.CategoryDistributions[name] = d
		}
	}
	return rec
}

// objectField decodes raw[key] as a JSON object with numbers kept as
// json.Number, so out-of-range values survive decoding.
func objectField(raw map[string]json.RawMessage, key string) map[string]any {
	v, ok := firstValue(raw, []string{key})
	if !ok {
		return nil
	}
	m, _ := v.(map[string]any)
	return m
}

// stringList returns the string items of the first list present in keys.
// Non-string items are skipped.
func stringList(raw map[string]json.RawMessage, keys []string) []string {
	for _, k := range keys {
		msg, ok := raw[k]
		if !ok {
			continue
		}
		var items []any
		if err := json.Unmarshal(msg, &items); err != nil {
			continue
		}
		var out []string
		for _, it := range items {
			if s, ok := it.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func isRecordShape(raw map[string]json.RawMessage) bool {
	for _, k := range []string{"scalarMetrics", "categoricalMetrics", "categoryDistributions"} {
		if _, ok := raw[k]; ok {
			return true
		}
	}
	return false
}

// FromDocument maps a flat backend document onto a record. Values that do
// not have the expected JSON type are dropped or kept raw for the
// normalizer to default.
func FromDocument(raw map[string]json.RawMessage) types.AnalysisRecord {
	rec := types.AnalysisRecord{
		ID:    firstString(raw, idKeys),
		Title: firstString(raw, titleKeys),
	}

	for _, m := range types.Metrics {
		v, ok := firstValue(raw, scalarKeys[m])
		if !ok {
			continue
		}
		if rec.ScalarMetrics == nil {
			rec.ScalarMetrics = map[string]any{}
		}
		rec.ScalarMetrics[string(m)] = v
	}

	for _, name := range types.Labels {
		v, ok := firstValue(raw, labelKeys[name])
		if !ok {
			continue
		}
		if rec.CategoricalMetrics == nil {
			rec.CategoricalMetrics = map[string]any{}
		}
		rec.CategoricalMetrics[name] = v
	}

	for _, name := range []string{types.Emotions, types.Topics} {
		for _, k := range distributionKeys[name] {
			msg, ok := raw[k]
			if !ok {
				continue
			}
			var d types.Distribution
			if err := json.Unmarshal(msg, &d); err != nil || d == nil {
				continue
			}
			if rec.CategoryDistributions == nil {
				rec.CategoryDistributions = map[string]types.Distribution{}
			}
			rec.CategoryDistributions[name] = d
			break
		}
	}
	if _, ok := rec.CategoricalMetrics[types.DominantEmotion]; !ok {
		if v, ok := profileDominant(raw); ok {
			if rec.CategoricalMetrics == nil {
				rec.CategoricalMetrics = map[string]any{}
			}
			rec.CategoricalMetrics[types.DominantEmotion] = v
		}
	}

	rec.Themes = stringList(raw, themeKeys)
	return rec
}

// profileDominant reads the dominant emotion some backends embed inside the
// emotional profile.
func profileDominant(raw map[string]json.RawMessage) (string, bool) {
	msg, ok := raw["emotional_profile"]
	if !ok {
		return "", false
	}
	var profile map[string]any
	if err := json.Unmarshal(msg, &profile); err != nil {
		return "", false
	}
	s, ok := profile["dominant_emotion"].(string)
	return s, ok && s != ""
}

func firstValue(raw map[string]json.RawMessage, keys []string) (any, bool) {
	for _, k := range keys {
		msg, ok := raw[k]
		if !ok {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(msg))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil || v == nil {
			continue
		}
		return v, true
	}
	return nil, false
}

func firstString(raw map[string]json.RawMessage, keys []string) string {
	v, ok := firstValue(raw, keys)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	}
	return ""
}
