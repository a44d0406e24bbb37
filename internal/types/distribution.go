package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// CategoryWeight is one entry of a Distribution.
type CategoryWeight struct {
	Category string  `json:"category"`
	Weight   float64 `json:"weight"`
}

// Distribution maps category labels to weights while keeping the order the
// labels were written in. It encodes as a plain JSON/YAML mapping.
type Distribution []CategoryWeight

// Get returns the weight stored for category.
func (d Distribution) Get(category string) (float64, bool) {
	for _, cw := range d {
		if cw.Category == category {
			return cw.Weight, true
		}
	}
	return 0, false
}

// Index returns a lookup table for d. Later duplicates win.
func (d Distribution) Index() map[string]float64 {
	m := make(map[string]float64, len(d))
	for _, cw := range d {
		m[cw.Category] = cw.Weight
	}
	return m
}

func (d *Distribution) set(category string, weight float64) {
	for i := range *d {
		if (*d)[i].Category == category {
			(*d)[i].Weight = weight
			return
		}
	}
	*d = append(*d, CategoryWeight{Category: category, Weight: weight})
}

// MarshalJSON writes the distribution as an object in insertion order.
func (d Distribution) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cw := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(cw.Category)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.WriteString(formatFloat(cw.Weight))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object, keeping key order. Non-numeric weights
// decode as 0 so one bad entry cannot reject the whole record.
func (d *Distribution) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*d = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("distribution: expected object, got %v", tok)
	}
	out := Distribution{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var raw any
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		out.set(key, weightOf(raw))
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*d = out
	return nil
}

// MarshalYAML writes the distribution as an ordered mapping node.
func (d Distribution) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, cw := range d {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: cw.Category},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: formatFloat(cw.Weight)},
		)
	}
	return node, nil
}

// UnmarshalYAML reads a mapping node, keeping key order.
func (d *Distribution) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("distribution: expected mapping at line %d", node.Line)
	}
	out := Distribution{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var w float64
		if err := node.Content[i+1].Decode(&w); err != nil {
			w = 0
		}
		out.set(node.Content[i].Value, sanitize(w))
	}
	*d = out
	return nil
}

func weightOf(v any) float64 {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return sanitize(f)
	case float64:
		return sanitize(n)
	default:
		return 0
	}
}

func sanitize(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(sanitize(f), 'f', -1, 64)
}
