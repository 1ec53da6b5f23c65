package loader

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/kolah/truffle/internal/model"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.yaml.in/yaml/v4"
)

// Convert re-serializes a document in the target format, keeping key order.
func Convert(doc *model.SpecDocument, to model.Format) (string, error) {
	root, err := Parse([]byte(doc.RawText), doc.Format)
	if err != nil {
		return "", err
	}
	if to == model.FormatYAML {
		return encodeYAML(root)
	}
	return encodeJSON(root)
}

func encodeYAML(root *yaml.Node) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return "", fmt.Errorf("encoding YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding YAML: %w", err)
	}
	return buf.String(), nil
}

func encodeJSON(root *yaml.Node) (string, error) {
	out, err := json.MarshalIndent(nodeValue(root), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding JSON: %w", err)
	}
	return string(out) + "\n", nil
}

// nodeValue converts a node tree to plain values; mappings become ordered maps
// so JSON output keeps document order.
func nodeValue(n *yaml.Node) any {
	n = deref(n)
	if n == nil {
		return nil
	}
	switch n.Kind {
	case yaml.MappingNode:
		m := orderedmap.New[string, any]()
		for _, p := range mapPairs(n) {
			m.Set(p.key, nodeValue(p.value))
		}
		return m
	case yaml.SequenceNode:
		items := seqItems(n)
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = nodeValue(item)
		}
		return out
	case yaml.ScalarNode:
		return scalarValue(n)
	}
	return nil
}
