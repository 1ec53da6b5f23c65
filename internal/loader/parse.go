package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kolah/truffle/internal/model"
	"go.yaml.in/yaml/v4"
)

// ParseError reports malformed JSON or YAML text.
type ParseError struct {
	Format model.Format
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s: %v", strings.ToUpper(string(e.Format)), e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse parses data under format into an order-preserving node tree. JSON is
// parsed strictly; YAML follows the standard loader semantics.
func Parse(data []byte, format model.Format) (*yaml.Node, error) {
	var (
		root *yaml.Node
		err  error
	)
	switch format {
	case model.FormatYAML:
		root, err = parseYAML(data)
	default:
		format = model.FormatJSON
		root, err = parseJSON(data)
	}
	if err != nil {
		return nil, &ParseError{Format: format, Err: err}
	}
	return root, nil
}

func parseYAML(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("empty document")
	}
	return doc.Content[0], nil
}

func parseJSON(data []byte) (*yaml.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	root, err := decodeJSONValue(dec)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty document")
		}
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}
	return root, nil
}

func decodeJSONValue(dec *json.Decoder) (*yaml.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key must be a string, got %v", keyTok)
				}
				value, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				node.Content = append(node.Content, scalarNode("!!str", key), value)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return node, nil
		case '[':
			node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
			for dec.More() {
				value, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				node.Content = append(node.Content, value)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return node, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %q", rune(v))
	case string:
		return scalarNode("!!str", v), nil
	case json.Number:
		if strings.ContainsAny(v.String(), ".eE") {
			return scalarNode("!!float", v.String()), nil
		}
		return scalarNode("!!int", v.String()), nil
	case bool:
		if v {
			return scalarNode("!!bool", "true"), nil
		}
		return scalarNode("!!bool", "false"), nil
	case nil:
		return scalarNode("!!null", "null"), nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func scalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

// HasSpecMarker reports whether root is a mapping carrying an "openapi" or
// "swagger" key.
func HasSpecMarker(root *yaml.Node) bool {
	root = deref(root)
	if root == nil || root.Kind != yaml.MappingNode {
		return false
	}
	return mapGet(root, "openapi") != nil || mapGet(root, "swagger") != nil
}
