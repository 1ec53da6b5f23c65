package loader

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/kolah/truffle/internal/model"
	"go.yaml.in/yaml/v4"
)

// Classify decides the format of a fetched or imported document: a content type
// mentioning yaml/yml wins, then a .yaml/.yml extension on location, else JSON.
func Classify(contentType, location string) model.Format {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "yaml") || strings.Contains(ct, "yml") {
		return model.FormatYAML
	}
	p := location
	if u, err := url.Parse(location); err == nil && u.Path != "" {
		p = u.Path
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".yaml", ".yml":
		return model.FormatYAML
	}
	return model.FormatJSON
}

// NewDocument checks that raw parses under format and carries a spec marker,
// and captures the info metadata. The format is never re-inferred afterwards.
func NewDocument(raw []byte, format model.Format, origin string) (*model.SpecDocument, error) {
	root, err := Parse(raw, format)
	if err != nil {
		return nil, err
	}
	if err := requireSpec(root); err != nil {
		return nil, err
	}

	info := mapGet(root, "info")
	return &model.SpecDocument{
		RawText:     string(raw),
		Format:      format,
		OriginURL:   origin,
		Title:       stringField(info, "title"),
		Version:     stringField(info, "version"),
		Description: stringField(info, "description"),
	}, nil
}

// Load parses a document into its spec tree. The strict parse under the
// document's own format runs first; libopenapi then builds the model.
func Load(doc *model.SpecDocument) (*model.Spec, error) {
	root, err := Parse([]byte(doc.RawText), doc.Format)
	if err != nil {
		return nil, err
	}
	if err := requireSpec(root); err != nil {
		return nil, err
	}
	spec, err := Transform([]byte(doc.RawText))
	if err != nil {
		return nil, fmt.Errorf("transforming spec: %w", err)
	}
	return spec, nil
}

// LoadFile imports a spec document from disk; the format follows the extension.
func LoadFile(path string) (*model.SpecDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spec file: %w", err)
	}
	return NewDocument(data, Classify("", path), "")
}

func requireSpec(root *yaml.Node) error {
	if !HasSpecMarker(root) {
		return errors.New(`document has neither an "openapi" nor a "swagger" key`)
	}
	return nil
}
