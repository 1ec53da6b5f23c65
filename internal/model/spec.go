package model

import (
	"net/url"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Format is the serialization of a spec document. It is decided once, when the
// document is fetched or imported, and never re-inferred from content.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// SpecDocument is the raw text of a discovered or imported spec. It is immutable;
// a new import replaces it wholesale.
type SpecDocument struct {
	RawText     string
	Format      Format
	OriginURL   string
	Title       string
	Version     string
	Description string
}

// Spec is the parsed tree of a SpecDocument.
type Spec struct {
	// OpenAPI holds the "openapi" value for v3 documents, Swagger the "swagger" value for v2.
	OpenAPI string
	Swagger string

	Info    Info
	Servers []Server

	// Swagger 2.0 location fields.
	Host     string
	BasePath string
	Schemes  []string

	// Paths preserves declaration order; matching relies on it.
	Paths *orderedmap.OrderedMap[string, *PathTemplate]

	// Definitions holds components.schemas (v3) or definitions (v2).
	Definitions map[string]*Schema
}

// BaseURL returns the root that request URLs are built on: the first v3 server
// (made absolute against originURL when relative), else scheme://host+basePath
// for v2, else the origin of originURL.
func (s *Spec) BaseURL(originURL string) string {
	if len(s.Servers) > 0 && s.Servers[0].URL != "" {
		base := strings.TrimSuffix(s.Servers[0].URL, "/")
		if strings.HasPrefix(base, "/") {
			return Origin(originURL) + base
		}
		return base
	}
	if s.Host != "" {
		scheme := "https"
		if len(s.Schemes) > 0 {
			scheme = s.Schemes[0]
		}
		return scheme + "://" + s.Host + strings.TrimSuffix(s.BasePath, "/")
	}
	return Origin(originURL)
}

// Origin returns scheme://host of raw, or "" when raw is not an absolute URL.
func Origin(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

type Info struct {
	Title       string
	Description string
	Version     string
}

type Server struct {
	URL         string
	Description string
}

// PathTemplate is a declared key of paths, e.g. "/pets/{id}".
type PathTemplate struct {
	Key        string
	Segments   []string
	Operations map[Method]*Operation
	// Methods lists the declared methods in canonical order.
	Methods []Method
}

// NewPaths returns an empty ordered path template map.
func NewPaths() *orderedmap.OrderedMap[string, *PathTemplate] {
	return orderedmap.New[string, *PathTemplate]()
}

func NewPathTemplate(key string) *PathTemplate {
	return &PathTemplate{
		Key:        key,
		Segments:   strings.Split(key, "/"),
		Operations: make(map[Method]*Operation),
	}
}

// AddOperation registers op under its method.
func (p *PathTemplate) AddOperation(op *Operation) {
	if _, ok := p.Operations[op.Method]; !ok {
		p.Methods = append(p.Methods, op.Method)
	}
	p.Operations[op.Method] = op
}

// Operation returns the operation declared for method, if any.
func (p *PathTemplate) Operation(method Method) (*Operation, bool) {
	op, ok := p.Operations[method]
	return op, ok
}

// IsParamSegment reports whether a template segment is a "{name}" placeholder.
func IsParamSegment(segment string) bool {
	return len(segment) > 2 && strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}")
}
