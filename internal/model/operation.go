package model

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

type Operation struct {
	ID          string
	Method      Method
	Path        string
	Summary     string
	Description string
	Tags        []string
	Deprecated  bool
	Parameters  []Parameter

	// RequestBody is the body schema chosen by media type preference, or the
	// Swagger 2.0 "in: body" parameter schema.
	RequestBody          *Schema
	RequestBodyMediaType string

	// Responses is keyed by status code in declaration order.
	Responses *orderedmap.OrderedMap[string, *Response]
}

type Method string

const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodPatch   Method = "PATCH"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
	MethodTrace   Method = "TRACE"
)

// Methods lists the methods recognised as path item keys, in canonical order.
var Methods = []Method{
	MethodGet, MethodPost, MethodPut, MethodDelete,
	MethodPatch, MethodHead, MethodOptions, MethodTrace,
}

// ParseMethod accepts a method in any case.
func ParseMethod(s string) (Method, bool) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Methods {
		if m == known {
			return m, true
		}
	}
	return "", false
}

type ParameterLocation string

const (
	LocationPath   ParameterLocation = "path"
	LocationQuery  ParameterLocation = "query"
	LocationHeader ParameterLocation = "header"
	LocationCookie ParameterLocation = "cookie"
	LocationBody   ParameterLocation = "body"
	LocationForm   ParameterLocation = "formData"
)

type Parameter struct {
	Name        string
	In          ParameterLocation
	Description string
	Required    bool
	Schema      *Schema
}

type Response struct {
	StatusCode  string
	Description string
	MediaType   string
	Schema      *Schema
}

// NewResponses returns an empty ordered response map.
func NewResponses() *orderedmap.OrderedMap[string, *Response] {
	return orderedmap.New[string, *Response]()
}

// PrimaryResponse picks the response whose schema best describes a successful
// call: 200, then 201, then default, then the first response carrying a schema.
func (o *Operation) PrimaryResponse() *Response {
	if o.Responses == nil {
		return nil
	}
	for _, code := range []string{"200", "201", "default"} {
		if r, ok := o.Responses.Get(code); ok && r.Schema != nil {
			return r
		}
	}
	for pair := o.Responses.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.Schema != nil {
			return pair.Value
		}
	}
	return nil
}

// PathParameters returns the declared parameters located in the path.
func (o *Operation) PathParameters() []Parameter {
	var out []Parameter
	for _, p := range o.Parameters {
		if p.In == LocationPath {
			out = append(out, p)
		}
	}
	return out
}
