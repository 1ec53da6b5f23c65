// Package matcher locates the declared path template and operation for a
// concrete request path.
package matcher

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/kolah/truffle/internal/model"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Param is a path parameter bound by a match.
type Param struct {
	Name  string
	Value string
}

// Result describes a matched template. Operation is nil when the template does
// not declare the requested method.
type Result struct {
	Template  *model.PathTemplate
	Operation *model.Operation
	Method    model.Method
	Params    []Param
}

// NoMatchError reports a path that fits no declared template.
type NoMatchError struct {
	Path string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no path template matches %s", e.Path)
}

// NoOperationError reports a matched template without the requested method.
type NoOperationError struct {
	Template string
	Method   model.Method
}

func (e *NoOperationError) Error() string {
	return fmt.Sprintf("no documentation for %s %s", e.Method, e.Template)
}

// Err turns the absence of a match or operation into a displayable error. r may be nil.
func (r *Result) Err(path string) error {
	if r == nil {
		return &NoMatchError{Path: path}
	}
	if r.Operation == nil {
		return &NoOperationError{Template: r.Template.Key, Method: r.Method}
	}
	return nil
}

// Match finds the template for requestPath. An exact key wins; otherwise the
// first template in declaration order whose segments fit is taken, with no
// preference between literal and parameter segments. A nil Result means no
// template fits.
func Match(requestPath string, method model.Method, templates *orderedmap.OrderedMap[string, *model.PathTemplate]) *Result {
	if templates == nil {
		return nil
	}

	tmpl, ok := templates.Get(requestPath)
	if !ok {
		segments := strings.Split(requestPath, "/")
		for pair := templates.Oldest(); pair != nil; pair = pair.Next() {
			if fits(pair.Value.Segments, segments) {
				tmpl = pair.Value
				break
			}
		}
	}
	if tmpl == nil {
		return nil
	}

	result := &Result{
		Template: tmpl,
		Method:   method,
		Params:   bind(tmpl.Segments, strings.Split(requestPath, "/")),
	}
	if op, ok := tmpl.Operation(method); ok {
		result.Operation = op
	}
	return result
}

func fits(template, request []string) bool {
	if len(template) != len(request) {
		return false
	}
	for i, seg := range template {
		if model.IsParamSegment(seg) {
			if request[i] == "" {
				return false
			}
			continue
		}
		if seg != request[i] {
			return false
		}
	}
	return true
}

func bind(template, request []string) []Param {
	var params []Param
	for i, seg := range template {
		if !model.IsParamSegment(seg) || i >= len(request) {
			continue
		}
		value := request[i]
		if value == seg {
			// unfilled placeholder
			value = ""
		} else if unescaped, err := url.PathUnescape(value); err == nil {
			value = unescaped
		}
		params = append(params, Param{Name: seg[1 : len(seg)-1], Value: value})
	}
	return params
}

// PathFromURL reduces a request URL to the path matched against templates. The
// base URL prefix is stripped when present; otherwise the origin is dropped and
// the base URL's path, if any, is stripped from the remainder. Query and
// fragment are removed and a leading slash is ensured.
func PathFromURL(requestURL, baseURL string) string {
	p := requestURL
	if baseURL != "" && strings.HasPrefix(p, baseURL) {
		p = strings.TrimPrefix(p, baseURL)
	} else {
		p = stripOrigin(p)
		basePath := strings.TrimSuffix(stripOrigin(baseURL), "/")
		if basePath != "" && (p == basePath || strings.HasPrefix(p, basePath+"/")) {
			p = strings.TrimPrefix(p, basePath)
		}
	}
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// stripOrigin drops "scheme://host" from an absolute URL.
func stripOrigin(s string) string {
	i := strings.Index(s, "://")
	if i < 0 {
		return s
	}
	rest := s[i+3:]
	if j := strings.IndexAny(rest, "/?#"); j >= 0 {
		return rest[j:]
	}
	return "/"
}
