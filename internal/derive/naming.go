package derive

import (
	"strings"
	"unicode"

	"github.com/stoewer/go-strcase"
)

// EndpointTypeName names the request or response type of an endpoint:
// method, then the path with every non-alphanumeric character removed, then suffix.
//
//	EndpointTypeName("post", "/pets/{id}", "Request") == "POSTpetsidRequest"
func EndpointTypeName(method, path, suffix string) string {
	var b strings.Builder
	b.WriteString(strings.ToUpper(method))
	for _, r := range path {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	b.WriteString(suffix)
	return b.String()
}

// nestedName appends the PascalCased property key to the enclosing type name.
func nestedName(parent, key string) string {
	suffix := strcase.UpperCamelCase(key)
	if suffix == "" || !isIdentifier(suffix) {
		suffix = "Property"
	}
	return parent + suffix
}

// propertyKey quotes keys that are not plain identifiers.
func propertyKey(key string) string {
	if isIdentifier(key) {
		return key
	}
	return `"` + strings.ReplaceAll(key, `"`, `\"`) + `"`
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}
