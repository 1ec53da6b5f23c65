package discovery

import (
	"bytes"
	"errors"
	"strings"

	"github.com/kolah/truffle/internal/loader"
)

// HTML pages containing any of these (case-insensitively) pass the relay predicate.
var swaggerUIMarkers = [][]byte{
	[]byte("swagger"),
	[]byte("openapi"),
}

// CheckSpec is the content predicate shared with the relay. HTML passes when it
// mentions a Swagger/OpenAPI marker; other bodies must parse under the format
// implied by contentType and carry an "openapi" or "swagger" key.
func CheckSpec(body []byte, contentType string) error {
	if isHTML(contentType) {
		if looksLikeSwaggerUI(body) {
			return nil
		}
		return errors.New("HTML content does not appear to be a Swagger UI page")
	}

	root, err := loader.Parse(body, loader.Classify(contentType, ""))
	if err != nil {
		return err
	}
	if !loader.HasSpecMarker(root) {
		return errors.New("content does not appear to be a valid OpenAPI/Swagger specification")
	}
	return nil
}

// IsValidSpec reports whether CheckSpec accepts body.
func IsValidSpec(body []byte, contentType string) bool {
	return CheckSpec(body, contentType) == nil
}

func isHTML(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "text/html")
}

func looksLikeSwaggerUI(body []byte) bool {
	lower := bytes.ToLower(body)
	for _, marker := range swaggerUIMarkers {
		if bytes.Contains(lower, marker) {
			return true
		}
	}
	return false
}
