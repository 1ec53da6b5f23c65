package discovery

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractSpecURLs(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		pageURL  string
		expected []string
	}{
		{
			name:     "swagger ui bundle",
			html:     `SwaggerUIBundle({ dom_id: "#ui", url: "https://petstore.swagger.io/v2/swagger.json" })`,
			pageURL:  "https://petstore.swagger.io/",
			expected: []string{"https://petstore.swagger.io/v2/swagger.json"},
		},
		{
			name:     "root relative resolved against page origin",
			html:     `<script>const cfg = { url: '/api/openapi.yaml' }</script>`,
			pageURL:  "https://docs.example.com/reference/index.html",
			expected: []string{"https://docs.example.com/api/openapi.yaml"},
		},
		{
			name:     "relative resolved against origin root",
			html:     `url: "specs/api.json"`,
			pageURL:  "https://docs.example.com/reference/",
			expected: []string{"https://docs.example.com/specs/api.json"},
		},
		{
			name:     "redoc spec-url attribute",
			html:     `<redoc spec-url="/openapi"></redoc>`,
			pageURL:  "https://api.example.com/docs",
			expected: []string{"https://api.example.com/openapi.json"},
		},
		{
			name:     "swaggerUrl and openapiUrl",
			html:     `var swaggerUrl = "/swagger"; var openapiUrl = "/v1/openapi.yml";`,
			pageURL:  "http://localhost:8080/",
			expected: []string{"http://localhost:8080/swagger.json", "http://localhost:8080/v1/openapi.yml"},
		},
		{
			name:     "json config",
			html:     `{"configUrl": null, "url": "/api-docs"}`,
			pageURL:  "https://example.com/ui",
			expected: []string{"https://example.com/api-docs"},
		},
		{
			name:     "swagger path literal",
			html:     `fetch("/static/swagger/service.yaml")`,
			pageURL:  "https://example.com",
			expected: []string{"https://example.com/static/swagger/service.yaml"},
		},
		{
			name: "assets are skipped and duplicates collapse",
			html: `<link href="/swagger/swagger-ui.css"><script src="/swagger/swagger-ui-bundle.js"></script>
<script>SwaggerUIBundle({url: "/swagger/v1/swagger.json"})</script>`,
			pageURL:  "https://example.com/swagger/index.html",
			expected: []string{"https://example.com/swagger/v1/swagger.json"},
		},
		{
			name:     "non http schemes dropped",
			html:     `url: "javascript:void(0)"`,
			pageURL:  "https://example.com",
			expected: nil,
		},
		{
			name:     "nothing found",
			html:     `<html><body>Hello</body></html>`,
			pageURL:  "https://example.com",
			expected: nil,
		},
		{
			name:     "page url not absolute",
			html:     `url: "/openapi.json"`,
			pageURL:  "/relative",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, ExtractSpecURLs([]byte(tt.html), tt.pageURL))
		})
	}
}
