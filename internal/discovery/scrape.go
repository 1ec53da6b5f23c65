package discovery

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

type scrapeRule struct {
	name    string
	pattern *regexp.Regexp
}

// Rules are applied in order and their captures concatenated.
var scrapeRules = []scrapeRule{
	{"swagger-ui-bundle", regexp.MustCompile(`SwaggerUIBundle\(\s*\{[^}]*?\burl\s*:\s*["']([^"']+)["']`)},
	{"url-property", regexp.MustCompile(`\burl\s*:\s*["']([^"']+)["']`)},
	{"spec-url", regexp.MustCompile(`spec-url["']?\s*[:=]\s*["']([^"']+)["']`)},
	{"swagger-url", regexp.MustCompile(`swaggerUrl["']?\s*[:=]\s*["']([^"']+)["']`)},
	{"openapi-url", regexp.MustCompile(`openapiUrl["']?\s*[:=]\s*["']([^"']+)["']`)},
	{"json-url", regexp.MustCompile(`"url"\s*:\s*"([^"]+)"`)},
	{"swagger-path", regexp.MustCompile(`["']([^"'\s]*/swagger/[^"'\s]*)["']`)},
	{"versioned-path", regexp.MustCompile(`["']([^"'\s]*/v\d+/[^"'\s]*)["']`)},
}

var versionSegment = regexp.MustCompile(`/v\d+/`)

// ExtractSpecURLs scrapes candidate spec URLs out of an HTML page, resolves them
// against the page origin and drops duplicates, keeping first-seen order.
// Candidates ending in a bare "swagger" or "openapi" segment get ".json" appended.
func ExtractSpecURLs(html []byte, pageURL string) []string {
	origin := originOf(pageURL)
	if origin == nil {
		return nil
	}

	seen := make(map[string]bool)
	var out []string
	for _, rule := range scrapeRules {
		for _, m := range rule.pattern.FindAllSubmatch(html, -1) {
			resolved, ok := resolveCandidate(string(m[1]), origin)
			if !ok || seen[resolved] {
				continue
			}
			seen[resolved] = true
			out = append(out, resolved)
		}
	}
	return out
}

func originOf(pageURL string) *url.URL {
	u, err := url.Parse(pageURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil
	}
	return &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}
}

func resolveCandidate(raw string, origin *url.URL) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	abs := origin.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", false
	}
	if !looksLikeSpecPath(abs.Path) {
		return "", false
	}

	last := strings.ToLower(path.Base(abs.Path))
	if path.Ext(last) == "" && (last == "swagger" || last == "openapi") {
		abs.Path += ".json"
	}
	return abs.String(), true
}

// looksLikeSpecPath rejects page assets such as scripts and stylesheets.
func looksLikeSpecPath(p string) bool {
	lower := strings.ToLower(p)
	switch path.Ext(lower) {
	case ".json", ".yaml", ".yml":
		return true
	case "":
		return strings.Contains(lower, "swagger") ||
			strings.Contains(lower, "openapi") ||
			strings.Contains(lower, "api-docs") ||
			versionSegment.MatchString(lower)
	}
	return false
}
