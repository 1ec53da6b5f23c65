// Package params keeps the path parameter bindings of a request aligned with
// the placeholders in its URL.
package params

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/kolah/truffle/internal/model"
)

var placeholderPattern = regexp.MustCompile(`\{([^}]+)\}`)

// Keys returns the distinct placeholder names in rawURL in order of first appearance.
func Keys(rawURL string) []string {
	var keys []string
	seen := make(map[string]bool)
	for _, m := range placeholderPattern.FindAllStringSubmatch(rawURL, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			keys = append(keys, m[1])
		}
	}
	return keys
}

// Sync recomputes the binding list for rawURL. Bindings whose key still occurs
// are carried over unchanged, new keys get an empty enabled binding, and keys
// no longer in the URL are dropped. Order follows the URL.
func Sync(rawURL string, prior []model.PathParamBinding) []model.PathParamBinding {
	byKey := make(map[string]model.PathParamBinding, len(prior))
	for _, b := range prior {
		if _, dup := byKey[b.Key]; !dup {
			byKey[b.Key] = b
		}
	}

	keys := Keys(rawURL)
	out := make([]model.PathParamBinding, 0, len(keys))
	for _, key := range keys {
		if b, ok := byKey[key]; ok {
			out = append(out, b)
			continue
		}
		out = append(out, model.PathParamBinding{
			ID:      uuid.NewString(),
			Key:     key,
			Enabled: true,
		})
	}
	return out
}

// BuildURL substitutes enabled, non-empty bindings into their placeholders and
// appends enabled query parameters that have both a key and a value.
func BuildURL(rawURL string, bindings []model.PathParamBinding, query []model.QueryParam) string {
	out := rawURL
	for _, b := range bindings {
		if !b.Enabled || strings.TrimSpace(b.Value) == "" {
			continue
		}
		out = strings.ReplaceAll(out, "{"+b.Key+"}", url.PathEscape(b.Value))
	}

	var pairs []string
	for _, q := range query {
		if !q.Enabled || strings.TrimSpace(q.Key) == "" || strings.TrimSpace(q.Value) == "" {
			continue
		}
		pairs = append(pairs, url.QueryEscape(q.Key)+"="+url.QueryEscape(q.Value))
	}
	if len(pairs) == 0 {
		return out
	}

	sep := "?"
	if strings.Contains(out, "?") {
		sep = "&"
	}
	return out + sep + strings.Join(pairs, "&")
}
