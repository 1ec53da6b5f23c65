package matcher

import (
	"testing"

	"github.com/kolah/truffle/internal/model"
	"github.com/stretchr/testify/require"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

type route struct {
	key     string
	methods []model.Method
}

func templates(routes ...route) *orderedmap.OrderedMap[string, *model.PathTemplate] {
	m := orderedmap.New[string, *model.PathTemplate]()
	for _, r := range routes {
		tmpl := model.NewPathTemplate(r.key)
		for _, method := range r.methods {
			tmpl.AddOperation(&model.Operation{Method: method, Path: r.key, ID: string(method) + " " + r.key})
		}
		m.Set(r.key, tmpl)
	}
	return m
}

func TestMatch(t *testing.T) {
	paths := templates(
		route{"/pets", []model.Method{model.MethodGet, model.MethodPost}},
		route{"/pets/{id}", []model.Method{model.MethodGet}},
		route{"/users/{id}", []model.Method{model.MethodGet}},
		route{"/users/me", []model.Method{model.MethodGet}},
		route{"/users/{userId}/posts/{postId}", []model.Method{model.MethodGet}},
	)

	tests := []struct {
		name         string
		path         string
		method       model.Method
		wantTemplate string
		wantParams   []Param
	}{
		{"literal", "/pets", model.MethodPost, "/pets", nil},
		{"parameter", "/pets/42", model.MethodGet, "/pets/{id}", []Param{{"id", "42"}}},
		{"exact template key", "/pets/{id}", model.MethodGet, "/pets/{id}", []Param{{"id", ""}}},
		{"exact key beats earlier template", "/users/me", model.MethodGet, "/users/me", nil},
		{"two parameters", "/users/7/posts/99", model.MethodGet, "/users/{userId}/posts/{postId}", []Param{{"userId", "7"}, {"postId", "99"}}},
		{"escaped value", "/pets/a%20b", model.MethodGet, "/pets/{id}", []Param{{"id", "a b"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Match(tt.path, tt.method, paths)
			require.NotNil(t, res)
			require.Equal(t, tt.wantTemplate, res.Template.Key)
			require.Equal(t, tt.wantParams, res.Params)
			require.NotNil(t, res.Operation)
			require.NoError(t, res.Err(tt.path))
		})
	}
}

func TestMatchFirstDeclaredWins(t *testing.T) {
	paths := templates(
		route{"/files/{name}/raw", []model.Method{model.MethodGet}},
		route{"/files/latest/{format}", []model.Method{model.MethodGet}},
	)
	res := Match("/files/latest/raw", model.MethodGet, paths)
	require.Equal(t, "/files/{name}/raw", res.Template.Key)
	require.Equal(t, []Param{{"name", "latest"}}, res.Params)
}

func TestMatchNone(t *testing.T) {
	paths := templates(
		route{"/pets/{id}", []model.Method{model.MethodGet}},
	)

	tests := []struct {
		name string
		path string
	}{
		{"segment count differs", "/pets/1/owners"},
		{"literal differs", "/cats/1"},
		{"empty parameter", "/pets/"},
		{"case sensitive", "/Pets/1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Match(tt.path, model.MethodGet, paths)
			require.Nil(t, res)

			var noMatch *NoMatchError
			require.ErrorAs(t, res.Err(tt.path), &noMatch)
			require.Equal(t, tt.path, noMatch.Path)
		})
	}

	require.Nil(t, Match("/pets/1", model.MethodGet, nil))
}

func TestMatchNoOperation(t *testing.T) {
	paths := templates(route{"/pets/{id}", []model.Method{model.MethodGet}})

	res := Match("/pets/1", model.MethodDelete, paths)
	require.NotNil(t, res)
	require.Equal(t, "/pets/{id}", res.Template.Key)
	require.Nil(t, res.Operation)

	var noOp *NoOperationError
	require.ErrorAs(t, res.Err("/pets/1"), &noOp)
	require.Equal(t, model.MethodDelete, noOp.Method)
	require.Equal(t, "no documentation for DELETE /pets/{id}", noOp.Error())
}

func TestPathFromURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		base     string
		expected string
	}{
		{"strips base", "https://api.example.com/v1/pets/42", "https://api.example.com/v1", "/pets/42"},
		{"strips query and fragment", "https://api.example.com/v1/pets?limit=1#top", "https://api.example.com/v1", "/pets"},
		{"other host keeps path", "http://localhost:8080/pets/{id}", "https://api.example.com", "/pets/{id}"},
		{"bare origin", "https://api.example.com", "", "/"},
		{"relative path", "pets/1", "", "/pets/1"},
		{"base equals url", "https://api.example.com/v1", "https://api.example.com/v1", "/"},
		{"relative base", "https://api.example.com/v1/pets/42", "/v1", "/pets/42"},
		{"base path on another host", "http://localhost:8080/v1/pets", "https://api.example.com/v1", "/pets"},
		{"base path segment boundary", "http://localhost/v10/pets", "/v1", "/v10/pets"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, PathFromURL(tt.url, tt.base))
		})
	}
}
