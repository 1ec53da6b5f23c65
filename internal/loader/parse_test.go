package loader

import (
	"errors"
	"testing"

	"github.com/kolah/truffle/internal/model"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		format  model.Format
		wantErr string
	}{
		{"json object", `{"openapi": "3.0.0", "paths": {}}`, model.FormatJSON, ""},
		{"yaml object", "openapi: 3.0.0\npaths: {}\n", model.FormatYAML, ""},
		{"json with trailing comma", `{"openapi": "3.0.0",}`, model.FormatJSON, "invalid JSON"},
		{"json trailing data", `{"openapi": "3.0.0"} {}`, model.FormatJSON, "unexpected data after top-level value"},
		{"empty json", ``, model.FormatJSON, "empty document"},
		{"yaml given as json", "openapi: 3.0.0\n", model.FormatJSON, "invalid JSON"},
		{"broken yaml", "openapi: [3.0.0\n", model.FormatYAML, "invalid YAML"},
		{"empty yaml", "", model.FormatYAML, "empty document"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := Parse([]byte(tt.data), tt.format)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				var perr *ParseError
				require.True(t, errors.As(err, &perr))
				return
			}
			require.NoError(t, err)
			require.Equal(t, yaml.MappingNode, root.Kind)
		})
	}
}

func TestParseJSONKeepsOrderAndTypes(t *testing.T) {
	root, err := Parse([]byte(`{"z": 1, "a": 2.5, "m": [true, null, "x"]}`), model.FormatJSON)
	require.NoError(t, err)

	var keys []string
	for _, p := range mapPairs(root) {
		keys = append(keys, p.key)
	}
	require.Equal(t, []string{"z", "a", "m"}, keys)

	require.Equal(t, "!!int", mapGet(root, "z").Tag)
	require.Equal(t, "!!float", mapGet(root, "a").Tag)

	items := seqItems(mapGet(root, "m"))
	require.Len(t, items, 3)
	require.Equal(t, true, scalarValue(items[0]))
	require.Nil(t, scalarValue(items[1]))
	require.Equal(t, "x", scalarValue(items[2]))
}

func TestHasSpecMarker(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		expected bool
	}{
		{"openapi", `{"openapi": "3.1.0"}`, true},
		{"swagger", `{"swagger": "2.0"}`, true},
		{"neither", `{"info": {"title": "x"}}`, false},
		{"array root", `[{"openapi": "3.1.0"}]`, false},
		{"nested marker only", `{"x": {"openapi": "3.1.0"}}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := Parse([]byte(tt.data), model.FormatJSON)
			require.NoError(t, err)
			require.Equal(t, tt.expected, HasSpecMarker(root))
		})
	}
}
