package loader

import (
	"strings"
	"testing"

	"github.com/kolah/truffle/internal/model"
	"github.com/stretchr/testify/require"
)

const orderedJSON = `{
  "openapi": "3.0.0",
  "info": {
    "version": "1.0",
    "title": "Zoo"
  },
  "paths": {
    "/zebras": {
      "get": {
        "responses": {
          "200": {
            "description": "OK"
          }
        }
      }
    },
    "/apes": {}
  },
  "x-count": 3,
  "x-flag": true
}
`

func TestConvertRoundTrip(t *testing.T) {
	doc, err := NewDocument([]byte(orderedJSON), model.FormatJSON, "")
	require.NoError(t, err)

	yamlText, err := Convert(doc, model.FormatYAML)
	require.NoError(t, err)
	require.Contains(t, yamlText, "openapi: 3.0.0\n")
	require.Less(t, strings.Index(yamlText, "/zebras"), strings.Index(yamlText, "/apes"), "key order is kept")

	yamlDoc, err := NewDocument([]byte(yamlText), model.FormatYAML, "")
	require.NoError(t, err)
	require.Equal(t, "1.0", yamlDoc.Version, "string versions stay strings")

	jsonText, err := Convert(yamlDoc, model.FormatJSON)
	require.NoError(t, err)
	require.Equal(t, orderedJSON, jsonText)
}

func TestConvertInvalidSource(t *testing.T) {
	_, err := Convert(&model.SpecDocument{RawText: "{", Format: model.FormatJSON}, model.FormatYAML)
	require.ErrorContains(t, err, "invalid JSON")
}
