package derive

import (
	"encoding/json"
	"testing"

	"github.com/kolah/truffle/internal/model"
	"github.com/stretchr/testify/require"
)

// fixedRand always draws the same value.
type fixedRand float64

func (r fixedRand) Float64() float64 { return float64(r) }

func ptr(v float64) *float64 { return &v }

func str(format string, enum ...any) *model.Schema {
	return model.Primitive(model.TypeString, model.Constraints{Format: format, Enum: enum})
}

func petSchema() *model.Schema {
	props := model.NewProperties()
	props.Set("id", model.Primitive(model.TypeInteger, model.Constraints{}))
	props.Set("name", str(""))
	return model.Object(props, "id")
}

func TestMockPrimitives(t *testing.T) {
	tests := []struct {
		name     string
		schema   *model.Schema
		expected any
	}{
		{"plain string", str(""), "string"},
		{"enum takes first", str("", "available", "sold"), "available"},
		{"enum beats format", str("email", "a@b.c"), "a@b.c"},
		{"email", str("email"), "user@example.com"},
		{"date", str("date"), "2024-01-01"},
		{"date-time", str("date-time"), "2024-01-01T00:00:00Z"},
		{"uuid", str("uuid"), "123e4567-e89b-12d3-a456-426614174000"},
		{"uri", str("uri"), "https://example.com"},
		{"unknown format", str("hostname"), "string"},
		{"boolean", model.Primitive(model.TypeBoolean, model.Constraints{}), true},
		{"number default", model.Primitive(model.TypeNumber, model.Constraints{}), 42.0},
		{"integer default", model.Primitive(model.TypeInteger, model.Constraints{}), int64(42)},
		{"floored midpoint", model.Primitive(model.TypeInteger, model.Constraints{Minimum: ptr(10), Maximum: ptr(21)}), int64(15)},
		{"minimum only", model.Primitive(model.TypeNumber, model.Constraints{Minimum: ptr(5)}), 6.0},
		{"maximum only", model.Primitive(model.TypeNumber, model.Constraints{Maximum: ptr(10)}), 9.0},
		{"small maximum", model.Primitive(model.TypeNumber, model.Constraints{Maximum: ptr(0.5)}), 1.0},
		{"unknown", model.Unknown(), nil},
		{"nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Mock(tt.schema, nil, nil))
		})
	}
}

func TestMockArrays(t *testing.T) {
	minItems := int64(3)
	got := Mock(model.Array(str("uuid"), &minItems), nil, nil)
	require.Equal(t, []any{"123e4567-e89b-12d3-a456-426614174000"}, got, "always exactly one element")

	require.Equal(t, []any{}, Mock(model.Array(nil, nil), nil, nil))
}

func TestMockObjectKeepsOrder(t *testing.T) {
	props := model.NewProperties()
	props.Set("zeta", str(""))
	props.Set("alpha", model.Primitive(model.TypeBoolean, model.Constraints{}))
	props.Set("tags", model.Array(str(""), nil))

	out, err := json.Marshal(Mock(model.Object(props), nil, nil))
	require.NoError(t, err)
	require.Equal(t, `{"zeta":"string","alpha":true,"tags":["string"]}`, string(out))
}

func TestMockOpenObject(t *testing.T) {
	out, err := json.Marshal(Mock(model.Object(nil), nil, nil))
	require.NoError(t, err)
	require.Equal(t, `{}`, string(out))
}

func TestMockOptionalDraw(t *testing.T) {
	t.Run("below probability includes", func(t *testing.T) {
		obj := Mock(petSchema(), nil, fixedRand(0.1)).(*Object)
		_, ok := obj.Get("name")
		require.True(t, ok)
	})

	t.Run("above probability excludes", func(t *testing.T) {
		obj := Mock(petSchema(), nil, fixedRand(0.9)).(*Object)
		_, ok := obj.Get("name")
		require.False(t, ok)
		require.Equal(t, 1, obj.Len())
	})

	t.Run("probability option", func(t *testing.T) {
		obj := Mock(petSchema(), nil, fixedRand(0.9), WithOptionalProbability(1)).(*Object)
		_, ok := obj.Get("name")
		require.True(t, ok)
	})
}

func TestMockRequiredAlwaysPresent(t *testing.T) {
	rnd := NewRand(7)
	withName, withoutName := 0, 0

	for range 200 {
		obj := Mock(petSchema(), nil, rnd).(*Object)

		id, ok := obj.Get("id")
		require.True(t, ok)
		require.IsType(t, int64(0), id)

		if _, ok := obj.Get("name"); ok {
			withName++
		} else {
			withoutName++
		}
	}

	require.Positive(t, withName)
	require.Positive(t, withoutName)
}

func TestMockSeedIsDeterministic(t *testing.T) {
	draw := func() string {
		rnd := NewRand(99)
		var out []byte
		for range 10 {
			b, err := json.Marshal(Mock(petSchema(), nil, rnd))
			require.NoError(t, err)
			out = append(out, b...)
		}
		return string(out)
	}
	require.Equal(t, draw(), draw())
}

func TestMockRefs(t *testing.T) {
	nodeProps := model.NewProperties()
	nodeProps.Set("name", str(""))
	nodeProps.Set("child", model.Ref("#/components/schemas/Node"))

	defs := map[string]*model.Schema{
		"Pet":  petSchema(),
		"Node": model.Object(nodeProps, "name", "child"),
	}

	t.Run("resolved through definitions", func(t *testing.T) {
		out, err := json.Marshal(Mock(model.Ref("#/components/schemas/Pet"), defs, nil))
		require.NoError(t, err)
		require.Equal(t, `{"id":42,"name":"string"}`, string(out))
	})

	t.Run("cycle ends in null", func(t *testing.T) {
		out, err := json.Marshal(Mock(model.Ref("#/components/schemas/Node"), defs, nil))
		require.NoError(t, err)
		require.Equal(t, `{"name":"string","child":null}`, string(out))
	})

	t.Run("dangling is null", func(t *testing.T) {
		require.Nil(t, Mock(model.Ref("#/components/schemas/Missing"), defs, nil))
	})
}
