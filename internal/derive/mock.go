// Package derive turns resolved schemas into sample values and type text.
package derive

import (
	"math"
	"math/rand/v2"

	"github.com/kolah/truffle/internal/model"
	"github.com/kolah/truffle/internal/resolve"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// DefaultOptionalProbability is the chance an optional property appears in a mock.
const DefaultOptionalProbability = 0.7

// defaultNumber is used for numeric schemas without bounds.
const defaultNumber = 42

// Canned values for string formats.
var formatValues = map[string]string{
	"email":     "user@example.com",
	"date":      "2024-01-01",
	"date-time": "2024-01-01T00:00:00Z",
	"uuid":      "123e4567-e89b-12d3-a456-426614174000",
	"uri":       "https://example.com",
}

const placeholderString = "string"

// Rand decides optional-property inclusion. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// NewRand returns a deterministic source for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Object is the mock value produced for object schemas; it marshals to JSON in
// property declaration order.
type Object = orderedmap.OrderedMap[string, any]

type MockOption func(*mocker)

// WithOptionalProbability overrides DefaultOptionalProbability.
func WithOptionalProbability(p float64) MockOption {
	return func(m *mocker) {
		m.optional = p
	}
}

type mocker struct {
	defs     map[string]*model.Schema
	rnd      Rand
	optional float64
	active   map[string]bool
}

// Mock derives a sample value for schema. Objects become *Object, arrays []any
// with exactly one element, and unknown or unresolvable schemas nil. Required
// properties are always present; optional ones are drawn from rnd.
func Mock(schema *model.Schema, defs map[string]*model.Schema, rnd Rand, opts ...MockOption) any {
	m := &mocker{
		defs:     defs,
		rnd:      rnd,
		optional: DefaultOptionalProbability,
		active:   make(map[string]bool),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m.value(schema, 0)
}

func (m *mocker) value(s *model.Schema, depth int) any {
	if s == nil || depth > resolve.MaxDepth {
		return nil
	}

	if s.IsRef() {
		if m.active[s.Ref] {
			return nil
		}
		target := resolve.Chase(s, m.defs)
		if target.IsRef() {
			return nil
		}
		m.active[s.Ref] = true
		defer delete(m.active, s.Ref)
		return m.value(target, depth+1)
	}

	switch s.Kind {
	case model.KindPrimitive:
		return primitiveValue(s)
	case model.KindArray:
		if s.Items == nil {
			return []any{}
		}
		return []any{m.value(s.Items, depth+1)}
	case model.KindObject:
		obj := orderedmap.New[string, any]()
		if s.Properties == nil {
			return obj
		}
		for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
			if !s.IsRequired(pair.Key) && !m.include() {
				continue
			}
			obj.Set(pair.Key, m.value(pair.Value, depth+1))
		}
		return obj
	default:
		return nil
	}
}

func (m *mocker) include() bool {
	if m.rnd == nil {
		return true
	}
	return m.rnd.Float64() < m.optional
}

func primitiveValue(s *model.Schema) any {
	c := s.Constraints
	switch s.Type {
	case model.TypeString:
		if len(c.Enum) > 0 {
			return c.Enum[0]
		}
		if v, ok := formatValues[c.Format]; ok {
			return v
		}
		return placeholderString
	case model.TypeInteger:
		return int64(numberValue(c))
	case model.TypeNumber:
		return numberValue(c)
	case model.TypeBoolean:
		return true
	}
	return nil
}

func numberValue(c model.Constraints) float64 {
	switch {
	case c.Minimum != nil && c.Maximum != nil:
		return math.Floor((*c.Minimum + *c.Maximum) / 2)
	case c.Minimum != nil:
		return *c.Minimum + 1
	case c.Maximum != nil:
		return math.Max(1, *c.Maximum-1)
	default:
		return defaultNumber
	}
}
