package model

import (
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind tags the variant held by a Schema.
type Kind int

const (
	KindUnknown Kind = iota
	KindRef
	KindPrimitive
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindRef:
		return "ref"
	case KindPrimitive:
		return "primitive"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

type SchemaType string

const (
	TypeString  SchemaType = "string"
	TypeNumber  SchemaType = "number"
	TypeInteger SchemaType = "integer"
	TypeBoolean SchemaType = "boolean"
	TypeArray   SchemaType = "array"
	TypeObject  SchemaType = "object"
)

// Constraints apply to primitive schemas only.
type Constraints struct {
	Enum    []any
	Format  string
	Minimum *float64
	Maximum *float64
}

// Properties keeps object properties in declaration order.
type Properties = orderedmap.OrderedMap[string, *Schema]

// Schema is a tagged variant: exactly the fields belonging to Kind are meaningful.
//
//	KindRef       Ref
//	KindPrimitive Type, Constraints
//	KindArray     Items, MinItems
//	KindObject    Properties (nil means an open key-value map), Required
//	KindUnknown   nothing
type Schema struct {
	Kind        Kind
	Description string

	Ref string

	Type        SchemaType
	Constraints Constraints

	Items    *Schema
	MinItems *int64

	Properties *Properties
	Required   []string
}

func Ref(pointer string) *Schema {
	return &Schema{Kind: KindRef, Ref: pointer}
}

func Primitive(t SchemaType, c Constraints) *Schema {
	return &Schema{Kind: KindPrimitive, Type: t, Constraints: c}
}

func Array(items *Schema, minItems *int64) *Schema {
	return &Schema{Kind: KindArray, Items: items, MinItems: minItems}
}

// Object builds an object schema. A nil props yields an open map.
func Object(props *Properties, required ...string) *Schema {
	return &Schema{Kind: KindObject, Properties: props, Required: required}
}

func Unknown() *Schema {
	return &Schema{Kind: KindUnknown}
}

// NewProperties returns an empty ordered property map.
func NewProperties() *Properties {
	return orderedmap.New[string, *Schema]()
}

// IsRequired reports whether name is listed in the object's required set.
func (s *Schema) IsRequired(name string) bool {
	return slices.Contains(s.Required, name)
}

// IsRef reports whether s still needs dereferencing. A nil schema is not a ref.
func (s *Schema) IsRef() bool {
	return s != nil && s.Kind == KindRef
}
