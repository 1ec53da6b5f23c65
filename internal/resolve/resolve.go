// Package resolve dereferences $ref schema nodes against a document's shared
// definitions (components.schemas or definitions).
package resolve

import (
	"fmt"
	"strings"

	"github.com/kolah/truffle/internal/model"
)

// MaxDepth bounds ref chains and recursive walks over possibly cyclic schema graphs.
const MaxDepth = 20

// structural segments name the definitions container, not a schema.
var structural = map[string]bool{
	"components":  true,
	"schemas":     true,
	"definitions": true,
}

// DanglingRefError reports a pointer that names nothing in the definitions.
// Resolve never returns it; Lookup does.
type DanglingRefError struct {
	Pointer string
	Segment string
}

func (e *DanglingRefError) Error() string {
	if e.Segment == "" {
		return fmt.Sprintf("dangling reference %s", e.Pointer)
	}
	return fmt.Sprintf("dangling reference %s: no %q", e.Pointer, e.Segment)
}

// Resolve follows exactly one hop. Non-ref nodes are returned unchanged, and a
// pointer that cannot be followed yields node itself.
func Resolve(node *model.Schema, defs map[string]*model.Schema) *model.Schema {
	if !node.IsRef() {
		return node
	}
	target, err := Lookup(node.Ref, defs)
	if err != nil {
		return node
	}
	return target
}

// Chase calls Resolve until a non-ref node appears, a hop makes no progress, or
// MaxDepth hops were taken. The result may still be a ref.
func Chase(node *model.Schema, defs map[string]*model.Schema) *model.Schema {
	for range MaxDepth {
		if !node.IsRef() {
			return node
		}
		next := Resolve(node, defs)
		if next == node {
			return node
		}
		node = next
	}
	return node
}

// Lookup walks a local pointer through defs. After the definition name it can
// descend through "properties/<name>" and "items".
func Lookup(pointer string, defs map[string]*model.Schema) (*model.Schema, error) {
	if !strings.HasPrefix(pointer, "#/") {
		return nil, &DanglingRefError{Pointer: pointer}
	}
	parts := strings.Split(strings.TrimPrefix(pointer, "#/"), "/")

	var cur *model.Schema
	for i := 0; i < len(parts); i++ {
		part := unescape(parts[i])
		if cur == nil {
			if structural[part] {
				continue
			}
			s, ok := defs[part]
			if !ok || s == nil {
				return nil, &DanglingRefError{Pointer: pointer, Segment: part}
			}
			cur = s
			continue
		}

		switch {
		case part == "properties" && cur.Kind == model.KindObject && cur.Properties != nil && i+1 < len(parts):
			i++
			name := unescape(parts[i])
			s, ok := cur.Properties.Get(name)
			if !ok || s == nil {
				return nil, &DanglingRefError{Pointer: pointer, Segment: name}
			}
			cur = s
		case part == "items" && cur.Kind == model.KindArray && cur.Items != nil:
			cur = cur.Items
		default:
			return nil, &DanglingRefError{Pointer: pointer, Segment: part}
		}
	}

	if cur == nil {
		return nil, &DanglingRefError{Pointer: pointer}
	}
	return cur, nil
}

func unescape(segment string) string {
	return strings.ReplaceAll(strings.ReplaceAll(segment, "~1", "/"), "~0", "~")
}
