package derive

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kolah/truffle/internal/model"
	"github.com/kolah/truffle/internal/resolve"
)

const anyType = "any"

// Declaration is one named type in a type listing.
type Declaration struct {
	Name string
	Text string
}

type typer struct {
	defs   map[string]*model.Schema
	decls  []Declaration
	taken  map[string]bool
	active map[string]string
}

// Types derives TypeScript-style declarations for schema. Every nested object
// gets its own interface named after its parent plus the PascalCased property
// key; the declaration for name itself comes last.
func Types(schema *model.Schema, defs map[string]*model.Schema, name string) []Declaration {
	t := &typer{
		defs:   defs,
		taken:  make(map[string]bool),
		active: make(map[string]string),
	}
	expr := t.expr(schema, name, 0)
	if expr != name {
		t.decls = append(t.decls, Declaration{
			Name: name,
			Text: fmt.Sprintf("type %s = %s;", name, expr),
		})
	}
	return t.decls
}

// TypeText renders Types as source text, declarations separated by a blank line.
func TypeText(schema *model.Schema, defs map[string]*model.Schema, name string) string {
	return Render(Types(schema, defs, name))
}

// Render joins declarations into source text.
func Render(decls []Declaration) string {
	texts := make([]string, len(decls))
	for i, d := range decls {
		texts[i] = d.Text
	}
	return strings.Join(texts, "\n\n")
}

func (t *typer) expr(s *model.Schema, name string, depth int) string {
	if s == nil || depth > resolve.MaxDepth {
		return anyType
	}

	if s.IsRef() {
		if declared, ok := t.active[s.Ref]; ok {
			return declared
		}
		target := resolve.Chase(s, t.defs)
		if target.IsRef() {
			return anyType
		}
		if isInterface(target) {
			declared := t.claim(name)
			t.active[s.Ref] = declared
			defer delete(t.active, s.Ref)
			return t.object(target, declared, depth+1)
		}
		t.active[s.Ref] = anyType
		defer delete(t.active, s.Ref)
		return t.expr(target, name, depth+1)
	}

	switch s.Kind {
	case model.KindPrimitive:
		return primitiveType(s)
	case model.KindArray:
		if s.Items == nil {
			return anyType + "[]"
		}
		item := t.expr(s.Items, name+"Item", depth+1)
		if strings.Contains(item, " | ") {
			item = "(" + item + ")"
		}
		return item + "[]"
	case model.KindObject:
		if !isInterface(s) {
			return "Record<string, any>"
		}
		return t.object(s, t.claim(name), depth)
	default:
		return anyType
	}
}

func (t *typer) object(s *model.Schema, name string, depth int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "interface %s {\n", name)
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		optional := ""
		if !s.IsRequired(pair.Key) {
			optional = "?"
		}
		propType := t.expr(pair.Value, nestedName(name, pair.Key), depth+1)
		fmt.Fprintf(&b, "  %s%s: %s;\n", propertyKey(pair.Key), optional, propType)
	}
	b.WriteString("}")

	t.decls = append(t.decls, Declaration{Name: name, Text: b.String()})
	return name
}

// claim reserves a unique declaration name derived from name.
func (t *typer) claim(name string) string {
	candidate := name
	for i := 2; t.taken[candidate]; i++ {
		candidate = name + strconv.Itoa(i)
	}
	t.taken[candidate] = true
	return candidate
}

func isInterface(s *model.Schema) bool {
	return s.Kind == model.KindObject && s.Properties != nil
}

func primitiveType(s *model.Schema) string {
	switch s.Type {
	case model.TypeString:
		if len(s.Constraints.Enum) == 0 {
			return "string"
		}
		members := make([]string, len(s.Constraints.Enum))
		for i, v := range s.Constraints.Enum {
			if str, ok := v.(string); ok {
				members[i] = strconv.Quote(str)
			} else {
				members[i] = fmt.Sprintf("%v", v)
			}
		}
		return strings.Join(members, " | ")
	case model.TypeNumber, model.TypeInteger:
		return "number"
	case model.TypeBoolean:
		return "boolean"
	}
	return anyType
}
