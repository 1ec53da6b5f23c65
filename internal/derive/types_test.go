package derive

import (
	"testing"

	"github.com/kolah/truffle/internal/model"
	"github.com/stretchr/testify/require"
)

func TestTypeTextObject(t *testing.T) {
	owner := model.NewProperties()
	owner.Set("email", str("email"))

	props := model.NewProperties()
	props.Set("id", model.Primitive(model.TypeInteger, model.Constraints{}))
	props.Set("name", str(""))
	props.Set("owner", model.Object(owner, "email"))
	props.Set("tags", model.Array(str(""), nil))
	props.Set("status", str("", "available", "sold"))
	props.Set("x-rate", model.Primitive(model.TypeNumber, model.Constraints{}))

	got := TypeText(model.Object(props, "id"), nil, "POSTpetsRequest")

	require.Equal(t, `interface POSTpetsRequestOwner {
  email: string;
}

interface POSTpetsRequest {
  id: number;
  name?: string;
  owner?: POSTpetsRequestOwner;
  tags?: string[];
  status?: "available" | "sold";
  "x-rate"?: number;
}`, got)
}

func TestTypeTextAliases(t *testing.T) {
	tests := []struct {
		name     string
		schema   *model.Schema
		expected string
	}{
		{"unknown", model.Unknown(), "type T = any;"},
		{"nil", nil, "type T = any;"},
		{"open object", model.Object(nil), "type T = Record<string, any>;"},
		{"boolean", model.Primitive(model.TypeBoolean, model.Constraints{}), "type T = boolean;"},
		{"enum array", model.Array(str("", "a", "b"), nil), `type T = ("a" | "b")[];`},
		{"untyped array", model.Array(nil, nil), "type T = any[];"},
		{"dangling ref", model.Ref("#/definitions/Nope"), "type T = any;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, TypeText(tt.schema, nil, "T"))
		})
	}
}

func TestTypesArrayOfRef(t *testing.T) {
	defs := map[string]*model.Schema{"Pet": petSchema()}

	decls := Types(model.Array(model.Ref("#/components/schemas/Pet"), nil), defs, "GETpetsResponse")
	require.Len(t, decls, 2)
	require.Equal(t, "GETpetsResponseItem", decls[0].Name)
	require.Equal(t, "interface GETpetsResponseItem {\n  id: number;\n  name?: string;\n}", decls[0].Text)
	require.Equal(t, "GETpetsResponse", decls[1].Name)
	require.Equal(t, "type GETpetsResponse = GETpetsResponseItem[];", decls[1].Text)
}

func TestTypesRecursiveRef(t *testing.T) {
	props := model.NewProperties()
	props.Set("children", model.Array(model.Ref("#/definitions/Node"), nil))
	defs := map[string]*model.Schema{"Node": model.Object(props)}

	got := TypeText(model.Ref("#/definitions/Node"), defs, "Tree")
	require.Equal(t, "interface Tree {\n  children?: Tree[];\n}", got)
}

func TestTypesUniqueNames(t *testing.T) {
	inner := model.NewProperties()
	inner.Set("v", str(""))

	props := model.NewProperties()
	props.Set("a", model.Object(inner))
	props.Set("A", model.Object(inner))

	decls := Types(model.Object(props), nil, "Root")
	var names []string
	for _, d := range decls {
		names = append(names, d.Name)
	}
	require.Equal(t, []string{"RootA", "RootA2", "Root"}, names)
}

func TestEndpointTypeName(t *testing.T) {
	require.Equal(t, "POSTpetsidRequest", EndpointTypeName("post", "/pets/{id}", "Request"))
	require.Equal(t, "GETv1usersuseridResponse", EndpointTypeName("GET", "/v1/users/{user_id}", "Response"))
}

func TestNestedName(t *testing.T) {
	require.Equal(t, "PetOwnerAddress", nestedName("Pet", "owner_address"))
	require.Equal(t, "PetProperty", nestedName("Pet", "---"))
}
