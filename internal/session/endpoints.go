package session

import "github.com/kolah/truffle/internal/model"

const defaultTag = "Default"

type Endpoint struct {
	Method      model.Method
	Path        string
	OperationID string
	Summary     string
	Deprecated  bool
}

// EndpointGroup collects endpoints sharing a first tag.
type EndpointGroup struct {
	Tag       string
	Endpoints []Endpoint
}

// ListEndpoints groups every operation by its first tag ("Default" when
// untagged). Groups keep first-seen order; methods within a path follow
// model.Methods.
func ListEndpoints(spec *model.Spec) []EndpointGroup {
	if spec == nil || spec.Paths == nil {
		return nil
	}

	var groups []EndpointGroup
	index := make(map[string]int)
	for pair := spec.Paths.Oldest(); pair != nil; pair = pair.Next() {
		tmpl := pair.Value
		for _, m := range model.Methods {
			op, ok := tmpl.Operation(m)
			if !ok {
				continue
			}
			tag := defaultTag
			if len(op.Tags) > 0 && op.Tags[0] != "" {
				tag = op.Tags[0]
			}
			i, ok := index[tag]
			if !ok {
				i = len(groups)
				index[tag] = i
				groups = append(groups, EndpointGroup{Tag: tag})
			}
			groups[i].Endpoints = append(groups[i].Endpoints, Endpoint{
				Method:      m,
				Path:        tmpl.Key,
				OperationID: op.ID,
				Summary:     op.Summary,
				Deprecated:  op.Deprecated,
			})
		}
	}
	return groups
}
