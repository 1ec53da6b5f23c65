package loader

import (
	"errors"
	"fmt"

	"github.com/kolah/truffle/internal/logging"
	"github.com/kolah/truffle/internal/model"
	"github.com/pb33f/libopenapi"
	"github.com/pb33f/libopenapi/datamodel"
	"github.com/pb33f/libopenapi/datamodel/high/base"
	v2 "github.com/pb33f/libopenapi/datamodel/high/v2"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
	"github.com/pb33f/libopenapi/index"
	"github.com/pb33f/libopenapi/orderedmap"
	"go.yaml.in/yaml/v4"
)

// Request body media types, in order of preference.
var requestMediaTypes = []string{"application/json", "application/x-www-form-urlencoded"}

// documentConfig keeps libopenapi quiet and local: no file or remote lookups,
// and no logging to stdout.
func documentConfig() *datamodel.DocumentConfiguration {
	return &datamodel.DocumentConfiguration{
		Logger: logging.Nop(),
	}
}

func newDocument(raw []byte, config *datamodel.DocumentConfiguration) (libopenapi.Document, error) {
	document, err := libopenapi.NewDocumentWithConfiguration(raw, config)
	if err != nil {
		return nil, fmt.Errorf("parsing OpenAPI document: %w", err)
	}
	return document, nil
}

// Transform builds a Spec from raw document text through libopenapi's
// high-level model. Schema references stay as Ref nodes; dereferencing is the
// resolve package's job, so the circular reference check is skipped and
// index errors about dangling pointers are tolerated. Any other build error
// means part of the document was dropped and fails the load.
func Transform(raw []byte) (*model.Spec, error) {
	config := documentConfig()
	config.SkipCircularReferenceCheck = true

	document, err := newDocument(raw, config)
	if err != nil {
		return nil, err
	}

	switch document.GetSpecInfo().SpecFormat {
	case datamodel.OAS2:
		built, err := document.BuildV2Model()
		if built == nil || extractionError(err) != nil {
			return nil, fmt.Errorf("building Swagger model: %w", err)
		}
		return transformV2(&built.Model), nil
	case datamodel.OAS3, datamodel.OAS31, datamodel.OAS32:
		built, err := document.BuildV3Model()
		if built == nil || extractionError(err) != nil {
			return nil, fmt.Errorf("building OpenAPI model: %w", err)
		}
		return transformV3(&built.Model), nil
	}
	return nil, fmt.Errorf("unsupported spec version: %q", document.GetVersion())
}

// extractionError returns the first error in a joined build error that is not
// an index or resolver complaint about references.
func extractionError(err error) error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			if found := extractionError(e); found != nil {
				return found
			}
		}
		return nil
	}
	var indexErr *index.IndexingError
	var resolveErr *index.ResolvingError
	if errors.As(err, &indexErr) || errors.As(err, &resolveErr) {
		return nil
	}
	return err
}

func transformV3(doc *v3.Document) *model.Spec {
	spec := &model.Spec{
		OpenAPI:     doc.Version,
		Info:        transformInfo(doc.Info),
		Servers:     transformServers(doc.Servers),
		Paths:       model.NewPaths(),
		Definitions: make(map[string]*model.Schema),
	}

	if doc.Components != nil {
		for name, proxy := range doc.Components.Schemas.FromOldest() {
			spec.Definitions[name] = transformSchemaProxy(proxy)
		}
	}

	if doc.Paths != nil {
		for key, item := range doc.Paths.PathItems.FromOldest() {
			spec.Paths.Set(key, transformPathV3(key, item))
		}
	}

	return spec
}

func transformInfo(info *base.Info) model.Info {
	if info == nil {
		return model.Info{}
	}
	return model.Info{
		Title:       info.Title,
		Description: info.Description,
		Version:     info.Version,
	}
}

func transformServers(servers []*v3.Server) []model.Server {
	var result []model.Server
	for _, s := range servers {
		result = append(result, model.Server{
			URL:         s.URL,
			Description: s.Description,
		})
	}
	return result
}

func transformPathV3(key string, item *v3.PathItem) *model.PathTemplate {
	tmpl := model.NewPathTemplate(key)
	shared := transformParametersV3(item.Parameters)

	methods := []struct {
		method model.Method
		op     *v3.Operation
	}{
		{model.MethodGet, item.Get},
		{model.MethodPost, item.Post},
		{model.MethodPut, item.Put},
		{model.MethodDelete, item.Delete},
		{model.MethodPatch, item.Patch},
		{model.MethodHead, item.Head},
		{model.MethodOptions, item.Options},
		{model.MethodTrace, item.Trace},
	}

	for _, m := range methods {
		if m.op == nil {
			continue
		}
		tmpl.AddOperation(transformOperationV3(m.method, key, m.op, shared))
	}
	return tmpl
}

func transformOperationV3(method model.Method, path string, o *v3.Operation, shared []model.Parameter) *model.Operation {
	op := &model.Operation{
		ID:          o.OperationId,
		Method:      method,
		Path:        path,
		Summary:     o.Summary,
		Description: o.Description,
		Tags:        o.Tags,
		Deprecated:  boolValue(o.Deprecated),
		Parameters:  mergeParameters(shared, transformParametersV3(o.Parameters)),
		Responses:   model.NewResponses(),
	}

	if o.RequestBody != nil {
		op.RequestBodyMediaType, op.RequestBody = preferredContent(o.RequestBody.Content)
	}

	if o.Responses != nil {
		for code, resp := range o.Responses.Codes.FromOldest() {
			op.Responses.Set(code, transformResponseV3(code, resp))
		}
		if o.Responses.Default != nil {
			op.Responses.Set("default", transformResponseV3("default", o.Responses.Default))
		}
	}

	return op
}

func transformParametersV3(params []*v3.Parameter) []model.Parameter {
	var result []model.Parameter
	for _, p := range params {
		if p == nil {
			continue
		}
		param := model.Parameter{
			Name:        p.Name,
			In:          model.ParameterLocation(p.In),
			Description: p.Description,
			Required:    boolValue(p.Required),
		}
		if p.Schema != nil {
			param.Schema = transformSchemaProxy(p.Schema)
		} else if p.Content != nil {
			_, param.Schema = preferredContent(p.Content)
		}
		result = append(result, param)
	}
	return result
}

func transformResponseV3(code string, resp *v3.Response) *model.Response {
	response := &model.Response{
		StatusCode:  code,
		Description: resp.Description,
	}
	response.MediaType, response.Schema = preferredContent(resp.Content)
	return response
}

// preferredContent picks a schema from a media type map: JSON first, then form
// encoding, then the first media type carrying a schema.
func preferredContent(content *orderedmap.Map[string, *v3.MediaType]) (string, *model.Schema) {
	if content == nil {
		return "", nil
	}
	for _, mt := range requestMediaTypes {
		if media := content.GetOrZero(mt); media != nil && media.Schema != nil {
			return mt, transformSchemaProxy(media.Schema)
		}
	}
	for mt, media := range content.FromOldest() {
		if media != nil && media.Schema != nil {
			return mt, transformSchemaProxy(media.Schema)
		}
	}
	return "", nil
}

// mergeParameters lets operation parameters override path-level ones with the
// same name and location.
func mergeParameters(shared, own []model.Parameter) []model.Parameter {
	if len(shared) == 0 {
		return own
	}
	var merged []model.Parameter
	for _, s := range shared {
		overridden := false
		for _, o := range own {
			if o.Name == s.Name && o.In == s.In {
				overridden = true
				break
			}
		}
		if !overridden {
			merged = append(merged, s)
		}
	}
	return append(merged, own...)
}

func transformV2(doc *v2.Swagger) *model.Spec {
	spec := &model.Spec{
		Swagger:     doc.Swagger,
		Info:        transformInfo(doc.Info),
		Host:        doc.Host,
		BasePath:    doc.BasePath,
		Schemes:     doc.Schemes,
		Paths:       model.NewPaths(),
		Definitions: make(map[string]*model.Schema),
	}

	if doc.Definitions != nil {
		for name, proxy := range doc.Definitions.Definitions.FromOldest() {
			spec.Definitions[name] = transformSchemaProxy(proxy)
		}
	}

	if doc.Paths != nil {
		for key, item := range doc.Paths.PathItems.FromOldest() {
			spec.Paths.Set(key, transformPathV2(key, item))
		}
	}

	return spec
}

func transformPathV2(key string, item *v2.PathItem) *model.PathTemplate {
	tmpl := model.NewPathTemplate(key)
	shared := transformParametersV2(item.Parameters)

	methods := []struct {
		method model.Method
		op     *v2.Operation
	}{
		{model.MethodGet, item.Get},
		{model.MethodPost, item.Post},
		{model.MethodPut, item.Put},
		{model.MethodDelete, item.Delete},
		{model.MethodPatch, item.Patch},
		{model.MethodHead, item.Head},
		{model.MethodOptions, item.Options},
	}

	for _, m := range methods {
		if m.op == nil {
			continue
		}
		tmpl.AddOperation(transformOperationV2(m.method, key, m.op, shared))
	}
	return tmpl
}

func transformOperationV2(method model.Method, path string, o *v2.Operation, shared []model.Parameter) *model.Operation {
	op := &model.Operation{
		ID:          o.OperationId,
		Method:      method,
		Path:        path,
		Summary:     o.Summary,
		Description: o.Description,
		Tags:        o.Tags,
		Deprecated:  o.Deprecated,
		Parameters:  mergeParameters(shared, transformParametersV2(o.Parameters)),
		Responses:   model.NewResponses(),
	}

	for _, p := range op.Parameters {
		if p.In == model.LocationBody && p.Schema != nil {
			op.RequestBody = p.Schema
			op.RequestBodyMediaType = "application/json"
			break
		}
	}

	if o.Responses != nil {
		for code, resp := range o.Responses.Codes.FromOldest() {
			op.Responses.Set(code, transformResponseV2(code, resp))
		}
		if o.Responses.Default != nil {
			op.Responses.Set("default", transformResponseV2("default", o.Responses.Default))
		}
	}

	return op
}

func transformParametersV2(params []*v2.Parameter) []model.Parameter {
	var result []model.Parameter
	for _, p := range params {
		if p == nil {
			continue
		}
		param := model.Parameter{
			Name:        p.Name,
			In:          model.ParameterLocation(p.In),
			Description: p.Description,
			Required:    boolValue(p.Required),
		}
		switch {
		case p.Schema != nil:
			param.Schema = transformSchemaProxy(p.Schema)
		case p.Type != "":
			param.Schema = transformSimpleParameter(p)
		}
		result = append(result, param)
	}
	return result
}

// transformSimpleParameter covers Swagger 2.0 non-body parameters, which carry
// their schema keywords inline.
func transformSimpleParameter(p *v2.Parameter) *model.Schema {
	if model.SchemaType(p.Type) == model.TypeArray {
		var minItems *int64
		if p.MinItems != nil {
			v := int64(*p.MinItems)
			minItems = &v
		}
		return model.Array(transformItems(p.Items), minItems)
	}

	c := model.Constraints{
		Format:  p.Format,
		Minimum: intToFloat(p.Minimum),
		Maximum: intToFloat(p.Maximum),
		Enum:    enumValues(p.Enum),
	}
	return simpleSchema(p.Type, c)
}

func transformItems(items *v2.Items) *model.Schema {
	if items == nil {
		return nil
	}
	if model.SchemaType(items.Type) == model.TypeArray {
		return model.Array(transformItems(items.Items), nil)
	}
	return simpleSchema(items.Type, model.Constraints{
		Format: items.Format,
		Enum:   enumValues(items.Enum),
	})
}

func transformResponseV2(code string, resp *v2.Response) *model.Response {
	response := &model.Response{
		StatusCode:  code,
		Description: resp.Description,
	}
	if resp.Schema != nil {
		response.Schema = transformSchemaProxy(resp.Schema)
	}
	return response
}

func transformSchemaProxy(proxy *base.SchemaProxy) *model.Schema {
	if proxy == nil {
		return model.Unknown()
	}
	if proxy.IsReference() {
		return model.Ref(proxy.GetReference())
	}

	s := proxy.Schema()
	if s == nil {
		return model.Unknown()
	}

	var schema *model.Schema
	if isComposed(s) {
		schema = model.Unknown()
	} else {
		schema = transformTyped(s)
	}
	schema.Description = s.Description
	return schema
}

func transformTyped(s *base.Schema) *model.Schema {
	switch typ := schemaType(s.Type); typ {
	case model.TypeString, model.TypeNumber, model.TypeInteger, model.TypeBoolean:
		return model.Primitive(typ, model.Constraints{
			Format:  s.Format,
			Minimum: s.Minimum,
			Maximum: s.Maximum,
			Enum:    enumValues(s.Enum),
		})
	case model.TypeArray:
		var items *model.Schema
		if s.Items != nil && s.Items.IsA() && s.Items.A != nil {
			items = transformSchemaProxy(s.Items.A)
		}
		return model.Array(items, s.MinItems)
	case model.TypeObject, "":
		if typ == "" && s.Properties == nil {
			return model.Unknown()
		}
		var props *model.Properties
		if s.Properties != nil {
			props = model.NewProperties()
			for name, proxy := range s.Properties.FromOldest() {
				props.Set(name, transformSchemaProxy(proxy))
			}
		}
		return model.Object(props, s.Required...)
	default:
		return model.Unknown()
	}
}

// schemaType takes the first non-null entry, which covers the 3.1 list form.
func schemaType(types []string) model.SchemaType {
	for _, t := range types {
		if t != "null" {
			return model.SchemaType(t)
		}
	}
	return ""
}

// isComposed reports schemas built with composition keywords or an
// additionalProperties schema; both fall outside what the deriver interprets.
// additionalProperties: false only closes the object and is ignored.
func isComposed(s *base.Schema) bool {
	if len(s.AllOf) > 0 || len(s.OneOf) > 0 || len(s.AnyOf) > 0 {
		return true
	}
	ap := s.AdditionalProperties
	return ap != nil && (ap.IsA() || ap.B)
}

func simpleSchema(typ string, c model.Constraints) *model.Schema {
	switch t := model.SchemaType(typ); t {
	case model.TypeString, model.TypeNumber, model.TypeInteger, model.TypeBoolean:
		return model.Primitive(t, c)
	}
	return model.Unknown()
}

func enumValues(nodes []*yaml.Node) []any {
	var out []any
	for _, n := range nodes {
		out = append(out, scalarValue(n))
	}
	return out
}

func intToFloat(v *int) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}

func boolValue(b *bool) bool {
	return b != nil && *b
}
