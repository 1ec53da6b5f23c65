package session

import (
	"github.com/kolah/truffle/internal/derive"
	"github.com/kolah/truffle/internal/matcher"
	"github.com/kolah/truffle/internal/model"
	"github.com/kolah/truffle/internal/params"
)

// Request is the request being composed against the active document.
type Request struct {
	URL      string
	Method   model.Method
	Bindings []model.PathParamBinding
	Query    []model.QueryParam
}

func NewRequest(method model.Method, url string) Request {
	return Request{
		URL:      url,
		Method:   method,
		Bindings: params.Sync(url, nil),
	}
}

// WithURL returns a copy of r pointing at url, with path bindings reconciled.
func (r Request) WithURL(url string) Request {
	r.URL = url
	r.Bindings = params.Sync(url, r.Bindings)
	return r
}

// Resolved substitutes bindings and query parameters into the URL.
func (r Request) Resolved() string {
	return params.BuildURL(r.URL, r.Bindings, r.Query)
}

// Inspection is everything derived for one request. Match is nil when no
// template fits, and Match.Operation is nil when the method is undocumented.
type Inspection struct {
	Path  string
	Match *matcher.Result

	RequestMock   any
	RequestTypes  []derive.Declaration
	ResponseCode  string
	ResponseMock  any
	ResponseTypes []derive.Declaration
}

// Err reports why nothing was derived, or nil when an operation matched.
func (i *Inspection) Err() error {
	return i.Match.Err(i.Path)
}

// Inspect matches req against the active document and derives sample bodies
// and type text for the matched operation.
func (s *Session) Inspect(req Request, rnd derive.Rand, opts ...derive.MockOption) (*Inspection, error) {
	spec, err := s.Spec()
	if err != nil {
		return nil, err
	}

	base := spec.BaseURL(s.Document().OriginURL)
	path := matcher.PathFromURL(params.BuildURL(req.URL, req.Bindings, nil), base)

	ins := &Inspection{
		Path:  path,
		Match: matcher.Match(path, req.Method, spec.Paths),
	}
	if ins.Match == nil || ins.Match.Operation == nil {
		return ins, nil
	}

	op := ins.Match.Operation
	key := ins.Match.Template.Key
	if op.RequestBody != nil {
		ins.RequestMock = derive.Mock(op.RequestBody, spec.Definitions, rnd, opts...)
		ins.RequestTypes = derive.Types(op.RequestBody, spec.Definitions, derive.EndpointTypeName(string(req.Method), key, "Request"))
	}
	if resp := op.PrimaryResponse(); resp != nil {
		ins.ResponseCode = resp.StatusCode
		ins.ResponseMock = derive.Mock(resp.Schema, spec.Definitions, rnd, opts...)
		ins.ResponseTypes = derive.Types(resp.Schema, spec.Definitions, derive.EndpointTypeName(string(req.Method), key, "Response"))
	}
	return ins, nil
}
