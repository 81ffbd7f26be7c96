package params

// Request holds the decoded sources of one inbound request. It memoizes the
// parsed JSON body, so it must not be shared between requests.
type Request struct {
	body  []byte
	files *Mapping
	form  *Mapping
	query *Mapping

	json *Mapping
}

// NewRequest binds the raw body and the already decoded files, form and
// query sources. Nil sources are treated as empty.
func NewRequest(body []byte, files, form, query *Mapping) *Request {
	return &Request{
		body:  body,
		files: orEmpty(files),
		form:  orEmpty(form),
		query: orEmpty(query),
	}
}

func orEmpty(m *Mapping) *Mapping {
	if m == nil {
		return NewMapping()
	}
	return m
}

// Body returns the raw request body.
func (r *Request) Body() []byte { return r.body }

// JSON returns the body parsed as a JSON object, decoding it on first use.
func (r *Request) JSON() *Mapping {
	if r.json == nil {
		r.json = DecodeJSONBody(r.body)
	}
	return r.json
}

func (r *Request) Files() *Mapping { return r.files }
func (r *Request) Form() *Mapping  { return r.form }
func (r *Request) Query() *Mapping { return r.query }

// Sources lists the request sources from lowest to highest precedence:
// JSON body, uploaded files, form fields, query fields.
func (r *Request) Sources() []*Mapping {
	return []*Mapping{r.JSON(), r.files, r.form, r.query}
}

// Object resolves all sources into one nested mapping. Entries of base, when
// given, are copied first and have the lowest precedence.
func (r *Request) Object(opts Options, base ...*Mapping) (*Mapping, error) {
	sources := make([]*Mapping, 0, len(base)+4)
	sources = append(sources, base...)
	sources = append(sources, r.Sources()...)
	return Resolve(sources, opts)
}

// Field looks name up in every source and returns the value of the highest
// precedence source holding it, or def when none does. A non-nil cast is
// applied to a present, non-null value; its failure is a CoercionFailure.
func (r *Request) Field(name string, def Value, cast Cast) (Value, error) {
	v, ok := r.Lookup(name)
	if !ok {
		v = def
	}
	if cast == nil || v.IsNull() {
		return v, nil
	}
	out, err := cast(v)
	if err != nil {
		return Value{}, &Error{Kind: CoercionFailure, Path: name, Err: err}
	}
	return out, nil
}

// WithoutQuery returns a view of r whose query source lacks names. The other
// sources and the parsed JSON body are shared with r.
func (r *Request) WithoutQuery(names ...string) *Request {
	q := r.query.Clone()
	for _, name := range names {
		q.Delete(name)
	}
	return &Request{body: r.body, files: r.files, form: r.form, query: q, json: r.JSON()}
}

// Lookup reports the highest precedence value of name across the sources.
func (r *Request) Lookup(name string) (Value, bool) {
	var (
		out   Value
		found bool
	)
	for _, src := range r.Sources() {
		if v, ok := src.Get(name); ok {
			out, found = v, true
		}
	}
	return out, found
}
