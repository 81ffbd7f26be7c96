package ginparams

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/reqshape/reqshape/pkg/params"
)

// DefaultMaxBodyBytes bounds the request body when neither the caller nor
// Middleware sets a limit.
const DefaultMaxBodyBytes int64 = 8 << 20

const (
	contextKey      = "reqshape.params"
	contextLimitKey = "reqshape.params.max_body"
)

var ErrBodyTooLarge = errors.New("request body too large")

// DecodeError reports a request source that could not be decoded.
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Upload describes the first file uploaded under a form name.
type Upload struct {
	Name        string `json:"name"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

type memo struct {
	req *params.Request
	err error
}

// FromContext returns the params.Request of the current request, decoding the
// body, uploaded files, form and query on first use. The result (or the
// decoding error) is stored on the context so later calls share it. The body
// is restored so downstream handlers can read it again.
//
// A non-positive maxBody uses the limit installed by Middleware, or
// DefaultMaxBodyBytes outside it.
func FromContext(c *gin.Context, maxBody int64) (*params.Request, error) {
	if v, ok := c.Get(contextKey); ok {
		if m, ok := v.(*memo); ok {
			return m.req, m.err
		}
	}
	if maxBody <= 0 {
		maxBody = c.GetInt64(contextLimitKey)
	}
	req, err := decode(c, maxBody)
	c.Set(contextKey, &memo{req: req, err: err})
	return req, err
}

// Middleware decodes every request up front with maxBody as the body limit.
// Decoding errors do not abort the chain; they are returned by FromContext,
// Object and Field.
func Middleware(maxBody int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(contextLimitKey, maxBody)
		_, _ = FromContext(c, maxBody)
		c.Next()
	}
}

// Object resolves the request sources into one mapping.
func Object(c *gin.Context, opts params.Options, base ...*params.Mapping) (*params.Mapping, error) {
	req, err := FromContext(c, 0)
	if err != nil {
		return nil, err
	}
	return req.Object(opts, base...)
}

// Field reads a single value of the request; see params.Request.Field.
func Field(c *gin.Context, name string, def params.Value, cast params.Cast) (params.Value, error) {
	req, err := FromContext(c, 0)
	if err != nil {
		return params.Value{}, err
	}
	return req.Field(name, def, cast)
}

func decode(c *gin.Context, maxBody int64) (*params.Request, error) {
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	body, err := readBody(c, maxBody)
	if err != nil {
		return nil, &DecodeError{Source: "body", Err: err}
	}

	query, err := loadFields("query", c.Request.URL.RawQuery)
	if err != nil {
		return nil, err
	}

	var (
		form  *params.Mapping
		files *params.Mapping
	)
	switch c.ContentType() {
	case gin.MIMEPOSTForm:
		form, err = loadFields("form", string(body))
		if err != nil {
			return nil, err
		}
	case gin.MIMEMultipartPOSTForm:
		form, files, err = loadMultipart(c, body)
		if err != nil {
			return nil, err
		}
	}
	return params.NewRequest(body, files, form, query), nil
}

func readBody(c *gin.Context, maxBody int64) ([]byte, error) {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return nil, nil
	}
	reader := http.MaxBytesReader(c.Writer, c.Request.Body, maxBody)
	body, err := io.ReadAll(reader)
	_ = c.Request.Body.Close()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: limit=%d", ErrBodyTooLarge, tooLarge.Limit)
		}
		return nil, err
	}
	restoreBody(c, body)
	return body, nil
}

func restoreBody(c *gin.Context, body []byte) {
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	c.Request.ContentLength = int64(len(body))
}

func loadFields(source string, raw string) (*params.Mapping, error) {
	fields, err := params.ParseFields(raw)
	if err != nil {
		return nil, &DecodeError{Source: source, Err: err}
	}
	m, err := params.LoadForm(fields)
	if err != nil {
		return nil, &DecodeError{Source: source, Err: err}
	}
	return m, nil
}

func loadMultipart(c *gin.Context, body []byte) (*params.Mapping, *params.Mapping, error) {
	mf, err := c.MultipartForm()
	// multipart parsing drains the body
	restoreBody(c, body)
	if err != nil {
		return nil, nil, &DecodeError{Source: "form", Err: err}
	}
	form, err := params.LoadForm(params.FieldsFromValues(mf.Value))
	if err != nil {
		return nil, nil, &DecodeError{Source: "form", Err: err}
	}

	names := make([]string, 0, len(mf.File))
	for name, headers := range mf.File {
		if len(headers) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	files := params.NewMapping()
	for _, name := range names {
		fh := mf.File[name][0]
		files.Set(name, params.Scalar(Upload{
			Name:        name,
			Filename:    fh.Filename,
			Size:        fh.Size,
			ContentType: fh.Header.Get("Content-Type"),
		}))
	}
	return form, files, nil
}
