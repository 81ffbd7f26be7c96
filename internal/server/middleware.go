package server

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/reqshape/reqshape/internal/logx"
	"github.com/reqshape/reqshape/pkg/ginparams"
	"github.com/reqshape/reqshape/pkg/requestid"
	"github.com/reqshape/reqshape/pkg/useragent"
)

const (
	ctxKeySourceCount = "reqshape.source_count"
	ctxKeyFieldCount  = "reqshape.field_count"
	ctxKeyErrorKind   = "reqshape.error_kind"
)

type contextFieldSpec struct {
	ctxKey string
	logKey string
}

type accessLogRecord struct {
	RequestID string
	Mobile    bool
	Extras    map[string]any
}

func (r accessLogRecord) Fields() map[string]any {
	out := make(map[string]any, len(r.Extras)+2)
	if strings.TrimSpace(r.RequestID) != "" {
		out["request_id"] = r.RequestID
	}
	out["mobile"] = r.Mobile
	for k, v := range r.Extras {
		out[k] = v
	}
	return out
}

var accessLogContextFieldSpecs = []contextFieldSpec{
	{ctxKey: ctxKeySourceCount, logKey: "source_count"},
	{ctxKey: ctxKeyFieldCount, logKey: "field_count"},
	{ctxKey: ctxKeyErrorKind, logKey: "error_kind"},
}

func requestIDMiddleware(headerKey string, gen func() string) gin.HandlerFunc {
	headerKey = requestid.ResolveHeaderKey(headerKey)
	if gen == nil {
		gen = requestid.Gen
	}
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(headerKey))
		if id == "" {
			id = gen()
		}
		c.Header(headerKey, id)
		c.Set(headerKey, id)
		c.Next()
	}
}

// sourceCountMiddleware records how many request sources carried data. It
// runs after ginparams.Middleware.
func sourceCountMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if req, err := ginparams.FromContext(c, 0); err == nil {
			n := 0
			for _, src := range req.Sources() {
				if src.Len() > 0 {
					n++
				}
			}
			c.Set(ctxKeySourceCount, n)
		}
		c.Next()
	}
}

func requestLoggerWithColor(l *log.Logger, color bool, requestIDHeaderKey string, accessFormatter *logx.AccessLogFormatter) gin.HandlerFunc {
	requestIDHeaderKey = requestid.ResolveHeaderKey(requestIDHeaderKey)
	if l == nil {
		l = log.New(os.Stdout, "", log.LstdFlags)
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logx.AccessEntry{
			Time:     time.Now(),
			Status:   c.Writer.Status(),
			Latency:  time.Since(start),
			ClientIP: c.ClientIP(),
			Method:   c.Request.Method,
			Path:     c.Request.URL.Path,
			Fields:   buildAccessLogRecord(c, requestIDHeaderKey).Fields(),
		}
		if accessFormatter != nil {
			l.Println(accessFormatter.Format(entry, color))
			return
		}
		l.Println(logx.FormatRequestLine(entry, color))
	}
}

func buildAccessLogRecord(c *gin.Context, requestIDHeaderKey string) accessLogRecord {
	rec := accessLogRecord{
		RequestID: c.GetString(requestIDHeaderKey),
		Mobile:    useragent.IsMobile(c.GetHeader("User-Agent")),
		Extras:    map[string]any{},
	}
	copyContextFieldsBySpec(c, rec.Extras, accessLogContextFieldSpecs)
	return rec
}

func copyContextFieldsBySpec(c *gin.Context, dst map[string]any, specs []contextFieldSpec) {
	for _, s := range specs {
		if v, ok := c.Get(s.ctxKey); ok {
			dst[s.logKey] = v
		}
	}
}
