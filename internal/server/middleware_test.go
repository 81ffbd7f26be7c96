package server

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/reqshape/reqshape/internal/config"
	"github.com/reqshape/reqshape/internal/logx"
	"github.com/reqshape/reqshape/pkg/ginparams"
	"github.com/reqshape/reqshape/pkg/params"
	"github.com/reqshape/reqshape/pkg/requestid"
)

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	headerKey := "X-Reqshape-Request-Id"

	r := gin.New()
	r.Use(requestIDMiddleware(headerKey, func() string { return "generated" }))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(headerKey))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != "generated" || w.Header().Get(headerKey) != "generated" {
		t.Fatalf("expected generated id, body=%q header=%q", w.Body.String(), w.Header().Get(headerKey))
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(headerKey, "client-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != "client-id" || w.Header().Get(headerKey) != "client-id" {
		t.Fatalf("expected client id to be kept, body=%q", w.Body.String())
	}
}

func TestRequestIDMiddleware_DefaultGenerator(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(requestIDMiddleware("", nil))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if len(w.Header().Get(requestid.DefaultHeaderKey)) != 36 {
		t.Fatalf("expected uuid request id, got %q", w.Header().Get(requestid.DefaultHeaderKey))
	}
}

func newLoggedRouter(t *testing.T, out *bytes.Buffer, formatter *logx.AccessLogFormatter) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	l := log.New(out, "", 0)
	requestIDHeaderKey := "X-Reqshape-Request-Id"

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(requestIDHeaderKey, "rid-1")
		c.Next()
	})
	r.Use(requestLoggerWithColor(l, false, requestIDHeaderKey, formatter))
	r.Use(ginparams.Middleware(0), sourceCountMiddleware())
	r.POST("/v1/object", func(c *gin.Context) {
		c.Set(ctxKeyFieldCount, 2)
		c.Status(http.StatusOK)
	})
	return r
}

func TestRequestLoggerWithColor_LogsRequestFields(t *testing.T) {
	var out bytes.Buffer
	r := newLoggedRouter(t, &out, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/object?q=1", strings.NewReader(`{"a":1}`))
	req.Header.Set("User-Agent", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	logLine := out.String()
	for _, want := range []string{"request_id=rid-1", "mobile=true", "source_count=2", "field_count=2", "POST /v1/object"} {
		if !strings.Contains(logLine, want) {
			t.Fatalf("expected %q in log, got=%q", want, logLine)
		}
	}
	if strings.Contains(logLine, "error_kind=") {
		t.Fatalf("unexpected error_kind in log: %q", logLine)
	}
}

func TestRequestLoggerWithColor_DesktopAgent(t *testing.T) {
	var out bytes.Buffer
	r := newLoggedRouter(t, &out, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/object", nil)
	req.Header.Set("User-Agent", "curl/8.4.0")
	r.ServeHTTP(httptest.NewRecorder(), req)

	if logLine := out.String(); !strings.Contains(logLine, "mobile=false") || !strings.Contains(logLine, "source_count=0") {
		t.Fatalf("unexpected log: %q", logLine)
	}
}

func TestRequestLoggerWithColor_UsesFormatter(t *testing.T) {
	f, err := logx.CompileAccessLogFormat("$method $path rid=$request_id err=$error_kind")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	var out bytes.Buffer
	r := newLoggedRouter(t, &out, f)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/object", nil))
	if got := strings.TrimSpace(out.String()); got != "POST /v1/object rid=rid-1 err=-" {
		t.Fatalf("unexpected log: %q", got)
	}
}

func TestRouter_LogsErrorKind(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var out bytes.Buffer
	cfg := config.Default()
	engine := NewRouter(cfg, newState(params.DefaultTables()), log.New(&out, "", 0), false, nil)

	w := do(engine, http.MethodGet, "/v1/find?limit=x", "", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(out.String(), "error_kind=coercion_failure") {
		t.Fatalf("expected error kind in access log, got %q", out.String())
	}
}
