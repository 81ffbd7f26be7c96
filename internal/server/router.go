package server

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reqshape/reqshape/internal/auth"
	"github.com/reqshape/reqshape/internal/config"
	"github.com/reqshape/reqshape/internal/logx"
	"github.com/reqshape/reqshape/pkg/ginparams"
	"github.com/reqshape/reqshape/pkg/params"
	"github.com/reqshape/reqshape/pkg/requestid"
)

func NewRouter(
	cfg *config.Config,
	st *state,
	accessLogger *log.Logger,
	accessLoggerColor bool,
	accessFormatter *logx.AccessLogFormatter,
) *gin.Engine {
	requestIDHeaderKey := requestid.ResolveHeaderKey(cfg.RequestID.HeaderKey)
	maxBody := cfg.Server.MaxBodyBytes

	r := gin.New()
	r.Use(requestIDMiddleware(requestIDHeaderKey, requestid.Generator(cfg.RequestID.Format)))
	if cfg.Logging.AccessLogEnabled() {
		r.Use(requestLoggerWithColor(accessLogger, accessLoggerColor, requestIDHeaderKey, accessFormatter))
	}
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	admin := r.Group("/admin")
	admin.Use(auth.Middleware(cfg.Server.AdminKey))
	admin.GET("/tables", handleTables(st))

	v1 := r.Group("/v1")
	v1.Use(ginparams.Middleware(maxBody), sourceCountMiddleware())
	v1.Any("/object", handleObject(st, params.Options{NormalizeArrays: true}))
	v1.Any("/find", handleObject(st, params.Options{Alias: true, Coerce: true, NormalizeArrays: true}))
	v1.Any("/field/:name", handleField())

	return r
}
