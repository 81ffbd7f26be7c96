package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reqshape/reqshape/pkg/ginparams"
	"github.com/reqshape/reqshape/pkg/params"
	"github.com/reqshape/reqshape/pkg/textutil"
)

type exception struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
}

// classifyError maps an error to its HTTP status and error name. Decoding
// failures are the client's fault; anything else is reported as internal.
func classifyError(err error) (int, string) {
	if errors.Is(err, ginparams.ErrBodyTooLarge) {
		return http.StatusRequestEntityTooLarge, "BodyTooLarge"
	}
	if kind, ok := params.KindOf(err); ok {
		return http.StatusBadRequest, string(kind)
	}
	var de *ginparams.DecodeError
	if errors.As(err, &de) {
		return http.StatusBadRequest, "DecodeError"
	}
	return http.StatusInternalServerError, "InternalError"
}

func writeError(c *gin.Context, err error) {
	status, name := classifyError(err)
	kind := textutil.CamelToUnderscore(name)
	c.Set(ctxKeyErrorKind, kind)
	c.AbortWithStatusJSON(status, gin.H{
		"exception": exception{
			Name:    name,
			Message: err.Error(),
			Code:    status,
			Kind:    kind,
		},
	})
}
