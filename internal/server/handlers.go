package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/reqshape/reqshape/pkg/ginparams"
	"github.com/reqshape/reqshape/pkg/params"
)

// handleObject resolves every request source with opts and the current
// tables, and answers with the resulting mapping.
func handleObject(st *state, opts params.Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		opts := opts
		opts.Tables = st.Tables()
		out, err := ginparams.Object(c, opts)
		if err != nil {
			writeError(c, err)
			return
		}
		c.Set(ctxKeyFieldCount, out.Len())
		c.JSON(http.StatusOK, out)
	}
}

type fieldResponse struct {
	Name  string       `json:"name"`
	Value params.Value `json:"value"`
	Found bool         `json:"found"`
}

// fieldControlParams are read by handleField and hidden from the query source
// it looks fields up in.
var fieldControlParams = []string{"as", "default"}

// handleField reads one field, cast with ?as=<cast>. ?default= supplies the
// value returned when no source holds the field.
func handleField() gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := ginparams.FromContext(c, 0)
		if err != nil {
			writeError(c, err)
			return
		}
		req = req.WithoutQuery(fieldControlParams...)
		name := c.Param("name")

		var cast params.Cast
		if as := strings.TrimSpace(c.Query("as")); as != "" {
			var ok bool
			cast, ok = params.CastByName(as)
			if !ok {
				writeError(c, &params.Error{
					Kind: params.CoercionFailure,
					Path: name,
					Err:  fmt.Errorf("unknown cast %q (supported: %s)", as, strings.Join(params.CastNames(), ", ")),
				})
				return
			}
		}
		def := params.Value{}
		if v, ok := c.GetQuery("default"); ok {
			def = params.Scalar(v)
		}

		_, found := req.Lookup(name)
		v, err := req.Field(name, def, cast)
		if err != nil {
			writeError(c, err)
			return
		}
		if found {
			c.Set(ctxKeyFieldCount, 1)
		} else {
			c.Set(ctxKeyFieldCount, 0)
		}
		c.JSON(http.StatusOK, fieldResponse{Name: name, Value: v, Found: found})
	}
}

func handleTables(st *state) gin.HandlerFunc {
	return func(c *gin.Context) {
		t := st.Tables()
		c.JSON(http.StatusOK, gin.H{
			"aliases":   t.Aliases.Map(),
			"types":     t.Types.Names(),
			"loaded_at": st.LoadedAtUnix(),
		})
	}
}
