package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-showcase-admin/config"
)

// multipartOverhead leaves room for form fields and part headers.
const multipartOverhead = 1 << 20

// BodyLimitMiddleware caps a request body at the size of a full upload:
// the file count limit times the per-file limit.
func BodyLimitMiddleware(cfg *config.EnvConfig) gin.HandlerFunc {
	limit := cfg.Upload.MaxFileSize*int64(cfg.Upload.MaxFiles) + multipartOverhead
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
