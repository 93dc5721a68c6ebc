package middleware

import (
	"strings"

	"anoa.com/jobboard/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// RejectChunked refuses bodies sent with chunked transfer encoding.
func RejectChunked() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isChunked(c) {
			abortWithError(c, apperror.Wrap(apperror.ErrBadRequest, "unknown error occurred"))
			return
		}
		c.Next()
	}
}

func isChunked(c *gin.Context) bool {
	for _, te := range c.Request.TransferEncoding {
		if strings.EqualFold(te, "chunked") {
			return true
		}
	}
	return strings.Contains(strings.ToLower(c.GetHeader("Transfer-Encoding")), "chunked")
}
