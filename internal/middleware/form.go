package middleware

import (
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"anoa.com/jobboard/pkg/apperror"
	"github.com/gin-gonic/gin"
)

const maxFormBody = 1 << 20

// FormValue reads key from the form body, falling back to the query string.
func FormValue(c *gin.Context, key string) string {
	if v, ok := c.GetPostForm(key); ok {
		return v
	}
	return c.Query(key)
}

// Credentials returns the email and password carried by the request.
func Credentials(c *gin.Context) (email, password string) {
	return FormValue(c, "email"), FormValue(c, "password")
}

// DeleteFormBody parses url-encoded bodies of DELETE requests, which net/http leaves
// unread, so credentials can travel in the body as they do for PUT and POST.
func DeleteFormBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		req := c.Request
		if req.Method != http.MethodDelete || req.Body == nil || req.PostForm != nil {
			c.Next()
			return
		}

		mediaType, _, _ := mime.ParseMediaType(req.Header.Get("Content-Type"))
		if mediaType != "application/x-www-form-urlencoded" {
			c.Next()
			return
		}

		body, err := io.ReadAll(io.LimitReader(req.Body, maxFormBody))
		if err == nil {
			if values, err := url.ParseQuery(string(body)); err == nil {
				req.PostForm = values
			}
		}
		c.Next()
	}
}

// ParamID parses a numeric path parameter. Anything else does not name a resource, so
// it reports ErrNotFound.
func ParamID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 0)
	if err != nil || id == 0 {
		return 0, apperror.Wrap(apperror.ErrNotFound, "Not Found")
	}
	return uint(id), nil
}
