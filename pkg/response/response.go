package response

import (
	"encoding/xml"
	"fmt"
	"net/http"

	"anoa.com/jobboard/pkg/apperror"
	"anoa.com/jobboard/pkg/logger"
	"github.com/gin-gonic/gin"
)

// RequestIDKey is the context key the request id is stored under.
const RequestIDKey = "request_id"

// Node is one element of a response document. A node renders either its text or its
// children, in declaration order.
type Node struct {
	Tag      string
	Text     string
	Children []Node
}

// Field builds a leaf element; the value is rendered with fmt.Sprint.
func Field(tag string, value any) Node {
	return Node{Tag: tag, Text: fmt.Sprint(value)}
}

// Group builds an element holding other elements.
func Group(tag string, children ...Node) Node {
	return Node{Tag: tag, Children: children}
}

func (n Node) MarshalXML(enc *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{Name: xml.Name{Local: n.Tag}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}

	if len(n.Children) > 0 {
		for _, child := range n.Children {
			if err := enc.Encode(child); err != nil {
				return err
			}
		}
	} else if n.Text != "" {
		if err := enc.EncodeToken(xml.CharData(n.Text)); err != nil {
			return err
		}
	}

	return enc.EncodeToken(start.End())
}

// Render writes the document with the given status.
func Render(c *gin.Context, status int, doc Node) {
	c.XML(status, doc)
}

// Message renders the <message><info>...</info></message> document.
func Message(c *gin.Context, status int, info string) {
	Render(c, status, Group("message", Field("info", info)))
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	message := err.Error()
	if code >= http.StatusInternalServerError && code != http.StatusServiceUnavailable {
		logger.Error().Err(err).
			Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
		message = apperror.ErrInternal.Error()
	}

	Render(c, code, Group("error", Field("message", message)))
}
