package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"anoa.com/jobboard/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/users/1", nil)
	return c, w
}

func TestRenderKeepsFieldOrderAndNesting(t *testing.T) {
	c, w := newContext()

	Render(c, http.StatusCreated, Group("users",
		Group("user",
			Field("id", 7),
			Field("email", "a@x.com"),
			Group("profile", Field("summary", ""), Field("skills", "go & sql")),
		),
	))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/xml")
	assert.Equal(t,
		"<users><user><id>7</id><email>a@x.com</email><profile><summary></summary><skills>go &amp; sql</skills></profile></user></users>",
		w.Body.String())
}

func TestResponseErrorUsesSentinelStatus(t *testing.T) {
	c, w := newContext()

	ResponseError(c, apperror.Wrap(apperror.ErrConflict, "Email already registered"))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "<error><message>Email already registered</message></error>", w.Body.String())
}

func TestResponseErrorHidesInternalDetails(t *testing.T) {
	c, w := newContext()

	ResponseError(c, errors.New("dial tcp 10.0.0.1:5432: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "<error><message>internal server error</message></error>", w.Body.String())
}

func TestMessage(t *testing.T) {
	c, w := newContext()

	Message(c, http.StatusOK, "Job 3 deleted")

	assert.Equal(t, "<message><info>Job 3 deleted</info></message>", w.Body.String())
}
