package handler

import (
	"net/http"

	"anoa.com/jobboard/internal/middleware"
	auth "anoa.com/jobboard/internal/modules/auth/service"
	"anoa.com/jobboard/pkg/response"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service auth.AuthService
}

func NewAuthHandler(service auth.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login checks credentials without issuing any token.
func (h *AuthHandler) Login(c *gin.Context) {
	email, password := middleware.Credentials(c)

	if _, err := h.service.Login(c.Request.Context(), email, password); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Message(c, http.StatusOK, "Login successful")
}
