package middleware

import (
	"anoa.com/jobboard/internal/entity"
	auth "anoa.com/jobboard/internal/modules/auth/service"
	"anoa.com/jobboard/pkg/response"
	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

type AuthMiddleware struct {
	authService auth.AuthService
}

func NewAuthMiddleware(authService auth.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// RequireCredentials authenticates the email and password carried by the request.
func (m *AuthMiddleware) RequireCredentials() gin.HandlerFunc {
	return func(c *gin.Context) {
		email, password := Credentials(c)

		user, err := m.authService.Authenticate(c.Request.Context(), email, password)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(principalKey, user)
		c.Next()
	}
}

// RequireApproved must run after RequireCredentials.
func (m *AuthMiddleware) RequireApproved() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.RequireApproved(Principal(c)); err != nil {
			abortWithError(c, err)
			return
		}
		c.Next()
	}
}

// RequireRole must run after RequireCredentials.
func (m *AuthMiddleware) RequireRole(role entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.RequireRole(Principal(c), role); err != nil {
			abortWithError(c, err)
			return
		}
		c.Next()
	}
}

// RequireAdmin authenticates admin_email (and admin_password when sent) as an approved admin.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, err := m.authService.AuthenticatePrivileged(
			c.Request.Context(),
			FormValue(c, "admin_email"),
			FormValue(c, "admin_password"),
			entity.RoleAdmin,
		)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(principalKey, admin)
		c.Next()
	}
}

// Principal returns the user authenticated for this request, or nil.
func Principal(c *gin.Context) *entity.User {
	if v, ok := c.Get(principalKey); ok {
		if user, ok := v.(*entity.User); ok {
			return user
		}
	}
	return nil
}

func abortWithError(c *gin.Context, err error) {
	response.ResponseError(c, err)
	c.Abort()
}
