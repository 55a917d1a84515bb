package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"roamvan/internal/app/services/auth"
	domainstaff "roamvan/internal/domain/staff"
)

const principalContextKey = "roamvan.principal"

type principal struct {
	ID    string
	Email string
	Name  string
	Role  string
	Token string
}

func (p principal) IsAdmin() bool {
	return p.Role == string(domainstaff.RoleAdmin)
}

type AuthMiddleware struct {
	Service *auth.Service
	Logger  *slog.Logger
}

func (m AuthMiddleware) Handle(c *gin.Context) {
	token := extractBearerToken(c.GetHeader("Authorization"))
	if token == "" || m.Service == nil {
		c.Next()
		return
	}
	resolved, err := m.Service.ResolveToken(c.Request.Context(), token)
	if err != nil {
		if !errors.Is(err, domainstaff.ErrSessionNotFound) && m.Logger != nil {
			m.Logger.Debug("token validation failed", "error", err)
		}
		c.Next()
		return
	}
	account := resolved.Account
	setPrincipal(c, principal{
		ID:    string(account.ID),
		Email: account.Email,
		Name:  account.Name,
		Role:  string(account.Role),
		Token: token,
	})
	c.Next()
}

func setPrincipal(c *gin.Context, p principal) {
	c.Set(principalContextKey, p)
}

func currentPrincipal(c *gin.Context) (principal, bool) {
	val, exists := c.Get(principalContextKey)
	if !exists {
		return principal{}, false
	}
	p, ok := val.(principal)
	return p, ok
}

func requireStaff(c *gin.Context) (principal, bool) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "auth required"})
		return principal{}, false
	}
	return p, true
}

func requireAdmin(c *gin.Context) (principal, bool) {
	p, ok := requireStaff(c)
	if !ok {
		return principal{}, false
	}
	if !p.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
		return principal{}, false
	}
	return p, true
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
