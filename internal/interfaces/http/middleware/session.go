package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopfront/gateway/internal/application/auth"
	"github.com/shopfront/gateway/internal/domain/shared"
	"github.com/shopfront/gateway/internal/infrastructure/session"
	"github.com/shopfront/gateway/internal/interfaces/http/dto"
)

const principalContextKey = "gateway.principal"

// CookieWriter clears and sets session cookies with consistent
// attributes
type CookieWriter struct {
	Domain   string
	Path     string
	Secure   bool
	SameSite http.SameSite
}

// Set writes a session cookie
func (w CookieWriter) Set(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(w.SameSite)
	c.SetCookie(name, value, maxAge, w.Path, w.Domain, w.Secure, true)
}

// Clear expires a session cookie
func (w CookieWriter) Clear(c *gin.Context, name string) {
	c.SetSameSite(w.SameSite)
	c.SetCookie(name, "", -1, w.Path, w.Domain, w.Secure, true)
}

// AdminAuth requires a valid staff session. A revoked or absent
// session aborts with 401 and expires the cookie; a platform outage
// during the check does not end the session but a platform outage at
// login time surfaces as 503 downstream.
func AdminAuth(svc *auth.AdminService, cookieName string, cookies CookieWriter) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			abortUnauthorized(c)
			return
		}

		principal, err := svc.Resolve(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, shared.ErrUnauthorized) {
				cookies.Clear(c, cookieName)
				abortUnauthorized(c)
				return
			}
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				dto.NewErrorResponse(dto.ErrCodePlatformDown, shared.ErrUpstreamDown.Error()))
			return
		}

		c.Set(principalContextKey, principal)
		c.Next()
	}
}

// CustomerAuth requires a valid customer session with the same
// semantics as AdminAuth
func CustomerAuth(svc *auth.CustomerService, cookieName string, cookies CookieWriter) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			abortUnauthorized(c)
			return
		}

		principal, err := svc.Resolve(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, shared.ErrUnauthorized) {
				cookies.Clear(c, cookieName)
				abortUnauthorized(c)
				return
			}
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				dto.NewErrorResponse(dto.ErrCodePlatformDown, shared.ErrUpstreamDown.Error()))
			return
		}

		c.Set(principalContextKey, principal)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required"))
}

// GetPrincipal returns the resolved principal for the request, or nil
// outside an authenticated route
func GetPrincipal(c *gin.Context) *session.Principal {
	value, ok := c.Get(principalContextKey)
	if !ok {
		return nil
	}
	principal, _ := value.(*session.Principal)
	return principal
}

// GetUpstreamToken returns the platform bearer token for the request's
// session, or empty outside an authenticated route
func GetUpstreamToken(c *gin.Context) string {
	if principal := GetPrincipal(c); principal != nil {
		return principal.UpstreamToken
	}
	return ""
}

// ParseSameSite maps a config string onto http.SameSite, defaulting to
// Lax
func ParseSameSite(value string) http.SameSite {
	switch value {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
