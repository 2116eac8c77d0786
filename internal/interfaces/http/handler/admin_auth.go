package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/shopfront/gateway/internal/application/auth"
	"github.com/shopfront/gateway/internal/interfaces/http/middleware"
)

// AdminAuthHandler serves the back-office login, self-check and
// sign-out endpoints
type AdminAuthHandler struct {
	BaseHandler
	svc        *auth.AdminService
	cookieName string
	cookies    middleware.CookieWriter
}

// NewAdminAuthHandler creates the back-office auth handler
func NewAdminAuthHandler(svc *auth.AdminService, cookieName string, cookies middleware.CookieWriter) *AdminAuthHandler {
	return &AdminAuthHandler{
		svc:        svc,
		cookieName: cookieName,
		cookies:    cookies,
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /admin/auth/login
func (h *AdminAuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "email and password are required")
		return
	}

	result, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.cookies.Set(c, h.cookieName, result.CookieToken, int(result.TTL.Seconds()))
	h.Success(c, result.Account)
}

// Self handles GET /admin/auth/self. Runs behind AdminAuth, so the
// principal is already resolved and fresh.
func (h *AdminAuthHandler) Self(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil || principal.Account == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	h.Success(c, principal.Account)
}

// SignOut handles POST /admin/auth/sign-out. It is deliberately not
// behind AdminAuth: signing out must succeed even when the session no
// longer resolves, and it always clears the cookie.
func (h *AdminAuthHandler) SignOut(c *gin.Context) {
	if token, err := c.Cookie(h.cookieName); err == nil && token != "" {
		h.svc.Logout(c.Request.Context(), token)
	}
	h.cookies.Clear(c, h.cookieName)
	h.Success(c, gin.H{"signed_out": true})
}
