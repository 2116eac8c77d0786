package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/shopfront/gateway/internal/application/auth"
	"github.com/shopfront/gateway/internal/infrastructure/upstream"
	"github.com/shopfront/gateway/internal/interfaces/http/middleware"
)

// CustomerAuthHandler serves the storefront login, registration,
// self-check and sign-out endpoints
type CustomerAuthHandler struct {
	BaseHandler
	svc        *auth.CustomerService
	cookieName string
	cookies    middleware.CookieWriter
}

// NewCustomerAuthHandler creates the storefront auth handler
func NewCustomerAuthHandler(svc *auth.CustomerService, cookieName string, cookies middleware.CookieWriter) *CustomerAuthHandler {
	return &CustomerAuthHandler{
		svc:        svc,
		cookieName: cookieName,
		cookies:    cookies,
	}
}

// Login handles POST /store/auth/login
func (h *CustomerAuthHandler) Login(c *gin.Context) {
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
	h.Success(c, result.Customer)
}

type registerRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
	Password  string `json:"password" binding:"required,min=8"`
}

// Register handles POST /store/auth/register
func (h *CustomerAuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid registration payload")
		return
	}

	result, err := h.svc.Register(c.Request.Context(), upstream.CustomerRegistration{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.cookies.Set(c, h.cookieName, result.CookieToken, int(result.TTL.Seconds()))
	h.Created(c, result.Customer)
}

// Self handles GET /store/auth/self behind CustomerAuth
func (h *CustomerAuthHandler) Self(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil || principal.Customer == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	h.Success(c, principal.Customer)
}

// SignOut handles POST /store/auth/sign-out, always clearing the
// cookie
func (h *CustomerAuthHandler) SignOut(c *gin.Context) {
	if token, err := c.Cookie(h.cookieName); err == nil && token != "" {
		h.svc.Logout(c.Request.Context(), token)
	}
	h.cookies.Clear(c, h.cookieName)
	h.Success(c, gin.H{"signed_out": true})
}
