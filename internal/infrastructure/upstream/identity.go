package upstream

import (
	"context"
	"net/http"

	"github.com/shopfront/gateway/internal/domain/identity"
)

// ---------------------------------------------------------------------------
// Back-office staff identity
// ---------------------------------------------------------------------------

// AdminCredentials is the staff login payload
type AdminCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminSession is the platform's answer to a successful staff login
type AdminSession struct {
	Token   string           `json:"token"`
	Account identity.Account `json:"account"`
}

// AdminLogin authenticates a staff member against the platform
func (c *Client) AdminLogin(ctx context.Context, creds AdminCredentials) (*AdminSession, error) {
	var session AdminSession
	if err := c.send(ctx, http.MethodPost, "/admin/auth/login", creds, "", &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// AdminSelf validates a staff token and returns the current account.
// A revoked or expired token surfaces as ErrUnauthorized; a transport
// failure surfaces as ErrUnavailable and must not be treated as a
// revocation.
func (c *Client) AdminSelf(ctx context.Context, token string) (*identity.Account, error) {
	var account identity.Account
	if _, err := c.get(ctx, "/admin/auth/self", nil, token, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// AdminSignOut invalidates the staff token on the platform side
func (c *Client) AdminSignOut(ctx context.Context, token string) error {
	return c.send(ctx, http.MethodPost, "/admin/auth/sign-out", nil, token, nil)
}

// ---------------------------------------------------------------------------
// Customer identity
// ---------------------------------------------------------------------------

// CustomerCredentials is the customer login payload
type CustomerCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CustomerRegistration is the customer sign-up payload
type CustomerRegistration struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Password  string `json:"password"`
}

// CustomerSession is the platform's answer to a successful customer
// login or registration
type CustomerSession struct {
	Token    string            `json:"token"`
	Customer identity.Customer `json:"customer"`
}

// CustomerLogin authenticates a customer against the platform
func (c *Client) CustomerLogin(ctx context.Context, creds CustomerCredentials) (*CustomerSession, error) {
	var session CustomerSession
	if err := c.send(ctx, http.MethodPost, "/store/auth/login", creds, "", &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// CustomerRegister creates a customer account on the platform
func (c *Client) CustomerRegister(ctx context.Context, reg CustomerRegistration) (*CustomerSession, error) {
	var session CustomerSession
	if err := c.send(ctx, http.MethodPost, "/store/auth/register", reg, "", &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// CustomerSelf validates a customer token and returns the current
// customer. Same revocation semantics as AdminSelf.
func (c *Client) CustomerSelf(ctx context.Context, token string) (*identity.Customer, error) {
	var customer identity.Customer
	if _, err := c.get(ctx, "/store/auth/self", nil, token, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// CustomerSignOut invalidates the customer token on the platform side
func (c *Client) CustomerSignOut(ctx context.Context, token string) error {
	return c.send(ctx, http.MethodPost, "/store/auth/sign-out", nil, token, nil)
}
