package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken indicates the cookie token failed signature or
	// claims validation
	ErrInvalidToken = errors.New("session: invalid token")

	// ErrTokenExpired indicates the cookie token is past its expiry
	ErrTokenExpired = errors.New("session: token expired")
)

// Claims is the JWT payload carried in the session cookie. The cookie
// only identifies the session; the platform token and identity
// snapshot live in the principal store.
type Claims struct {
	SessionID string `json:"sid"`
	Kind      Kind   `json:"kind"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session cookie tokens
type Codec struct {
	secret []byte
	issuer string
}

// NewCodec creates a cookie token codec
func NewCodec(secret, issuer string) *Codec {
	return &Codec{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// Issue mints a signed cookie token for a new session and returns the
// token together with the generated session ID
func (c *Codec) Issue(kind Kind, ttl time.Duration) (token string, sessionID string, err error) {
	sessionID = uuid.New().String()
	now := time.Now()

	claims := Claims{
		SessionID: sessionID,
		Kind:      kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.New().String(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", "", fmt.Errorf("session: failed to sign token: %w", err)
	}
	return signed, sessionID, nil
}

// Parse verifies a cookie token and returns its claims
func (c *Codec) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithIssuer(c.issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if !claims.Kind.IsValid() || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
