package auth

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/shopfront/gateway/internal/domain/identity"
	"github.com/shopfront/gateway/internal/domain/shared"
	"github.com/shopfront/gateway/internal/infrastructure/session"
	"github.com/shopfront/gateway/internal/infrastructure/upstream"
)

// CustomerService manages storefront customer sessions. It mirrors
// AdminService but lives in a separate cookie realm; the two never
// interact.
type CustomerService struct {
	client *upstream.Client
	codec  *session.Codec
	store  session.Store
	ttl    time.Duration
	logger *zap.Logger
}

// NewCustomerService creates the customer session service
func NewCustomerService(client *upstream.Client, codec *session.Codec, store session.Store, ttl time.Duration, logger *zap.Logger) *CustomerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerService{
		client: client,
		codec:  codec,
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

// CustomerLoginResult carries the minted cookie token alongside the
// customer profile
type CustomerLoginResult struct {
	CookieToken string
	TTL         time.Duration
	Customer    identity.Customer
}

// Login authenticates a customer against the platform and establishes
// a local session
func (s *CustomerService) Login(ctx context.Context, email, password string) (*CustomerLoginResult, error) {
	upstreamSession, err := s.client.CustomerLogin(ctx, upstream.CustomerCredentials{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, mapLoginError(err)
	}
	return s.establish(ctx, upstreamSession)
}

// Register creates a customer account on the platform and immediately
// establishes a session
func (s *CustomerService) Register(ctx context.Context, reg upstream.CustomerRegistration) (*CustomerLoginResult, error) {
	upstreamSession, err := s.client.CustomerRegister(ctx, reg)
	if err != nil {
		return nil, mapLoginError(err)
	}
	return s.establish(ctx, upstreamSession)
}

func (s *CustomerService) establish(ctx context.Context, upstreamSession *upstream.CustomerSession) (*CustomerLoginResult, error) {
	cookieToken, sessionID, err := s.codec.Issue(session.KindCustomer, s.ttl)
	if err != nil {
		return nil, err
	}

	principal := &session.Principal{
		SessionID:     sessionID,
		Kind:          session.KindCustomer,
		UpstreamToken: upstreamSession.Token,
		Customer:      &upstreamSession.Customer,
		CreatedAt:     time.Now(),
	}
	if err := s.store.Save(ctx, principal, s.ttl); err != nil {
		return nil, err
	}

	s.logger.Info("customer session established",
		zap.String("session_id", sessionID),
		zap.String("customer_id", upstreamSession.Customer.ID),
	)

	return &CustomerLoginResult{
		CookieToken: cookieToken,
		TTL:         s.ttl,
		Customer:    upstreamSession.Customer,
	}, nil
}

// Resolve validates the session cookie with the same fail-closed
// semantics as the staff realm: platform 401 revokes, platform outage
// serves the snapshot.
func (s *CustomerService) Resolve(ctx context.Context, cookieToken string) (*session.Principal, error) {
	claims, err := s.codec.Parse(cookieToken)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	if claims.Kind != session.KindCustomer {
		return nil, shared.ErrUnauthorized
	}

	principal, err := s.store.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}

	customer, err := s.client.CustomerSelf(ctx, principal.UpstreamToken)
	switch {
	case err == nil:
		principal.Customer = customer
		if saveErr := s.store.Save(ctx, principal, s.ttl); saveErr != nil {
			s.logger.Warn("failed to refresh principal snapshot", zap.Error(saveErr))
		}
		return principal, nil

	case upstream.IsSessionRevoked(err):
		if delErr := s.store.Delete(ctx, principal.SessionID); delErr != nil {
			s.logger.Warn("failed to delete revoked session", zap.Error(delErr))
		}
		if signOutErr := s.client.CustomerSignOut(ctx, principal.UpstreamToken); signOutErr != nil {
			s.logger.Debug("sign-out after revocation failed", zap.Error(signOutErr))
		}
		s.logger.Info("customer session revoked by platform",
			zap.String("session_id", principal.SessionID))
		return nil, shared.ErrUnauthorized

	case errors.Is(err, upstream.ErrUnavailable):
		s.logger.Warn("platform unreachable during session check, serving snapshot",
			zap.String("session_id", principal.SessionID))
		return principal, nil

	default:
		return nil, err
	}
}

// Logout terminates the session, always clearing local state even
// when the platform sign-out fails
func (s *CustomerService) Logout(ctx context.Context, cookieToken string) {
	claims, err := s.codec.Parse(cookieToken)
	if err != nil {
		return
	}

	principal, err := s.store.Get(ctx, claims.SessionID)
	if err == nil {
		if signOutErr := s.client.CustomerSignOut(ctx, principal.UpstreamToken); signOutErr != nil {
			s.logger.Warn("platform sign-out failed during logout",
				zap.String("session_id", claims.SessionID),
				zap.Error(signOutErr))
		}
	}

	if err := s.store.Delete(ctx, claims.SessionID); err != nil {
		s.logger.Warn("failed to delete session", zap.Error(err))
	}
}

func mapLoginError(err error) error {
	if errors.Is(err, upstream.ErrUnavailable) {
		return shared.ErrUpstreamDown
	}
	if errors.Is(err, upstream.ErrUnauthorized) {
		return shared.ErrUnauthorized
	}
	return err
}
