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

// AdminService manages back-office staff sessions. The platform owns
// credentials and token validity; the gateway owns the cookie and the
// principal snapshot.
type AdminService struct {
	client *upstream.Client
	codec  *session.Codec
	store  session.Store
	ttl    time.Duration
	logger *zap.Logger
}

// NewAdminService creates the staff session service
func NewAdminService(client *upstream.Client, codec *session.Codec, store session.Store, ttl time.Duration, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{
		client: client,
		codec:  codec,
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

// LoginResult carries the minted cookie token alongside the account
type LoginResult struct {
	CookieToken string
	TTL         time.Duration
	Account     identity.Account
}

// Login authenticates against the platform and establishes a local
// session
func (s *AdminService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	upstreamSession, err := s.client.AdminLogin(ctx, upstream.AdminCredentials{
		Email:    email,
		Password: password,
	})
	if err != nil {
		if errors.Is(err, upstream.ErrUnavailable) {
			return nil, shared.ErrUpstreamDown
		}
		if errors.Is(err, upstream.ErrUnauthorized) {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}

	cookieToken, sessionID, err := s.codec.Issue(session.KindAdmin, s.ttl)
	if err != nil {
		return nil, err
	}

	principal := &session.Principal{
		SessionID:     sessionID,
		Kind:          session.KindAdmin,
		UpstreamToken: upstreamSession.Token,
		Account:       &upstreamSession.Account,
		CreatedAt:     time.Now(),
	}
	if err := s.store.Save(ctx, principal, s.ttl); err != nil {
		return nil, err
	}

	s.logger.Info("staff session established",
		zap.String("session_id", sessionID),
		zap.String("account_id", upstreamSession.Account.ID),
	)

	return &LoginResult{
		CookieToken: cookieToken,
		TTL:         s.ttl,
		Account:     upstreamSession.Account,
	}, nil
}

// Resolve validates the session cookie and confirms the platform
// still accepts the session's token.
//
// Resolution fails closed: a platform 401 means the token is revoked,
// so the local session is discarded and a sign-out is sent upstream
// exactly once. A transport failure or platform 5xx is NOT a
// revocation; the cached snapshot is served and the session stays
// intact.
func (s *AdminService) Resolve(ctx context.Context, cookieToken string) (*session.Principal, error) {
	claims, err := s.codec.Parse(cookieToken)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	if claims.Kind != session.KindAdmin {
		return nil, shared.ErrUnauthorized
	}

	principal, err := s.store.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}

	account, err := s.client.AdminSelf(ctx, principal.UpstreamToken)
	switch {
	case err == nil:
		principal.Account = account
		if saveErr := s.store.Save(ctx, principal, s.ttl); saveErr != nil {
			s.logger.Warn("failed to refresh principal snapshot", zap.Error(saveErr))
		}
		return principal, nil

	case upstream.IsSessionRevoked(err):
		s.revoke(ctx, principal)
		return nil, shared.ErrUnauthorized

	case errors.Is(err, upstream.ErrUnavailable):
		// Platform outage must not log anyone out
		s.logger.Warn("platform unreachable during session check, serving snapshot",
			zap.String("session_id", principal.SessionID))
		return principal, nil

	default:
		return nil, err
	}
}

// Logout terminates the session. Local state is always cleared, even
// when the platform sign-out fails: the user asked to leave and the
// cookie must die regardless.
func (s *AdminService) Logout(ctx context.Context, cookieToken string) {
	claims, err := s.codec.Parse(cookieToken)
	if err != nil {
		// Nothing resolvable locally; expiring the cookie is enough
		return
	}

	principal, err := s.store.Get(ctx, claims.SessionID)
	if err == nil {
		if signOutErr := s.client.AdminSignOut(ctx, principal.UpstreamToken); signOutErr != nil {
			s.logger.Warn("platform sign-out failed during logout",
				zap.String("session_id", claims.SessionID),
				zap.Error(signOutErr))
		}
	}

	if err := s.store.Delete(ctx, claims.SessionID); err != nil {
		s.logger.Warn("failed to delete session", zap.Error(err))
	}
}

// revoke discards a session whose platform token was rejected. The
// upstream sign-out is attempted once; its outcome does not matter
// because the token is already dead.
func (s *AdminService) revoke(ctx context.Context, principal *session.Principal) {
	if err := s.store.Delete(ctx, principal.SessionID); err != nil {
		s.logger.Warn("failed to delete revoked session", zap.Error(err))
	}
	if err := s.client.AdminSignOut(ctx, principal.UpstreamToken); err != nil {
		s.logger.Debug("sign-out after revocation failed", zap.Error(err))
	}
	s.logger.Info("staff session revoked by platform",
		zap.String("session_id", principal.SessionID))
}
