package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/brewpoint/kiosk/pkg/auth"
	"github.com/brewpoint/kiosk/pkg/authapi"
	pkgerrors "github.com/brewpoint/kiosk/pkg/errors"
	"github.com/brewpoint/kiosk/pkg/logger"
	"github.com/brewpoint/kiosk/pkg/state"
)

// tokenIssuer is the slice of the auth client the session service needs.
type tokenIssuer interface {
	Token(ctx context.Context, username, password, scope string) (*authapi.TokenResponse, error)
}

// Service owns the admin session: the persisted bearer token and everything
// derived from it. Authentication state is never cached; each check re-reads
// and re-decodes the stored token so expiry is observed the moment it happens.
type Service struct {
	store         state.Store
	issuer        tokenIssuer
	requiredScope string
	logg          *logger.Logger
	now           func() time.Time
}

// Params collects the session service dependencies.
type Params struct {
	Store         state.Store
	Issuer        *authapi.Client
	RequiredScope string
	Logger        *logger.Logger
	Now           func() time.Time
}

// NewService builds the session service, validating its dependencies.
func NewService(params Params) (*Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("state store is required")
	}
	if params.Issuer == nil {
		return nil, fmt.Errorf("auth client is required")
	}
	if strings.TrimSpace(params.RequiredScope) == "" {
		return nil, fmt.Errorf("required scope is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:         params.Store,
		issuer:        params.Issuer,
		requiredScope: params.RequiredScope,
		logg:          params.Logger,
		now:           now,
	}, nil
}

// Login exchanges admin credentials for a bearer token and persists it. A
// failed persist is surfaced as a storage error so the caller knows the
// session will not survive.
func (s *Service) Login(ctx context.Context, username, password string) error {
	token, err := s.issuer.Token(ctx, username, password, s.requiredScope)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, state.AccessTokenKey, token.AccessToken); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "persist access token")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithOperation(ctx, "login"), "admin session established")
	}
	return nil
}

// Logout removes the stored token. Logging out when no session exists is not
// an error.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.store.Delete(ctx, state.AccessTokenKey); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "clear access token")
	}
	return nil
}

// Invalidate drops the session after a backend rejected its token. Unlike
// Logout it swallows storage failures; the caller is already handling an
// auth error and a second failure adds nothing actionable.
func (s *Service) Invalidate(ctx context.Context) {
	if err := s.store.Delete(ctx, state.AccessTokenKey); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "failed to clear rejected token")
	}
}

// Token returns the raw stored token, or empty when absent.
func (s *Service) Token(ctx context.Context) string {
	raw, err := s.store.Get(ctx, state.AccessTokenKey)
	if err != nil {
		if !errors.Is(err, state.ErrNotFound) && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "token read failed")
		}
		return ""
	}
	return raw
}

// Claims decodes the stored token without verifying its signature. The kiosk
// is a pure consumer of the token; signature verification belongs to the
// backends that accept it.
func (s *Service) Claims(ctx context.Context) (*auth.TokenClaims, error) {
	raw := s.Token(ctx)
	if raw == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "no session")
	}
	return auth.DecodeToken(raw)
}

// IsAuthenticated reports whether a stored token exists, decodes, has not
// expired, and carries the required admin scope. Each of those conditions is
// recomputed on every call.
func (s *Service) IsAuthenticated(ctx context.Context) bool {
	claims, err := s.Claims(ctx)
	if err != nil {
		return false
	}
	if claims.IsExpired(s.now()) {
		return false
	}
	return claims.HasScope(s.requiredScope)
}

// HasRequiredScope reports whether the stored token carries the admin scope,
// ignoring expiry. Useful for distinguishing "wrong account" from "stale
// session".
func (s *Service) HasRequiredScope(ctx context.Context) bool {
	claims, err := s.Claims(ctx)
	if err != nil {
		return false
	}
	return claims.HasScope(s.requiredScope)
}
