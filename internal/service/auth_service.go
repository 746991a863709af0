package service

import (
	"context"
	"strings"
	"time"

	"balance-dashboard/internal/core/domain"
	"balance-dashboard/internal/core/ports"
	"balance-dashboard/internal/session"
	"balance-dashboard/pkg/apperror"

	"github.com/rs/zerolog"
)

// AuthServiceImpl implements ports.AuthService.
type AuthServiceImpl struct {
	client  ports.BackendClient
	session *session.Session
	store   ports.TokenStore
	log     zerolog.Logger
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(
	client ports.BackendClient,
	sess *session.Session,
	store ports.TokenStore,
	log zerolog.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		client:  client,
		session: sess,
		store:   store,
		log:     log,
	}
}

// Login authenticates against the backend, then persists the token and
// signs the session in.
func (s *AuthServiceImpl) Login(ctx context.Context, creds domain.Credentials) error {
	if err := validateCredentials(creds); err != nil {
		return err
	}

	token, err := s.client.Login(ctx, creds)
	if err != nil {
		return err
	}
	return s.signIn(ctx, creds.Username, token)
}

// Register creates the user and signs in with the returned token.
func (s *AuthServiceImpl) Register(ctx context.Context, creds domain.Credentials) error {
	if err := validateCredentials(creds); err != nil {
		return err
	}

	token, err := s.client.Register(ctx, creds)
	if err != nil {
		return err
	}
	return s.signIn(ctx, creds.Username, token)
}

// signIn persists first: a token that cannot survive a restart is not
// handed to the session either.
func (s *AuthServiceImpl) signIn(ctx context.Context, username string, token *domain.Token) error {
	if err := s.store.Save(ctx, token.AccessToken); err != nil {
		s.log.Error().Err(err).Msg("failed to persist token")
		return apperror.ErrSessionStore(err)
	}
	s.session.SetToken(token.AccessToken)

	s.log.Info().Str("username", username).Msg("signed in")
	return nil
}

// Logout clears the session and the persisted token. The session is
// cleared even if the store fails.
func (s *AuthServiceImpl) Logout(ctx context.Context) error {
	s.session.SetToken("")

	if err := s.store.Remove(ctx); err != nil {
		s.log.Error().Err(err).Msg("failed to remove persisted token")
		return apperror.ErrSessionStore(err)
	}

	s.log.Info().Msg("signed out")
	return nil
}

// Restore loads the persisted token into the session at startup. An
// expired JWT is still restored; the backend's 401 ends it.
func (s *AuthServiceImpl) Restore(ctx context.Context) (bool, error) {
	found, err := s.session.Restore(ctx, s.store)
	if err != nil {
		return false, apperror.ErrSessionStore(err)
	}
	if !found {
		return false, nil
	}

	if claims, err := s.session.Claims(); err == nil {
		evt := s.log.Info()
		if claims.Expired(time.Now()) {
			evt = s.log.Warn()
		}
		evt.Str("subject", claims.Subject).
			Time("expires_at", claims.ExpiresAt).
			Msg("restored persisted session")
	}
	return true, nil
}

func validateCredentials(creds domain.Credentials) error {
	if strings.TrimSpace(creds.Username) == "" {
		return apperror.Validation("username is required")
	}
	if creds.Password == "" {
		return apperror.Validation("password is required")
	}
	return nil
}
