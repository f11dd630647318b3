package usecase

import (
	"context"

	"mercadillo/internal/api"
	"mercadillo/internal/domain/entity"
	"mercadillo/internal/session"
	"mercadillo/pkg/errors"
	"mercadillo/pkg/logger"
)

// Auth drives the session store through the auth API.
type Auth struct {
	authAPI *api.AuthAPI
	session *session.Store
}

func NewAuth(authAPI *api.AuthAPI, store *session.Store) *Auth {
	a := &Auth{authAPI: authAPI, session: store}
	store.SetRefresher(a.refreshTokens)
	return a
}

// Login exchanges credentials for a token pair and transitions the session
// to authenticated, persisting tokens and the user descriptor.
func (a *Auth) Login(ctx context.Context, username, password string) error {
	resp, err := a.authAPI.Login(ctx, username, password)
	if err != nil {
		return err
	}

	pair := resp.TokenPair()
	if pair.Access == "" || pair.Refresh == "" {
		return errors.Unauthorized("no valid tokens received from server", nil)
	}

	user := entity.User{Username: username}
	if resp.User != nil {
		user.ID = resp.User.ID
		user.Email = resp.User.Email
	}

	if err := a.session.Login(user, pair.Access, pair.Refresh); err != nil {
		return err
	}
	logger.Info("user %s logged in", username)
	return nil
}

// Register creates the account and logs straight in on success.
func (a *Auth) Register(ctx context.Context, input api.RegisterInput) error {
	if err := a.authAPI.Register(ctx, input); err != nil {
		return err
	}
	return a.Login(ctx, input.Username, input.Password)
}

func (a *Auth) Logout() error {
	state := a.session.State()
	if err := a.session.Logout(); err != nil {
		return err
	}
	if state.Phase == session.Authenticated {
		logger.Info("user %s logged out", state.User.Username)
	}
	return nil
}

func (a *Auth) refreshTokens(ctx context.Context, refreshToken string) (string, string, error) {
	pair, err := a.authAPI.RefreshToken(ctx, refreshToken)
	if err != nil {
		return "", "", err
	}
	return pair.Access, pair.Refresh, nil
}
