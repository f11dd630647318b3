package api

import (
	"context"
	"net/http"
)

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// LoginResponse tolerates both backend shapes: tokens at the top level or
// nested under "tokens", with an optional user descriptor.
type LoginResponse struct {
	Access  string     `json:"access"`
	Refresh string     `json:"refresh"`
	Tokens  *TokenPair `json:"tokens,omitempty"`
	User    *struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user,omitempty"`
}

// TokenPair normalizes the two response layouts into one pair.
func (r *LoginResponse) TokenPair() TokenPair {
	pair := TokenPair{Access: r.Access, Refresh: r.Refresh}
	if pair.Access == "" && r.Tokens != nil {
		pair = *r.Tokens
	}
	return pair
}

type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type AuthAPI struct {
	client *Client
}

func NewAuthAPI(client *Client) *AuthAPI {
	return &AuthAPI{client: client}
}

func (a *AuthAPI) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	body := map[string]string{"username": username, "password": password}
	var resp LoginResponse
	if err := a.client.Do(ctx, http.MethodPost, "/api/users/token/", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *AuthAPI) Register(ctx context.Context, input RegisterInput) error {
	return a.client.Do(ctx, http.MethodPost, "/api/users/register/", input, nil)
}

func (a *AuthAPI) RefreshToken(ctx context.Context, refresh string) (*TokenPair, error) {
	body := map[string]string{"refresh": refresh}
	var pair TokenPair
	if err := a.client.Do(ctx, http.MethodPost, "/api/users/token/refresh/", body, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}
