package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"mercadillo/internal/domain/entity"
)

type UserAPI struct {
	client *Client
}

func NewUserAPI(client *Client) *UserAPI {
	return &UserAPI{client: client}
}

// GetProfile handles the backend sometimes wrapping the profile in a
// one-element results envelope.
func (u *UserAPI) GetProfile(ctx context.Context) (*entity.Profile, error) {
	var raw json.RawMessage
	if err := u.client.Do(ctx, http.MethodGet, "/api/users/profile/", nil, &raw); err != nil {
		return nil, err
	}

	var env struct {
		Results []entity.Profile `json:"results"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Results) > 0 {
		return &env.Results[0], nil
	}

	var profile entity.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (u *UserAPI) UpdateProfile(ctx context.Context, fields map[string]string) (*entity.Profile, error) {
	var profile entity.Profile
	if err := u.client.Do(ctx, http.MethodPatch, "/api/users/profile/", fields, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (u *UserAPI) ChangePassword(ctx context.Context, oldPassword, newPassword, newPassword2 string) error {
	body := map[string]string{
		"old_password":  oldPassword,
		"new_password":  newPassword,
		"new_password2": newPassword2,
	}
	return u.client.Do(ctx, http.MethodPatch, "/api/users/change-password/", body, nil)
}

func (u *UserAPI) Addresses(ctx context.Context) ([]entity.Address, error) {
	var addresses []entity.Address
	_, err := u.client.getList(ctx, "/api/users/addresses/", &addresses)
	return addresses, err
}

func (u *UserAPI) CreateAddress(ctx context.Context, address entity.Address) (*entity.Address, error) {
	var created entity.Address
	if err := u.client.Do(ctx, http.MethodPost, "/api/users/addresses/", address, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (u *UserAPI) UpdateAddress(ctx context.Context, id string, fields map[string]string) (*entity.Address, error) {
	var updated entity.Address
	if err := u.client.Do(ctx, http.MethodPatch, fmt.Sprintf("/api/users/addresses/%s/", id), fields, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (u *UserAPI) DeleteAddress(ctx context.Context, id string) error {
	return u.client.Do(ctx, http.MethodDelete, fmt.Sprintf("/api/users/addresses/%s/", id), nil, nil)
}
