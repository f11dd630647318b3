package usecase

import (
	"context"

	"mercadillo/internal/api"
	"mercadillo/internal/cache"
	"mercadillo/internal/domain/entity"
)

var (
	profileKey   = cache.NewKey("profile", nil)
	addressesKey = cache.NewKey("addresses", nil)
)

// Account handles profile, password and address management.
type Account struct {
	userAPI *api.UserAPI
	cache   *cache.Store
}

func NewAccount(userAPI *api.UserAPI, store *cache.Store) *Account {
	return &Account{userAPI: userAPI, cache: store}
}

func (a *Account) Profile(ctx context.Context) (*entity.Profile, error) {
	value, err := a.cache.Get(ctx, profileKey, func(ctx context.Context) (interface{}, error) {
		return a.userAPI.GetProfile(ctx)
	})
	if err != nil {
		return nil, err
	}
	return value.(*entity.Profile), nil
}

func (a *Account) UpdateProfile(ctx context.Context, fields map[string]string) (*entity.Profile, error) {
	profile, err := a.userAPI.UpdateProfile(ctx, fields)
	if err != nil {
		return nil, err
	}
	a.cache.Put(profileKey, profile)
	return profile, nil
}

func (a *Account) ChangePassword(ctx context.Context, oldPassword, newPassword, newPassword2 string) error {
	return a.userAPI.ChangePassword(ctx, oldPassword, newPassword, newPassword2)
}

func (a *Account) Addresses(ctx context.Context) ([]entity.Address, error) {
	value, err := a.cache.Get(ctx, addressesKey, func(ctx context.Context) (interface{}, error) {
		return a.userAPI.Addresses(ctx)
	})
	if err != nil {
		return nil, err
	}
	return value.([]entity.Address), nil
}

func (a *Account) CreateAddress(ctx context.Context, address entity.Address) (*entity.Address, error) {
	created, err := a.userAPI.CreateAddress(ctx, address)
	if err != nil {
		return nil, err
	}
	a.cache.Invalidate(addressesKey)
	return created, nil
}

func (a *Account) UpdateAddress(ctx context.Context, id string, fields map[string]string) (*entity.Address, error) {
	updated, err := a.userAPI.UpdateAddress(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	a.cache.Invalidate(addressesKey)
	return updated, nil
}

func (a *Account) DeleteAddress(ctx context.Context, id string) error {
	if err := a.userAPI.DeleteAddress(ctx, id); err != nil {
		return err
	}
	a.cache.Invalidate(addressesKey)
	return nil
}
