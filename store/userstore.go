package store

import (
	"context"
	"encoding/json"
	"fmt"

	"myvoice-be/models"
)

// UserStore persists the current user under KeyUser, mirroring the single
// saved-user slot of the client.
type UserStore struct {
	kv KV
}

func NewUserStore(kv KV) *UserStore {
	return &UserStore{kv: kv}
}

// Save overwrites the stored current user.
func (s *UserStore) Save(ctx context.Context, user models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding user: %w", err)
	}
	return s.kv.Set(ctx, KeyUser, raw)
}

// Load returns the stored current user, or ErrKeyNotFound if nobody has
// logged in yet.
func (s *UserStore) Load(ctx context.Context) (models.User, error) {
	raw, err := s.kv.Get(ctx, KeyUser)
	if err != nil {
		return models.User{}, err
	}
	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return models.User{}, fmt.Errorf("decoding user: %w", err)
	}
	if user.ID == "" {
		// A cleared slot persists as JSON null.
		return models.User{}, ErrKeyNotFound
	}
	return user, nil
}

// Clear removes the stored user on logout.
func (s *UserStore) Clear(ctx context.Context) error {
	return s.kv.Set(ctx, KeyUser, []byte("null"))
}
