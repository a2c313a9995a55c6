package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type User struct {
	// ID is the system generated unique identifier for the user.
	ID int32
	// UID is a stable external identifier, assigned on creation.
	UID string

	// Standard fields
	CreatedTs int64
	UpdatedTs int64

	// Domain specific fields
	TelegramID int64
	Username   string
	FirstName  string
	LastName   string
}

type FindUser struct {
	ID         *int32
	UID        *string
	TelegramID *int64
	Username   *string
	Limit      *int
	Offset     *int
}

type UpdateUser struct {
	ID        int32
	UpdatedTs *int64
	Username  *string
	FirstName *string
	LastName  *string
}

type DeleteUser struct {
	ID int32
}

func (s *Store) CreateUser(ctx context.Context, create *User) (*User, error) {
	if create.UID == "" {
		create.UID = uuid.NewString()
	}
	user, err := s.driver.CreateUser(ctx, create)
	if err != nil {
		return nil, err
	}
	s.userCache.Set(ctx, userCacheKey(user.TelegramID), user)
	return user, nil
}

func (s *Store) ListUsers(ctx context.Context, find *FindUser) ([]*User, error) {
	users, err := s.driver.ListUsers(ctx, find)
	if err != nil {
		return nil, err
	}
	for _, user := range users {
		s.userCache.Set(ctx, userCacheKey(user.TelegramID), user)
	}
	return users, nil
}

func (s *Store) GetUser(ctx context.Context, find *FindUser) (*User, error) {
	if find.TelegramID != nil {
		if cached, ok := s.userCache.Get(ctx, userCacheKey(*find.TelegramID)); ok {
			if user, ok := cached.(*User); ok {
				return user, nil
			}
		}
	}

	limit := 1
	find.Limit = &limit
	users, err := s.ListUsers(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return users[0], nil
}

// GetOrCreateUserByTelegramID finds a user by telegram id, registering a new
// row on first contact. The returned bool reports whether the user was just
// created.
func (s *Store) GetOrCreateUserByTelegramID(ctx context.Context, create *User) (*User, bool, error) {
	existing, err := s.GetUser(ctx, &FindUser{TelegramID: &create.TelegramID})
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to find user")
	}
	if existing != nil {
		return existing, false, nil
	}

	user, err := s.CreateUser(ctx, create)
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to create user")
	}
	return user, true, nil
}

func (s *Store) UpdateUser(ctx context.Context, update *UpdateUser) (*User, error) {
	user, err := s.driver.UpdateUser(ctx, update)
	if err != nil {
		return nil, err
	}
	s.userCache.Set(ctx, userCacheKey(user.TelegramID), user)
	return user, nil
}

func (s *Store) DeleteUser(ctx context.Context, delete *DeleteUser) error {
	user, err := s.GetUser(ctx, &FindUser{ID: &delete.ID})
	if err != nil {
		return err
	}
	if err := s.driver.DeleteUser(ctx, delete); err != nil {
		return err
	}
	if user != nil {
		s.userCache.Delete(ctx, userCacheKey(user.TelegramID))
	}
	return nil
}

func userCacheKey(telegramID int64) string {
	return fmt.Sprintf("user-tg-%d", telegramID)
}
