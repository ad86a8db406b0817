package memory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/library-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	run runner
	now func() time.Time
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	var user model.User
	err := r.run(func(a *arena) error {
		for _, u := range a.users {
			if strings.EqualFold(u.Email, email) {
				user = u
				return nil
			}
		}
		return model.ErrNotFound
	})
	return user, err
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	var user model.User
	err := r.run(func(a *arena) error {
		u, ok := a.users[id]
		if !ok {
			return model.ErrNotFound
		}
		user = u
		return nil
	})
	return user, err
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	err := r.run(func(a *arena) error {
		for _, u := range a.users {
			if strings.EqualFold(u.Email, user.Email) {
				return model.ErrDuplicateEmail
			}
		}
		if user.ID == uuid.Nil {
			user.ID = uuid.New()
		}
		now := r.now()
		user.CreatedAt, user.UpdatedAt = now, now
		a.users[user.ID] = user
		return nil
	})
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}
