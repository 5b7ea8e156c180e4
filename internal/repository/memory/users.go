// internal/repository/memory/users.go
package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/javajoker/brewhouse-backend/internal/models"
	"github.com/javajoker/brewhouse-backend/internal/repository"
	"github.com/javajoker/brewhouse-backend/internal/utils"
)

type userRepository struct {
	store *Store
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.store.write(ctx, func(st *state) error {
		for _, existing := range st.users {
			if strings.EqualFold(existing.Email, user.Email) || existing.Username == user.Username {
				return repository.ErrDuplicate
			}
		}
		user.EnsureID()
		now := time.Now()
		user.CreatedAt = now
		user.UpdatedAt = now

		stored := *user
		st.users[user.ID] = &stored
		return nil
	})
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.find(ctx, func(u *models.User) bool { return u.ID == id })
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(ctx, func(u *models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.find(ctx, func(u *models.User) bool { return u.Username == username })
}

func (r *userRepository) List(ctx context.Context, role models.UserRole, params utils.PaginationParams) ([]models.User, int64, error) {
	params = params.Normalize()

	var page []models.User
	var total int64
	err := r.store.read(ctx, func(st *state) error {
		var matches []*models.User
		for _, u := range st.users {
			if role == "" || u.Role == role {
				matches = append(matches, u)
			}
		}
		sort.Slice(matches, func(i, j int) bool {
			if matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
				return matches[i].Username < matches[j].Username
			}
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		})

		total = int64(len(matches))
		start, end := params.Window(len(matches))
		page = make([]models.User, 0, end-start)
		for _, u := range matches[start:end] {
			page = append(page, *u)
		}
		return nil
	})
	return page, total, err
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.store.write(ctx, func(st *state) error {
		stored, ok := st.users[user.ID]
		if !ok {
			return repository.ErrNotFound
		}
		stored.DisplayName = user.DisplayName
		stored.PasswordHash = user.PasswordHash
		stored.Role = user.Role
		stored.UpdatedAt = time.Now()
		user.UpdatedAt = stored.UpdatedAt
		return nil
	})
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.store.read(ctx, func(st *state) error {
		count = int64(len(st.users))
		return nil
	})
	return count, err
}

func (r *userRepository) find(ctx context.Context, match func(*models.User) bool) (*models.User, error) {
	var user *models.User
	err := r.store.read(ctx, func(st *state) error {
		for _, u := range st.users {
			if match(u) {
				c := *u
				user = &c
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return user, err
}
