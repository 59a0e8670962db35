package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/iliyamo/user-auth-api/internal/model"
)

// Stats summarizes the user collection for the admin dashboard.
type Stats struct {
	TotalUsers   int64 `json:"total_users"`
	AdminUsers   int64 `json:"admin_users"`
	RegularUsers int64 `json:"regular_users"`
	RecentUsers  int64 `json:"recent_users"` // registered in the last 30 days
}

// ListUsers returns all users, newest first, sanitized.
func (s *Service) ListUsers(ctx context.Context) ([]model.Profile, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Profile, 0, len(users))
	for i := range users {
		out = append(out, users[i].Profile())
	}
	return out, nil
}

// GetUser returns one user's sanitized profile.
func (s *Service) GetUser(ctx context.Context, id uint64) (model.Profile, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return model.Profile{}, ErrNotFound
		}
		return model.Profile{}, err
	}
	return u.Profile(), nil
}

// UpdateUserRole changes a user's role. An admin can never change their
// own role, regardless of the payload.
func (s *Service) UpdateUserRole(ctx context.Context, actorID, id uint64, role string) (model.Profile, error) {
	if !model.ValidRole(role) {
		return model.Profile{}, fmt.Errorf("%w: invalid role %q", ErrInvalidInput, role)
	}
	if actorID == id {
		return model.Profile{}, ErrSelfAction
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return model.Profile{}, ErrNotFound
		}
		return model.Profile{}, err
	}
	if err := s.users.UpdateRole(ctx, id, role); err != nil {
		if isNotFound(err) {
			return model.Profile{}, ErrNotFound
		}
		return model.Profile{}, err
	}
	u.Role = role
	return u.Profile(), nil
}

// DeleteUser removes a user permanently. Self-deletion is refused.
func (s *Service) DeleteUser(ctx context.Context, actorID, id uint64) error {
	if actorID == id {
		return ErrSelfAction
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// UserStats aggregates counts over the user collection.
func (s *Service) UserStats(ctx context.Context) (Stats, error) {
	total, err := s.users.CountAll(ctx)
	if err != nil {
		return Stats{}, err
	}
	admins, err := s.users.CountByRole(ctx, model.RoleAdmin)
	if err != nil {
		return Stats{}, err
	}
	regular, err := s.users.CountByRole(ctx, model.RoleUser)
	if err != nil {
		return Stats{}, err
	}
	recent, err := s.users.CountCreatedSince(ctx, time.Now().UTC().AddDate(0, 0, -30))
	if err != nil {
		return Stats{}, err
	}
	return Stats{TotalUsers: total, AdminUsers: admins, RegularUsers: regular, RecentUsers: recent}, nil
}
