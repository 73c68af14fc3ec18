package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/orgdesk/orgdesk/internal/auth"
	"github.com/orgdesk/orgdesk/internal/db/models"
	"github.com/orgdesk/orgdesk/internal/db/repositories"
)

// SeedUser creates a default account unless one with the same email exists.
// It reports whether a user was created.
func SeedUser(ctx context.Context, users repositories.UserStore, username, email, password string) (bool, error) {
	existing, err := users.GetUserByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("failed to look up seed user: %w", err)
	}
	if existing != nil {
		slog.Info("seed user already exists", "email", email, "user_id", existing.ID)
		return false, nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}

	user := &models.User{Username: username, Email: email, Password: hash}
	if err := users.CreateUser(ctx, user); err != nil {
		if repositories.IsConstraint(err, repositories.UsersEmailKey) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create seed user: %w", err)
	}

	slog.Info("seed user created", "email", email, "user_id", user.ID)
	return true, nil
}
