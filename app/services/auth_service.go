package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/supermart/app/models"
	"github.com/shashiranjanraj/supermart/app/repositories"
)

// AuthService resolves OAuth profiles to local users, creating them lazily
// on first login.
type AuthService struct {
	users repositories.UserRepository
}

func NewAuthService(users repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// FindOrCreate returns the user for a GitHub profile, inserting a new
// record if this is the first time the account logs in.
func (s *AuthService) FindOrCreate(ctx context.Context, profile *GithubProfile) (*models.User, error) {
	githubID := GithubIDString(profile.ID)

	user, err := s.users.FindByGithubID(ctx, githubID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("lookup user by github id: %w", err)
	}

	fresh := &models.User{
		GithubID: githubID,
		Username: profile.Login,
		Email:    profile.Email,
		Avatar:   profile.Avatar,
	}
	if err := s.users.Create(ctx, fresh); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			// Raced with another callback for the same account.
			return s.users.FindByGithubID(ctx, githubID)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return fresh, nil
}
