package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/gatherly/internal/domain"
	"github.com/immxrtalbeast/gatherly/internal/repository"
)

type UserService struct {
	users repository.UserRepository
	log   *slog.Logger
}

func NewUserService(users repository.UserRepository, log *slog.Logger) *UserService {
	if log == nil {
		log = slog.Default()
	}
	return &UserService{users: users, log: log}
}

func (s *UserService) CreateUser(ctx context.Context, fullName string, email string) (*domain.User, error) {
	const op = "service.user.create"

	if fullName == "" {
		return nil, errors.New("full name is required")
	}
	user := domain.NewUser(fullName, email)
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info("user created", "op", op, "user_id", user.ID.String())
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// GetOrCreateByEmail backs the OAuth callback: a returning account is
// refreshed with the provider's latest profile, a new one is provisioned.
func (s *UserService) GetOrCreateByEmail(ctx context.Context, fullName, email, profilePic string) (*domain.User, error) {
	const op = "service.user.getOrCreateByEmail"

	if email == "" {
		return nil, errors.New("email is required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		user = domain.NewUser(fullName, email)
		user.ProfilePic = profilePic
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
		s.log.Info("user provisioned", "op", op, "user_id", user.ID.String())
		return user, nil
	}
	if err != nil {
		return nil, err
	}

	changed := false
	if fullName != "" && fullName != user.FullName {
		user.FullName = fullName
		changed = true
	}
	if profilePic != "" && profilePic != user.ProfilePic {
		user.ProfilePic = profilePic
		changed = true
	}
	if changed {
		if err := s.users.Update(ctx, user); err != nil {
			return nil, err
		}
	}
	return user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, user *domain.User) error {
	if user == nil {
		return errors.New("user is required")
	}
	user.UpdatedAt = time.Now().UTC()
	return s.users.Update(ctx, user)
}
