package authservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/Leopold1975/churnguard/internal/churnguard/domain/models"
	"github.com/Leopold1975/churnguard/internal/churnguard/repository/userrepo"
	"github.com/Leopold1975/churnguard/internal/pkg/config"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo Repository
	cost     int
}

var (
	ErrUserExists         = fmt.Errorf("%w: username already exists", models.ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid username or password", models.ErrUnauthorized)
	ErrMissingCredentials = fmt.Errorf("%w: missing username or password", models.ErrValidation)
	ErrPasswordTooLong    = fmt.Errorf("%w: password must not exceed 72 bytes", models.ErrValidation)
)

type Repository interface {
	CreateUser(context.Context, models.User) error
	GetUser(context.Context, string) (models.User, error)
}

func New(userRepo Repository, cfg config.Users) *AuthService {
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &AuthService{
		userRepo: userRepo,
		cost:     cost,
	}
}

func (as *AuthService) Register(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return ErrMissingCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), as.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return ErrPasswordTooLong
		}

		return fmt.Errorf("generate from password error: %w", err)
	}

	err = as.userRepo.CreateUser(ctx, models.User{
		Username:     username,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, userrepo.ErrAlreadyExists) {
			return ErrUserExists
		}

		return fmt.Errorf("create user error: %w", err)
	}

	return nil
}

// Login only checks the credentials; nothing is remembered between calls.
func (as *AuthService) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return ErrMissingCredentials
	}

	u, err := as.userRepo.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return ErrInvalidCredentials
		}

		return fmt.Errorf("get user error: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	return nil
}
