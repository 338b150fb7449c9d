package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sohubtech/homestore/internal/domain"
)

var ErrBadCredentials = errors.New("invalid email or password")

type UserUC struct {
	Users domain.UserRepo
}

func (uc *UserUC) Authenticate(ctx context.Context, email, password string) (*domain.AdminUser, error) {
	u, err := uc.Users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if !u.Active {
		return nil, ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	now := time.Now()
	u.LastLoginAt = &now
	if err := uc.Users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// AuthenticateGoogle resolves a Google sign-in to an existing admin account.
// Unknown emails are rejected, sign-in never provisions users.
func (uc *UserUC) AuthenticateGoogle(ctx context.Context, email string) (*domain.AdminUser, error) {
	u, err := uc.Users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if !u.Active {
		return nil, ErrBadCredentials
	}
	now := time.Now()
	u.LastLoginAt = &now
	if err := uc.Users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (uc *UserUC) Create(ctx context.Context, email, name, password, role string) (*domain.AdminUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, domain.ErrMissingFields
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if role == "" {
		role = "staff"
	}
	u := &domain.AdminUser{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
	if err := uc.Users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (uc *UserUC) SetPassword(ctx context.Context, email, password string) error {
	u, err := uc.Users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return uc.Users.Save(ctx, u)
}

func (uc *UserUC) List(ctx context.Context) ([]domain.AdminUser, error) {
	return uc.Users.List(ctx)
}

func (uc *UserUC) Delete(ctx context.Context, id uuid.UUID) error {
	return uc.Users.Delete(ctx, id)
}
