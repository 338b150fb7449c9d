package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/sohubtech/homestore/internal/domain"
)

type fakeUserRepo struct {
	byEmail map[string]*domain.AdminUser
}

func (r *fakeUserRepo) Save(_ context.Context, u *domain.AdminUser) error {
	if r.byEmail == nil {
		r.byEmail = map[string]*domain.AdminUser{}
	}
	r.byEmail[u.Email] = u
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*domain.AdminUser, error) {
	if u, ok := r.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) List(_ context.Context) ([]domain.AdminUser, error) {
	var out []domain.AdminUser
	for _, u := range r.byEmail {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	for k, u := range r.byEmail {
		if u.ID == id {
			delete(r.byEmail, k)
			return nil
		}
	}
	return domain.ErrNotFound
}

func TestCreateAndAuthenticate(t *testing.T) {
	uc := &UserUC{Users: &fakeUserRepo{}}

	u, err := uc.Create(context.Background(), " Ops@Store.Test ", "Ops", "s3cret", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Email != "ops@store.test" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	if u.Role != "staff" {
		t.Fatalf("default role = %q, want staff", u.Role)
	}
	if u.PasswordHash == "s3cret" || !strings.HasPrefix(u.PasswordHash, "$2") {
		t.Fatalf("password not bcrypt-hashed: %q", u.PasswordHash)
	}

	got, err := uc.Authenticate(context.Background(), "OPS@store.test", "s3cret")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.LastLoginAt == nil {
		t.Fatal("login time not recorded")
	}
}

func TestAuthenticateRejectsBadPasswordAndUnknownEmail(t *testing.T) {
	uc := &UserUC{Users: &fakeUserRepo{}}
	if _, err := uc.Create(context.Background(), "ops@store.test", "Ops", "s3cret", "admin"); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := uc.Authenticate(context.Background(), "ops@store.test", "wrong"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("want ErrBadCredentials, got %v", err)
	}
	if _, err := uc.Authenticate(context.Background(), "nobody@store.test", "s3cret"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("unknown email must look like bad credentials, got %v", err)
	}
}

func TestAuthenticateRejectsInactive(t *testing.T) {
	repo := &fakeUserRepo{}
	uc := &UserUC{Users: repo}
	u, _ := uc.Create(context.Background(), "ops@store.test", "Ops", "s3cret", "admin")
	u.Active = false
	_ = repo.Save(context.Background(), u)

	if _, err := uc.Authenticate(context.Background(), "ops@store.test", "s3cret"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("inactive account must not sign in, got %v", err)
	}
}

func TestSetPassword(t *testing.T) {
	uc := &UserUC{Users: &fakeUserRepo{}}
	if _, err := uc.Create(context.Background(), "ops@store.test", "Ops", "old", "admin"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := uc.SetPassword(context.Background(), "ops@store.test", "newpass"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	if _, err := uc.Authenticate(context.Background(), "ops@store.test", "old"); !errors.Is(err, ErrBadCredentials) {
		t.Fatal("old password must stop working")
	}
	if _, err := uc.Authenticate(context.Background(), "ops@store.test", "newpass"); err != nil {
		t.Fatalf("new password: %v", err)
	}
}
