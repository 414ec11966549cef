package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"coursepanel/internal/domain"
	"coursepanel/internal/domain/models"
	"coursepanel/internal/domain/services"
	"coursepanel/internal/repository/memory"
)

func TestUserService_CreateHashesAndDefaults(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(memory.NewUserRepository(memory.NewStore()), plainHasher{}, testLogger())

	user, err := svc.CreateUser(ctx, &services.CreateUserRequest{
		Username: " alice ",
		Email:    "alice@example.com",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("expected trimmed username, got %q", user.Username)
	}
	if user.PasswordHash != "hashed:secret1" {
		t.Errorf("expected hashed password, got %q", user.PasswordHash)
	}
	if user.Role != models.RoleEditor || user.Status != models.UserStatusActive {
		t.Errorf("expected editor/active defaults, got %s/%s", user.Role, user.Status)
	}

	_, err = svc.CreateUser(ctx, &services.CreateUserRequest{
		Username: "alice",
		Email:    "other@example.com",
		Password: "secret1",
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected ErrConflict for duplicate username, got %v", err)
	}
}

func TestUserService_CreateValidation(t *testing.T) {
	svc := NewUserService(memory.NewUserRepository(memory.NewStore()), plainHasher{}, testLogger())

	tests := []struct {
		name string
		req  services.CreateUserRequest
	}{
		{name: "missing username", req: services.CreateUserRequest{Email: "a@example.com", Password: "secret"}},
		{name: "bad email", req: services.CreateUserRequest{Username: "a", Email: "nope", Password: "secret"}},
		{name: "short password", req: services.CreateUserRequest{Username: "a", Email: "a@example.com", Password: "abc"}},
		{name: "unknown role", req: services.CreateUserRequest{Username: "a", Email: "a@example.com", Password: "secret", Role: "root"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			if _, err := svc.CreateUser(context.Background(), &req); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestUserService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(memory.NewUserRepository(memory.NewStore()), plainHasher{}, testLogger())

	user, err := svc.CreateUser(ctx, &services.CreateUserRequest{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	role := models.RoleViewer
	password := "newsecret"
	updated, err := svc.UpdateUser(ctx, user.ID, &services.UpdateUserRequest{Role: &role, Password: &password})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if updated.Role != models.RoleViewer || updated.PasswordHash != "hashed:newsecret" {
		t.Errorf("unexpected update result: role=%s hash=%s", updated.Role, updated.PasswordHash)
	}
	if updated.Email != "bob@example.com" {
		t.Errorf("expected email untouched, got %s", updated.Email)
	}

	deleted, err := svc.DeleteUser(ctx, user.ID)
	if err != nil || !deleted {
		t.Fatalf("DeleteUser: deleted=%v err=%v", deleted, err)
	}
	deleted, err = svc.DeleteUser(ctx, user.ID)
	if err != nil || deleted {
		t.Errorf("second DeleteUser: deleted=%v err=%v", deleted, err)
	}
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUserRepository(memory.NewStore())
	users := NewUserService(repo, plainHasher{}, testLogger())
	auth := NewAuthService(repo, plainHasher{}, staticIssuer{ttl: time.Hour}, testLogger())

	admin, err := users.CreateUser(ctx, &services.CreateUserRequest{
		Username: "admin", Email: "admin@example.com", Password: "admin", Role: models.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if _, err := users.CreateUser(ctx, &services.CreateUserRequest{
		Username: "user2", Email: "user2@example.com", Password: "user456", Status: models.UserStatusInactive,
	}); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	result, err := auth.Login(ctx, &services.LoginRequest{Username: "admin", Password: "admin"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if result.Token != "token-"+admin.ID || result.ExpiresIn != 3600 || result.User.ID != admin.ID {
		t.Errorf("unexpected login result: %+v", result)
	}

	tests := []struct {
		name    string
		req     services.LoginRequest
		wantErr error
	}{
		{name: "wrong password", req: services.LoginRequest{Username: "admin", Password: "nope"}, wantErr: domain.ErrUnauthorized},
		{name: "unknown user", req: services.LoginRequest{Username: "ghost", Password: "admin"}, wantErr: domain.ErrUnauthorized},
		{name: "inactive user", req: services.LoginRequest{Username: "user2", Password: "user456"}, wantErr: domain.ErrUnauthorized},
		{name: "missing password", req: services.LoginRequest{Username: "admin"}, wantErr: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			if _, err := auth.Login(ctx, &req); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	me, err := auth.CurrentUser(ctx, admin.ID)
	if err != nil || me.Username != "admin" {
		t.Errorf("CurrentUser: user=%v err=%v", me, err)
	}
	if _, err := auth.CurrentUser(ctx, ""); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for empty subject, got %v", err)
	}
}
