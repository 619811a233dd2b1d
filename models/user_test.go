package models

import (
	"context"
	"testing"

	"github.com/vshopvn/banhang_backend/utils"
)

func TestCreateUserHashesPasswordAndLogin(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	user, err := CreateUser(ctx, &NewUser{
		Name:     "Chị Hoa",
		Email:    "Hoa@Example.COM",
		Password: "matkhau123",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.Email != "hoa@example.com" {
		t.Fatalf("expected lowercased email, got %s", user.Email)
	}
	if user.Password == "matkhau123" {
		t.Fatal("password stored in plain text")
	}
	if user.Role != UserRoleUser {
		t.Fatalf("expected default role USER, got %s", user.Role)
	}

	result, err := Login(ctx, &LoginInput{Email: "hoa@example.com", Password: "matkhau123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected a token")
	}

	claims, err := utils.JwtValidate(result.Token)
	if err != nil || !claims.Valid {
		t.Fatalf("token does not validate: %v", err)
	}

	if _, err := Login(ctx, &LoginInput{Email: "hoa@example.com", Password: "sai"}); !utils.IsBusinessError(err) {
		t.Fatalf("expected business error for wrong password, got %v", err)
	}
	if _, err := Login(ctx, &LoginInput{Email: "khongco@example.com", Password: "matkhau123"}); !utils.IsBusinessError(err) {
		t.Fatalf("expected business error for unknown email, got %v", err)
	}
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	input := &NewUser{Name: "A", Email: "a@example.com", Password: "matkhau123"}
	if _, err := CreateUser(ctx, input); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := CreateUser(ctx, input); !utils.IsBusinessError(err) {
		t.Fatalf("expected duplicate email error, got %v", err)
	}
}

func TestLoginBlockedForInactiveUser(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	if _, err := CreateUser(ctx, &NewUser{
		Name: "B", Email: "b@example.com", Password: "matkhau123", IsActive: utils.NewFalse(),
	}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := Login(ctx, &LoginInput{Email: "b@example.com", Password: "matkhau123"}); !utils.IsBusinessError(err) {
		t.Fatalf("expected locked account error, got %v", err)
	}
}

func TestLastAdminIsProtected(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	admin, err := CreateUser(ctx, &NewUser{
		Name: "Quản trị", Email: "admin@example.com", Password: "matkhau123", Role: UserRoleAdmin,
	})
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}

	if _, err := DeleteUser(ctx, admin.ID); !utils.IsBusinessError(err) {
		t.Fatalf("expected last admin delete to be blocked, got %v", err)
	}
	if _, err := UpdateUser(ctx, admin.ID, &UpdateUserInput{
		Name: "Quản trị", Role: UserRoleUser,
	}); !utils.IsBusinessError(err) {
		t.Fatalf("expected last admin demotion to be blocked, got %v", err)
	}
	if _, err := UpdateUser(ctx, admin.ID, &UpdateUserInput{
		Name: "Quản trị", IsActive: utils.NewFalse(),
	}); !utils.IsBusinessError(err) {
		t.Fatalf("expected last admin deactivation to be blocked, got %v", err)
	}

	// With a second admin in place the first one can go.
	if _, err := CreateUser(ctx, &NewUser{
		Name: "Quản trị 2", Email: "admin2@example.com", Password: "matkhau123", Role: UserRoleAdmin,
	}); err != nil {
		t.Fatalf("create second admin: %v", err)
	}
	if _, err := DeleteUser(ctx, admin.ID); err != nil {
		t.Fatalf("delete admin with backup present: %v", err)
	}
}
