package service

import (
	"sharedcal/cmd/internal/utils"
	"testing"
)

func newUserService() (*DefaultUserService, *fakeUserRepo) {
	repo := newFakeUserRepo()
	return NewUserService(repo, newTestValidator()), repo
}

func TestCreateUserAndLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc, repo := newUserService()

	signup := &CreateUserRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "Sup3r-secret",
	}
	if apierr := svc.CreateUser(signup); apierr != nil {
		t.Fatalf("signup failed: %v", apierr)
	}

	stored, _ := repo.FindByEmail("alice@example.com")
	if stored == nil || stored.SubUUID == "" {
		t.Fatal("expected a stored user with a sub uuid")
	}
	if stored.PasswordHash == "Sup3r-secret" {
		t.Fatal("password stored in the clear")
	}

	resp, apierr := svc.Login(&UserLoginRequest{Email: "alice@example.com", Password: "Sup3r-secret"})
	if apierr != nil {
		t.Fatalf("login failed: %v", apierr)
	}

	data, err := utils.ParseTokenData(resp.AccessToken)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if data.Sub != stored.SubUUID {
		t.Fatalf("token subject %q, want %q", data.Sub, stored.SubUUID)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc, _ := newUserService()

	signup := &CreateUserRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "Sup3r-secret",
	}
	if apierr := svc.CreateUser(signup); apierr != nil {
		t.Fatalf("signup failed: %v", apierr)
	}

	tests := []struct {
		name  string
		email string
		pass  string
	}{
		{"wrong password", "alice@example.com", "Wr0ng-secret"},
		{"unknown email", "nobody@example.com", "Sup3r-secret"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, apierr := svc.Login(&UserLoginRequest{Email: tc.email, Password: tc.pass})
			if apierr == nil || apierr.Code() != 401 {
				t.Fatalf("expected 401, got %v", apierr)
			}
		})
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc, _ := newUserService()

	signup := &CreateUserRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "Sup3r-secret",
	}
	if apierr := svc.CreateUser(signup); apierr != nil {
		t.Fatalf("signup failed: %v", apierr)
	}
	if apierr := svc.CreateUser(signup); apierr == nil || apierr.Code() != 409 {
		t.Fatalf("expected 409, got %v", apierr)
	}
}

func TestCreateUserPasswordPolicy(t *testing.T) {
	svc, _ := newUserService()

	for _, password := range []string{"short1!", "alllowercase1!", "NoDigits!!", "With spaces1!A"} {
		apierr := svc.CreateUser(&CreateUserRequest{
			Username: "alice",
			Email:    "alice@example.com",
			Password: password,
		})
		if apierr == nil || apierr.Code() != 400 {
			t.Errorf("password %q: expected 400, got %v", password, apierr)
		}
	}
}
