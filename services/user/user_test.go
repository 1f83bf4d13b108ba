package user

import (
	"errors"
	"testing"

	"roamstay/models"
	"roamstay/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type stubUserRepo struct {
	users map[string]*models.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*models.User)}
}

func (r *stubUserRepo) Create(u *models.User) error {
	copy := *u
	r.users[u.ID] = &copy
	return nil
}

func (r *stubUserRepo) GetByID(id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, errors.New("not found")
	}
	copy := *u
	return &copy, nil
}

func (r *stubUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, errors.New("not found")
}

func newTestService() (*DefaultUserService, *stubUserRepo) {
	repo := newStubUserRepo()
	return &DefaultUserService{Repo: repo, Logger: zap.NewNop()}, repo
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, repo := newTestService()

	user, err := svc.Register(RegisterInput{
		Name:     "Guest",
		Email:    "guest@example.com",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("register error: %v", err)
	}
	stored := repo.users[user.ID]
	if stored.PasswordHash == "correct horse" {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct horse")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, repo := newTestService()
	repo.users["u1"] = &models.User{ID: "u1", Email: "guest@example.com"}

	_, err := svc.Register(RegisterInput{Name: "Guest", Email: "guest@example.com", Password: "password123"})
	if utils.ErrorCode(err) != utils.CodeConflict {
		t.Fatalf("error = %v, want conflict", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService()
	registered, err := svc.Register(RegisterInput{
		Name:     "Guest",
		Email:    "guest@example.com",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("register error: %v", err)
	}

	user, token, err := svc.Login(LoginInput{Email: "guest@example.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("login error: %v", err)
	}
	if user.ID != registered.ID {
		t.Errorf("user id = %q, want %q", user.ID, registered.ID)
	}
	if token == "" {
		t.Fatal("empty token")
	}

	id, email, admin, err := utils.ExtractActorFromToken(token)
	if err != nil {
		t.Fatalf("token validation error: %v", err)
	}
	if id != registered.ID || email != "guest@example.com" || admin {
		t.Errorf("claims = (%q, %q, %v)", id, email, admin)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Register(RegisterInput{Name: "Guest", Email: "guest@example.com", Password: "correct horse"}); err != nil {
		t.Fatalf("register error: %v", err)
	}

	if _, _, err := svc.Login(LoginInput{Email: "guest@example.com", Password: "wrong"}); err == nil {
		t.Fatal("expected login failure")
	}
	if _, _, err := svc.Login(LoginInput{Email: "nobody@example.com", Password: "wrong"}); err == nil {
		t.Fatal("expected login failure for unknown email")
	}
}
