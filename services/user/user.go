package user

import (
	"time"

	userRepo "roamstay/database/repository/user"
	"roamstay/models"
	"roamstay/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = 72 * time.Hour

// RegisterInput carries the signup fields.
type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginInput carries the credential pair.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// DefaultUserService implements account registration and login.
type DefaultUserService struct {
	Repo   userRepo.UserRepository
	Logger *zap.Logger
}

// Register creates an account with a bcrypt-hashed password.
func (s *DefaultUserService) Register(input RegisterInput) (*models.User, error) {
	if existing, err := s.Repo.GetByEmail(input.Email); err == nil && existing != nil {
		return nil, utils.NewConflictError("an account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and mints a signed token.
func (s *DefaultUserService) Login(input LoginInput) (*models.User, string, error) {
	user, err := s.Repo.GetByEmail(input.Email)
	if err != nil {
		return nil, "", utils.NewValidationError("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, "", utils.NewValidationError("invalid email or password")
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.IsAdmin, tokenLifetime)
	if err != nil {
		s.Logger.Error("token generation failed", zap.Error(err))
		return nil, "", err
	}
	return user, token, nil
}

// Get returns the account by id.
func (s *DefaultUserService) Get(id string) (*models.User, error) {
	user, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, utils.NewNotFoundError("user %s not found", id)
	}
	return user, nil
}
