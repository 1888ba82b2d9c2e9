package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"teamdash/internal/auth"
	"teamdash/internal/constants"
	"teamdash/internal/models"
	"teamdash/internal/repository"
)

var (
	ErrUsernameTaken        = errors.New("username already registered")
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUserNotFound         = errors.New("user not found")
	ErrUsernameRequired     = errors.New("username is required")
	ErrEmailRequired        = errors.New("email is required")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// UserService is the credential store: it owns registration, credential
// verification, and password changes, plus user profile CRUD.
type UserService struct {
	userRepo repository.UserRepository
	hasher   *auth.PasswordHasher
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, hasher *auth.PasswordHasher) *UserService {
	return &UserService{
		userRepo: userRepo,
		hasher:   hasher,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

// Register creates a new user with a digested password. Duplicate usernames
// and emails are rejected before any row is inserted.
func (s *UserService) Register(input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	digest, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: digest,
		FullName:     strings.TrimSpace(input.FullName),
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate verifies credentials and returns the matching user. An unknown
// email and a wrong password are indistinguishable to the caller.
func (s *UserService) Authenticate(email, password string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	ok, err := s.hasher.Verify(user.PasswordHash, password)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// ListUsers retrieves all users.
func (s *UserService) ListUsers() ([]models.User, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateProfileInput supports partial profile updates.
type UpdateProfileInput struct {
	Username *string
	Email    *string
	FullName *string
}

// UpdateProfile updates a user's profile fields, re-checking uniqueness of a
// new username or email.
func (s *UserService) UpdateProfile(userID uint64, input UpdateProfileInput) (*models.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	if input.Username != nil && strings.TrimSpace(*input.Username) != "" {
		username := strings.TrimSpace(*input.Username)
		if username != user.Username {
			if existing, err := s.userRepo.FindByUsername(username); err == nil && existing.ID != userID {
				return nil, ErrUsernameTaken
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to check username: %w", err)
			}
			user.Username = username
		}
	}

	if input.Email != nil && strings.TrimSpace(*input.Email) != "" {
		email := strings.TrimSpace(strings.ToLower(*input.Email))
		if email != user.Email {
			if existing, err := s.userRepo.FindByEmail(email); err == nil && existing.ID != userID {
				return nil, ErrEmailTaken
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			user.Email = email
		}
	}

	if input.FullName != nil {
		user.FullName = strings.TrimSpace(*input.FullName)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// ChangePassword verifies the current password before digesting and storing
// the new one.
func (s *UserService) ChangePassword(userID uint64, currentPassword, newPassword string) error {
	user, err := s.GetUser(userID)
	if err != nil {
		return err
	}

	ok, err := s.hasher.Verify(user.PasswordHash, currentPassword)
	if err != nil || !ok {
		return ErrInvalidCredentials
	}

	if len(newPassword) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	digest, err := s.hasher.Hash(newPassword)
	if err != nil {
		return ErrFailedToHashPassword
	}

	user.PasswordHash = digest
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// DeleteUser removes a user together with their memberships and owned tasks.
func (s *UserService) DeleteUser(userID uint64) error {
	if _, err := s.GetUser(userID); err != nil {
		return err
	}

	if err := s.userRepo.Delete(userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}
