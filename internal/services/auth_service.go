package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/project-task-api/internal/auth"
	"github.com/yukikurage/project-task-api/internal/constants"
	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrPasswordTooShort     = errors.New("password too short")
	ErrPasswordMismatch     = errors.New("passwords do not match")
	ErrEmailTaken           = errors.New("email already exists")
	ErrUsernameTaken        = errors.New("username already exists")
	ErrUserNotFound         = errors.New("user does not exist")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles registration, login and token based identity.
type AuthService struct {
	userRepo    repository.UserRepository
	projectRepo repository.ProjectRepository
	tokens      *auth.TokenManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, projectRepo repository.ProjectRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		projectRepo: projectRepo,
		tokens:      tokens,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Register creates a user and signs its first token pair.
// Checks run in a fixed order: password length, confirmation, email, username.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, auth.TokenPair, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)

	if len(input.Password) < constants.MinPasswordLength {
		return nil, auth.TokenPair{}, ErrPasswordTooShort
	}
	if input.Password != input.ConfirmPassword {
		return nil, auth.TokenPair{}, ErrPasswordMismatch
	}
	if err := s.ensureAvailable(ctx, username, email); err != nil {
		return nil, auth.TokenPair{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, auth.TokenPair{}, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race against a concurrent registration; report which field collided.
			if availErr := s.ensureAvailable(ctx, username, email); availErr != nil {
				return nil, auth.TokenPair{}, availErr
			}
			return nil, auth.TokenPair{}, ErrUsernameTaken
		}
		return nil, auth.TokenPair{}, fmt.Errorf("failed to create user: %w", err)
	}

	tokens, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}

	return user, tokens, nil
}

func (s *AuthService) ensureAvailable(ctx context.Context, username, email string) error {
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}

	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check username: %w", err)
	}

	return nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	UsernameOrEmail string
	Password        string
}

// Login verifies credentials and returns the user with a new token pair.
// The identifier is looked up as an email first, then as a username.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, auth.TokenPair, error) {
	identifier := strings.TrimSpace(input.UsernameOrEmail)

	user, err := s.userRepo.FindByEmail(ctx, identifier)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user, err = s.userRepo.FindByUsername(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.TokenPair{}, ErrUserNotFound
		}
		return nil, auth.TokenPair{}, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, auth.TokenPair{}, ErrInvalidCredentials
	}

	tokens, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}

	return user, tokens, nil
}

// Refresh exchanges a refresh token for a new pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error) {
	claims, err := s.tokens.Parse(refreshToken, auth.RefreshToken)
	if err != nil {
		return auth.TokenPair{}, ErrInvalidToken
	}

	if _, err := s.GetUser(ctx, claims.UserID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return auth.TokenPair{}, ErrInvalidToken
		}
		return auth.TokenPair{}, err
	}

	return s.tokens.Issue(claims.UserID)
}

// ResolveScope turns an access token into the caller and the projects it owns.
func (s *AuthService) ResolveScope(ctx context.Context, accessToken string) (auth.Scope, error) {
	claims, err := s.tokens.Parse(accessToken, auth.AccessToken)
	if err != nil {
		return auth.Scope{}, ErrInvalidToken
	}

	if _, err := s.GetUser(ctx, claims.UserID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return auth.Scope{}, ErrInvalidToken
		}
		return auth.Scope{}, err
	}

	projectIDs, err := s.projectRepo.ListIDsByOwner(ctx, claims.UserID)
	if err != nil {
		return auth.Scope{}, fmt.Errorf("failed to list owned projects: %w", err)
	}

	return auth.Scope{UserID: claims.UserID, ProjectIDs: projectIDs}, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
