package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-task-api/internal/constants"
	"github.com/yukikurage/project-task-api/internal/dto"
	apierrors "github.com/yukikurage/project-task-api/internal/errors"
	"github.com/yukikurage/project-task-api/internal/services"
)

// AccountHandler coordinates registration, login and token refresh.
type AccountHandler struct {
	authService *services.AuthService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(authService *services.AuthService) *AccountHandler {
	return &AccountHandler{
		authService: authService,
	}
}

// Create registers a new user and returns its first token pair.
func (h *AccountHandler) Create(c *gin.Context) {
	type CreateAccountRequest struct {
		Username        string `json:"username" binding:"required,max=150"`
		Email           string `json:"email" binding:"required,email,max=255"`
		Password        string `json:"password" binding:"required,max=255"`
		ConfirmPassword string `json:"confirm_password" binding:"required,max=255"`
	}

	var req CreateAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	_, tokens, err := h.authService.Register(c.Request.Context(), services.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.TokensResponse{Envelope: dto.Created(), Tokens: tokens})
}

// Login authenticates with a username or an email.
func (h *AccountHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		UsernameOrEmail string `json:"username_or_email" binding:"required,max=300"`
		Password        string `json:"password" binding:"required,max=255"`
	}

	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	_, tokens, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		UsernameOrEmail: req.UsernameOrEmail,
		Password:        req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TokensResponse{Envelope: dto.OK(""), Tokens: tokens})
}

// Refresh exchanges a refresh token for a new pair.
func (h *AccountHandler) Refresh(c *gin.Context) {
	type RefreshRequest struct {
		Refresh string `json:"refresh" binding:"required"`
	}

	var req RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	tokens, err := h.authService.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TokensResponse{Envelope: dto.OK(""), Tokens: tokens})
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.ValidationError(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrPasswordMismatch):
		apierrors.ValidationError(c, "Passwords do not match")
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.ValidationError(c, "Email already exists")
	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.ValidationError(c, "Username already exists")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.InvalidCredentials(c, "User does not exist")
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c, "")
	case errors.Is(err, services.ErrInvalidToken):
		apierrors.Unauthorized(c, "Token is invalid or expired")
	default:
		internalError(c, err)
	}
}
