package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard-api/internal/constants"
	"github.com/yukikurage/taskboard-api/internal/dto"
	apierrors "github.com/yukikurage/taskboard-api/internal/errors"
	"github.com/yukikurage/taskboard-api/internal/middleware"
	"github.com/yukikurage/taskboard-api/internal/services"
	"github.com/yukikurage/taskboard-api/internal/utils"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
	oauth       services.GoogleOAuth
	frontendURL string
}

// NewAuthHandler creates a new AuthHandler. oauth may be nil when Google
// login is not configured.
func NewAuthHandler(authService *services.AuthService, oauth services.GoogleOAuth, frontendURL string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		oauth:       oauth,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

type authResponse struct {
	Token string      `json:"token"`
	User  dto.UserDTO `json:"user"`
}

// Register creates a new account and returns a token for it.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.authService.Register(services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, authResponse{
		Token: result.Token,
		User:  dto.ToUserDTO(*result.User),
	})
}

// Login authenticates a user with email and password.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Email and password are required")
		return
	}

	result, err := h.authService.Login(services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, authResponse{
		Token: result.Token,
		User:  dto.ToUserDTO(*result.User),
	})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": dto.ToUserDTO(*user)})
}

// GoogleLogin redirects to the Google consent page. The state is kept in the session.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	if h.oauth == nil {
		apierrors.ServiceUnavailable(c, "Google login is not configured")
		return
	}

	state, err := utils.GenerateState()
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(constants.SessionKeyOAuthState, state)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, fmt.Errorf("failed to save session: %w", err))
		return
	}

	c.Redirect(http.StatusFound, h.oauth.AuthCodeURL(state))
}

// GoogleCallback completes the Google flow and hands the token to the frontend.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if h.oauth == nil {
		apierrors.ServiceUnavailable(c, "Google login is not configured")
		return
	}

	session := sessions.Default(c)
	expected, _ := session.Get(constants.SessionKeyOAuthState).(string)
	session.Delete(constants.SessionKeyOAuthState)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, fmt.Errorf("failed to save session: %w", err))
		return
	}

	if expected == "" || c.Query("state") != expected {
		apierrors.BadRequest(c, "Invalid OAuth state")
		return
	}

	code := c.Query("code")
	if code == "" {
		apierrors.BadRequest(c, "Missing authorization code")
		return
	}

	profile, err := h.oauth.Profile(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, services.ErrOAuthExchange) {
			_ = c.Error(err)
			apierrors.Unauthorized(c, "Google authentication failed")
			return
		}
		apierrors.InternalError(c, err)
		return
	}

	result, err := h.authService.LoginWithGoogle(*profile)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	userJSON, err := json.Marshal(dto.ToUserDTO(*result.User))
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}

	query := url.Values{}
	query.Set("token", result.Token)
	query.Set("user", string(userJSON))
	c.Redirect(http.StatusFound, h.frontendURL+"/callback?"+query.Encode())
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmailRequired):
		apierrors.BadRequest(c, "Email and password are required")
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, "Email is already registered")
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c)
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrGoogleProfileInvalid):
		apierrors.BadRequest(c, "Google profile is incomplete")
	case errors.Is(err, services.ErrGoogleEmailUnverified):
		apierrors.Unauthorized(c, "Google email is not verified")
	default:
		apierrors.InternalError(c, err)
	}
}
