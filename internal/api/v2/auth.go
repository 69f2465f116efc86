// internal/api/v2/auth.go - account and authentication endpoints
package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lavosystem/lavo-go/internal/datastore"
	"github.com/lavosystem/lavo-go/internal/errors"
	"github.com/lavosystem/lavo-go/internal/security"
)

// RegisterRequest is the payload for account creation
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginRequest is the payload for authentication
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token and the authenticated user
type LoginResponse struct {
	Token string          `json:"token"`
	User  *datastore.User `json:"user"`
}

// Register creates a new back office account.
func (c *Controller) Register(ctx echo.Context) error {
	var req RegisterRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.HandleError(ctx, nil, "Name, email and password are required", http.StatusBadRequest)
	}
	if req.Role == "" {
		req.Role = datastore.RoleLojista
	}
	if !datastore.ValidRole(req.Role) {
		return c.HandleError(ctx, nil, "Invalid role", http.StatusBadRequest)
	}

	if _, err := c.DS.GetUserByEmail(req.Email); err == nil {
		return c.HandleError(ctx, nil, "Email is already registered", http.StatusBadRequest)
	} else if errors.Category(err) != errors.CategoryNotFound {
		return c.HandleError(ctx, err, "Failed to create account", statusForError(err))
	}

	hash, err := security.HashPassword(req.Password, c.Settings.Security.BcryptCost)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to create account", http.StatusInternalServerError)
	}

	user := datastore.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hash,
		Role:     req.Role,
	}
	if err := c.DS.CreateUser(&user); err != nil {
		return c.HandleError(ctx, err, "Failed to create account", statusForError(err))
	}

	return ctx.JSON(http.StatusCreated, user)
}

// Login authenticates a user and issues a bearer token.
func (c *Controller) Login(ctx echo.Context) error {
	var req LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := c.DS.GetUserByEmail(req.Email)
	if err != nil || !security.CheckPassword(req.Password, user.Password) {
		// same answer for unknown email and wrong password
		return c.HandleError(ctx, nil, "Invalid credentials", http.StatusUnauthorized)
	}

	token, err := c.Tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to issue token", http.StatusInternalServerError)
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, User: user})
}

// RecoverPassword starts the password reset flow. The answer does not
// reveal whether the email exists.
func (c *Controller) RecoverPassword(ctx echo.Context) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	resp := map[string]string{
		"message": "If the email is registered, a reset link has been sent",
	}

	user, err := c.DS.GetUserByEmail(req.Email)
	if err != nil {
		return ctx.JSON(http.StatusOK, resp)
	}

	resetToken, err := c.Tokens.GenerateResetToken(user.ID)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to start password recovery", http.StatusInternalServerError)
	}

	// TODO: deliver the token by email once the SMTP integration lands.
	// Until then the reset link is surfaced through the server log.
	c.apiLogger.Info("Password reset requested",
		"user_id", user.ID,
		"reset_token", resetToken,
	)

	return ctx.JSON(http.StatusOK, resp)
}

// ResetPassword sets a new password using a valid reset token.
func (c *Controller) ResetPassword(ctx echo.Context) error {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}
	if req.Token == "" || req.NewPassword == "" {
		return c.HandleError(ctx, nil, "Token and new password are required", http.StatusBadRequest)
	}

	claims, err := c.Tokens.VerifyToken(req.Token, security.PurposeReset)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid or expired reset token", http.StatusUnauthorized)
	}

	hash, err := security.HashPassword(req.NewPassword, c.Settings.Security.BcryptCost)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to reset password", http.StatusInternalServerError)
	}

	if err := c.DS.UpdateUserPassword(claims.UserID, hash); err != nil {
		return c.HandleError(ctx, err, "Failed to reset password", statusForError(err))
	}

	return ctx.JSON(http.StatusOK, map[string]string{"message": "Password updated"})
}

// GetUsers lists all accounts. Admin only.
func (c *Controller) GetUsers(ctx echo.Context) error {
	claims, ok := ctx.Get(claimsContextKey).(*security.Claims)
	if !ok || claims.Role != datastore.RoleAdmin {
		return c.HandleError(ctx, nil, "Admin access required", http.StatusForbidden)
	}

	users, err := c.DS.GetAllUsers()
	if err != nil {
		return c.HandleError(ctx, err, "Failed to list users", statusForError(err))
	}
	return ctx.JSON(http.StatusOK, users)
}
