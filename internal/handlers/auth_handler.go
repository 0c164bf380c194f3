package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"team-task-board/internal/auth"
	"team-task-board/internal/models"
	"team-task-board/internal/store"

	"github.com/gin-gonic/gin"
)

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignupRequest represents the signup request payload
type SignupRequest struct {
	Name     string      `json:"name" binding:"required"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=6"`
	Role     models.Role `json:"role"`
}

// GoogleLoginRequest carries the opaque Google ID token
type GoogleLoginRequest struct {
	Token string `json:"token"`
}

// AuthResponse represents a successful authentication response
type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Login handles POST /api/login
// Verifies email/password against the stored bcrypt hash.
func (a *App) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request. Email and password are required.",
		})
		return
	}

	user, err := a.Store.FindUserByEmail(req.Email)
	if err != nil || user.Password == "" || !auth.CheckPassword(user.Password, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	a.issueSession(c, user)
}

// Signup handles POST /api/signup
// Creates the account and logs it in immediately.
func (a *App) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleMember
	}

	user, err := a.Store.AddUser(req.Name, req.Email, hash, role, "")
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email is already registered"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		}
		return
	}

	a.Emitter.EmitSuccess("Account created successfully! Welcome.")
	a.issueSession(c, user)
}

// GoogleLogin handles POST /api/auth/google
// Accepts an opaque credential, verifies it and upserts the account:
// 200 {user, token} on success, 400 missing credential, 401 invalid.
func (a *App) GoogleLogin(c *gin.Context) {
	var req GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID token not provided."})
		return
	}

	profile, err := a.Verifier.Verify(req.Token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid ID token. Authentication failed."})
		return
	}

	user, err := a.Store.FindUserByEmail(profile.Email)
	switch {
	case err == nil:
		// Existing account: refresh name and avatar from the verified profile.
		user, err = a.Store.UpdateUser(user.ID, store.UserUpdate{
			Name:      &profile.Name,
			AvatarURL: &profile.Picture,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update account"})
			return
		}
		a.Emitter.EmitSuccess(fmt.Sprintf("Welcome back, %s!", user.Name))
	case errors.Is(err, store.ErrNotFound):
		// New Google accounts start as members and carry no password.
		user, err = a.Store.AddUser(profile.Name, profile.Email, "", models.RoleMember, profile.Picture)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
			return
		}
		a.Emitter.EmitSuccess("Account created successfully! Welcome.")
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up account"})
		return
	}

	a.issueSession(c, user)
}

// Logout handles POST /api/logout
// Ends the session; with no sessions left the deadline scanner goes quiet.
func (a *App) Logout(c *gin.Context) {
	tokenID := c.GetString("token_id")
	if tokenID != "" {
		a.Sessions.Remove(tokenID)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (a *App) issueSession(c *gin.Context, user models.User) {
	token, tokenID, err := auth.GenerateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	a.Sessions.Register(tokenID, user.ID)

	c.JSON(http.StatusOK, AuthResponse{Token: token, User: user})
}
