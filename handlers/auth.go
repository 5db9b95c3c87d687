package handlers

import (
	"net/http"

	"mealmatch/identity"
	"mealmatch/middleware"
	"mealmatch/models"

	"github.com/gin-gonic/gin"
)

type RegisterRequest struct {
	Name     string          `json:"name" binding:"required"`
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=6"`
	Role     models.UserRole `json:"role" binding:"required"`
	PhotoURL string          `json:"photo_url"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// userView is the only shape a user record takes in a response; the stored
// password hash stays behind it.
func userView(u *models.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"role":       u.Role,
		"photo_url":  u.PhotoURL,
		"created_at": u.CreatedAt,
	}
}

// Register creates a new user account
func (a *API) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := a.Identity.Register(identity.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		fail(c, err)
		return
	}

	token, err := middleware.GenerateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created successfully",
		"token":   token,
		"user":    userView(user),
	})
}

// Login authenticates a user and returns a JWT
func (a *API) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := a.Identity.Authenticate(req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	token, err := middleware.GenerateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    userView(user),
	})
}

// GetProfile returns the authenticated user's profile
func (a *API) GetProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	user, ok := a.Identity.ByID(userID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userView(user)})
}

type UpdateProfileRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	PhotoURL string `json:"photo_url"`
}

// UpdateProfile applies name/password/photo changes to the caller's account
func (a *API) UpdateProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := a.Identity.UpdateProfile(userID, identity.ProfileUpdate{
		Name:     req.Name,
		Password: req.Password,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "user": userView(user)})
}
