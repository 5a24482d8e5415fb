package users

import (
	"errors"
	"net/http"
	"strings"

	"shopfloor/internal/rate_limiter"
	custom_error "shopfloor/pkg/errors"
	"shopfloor/pkg/models"
	"shopfloor/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UsersHandler struct {
	Repository UserRepository
	tokens     *security.TokenManager
	limiter    *rate_limiter.RateLimiter
	log        *zap.Logger
}

func NewHandler(r UserRepository, tokens *security.TokenManager, limiter *rate_limiter.RateLimiter, log *zap.Logger) *UsersHandler {
	return &UsersHandler{
		Repository: r,
		tokens:     tokens,
		limiter:    limiter,
		log:        log,
	}
}

func (h *UsersHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	auth.POST("/login", h.limiter.Middleware(), h.Login)
	auth.POST("/register", h.RegisterUser)
}

func (h *UsersHandler) RegisterUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request payload", "details": err.Error()})
		return
	}

	if req.Password != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Passwords do not match"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	conflict, err := h.Repository.FindConflict(c.Request.Context(), email, username)
	if err != nil {
		h.serverError(c, "Failed to check existing users", err)
		return
	}
	switch conflict {
	case "email":
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email already registered"})
		return
	case "username":
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Username already taken"})
		return
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		h.serverError(c, "Failed to hash password", err)
		return
	}

	user := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hashedPassword,
		Mobile:       strings.TrimSpace(req.Mobile),
	}
	if err := h.Repository.PersistUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, custom_error.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email or username already registered"})
			return
		}
		h.serverError(c, "Failed to create user", err)
		return
	}

	h.log.Info("User registered", zap.Int("user_id", user.ID), zap.String("username", user.Username))
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "User registered successfully"})
}

func (h *UsersHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request payload", "details": err.Error()})
		return
	}

	user, err := h.Repository.GetUserByUsername(c.Request.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		if custom_error.IsNotFound(err) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid username or password"})
			return
		}
		h.serverError(c, "Failed to fetch user", err)
		return
	}

	if err := security.CheckPassword(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, security.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid username or password"})
			return
		}
		h.serverError(c, "Failed to verify password", err)
		return
	}

	token, err := h.tokens.GenerateJWT(user)
	if err != nil {
		h.serverError(c, "Failed to generate token", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Login successful", "token": token, "user": user})
}

func (h *UsersHandler) serverError(c *gin.Context, message string, err error) {
	h.log.Error(message, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "details": err.Error()})
}
