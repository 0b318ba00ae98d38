package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cs2stats/cs2stats/internal/auth"
	"github.com/cs2stats/cs2stats/internal/http/middleware"
	"github.com/cs2stats/cs2stats/internal/models"
	"github.com/cs2stats/cs2stats/internal/storage"
)

// Register creates a local account and returns a signed bearer token.
func (h *Handler) Register(ctx *gin.Context) {
	var req struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required"})
		return
	}
	if len(req.Password) < 8 {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Password must be at least 8 characters"})
		return
	}

	if _, err := h.store.GetUserByEmail(ctx.Request.Context(), req.Email); err == nil {
		ctx.JSON(http.StatusConflict, gin.H{"message": "An account with this email already exists"})
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		respondStorageError(ctx, err, "")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Registration failed"})
		return
	}

	upsert := models.UpsertUser{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         models.RoleUser,
	}
	if req.FirstName != "" {
		upsert.FirstName = &req.FirstName
	}
	if req.LastName != "" {
		upsert.LastName = &req.LastName
	}
	if !h.validate.ValidateStruct(ctx, upsert) {
		return
	}

	user, err := h.store.UpsertUser(ctx.Request.Context(), upsert)
	if err != nil {
		respondStorageError(ctx, err, "")
		return
	}

	token, err := h.issueToken(ctx, user.ID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Registration failed"})
		return
	}

	go h.mailer.SendRegistrationWelcome(user.Email, req.FirstName)

	ctx.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

// Login verifies credentials and returns a signed bearer token.
func (h *Handler) Login(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required"})
		return
	}

	user, err := h.store.GetUserByEmail(ctx.Request.Context(), req.Email)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
		return
	}

	token, err := h.issueToken(ctx, user.ID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Login failed"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Logout invalidates the presented session token.
func (h *Handler) Logout(ctx *gin.Context) {
	header := ctx.GetHeader("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token != "" && token != header {
		_ = h.store.DeleteSession(ctx.Request.Context(), token)
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// CurrentUser returns the authenticated user record.
func (h *Handler) CurrentUser(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}
	ctx.JSON(http.StatusOK, user)
}

func (h *Handler) issueToken(ctx *gin.Context, userID string) (string, error) {
	token, err := h.auth.Sign(userID)
	if err != nil {
		return "", err
	}
	if err := h.store.CreateSession(ctx.Request.Context(), userID, token); err != nil {
		return "", err
	}
	return token, nil
}
