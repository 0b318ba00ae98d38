package http

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cs2stats/cs2stats/internal/http/middleware"
	"github.com/cs2stats/cs2stats/internal/models"
	"github.com/cs2stats/cs2stats/internal/realtime"
)

// ---------------------- FAVORITES ----------------------

func (h *Handler) ListFavorites(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}
	favorites, err := h.store.GetUserFavorites(ctx.Request.Context(), user.ID)
	if err != nil {
		respondStorageError(ctx, err, "")
		return
	}
	ctx.JSON(http.StatusOK, favorites)
}

func (h *Handler) CreateFavorite(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var req models.InsertUserFavorite
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid favorite data"})
		return
	}
	req.UserID = user.ID
	if !h.validate.ValidateStruct(ctx, req) {
		return
	}

	favorite, err := h.store.CreateUserFavorite(ctx.Request.Context(), req)
	if err != nil {
		respondStorageError(ctx, err, "")
		return
	}
	ctx.JSON(http.StatusCreated, favorite)
	h.broadcast(realtime.FavoriteCreated(favorite))
}

func (h *Handler) DeleteFavorite(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := h.store.DeleteUserFavorite(ctx.Request.Context(), id); err != nil {
		respondStorageError(ctx, err, "Favorite not found")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Favorite removed"})
	h.broadcast(realtime.FavoriteDeleted(id))
}

// ---------------------- NOTIFICATIONS ----------------------

func (h *Handler) ListNotifications(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}
	unreadOnly := ctx.Query("unread") == "true"
	notifications, err := h.store.GetNotifications(ctx.Request.Context(), user.ID, unreadOnly)
	if err != nil {
		respondStorageError(ctx, err, "")
		return
	}
	ctx.JSON(http.StatusOK, notifications)
}

func (h *Handler) MarkNotificationRead(ctx *gin.Context) {
	notification, err := h.store.MarkNotificationAsRead(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondStorageError(ctx, err, "Notification not found")
		return
	}
	ctx.JSON(http.StatusOK, notification)
}

// Announce lets an admin push a notification to a user and broadcast it.
func (h *Handler) Announce(ctx *gin.Context) {
	var req models.InsertNotification
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid notification data"})
		return
	}
	if !h.validate.ValidateStruct(ctx, req) {
		return
	}

	notification, err := h.store.CreateNotification(ctx.Request.Context(), req)
	if err != nil {
		respondStorageError(ctx, err, "")
		return
	}
	ctx.JSON(http.StatusCreated, notification)
	h.broadcast(realtime.NotificationCreated(notification))
}

// ---------------------- SETTINGS ----------------------

func (h *Handler) GetSettings(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	settings, err := h.store.GetUserSettings(ctx.Request.Context(), user.ID)
	if err != nil {
		// First read provisions defaults so clients always get a record.
		settings, err = h.store.UpsertUserSettings(ctx.Request.Context(), models.UpsertUserSettings{UserID: user.ID})
		if err != nil {
			respondStorageError(ctx, err, "")
			return
		}
	}
	ctx.JSON(http.StatusOK, settings)
}

func (h *Handler) UpdateSettings(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var req models.UpsertUserSettings
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid settings data"})
		return
	}
	req.UserID = user.ID
	if !h.validate.ValidateStruct(ctx, req) {
		return
	}

	settings, err := h.store.UpsertUserSettings(ctx.Request.Context(), req)
	if err != nil {
		respondStorageError(ctx, err, "")
		return
	}
	ctx.JSON(http.StatusOK, settings)
}

// ---------------------- UPLOADS ----------------------

// Upload stores an image under the uploads directory and returns its public
// URL. Admin only; the router mounts the directory as static.
func (h *Handler) Upload(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "No file uploaded"})
		return
	}
	if file.Size > h.cfg.UploadMaxSize {
		ctx.JSON(http.StatusRequestEntityTooLarge, gin.H{"message": "File too large"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg":
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Unsupported file type"})
		return
	}

	if err := os.MkdirAll(h.cfg.UploadDir, 0o755); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Upload failed"})
		return
	}
	name := uuid.NewString() + ext
	if err := ctx.SaveUploadedFile(file, filepath.Join(h.cfg.UploadDir, name)); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Upload failed"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"url": "/uploads/" + name})
}
