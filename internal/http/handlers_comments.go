package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cs2stats/cs2stats/internal/http/middleware"
	"github.com/cs2stats/cs2stats/internal/logging"
	"github.com/cs2stats/cs2stats/internal/models"
	"github.com/cs2stats/cs2stats/internal/realtime"
	"github.com/cs2stats/cs2stats/internal/storage"
)

func (h *Handler) ListComments(ctx *gin.Context) {
	filter := storage.CommentFilter{
		MatchID:   ctx.Query("matchId"),
		ArticleID: ctx.Query("articleId"),
	}
	if raw, ok := ctx.GetQuery("parentCommentId"); ok {
		filter.ParentSet = true
		if raw != "" && raw != "null" {
			filter.ParentCommentID = &raw
		}
	}

	comments, err := h.store.GetComments(ctx.Request.Context(), filter)
	if err != nil {
		respondStorageError(ctx, err, "")
		return
	}
	ctx.JSON(http.StatusOK, comments)
}

func (h *Handler) CreateComment(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var req models.InsertComment
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid comment data"})
		return
	}
	req.UserID = user.ID
	if req.MatchID == nil && req.ArticleID == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Comment must target a match or an article"})
		return
	}
	if !h.validate.ValidateStruct(ctx, req) {
		return
	}

	comment, err := h.store.CreateComment(ctx.Request.Context(), req)
	if err != nil {
		respondStorageError(ctx, err, "")
		return
	}
	ctx.JSON(http.StatusCreated, comment)
	h.broadcast(realtime.CommentCreated(comment))
	h.notifyCommentReply(ctx, comment)
}

// notifyCommentReply creates a notification for the parent comment's author
// when someone replies. Failures only get logged.
func (h *Handler) notifyCommentReply(ctx *gin.Context, comment *models.Comment) {
	if comment.ParentCommentID == nil {
		return
	}
	parent, err := h.store.GetComment(ctx.Request.Context(), *comment.ParentCommentID)
	if err != nil || parent.UserID == comment.UserID {
		return
	}
	if settings, err := h.store.GetUserSettings(ctx.Request.Context(), parent.UserID); err == nil && !settings.CommentReplyAlerts {
		return
	}

	notification, err := h.store.CreateNotification(ctx.Request.Context(), models.InsertNotification{
		UserID:  parent.UserID,
		Type:    models.NotificationCommentReply,
		Title:   "New reply to your comment",
		Message: comment.Content,
	})
	if err != nil {
		logging.Error().Err(err).Msg("failed to create reply notification")
		return
	}
	h.broadcast(realtime.NotificationCreated(notification))
}

func (h *Handler) UpdateComment(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	existing, err := h.store.GetComment(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondStorageError(ctx, err, "Comment not found")
		return
	}
	if existing.UserID != user.ID && user.Role == models.RoleUser {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "You can only edit your own comments"})
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Content == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Content is required"})
		return
	}

	comment, err := h.store.UpdateComment(ctx.Request.Context(), existing.ID, models.UpdateComment{Content: &req.Content})
	if err != nil {
		respondStorageError(ctx, err, "Comment not found")
		return
	}
	ctx.JSON(http.StatusOK, comment)
	h.broadcast(realtime.CommentUpdated(comment))
}

func (h *Handler) LikeComment(ctx *gin.Context) {
	existing, err := h.store.GetComment(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondStorageError(ctx, err, "Comment not found")
		return
	}
	likes := existing.Likes + 1
	comment, err := h.store.UpdateComment(ctx.Request.Context(), existing.ID, models.UpdateComment{Likes: &likes})
	if err != nil {
		respondStorageError(ctx, err, "Comment not found")
		return
	}
	ctx.JSON(http.StatusOK, comment)
	h.broadcast(realtime.CommentUpdated(comment))
}

func (h *Handler) DeleteComment(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	existing, err := h.store.GetComment(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondStorageError(ctx, err, "Comment not found")
		return
	}
	if existing.UserID != user.ID && user.Role == models.RoleUser {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "You can only delete your own comments"})
		return
	}

	if err := h.store.DeleteComment(ctx.Request.Context(), existing.ID); err != nil {
		respondStorageError(ctx, err, "Comment not found")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
	h.broadcast(realtime.CommentDeleted(existing.ID))
}

// ---------------------- FLAGS & MODERATION ----------------------

func (h *Handler) FlagComment(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var req models.InsertCommentFlag
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid flag data"})
		return
	}
	req.CommentID = ctx.Param("id")
	req.UserID = user.ID
	if !h.validate.ValidateStruct(ctx, req) {
		return
	}

	if _, err := h.store.GetComment(ctx.Request.Context(), req.CommentID); err != nil {
		respondStorageError(ctx, err, "Comment not found")
		return
	}

	flag, err := h.store.CreateCommentFlag(ctx.Request.Context(), req)
	if err != nil {
		respondStorageError(ctx, err, "")
		return
	}
	ctx.JSON(http.StatusCreated, flag)
}

func (h *Handler) ListFlags(ctx *gin.Context) {
	var reviewed *bool
	switch ctx.Query("reviewed") {
	case "true":
		v := true
		reviewed = &v
	case "false":
		v := false
		reviewed = &v
	}

	flags, err := h.store.GetCommentFlags(ctx.Request.Context(), reviewed)
	if err != nil {
		respondStorageError(ctx, err, "")
		return
	}
	ctx.JSON(http.StatusOK, flags)
}

func (h *Handler) ReviewFlag(ctx *gin.Context) {
	flag, err := h.store.UpdateCommentFlag(ctx.Request.Context(), ctx.Param("id"), true)
	if err != nil {
		respondStorageError(ctx, err, "Flag not found")
		return
	}
	ctx.JSON(http.StatusOK, flag)
}

// RemoveComment soft-removes a comment with a moderation reason, keeping the
// record for audit.
func (h *Handler) RemoveComment(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Reason == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Removal reason is required"})
		return
	}

	removed := true
	comment, err := h.store.UpdateComment(ctx.Request.Context(), ctx.Param("id"), models.UpdateComment{
		Removed:       &removed,
		RemovalReason: &req.Reason,
		RemovedBy:     &user.ID,
	})
	if err != nil {
		respondStorageError(ctx, err, "Comment not found")
		return
	}
	ctx.JSON(http.StatusOK, comment)
	h.broadcast(realtime.CommentDeleted(comment.ID))
}
