package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cs2stats/cs2stats/internal/http/middleware"
	"github.com/cs2stats/cs2stats/internal/models"
	"github.com/cs2stats/cs2stats/internal/realtime"
)

// ListNews returns articles. Unauthenticated callers only see published ones;
// the published query parameter lets admin tooling request drafts explicitly.
func (h *Handler) ListNews(ctx *gin.Context) {
	limit, offset := paging(ctx, 20)

	staff := false
	if user, ok := middleware.CurrentUser(ctx); ok && user.Role != models.RoleUser {
		staff = true
	}

	var published *bool
	if !staff {
		// Drafts are only visible to moderators and admins.
		v := true
		published = &v
	} else {
		switch ctx.Query("published") {
		case "true":
			v := true
			published = &v
		case "false":
			v := false
			published = &v
		}
	}

	articles, err := h.store.GetNewsArticles(ctx.Request.Context(), published, limit, offset)
	if err != nil {
		respondStorageError(ctx, err, "")
		return
	}
	ctx.JSON(http.StatusOK, articles)
}

func (h *Handler) GetNews(ctx *gin.Context) {
	article, err := h.store.GetNewsArticle(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondStorageError(ctx, err, "Article not found")
		return
	}
	ctx.JSON(http.StatusOK, article)
}

func (h *Handler) CreateNews(ctx *gin.Context) {
	var req models.InsertNewsArticle
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid article data"})
		return
	}
	if user, ok := middleware.CurrentUser(ctx); ok {
		req.AuthorID = &user.ID
	}
	if !h.validate.ValidateStruct(ctx, req) {
		return
	}

	article, err := h.store.CreateNewsArticle(ctx.Request.Context(), req)
	if err != nil {
		respondStorageError(ctx, err, "")
		return
	}
	ctx.JSON(http.StatusCreated, article)
	h.broadcast(realtime.NewsCreated(article))
}

func (h *Handler) UpdateNews(ctx *gin.Context) {
	var req models.UpdateNewsArticle
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid article data"})
		return
	}

	article, err := h.store.UpdateNewsArticle(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		respondStorageError(ctx, err, "Article not found")
		return
	}
	ctx.JSON(http.StatusOK, article)
	h.broadcast(realtime.NewsUpdated(article))
}

func (h *Handler) DeleteNews(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := h.store.DeleteNewsArticle(ctx.Request.Context(), id); err != nil {
		respondStorageError(ctx, err, "Article not found")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Article deleted"})
	h.broadcast(realtime.NewsDeleted(id))
}
