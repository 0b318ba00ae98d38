package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cs2stats/cs2stats/internal/models"
	"github.com/cs2stats/cs2stats/internal/realtime"
)

func (h *Handler) ListPlayers(ctx *gin.Context) {
	limit, offset := paging(ctx, 50)
	players, err := h.store.GetPlayers(ctx.Request.Context(), ctx.Query("teamId"), limit, offset)
	if err != nil {
		respondStorageError(ctx, err, "")
		return
	}
	ctx.JSON(http.StatusOK, players)
}

func (h *Handler) GetPlayer(ctx *gin.Context) {
	player, err := h.store.GetPlayer(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondStorageError(ctx, err, "Player not found")
		return
	}
	ctx.JSON(http.StatusOK, player)
}

func (h *Handler) CreatePlayer(ctx *gin.Context) {
	var req models.InsertPlayer
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid player data"})
		return
	}
	if !h.validate.ValidateStruct(ctx, req) {
		return
	}

	player, err := h.store.CreatePlayer(ctx.Request.Context(), req)
	if err != nil {
		respondStorageError(ctx, err, "")
		return
	}
	ctx.JSON(http.StatusCreated, player)
	h.broadcast(realtime.PlayerCreated(player))
}

func (h *Handler) UpdatePlayer(ctx *gin.Context) {
	var req models.UpdatePlayer
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid player data"})
		return
	}
	if !h.validate.ValidateStruct(ctx, req) {
		return
	}

	player, err := h.store.UpdatePlayer(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		respondStorageError(ctx, err, "Player not found")
		return
	}
	ctx.JSON(http.StatusOK, player)
	h.broadcast(realtime.PlayerUpdated(player))
}

func (h *Handler) DeletePlayer(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := h.store.DeletePlayer(ctx.Request.Context(), id); err != nil {
		respondStorageError(ctx, err, "Player not found")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Player deleted"})
	h.broadcast(realtime.PlayerDeleted(id))
}

func (h *Handler) Leaderboard(ctx *gin.Context) {
	limit, _ := paging(ctx, 20)
	players, err := h.store.GetLeaderboard(ctx.Request.Context(), limit)
	if err != nil {
		respondStorageError(ctx, err, "")
		return
	}
	ctx.JSON(http.StatusOK, players)
}
