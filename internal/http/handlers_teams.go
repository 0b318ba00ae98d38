package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cs2stats/cs2stats/internal/models"
	"github.com/cs2stats/cs2stats/internal/realtime"
)

func (h *Handler) ListTeams(ctx *gin.Context) {
	limit, offset := paging(ctx, 50)
	teams, err := h.store.GetTeams(ctx.Request.Context(), limit, offset)
	if err != nil {
		respondStorageError(ctx, err, "")
		return
	}
	ctx.JSON(http.StatusOK, teams)
}

func (h *Handler) GetTeam(ctx *gin.Context) {
	team, err := h.store.GetTeam(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondStorageError(ctx, err, "Team not found")
		return
	}
	ctx.JSON(http.StatusOK, team)
}

func (h *Handler) CreateTeam(ctx *gin.Context) {
	var req models.InsertTeam
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid team data"})
		return
	}
	if !h.validate.ValidateStruct(ctx, req) {
		return
	}

	team, err := h.store.CreateTeam(ctx.Request.Context(), req)
	if err != nil {
		respondStorageError(ctx, err, "")
		return
	}
	ctx.JSON(http.StatusCreated, team)
	h.broadcast(realtime.TeamCreated(team))
}

func (h *Handler) UpdateTeam(ctx *gin.Context) {
	var req models.UpdateTeam
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid team data"})
		return
	}
	if !h.validate.ValidateStruct(ctx, req) {
		return
	}

	team, err := h.store.UpdateTeam(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		respondStorageError(ctx, err, "Team not found")
		return
	}
	ctx.JSON(http.StatusOK, team)
	h.broadcast(realtime.TeamUpdated(team))
}

func (h *Handler) DeleteTeam(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := h.store.DeleteTeam(ctx.Request.Context(), id); err != nil {
		respondStorageError(ctx, err, "Team not found")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Team deleted"})
	h.broadcast(realtime.TeamDeleted(id))
}
