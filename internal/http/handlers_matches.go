package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cs2stats/cs2stats/internal/models"
	"github.com/cs2stats/cs2stats/internal/realtime"
)

func (h *Handler) ListMatches(ctx *gin.Context) {
	limit, offset := paging(ctx, 50)
	matches, err := h.store.GetMatches(ctx.Request.Context(), ctx.Query("status"), limit, offset)
	if err != nil {
		respondStorageError(ctx, err, "")
		return
	}
	ctx.JSON(http.StatusOK, matches)
}

func (h *Handler) GetMatch(ctx *gin.Context) {
	match, err := h.store.GetMatch(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondStorageError(ctx, err, "Match not found")
		return
	}
	ctx.JSON(http.StatusOK, match)
}

func (h *Handler) CreateMatch(ctx *gin.Context) {
	var req models.InsertMatch
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid match data"})
		return
	}
	if !h.validate.ValidateStruct(ctx, req) {
		return
	}

	match, err := h.store.CreateMatch(ctx.Request.Context(), req)
	if err != nil {
		respondStorageError(ctx, err, "")
		return
	}
	ctx.JSON(http.StatusCreated, match)
	h.broadcast(realtime.MatchCreated(match))
}

// UpdateMatch patches a match and emits both the lifecycle event and the
// score-refresh event, so live feed consumers can patch their cached match
// in place without refetching.
func (h *Handler) UpdateMatch(ctx *gin.Context) {
	var req models.UpdateMatch
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid match data"})
		return
	}
	if !h.validate.ValidateStruct(ctx, req) {
		return
	}

	match, err := h.store.UpdateMatch(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		respondStorageError(ctx, err, "Match not found")
		return
	}
	ctx.JSON(http.StatusOK, match)
	h.broadcast(realtime.MatchUpdated(match), realtime.MatchUpdate(match))
}

func (h *Handler) DeleteMatch(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := h.store.DeleteMatch(ctx.Request.Context(), id); err != nil {
		respondStorageError(ctx, err, "Match not found")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Match deleted"})
	h.broadcast(realtime.MatchDeleted(id))
}

// ---------------------- MATCH EVENTS ----------------------

func (h *Handler) ListMatchEvents(ctx *gin.Context) {
	limit := 50
	if raw := ctx.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	events, err := h.store.GetMatchEvents(ctx.Request.Context(), ctx.Param("id"), limit)
	if err != nil {
		respondStorageError(ctx, err, "")
		return
	}
	ctx.JSON(http.StatusOK, events)
}

// CreateMatchEvent shares the command path with the websocket channel, so
// persistence, fan-out and mail behave identically for both transports.
func (h *Handler) CreateMatchEvent(ctx *gin.Context) {
	var req models.InsertMatchEvent
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid event data"})
		return
	}
	req.MatchID = ctx.Param("id")

	event, err := h.commands.CreateMatchEvent(ctx.Request.Context(), req)
	if err != nil {
		if errors.Is(err, realtime.ErrInvalidPayload) {
			ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		respondStorageError(ctx, err, "")
		return
	}
	ctx.JSON(http.StatusCreated, event)
}

// ---------------------- MATCH PLAYER STATS ----------------------

func (h *Handler) ListMatchStats(ctx *gin.Context) {
	stats, err := h.store.GetMatchPlayerStats(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondStorageError(ctx, err, "")
		return
	}
	ctx.JSON(http.StatusOK, stats)
}

func (h *Handler) CreateMatchStats(ctx *gin.Context) {
	var req models.InsertMatchPlayerStats
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid stats data"})
		return
	}
	req.MatchID = ctx.Param("id")
	if !h.validate.ValidateStruct(ctx, req) {
		return
	}

	stats, err := h.store.CreateMatchPlayerStats(ctx.Request.Context(), req)
	if err != nil {
		respondStorageError(ctx, err, "")
		return
	}
	ctx.JSON(http.StatusCreated, stats)
	h.broadcast(realtime.MatchStatsCreated(stats))
}
