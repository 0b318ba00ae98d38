package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cs2stats/cs2stats/internal/auth"
	"github.com/cs2stats/cs2stats/internal/config"
	"github.com/cs2stats/cs2stats/internal/email"
	"github.com/cs2stats/cs2stats/internal/logging"
	"github.com/cs2stats/cs2stats/internal/realtime"
	"github.com/cs2stats/cs2stats/internal/storage"
	"github.com/cs2stats/cs2stats/internal/validation"
)

type Handler struct {
	store    storage.Storage
	auth     *auth.Service
	validate *validation.Validator
	hub      *realtime.Hub
	commands *realtime.Commands
	mailer   *email.Mailer
	cfg      config.Config
}

func NewHandler(store storage.Storage, authSvc *auth.Service, validate *validation.Validator,
	hub *realtime.Hub, commands *realtime.Commands, mailer *email.Mailer, cfg config.Config) *Handler {
	return &Handler{
		store:    store,
		auth:     authSvc,
		validate: validate,
		hub:      hub,
		commands: commands,
		mailer:   mailer,
		cfg:      cfg,
	}
}

// broadcast fans messages out after the HTTP response has been written. A
// panic in the fan-out path must never take down the request goroutine, so
// it is recovered and logged.
func (h *Handler) broadcast(msgs ...realtime.Message) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error().Interface("panic", r).Msg("broadcast after response panicked")
		}
	}()
	for _, msg := range msgs {
		h.hub.Broadcast(msg)
	}
}

// paging reads limit/offset query parameters with bounds.
func paging(ctx *gin.Context, defaultLimit int) (limit, offset int) {
	limit = defaultLimit
	if raw := ctx.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if raw := ctx.Query("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

func respondStorageError(ctx *gin.Context, err error, notFoundMsg string) {
	if errors.Is(err, storage.ErrNotFound) {
		if notFoundMsg == "" {
			notFoundMsg = "Not found"
		}
		ctx.JSON(http.StatusNotFound, gin.H{"message": notFoundMsg})
		return
	}
	logging.Error().Err(err).Str("path", ctx.FullPath()).Msg("storage operation failed")
	ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}
