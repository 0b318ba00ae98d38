package realtime

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/cs2stats/cs2stats/internal/auth"
	"github.com/cs2stats/cs2stats/internal/logging"
	"github.com/cs2stats/cs2stats/internal/models"
	"github.com/cs2stats/cs2stats/internal/storage"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browsers connect from arbitrary origins in front of a reverse proxy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades HTTP requests to websocket subscriptions. Authentication
// is optional: anonymous connections receive broadcasts and may query the
// timeline, while an admin bearer token additionally unlocks the mutating
// commands.
type Handler struct {
	hub      *Hub
	commands *Commands
	authSvc  *auth.Service
	store    storage.Storage
}

func NewHandler(hub *Hub, commands *Commands, authSvc *auth.Service, store storage.Storage) *Handler {
	return &Handler{hub: hub, commands: commands, authSvc: authSvc, store: store}
}

// Register mounts the websocket endpoint on the router.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/ws", h.Serve)
}

// Serve performs the upgrade and starts the subscriber pumps.
func (h *Handler) Serve(c *gin.Context) {
	role := h.resolveRole(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	NewSubscriber(h.hub, conn, h.commands, role).Start()
}

// resolveRole extracts the caller's role from a bearer token in either the
// Authorization header or the token query parameter. Invalid or absent
// tokens yield an anonymous subscriber rather than an error.
func (h *Handler) resolveRole(c *gin.Context) models.Role {
	token := c.Query("token")
	if token == "" {
		header := c.GetHeader("Authorization")
		token = strings.TrimPrefix(header, "Bearer ")
		if token == header {
			token = ""
		}
	}
	if token == "" || h.authSvc == nil {
		return ""
	}

	claims, err := h.authSvc.Verify(token)
	if err != nil {
		logging.Debug().Err(err).Msg("rejecting websocket bearer token")
		return ""
	}
	user, err := h.store.GetUser(c.Request.Context(), claims.UserID)
	if err != nil {
		return ""
	}
	return user.Role
}
