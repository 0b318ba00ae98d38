package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cs2stats/cs2stats/internal/auth"
	"github.com/cs2stats/cs2stats/internal/config"
	"github.com/cs2stats/cs2stats/internal/models"
	"github.com/cs2stats/cs2stats/internal/storage"
)

// Auth authenticates requests with a bearer token and loads the user record
// into the Gin context. In dev mode every request runs as the auto-provisioned
// development user, matching the original server's bypass.
type Auth struct {
	service *auth.Service
	store   storage.Storage
	cfg     config.Config
}

func NewAuth(service *auth.Service, store storage.Storage, cfg config.Config) *Auth {
	return &Auth{service: service, store: store, cfg: cfg}
}

// CurrentUser extracts the authenticated user placed by Middleware.
func CurrentUser(ctx *gin.Context) (*models.User, bool) {
	val, ok := ctx.Get("user")
	if !ok {
		return nil, false
	}
	user, ok := val.(*models.User)
	return user, ok
}

func (a *Auth) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if a.cfg.AuthMode == config.AuthModeDev {
			user, err := a.store.GetUser(ctx.Request.Context(), a.cfg.DevUserID)
			if err != nil {
				ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
				ctx.Abort()
				return
			}
			ctx.Set("user", user)
			ctx.Next()
			return
		}

		header := ctx.GetHeader("Authorization")
		token := ""
		if header != "" {
			parts := strings.SplitN(header, " ", 2)
			if len(parts) == 2 {
				token = parts[1]
			}
		}
		if token == "" {
			ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			ctx.Abort()
			return
		}

		claims, err := a.service.Verify(token)
		if err != nil {
			ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			ctx.Abort()
			return
		}

		user, err := a.store.GetUser(ctx.Request.Context(), claims.UserID)
		if err != nil {
			ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			ctx.Abort()
			return
		}

		ctx.Set("user", user)
		ctx.Next()
	}
}

// Optional resolves the bearer token when present but never aborts, so
// public routes can still recognize staff callers.
func (a *Auth) Optional() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if a.cfg.AuthMode == config.AuthModeDev {
			if user, err := a.store.GetUser(ctx.Request.Context(), a.cfg.DevUserID); err == nil {
				ctx.Set("user", user)
			}
			ctx.Next()
			return
		}

		header := ctx.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[1] == "" {
			ctx.Next()
			return
		}
		claims, err := a.service.Verify(parts[1])
		if err != nil {
			ctx.Next()
			return
		}
		if user, err := a.store.GetUser(ctx.Request.Context(), claims.UserID); err == nil {
			ctx.Set("user", user)
		}
		ctx.Next()
	}
}

// RequireAdmin aborts unless the authenticated user is an admin. Must run
// after Middleware.
func (a *Auth) RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := CurrentUser(ctx)
		if !ok || user.Role != models.RoleAdmin {
			ctx.JSON(http.StatusForbidden, gin.H{"message": "Admin access required"})
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// RequireModerator aborts unless the user is a moderator or an admin.
func (a *Auth) RequireModerator() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := CurrentUser(ctx)
		if !ok || (user.Role != models.RoleModerator && user.Role != models.RoleAdmin) {
			ctx.JSON(http.StatusForbidden, gin.H{"message": "Moderator access required"})
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
