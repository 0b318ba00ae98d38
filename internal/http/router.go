package http

import (
	"github.com/gin-gonic/gin"

	"github.com/cs2stats/cs2stats/internal/config"
	"github.com/cs2stats/cs2stats/internal/http/middleware"
	"github.com/cs2stats/cs2stats/internal/realtime"
)

type RouterDeps struct {
	Handler *Handler
	AuthMW  *middleware.Auth
	WS      *realtime.Handler
	Config  config.Config
}

// NewRouter wires Gin with the API surface, the websocket endpoint and the
// uploaded-asset directory.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())

	api := r.Group("/api")
	registerAuthRoutes(api, deps)
	registerTeamRoutes(api.Group("/teams"), deps)
	registerPlayerRoutes(api.Group("/players"), deps)
	registerMatchRoutes(api.Group("/matches"), deps)
	registerNewsRoutes(api.Group("/news"), deps)
	registerCommentRoutes(api.Group("/comments"), deps)
	registerModerationRoutes(api.Group("/moderation"), deps)
	registerUserRoutes(api, deps)

	api.GET("/leaderboard", deps.Handler.Leaderboard)
	api.POST("/upload", deps.AuthMW.Middleware(), deps.AuthMW.RequireAdmin(), deps.Handler.Upload)

	deps.WS.Register(r)
	r.Static("/uploads", deps.Config.UploadDir)
	r.GET("/health", func(ctx *gin.Context) { ctx.JSON(200, gin.H{"status": "ok"}) })

	return r
}

func registerAuthRoutes(r *gin.RouterGroup, deps RouterDeps) {
	authed := r.Group("/auth")
	authed.POST("/register", deps.Handler.Register)
	authed.POST("/login", deps.Handler.Login)
	authed.POST("/logout", deps.Handler.Logout)
	authed.GET("/user", deps.AuthMW.Middleware(), deps.Handler.CurrentUser)
}

func registerTeamRoutes(r *gin.RouterGroup, deps RouterDeps) {
	r.GET("", deps.Handler.ListTeams)
	r.GET("/:id", deps.Handler.GetTeam)

	admin := r.Group("", deps.AuthMW.Middleware(), deps.AuthMW.RequireAdmin())
	admin.POST("", deps.Handler.CreateTeam)
	admin.PATCH("/:id", deps.Handler.UpdateTeam)
	admin.DELETE("/:id", deps.Handler.DeleteTeam)
}

func registerPlayerRoutes(r *gin.RouterGroup, deps RouterDeps) {
	r.GET("", deps.Handler.ListPlayers)
	r.GET("/:id", deps.Handler.GetPlayer)

	admin := r.Group("", deps.AuthMW.Middleware(), deps.AuthMW.RequireAdmin())
	admin.POST("", deps.Handler.CreatePlayer)
	admin.PATCH("/:id", deps.Handler.UpdatePlayer)
	admin.DELETE("/:id", deps.Handler.DeletePlayer)
}

func registerMatchRoutes(r *gin.RouterGroup, deps RouterDeps) {
	r.GET("", deps.Handler.ListMatches)
	r.GET("/:id", deps.Handler.GetMatch)
	r.GET("/:id/events", deps.Handler.ListMatchEvents)
	r.GET("/:id/stats", deps.Handler.ListMatchStats)

	admin := r.Group("", deps.AuthMW.Middleware(), deps.AuthMW.RequireAdmin())
	admin.POST("", deps.Handler.CreateMatch)
	admin.PATCH("/:id", deps.Handler.UpdateMatch)
	admin.DELETE("/:id", deps.Handler.DeleteMatch)
	admin.POST("/:id/events", deps.Handler.CreateMatchEvent)
	admin.POST("/:id/stats", deps.Handler.CreateMatchStats)
}

func registerNewsRoutes(r *gin.RouterGroup, deps RouterDeps) {
	r.GET("", deps.AuthMW.Optional(), deps.Handler.ListNews)
	r.GET("/:id", deps.Handler.GetNews)

	admin := r.Group("", deps.AuthMW.Middleware(), deps.AuthMW.RequireAdmin())
	admin.POST("", deps.Handler.CreateNews)
	admin.PATCH("/:id", deps.Handler.UpdateNews)
	admin.DELETE("/:id", deps.Handler.DeleteNews)
}

func registerCommentRoutes(r *gin.RouterGroup, deps RouterDeps) {
	r.GET("", deps.Handler.ListComments)

	authed := r.Group("", deps.AuthMW.Middleware())
	authed.POST("", deps.Handler.CreateComment)
	authed.PATCH("/:id", deps.Handler.UpdateComment)
	authed.POST("/:id/like", deps.Handler.LikeComment)
	authed.POST("/:id/flag", deps.Handler.FlagComment)
	authed.DELETE("/:id", deps.Handler.DeleteComment)
}

func registerModerationRoutes(r *gin.RouterGroup, deps RouterDeps) {
	r.Use(deps.AuthMW.Middleware(), deps.AuthMW.RequireModerator())
	r.GET("/flags", deps.Handler.ListFlags)
	r.PATCH("/flags/:id", deps.Handler.ReviewFlag)
	r.DELETE("/comments/:id", deps.Handler.RemoveComment)
}

func registerUserRoutes(r *gin.RouterGroup, deps RouterDeps) {
	authed := r.Group("", deps.AuthMW.Middleware())
	authed.GET("/favorites", deps.Handler.ListFavorites)
	authed.POST("/favorites", deps.Handler.CreateFavorite)
	authed.DELETE("/favorites/:id", deps.Handler.DeleteFavorite)
	authed.GET("/notifications", deps.Handler.ListNotifications)
	authed.PATCH("/notifications/:id/read", deps.Handler.MarkNotificationRead)
	authed.GET("/settings", deps.Handler.GetSettings)
	authed.PATCH("/settings", deps.Handler.UpdateSettings)

	admin := r.Group("", deps.AuthMW.Middleware(), deps.AuthMW.RequireAdmin())
	admin.POST("/notifications/announce", deps.Handler.Announce)
}
