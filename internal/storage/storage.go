// Package storage defines the persistence boundary of the tracker. Two
// implementations exist: Postgres (pgx) and an in-memory store used when no
// DATABASE_URL is configured and by tests.
package storage

import (
	"context"
	"errors"

	"github.com/cs2stats/cs2stats/internal/models"
)

// ErrNotFound is returned when the addressed record does not exist.
var ErrNotFound = errors.New("record not found")

// Storage is the full persistence surface consumed by the HTTP handlers and
// the real-time command path. Both paths share it so a websocket-created
// match event is indistinguishable from an HTTP-created one.
type Storage interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpsertUser(ctx context.Context, user models.UpsertUser) (*models.User, error)

	CreateSession(ctx context.Context, userID, token string) error
	DeleteSession(ctx context.Context, token string) error

	GetTeams(ctx context.Context, limit, offset int) ([]models.Team, error)
	GetTeam(ctx context.Context, id string) (*models.Team, error)
	CreateTeam(ctx context.Context, team models.InsertTeam) (*models.Team, error)
	UpdateTeam(ctx context.Context, id string, team models.UpdateTeam) (*models.Team, error)
	DeleteTeam(ctx context.Context, id string) error

	GetPlayers(ctx context.Context, teamID string, limit, offset int) ([]models.Player, error)
	GetPlayer(ctx context.Context, id string) (*models.Player, error)
	CreatePlayer(ctx context.Context, player models.InsertPlayer) (*models.Player, error)
	UpdatePlayer(ctx context.Context, id string, player models.UpdatePlayer) (*models.Player, error)
	DeletePlayer(ctx context.Context, id string) error

	GetMatches(ctx context.Context, status string, limit, offset int) ([]models.MatchWithTeams, error)
	GetMatch(ctx context.Context, id string) (*models.MatchWithTeams, error)
	CreateMatch(ctx context.Context, match models.InsertMatch) (*models.MatchWithTeams, error)
	UpdateMatch(ctx context.Context, id string, match models.UpdateMatch) (*models.Match, error)
	DeleteMatch(ctx context.Context, id string) error

	GetMatchEvents(ctx context.Context, matchID string, limit int) ([]models.MatchEvent, error)
	CreateMatchEvent(ctx context.Context, event models.InsertMatchEvent) (*models.MatchEvent, error)

	GetMatchPlayerStats(ctx context.Context, matchID string) ([]models.MatchPlayerStats, error)
	CreateMatchPlayerStats(ctx context.Context, stats models.InsertMatchPlayerStats) (*models.MatchPlayerStats, error)

	GetNewsArticles(ctx context.Context, published *bool, limit, offset int) ([]models.NewsArticle, error)
	GetNewsArticle(ctx context.Context, id string) (*models.NewsArticle, error)
	CreateNewsArticle(ctx context.Context, article models.InsertNewsArticle) (*models.NewsArticle, error)
	UpdateNewsArticle(ctx context.Context, id string, article models.UpdateNewsArticle) (*models.NewsArticle, error)
	DeleteNewsArticle(ctx context.Context, id string) error

	GetComments(ctx context.Context, filter CommentFilter) ([]models.Comment, error)
	GetComment(ctx context.Context, id string) (*models.Comment, error)
	CreateComment(ctx context.Context, comment models.InsertComment) (*models.Comment, error)
	UpdateComment(ctx context.Context, id string, comment models.UpdateComment) (*models.Comment, error)
	DeleteComment(ctx context.Context, id string) error

	GetCommentFlags(ctx context.Context, reviewed *bool) ([]models.CommentFlag, error)
	CreateCommentFlag(ctx context.Context, flag models.InsertCommentFlag) (*models.CommentFlag, error)
	UpdateCommentFlag(ctx context.Context, id string, reviewed bool) (*models.CommentFlag, error)

	GetUserFavorites(ctx context.Context, userID string) ([]models.UserFavorite, error)
	CreateUserFavorite(ctx context.Context, favorite models.InsertUserFavorite) (*models.UserFavorite, error)
	DeleteUserFavorite(ctx context.Context, id string) error

	GetNotifications(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error)
	CreateNotification(ctx context.Context, notification models.InsertNotification) (*models.Notification, error)
	MarkNotificationAsRead(ctx context.Context, id string) (*models.Notification, error)

	GetUserSettings(ctx context.Context, userID string) (*models.UserSettings, error)
	UpsertUserSettings(ctx context.Context, settings models.UpsertUserSettings) (*models.UserSettings, error)

	GetLeaderboard(ctx context.Context, limit int) ([]models.Player, error)
}

// CommentFilter narrows comment listings. ParentSet distinguishes "no filter"
// from "top-level only" (ParentSet true with nil ParentCommentID).
type CommentFilter struct {
	MatchID         string
	ArticleID       string
	ParentSet       bool
	ParentCommentID *string
}
