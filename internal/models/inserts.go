package models

import "time"

// Insert payloads are the accepted write shapes; field tags drive
// go-playground/validator. Update payloads use pointer fields so that only
// the fields present in the request are written.

type UpsertUser struct {
	ID              string  `json:"id"`
	Email           string  `json:"email" validate:"required,email"`
	FirstName       *string `json:"firstName"`
	LastName        *string `json:"lastName"`
	ProfileImageURL *string `json:"profileImageUrl"`
	PasswordHash    string  `json:"-"`
	Role            Role    `json:"role" validate:"omitempty,oneof=user moderator admin"`
}

type InsertTeam struct {
	Name        string       `json:"name" validate:"required"`
	Acronym     *string      `json:"acronym" validate:"omitempty,max=10"`
	Country     *string      `json:"country" validate:"omitempty,len=3"`
	LogoURL     *string      `json:"logoUrl"`
	BannerURL   *string      `json:"bannerUrl"`
	Region      *string      `json:"region"`
	Rank        *int         `json:"rank"`
	Wins        int          `json:"wins"`
	Losses      int          `json:"losses"`
	SocialLinks *SocialLinks `json:"socialLinks"`
}

type UpdateTeam struct {
	Name        *string      `json:"name"`
	Acronym     *string      `json:"acronym" validate:"omitempty,max=10"`
	Country     *string      `json:"country" validate:"omitempty,len=3"`
	LogoURL     *string      `json:"logoUrl"`
	BannerURL   *string      `json:"bannerUrl"`
	Region      *string      `json:"region"`
	Rank        *int         `json:"rank"`
	Wins        *int         `json:"wins"`
	Losses      *int         `json:"losses"`
	SocialLinks *SocialLinks `json:"socialLinks"`
}

type InsertPlayer struct {
	TeamID        *string `json:"teamId"`
	Alias         string  `json:"alias" validate:"required"`
	RealName      *string `json:"realName"`
	Country       *string `json:"country" validate:"omitempty,len=3"`
	AvatarURL     *string `json:"avatarUrl"`
	Role          *string `json:"role"`
	SteamID       *string `json:"steamId"`
	TotalMatches  int     `json:"totalMatches"`
	TotalKills    int     `json:"totalKills"`
	TotalDeaths   int     `json:"totalDeaths"`
	TotalAssists  int     `json:"totalAssists"`
	AverageRating int     `json:"averageRating"`
}

type UpdatePlayer struct {
	TeamID        *string `json:"teamId"`
	Alias         *string `json:"alias"`
	RealName      *string `json:"realName"`
	Country       *string `json:"country" validate:"omitempty,len=3"`
	AvatarURL     *string `json:"avatarUrl"`
	Role          *string `json:"role"`
	SteamID       *string `json:"steamId"`
	TotalMatches  *int    `json:"totalMatches"`
	TotalKills    *int    `json:"totalKills"`
	TotalDeaths   *int    `json:"totalDeaths"`
	TotalAssists  *int    `json:"totalAssists"`
	AverageRating *int    `json:"averageRating"`
}

type InsertMatch struct {
	Team1ID     string       `json:"team1Id" validate:"required"`
	Team2ID     string       `json:"team2Id" validate:"required"`
	Status      MatchStatus  `json:"status" validate:"omitempty,oneof=live upcoming finished"`
	Tournament  *string      `json:"tournament"`
	Stage       *string      `json:"stage"`
	ScheduledAt *time.Time   `json:"scheduledAt"`
	StartedAt   *time.Time   `json:"startedAt"`
	FinishedAt  *time.Time   `json:"finishedAt"`
	Team1Score  int          `json:"team1Score"`
	Team2Score  int          `json:"team2Score"`
	CurrentMap  *string      `json:"currentMap"`
	Maps        []string     `json:"maps"`
	StreamLinks []StreamLink `json:"streamLinks"`
}

type UpdateMatch struct {
	Team1ID     *string      `json:"team1Id"`
	Team2ID     *string      `json:"team2Id"`
	Status      *MatchStatus `json:"status" validate:"omitempty,oneof=live upcoming finished"`
	Tournament  *string      `json:"tournament"`
	Stage       *string      `json:"stage"`
	ScheduledAt *time.Time   `json:"scheduledAt"`
	StartedAt   *time.Time   `json:"startedAt"`
	FinishedAt  *time.Time   `json:"finishedAt"`
	Team1Score  *int         `json:"team1Score"`
	Team2Score  *int         `json:"team2Score"`
	CurrentMap  *string      `json:"currentMap"`
	Maps        []string     `json:"maps"`
	StreamLinks []StreamLink `json:"streamLinks"`
}

type InsertMatchEvent struct {
	MatchID     string         `json:"matchId" validate:"required"`
	EventType   MatchEventType `json:"eventType" validate:"required,oneof=kill round_end bomb_plant bomb_defuse clutch ace player_injury roster_change"`
	Timestamp   *time.Time     `json:"timestamp"`
	Description string         `json:"description" validate:"required"`
	PlayerID    *string        `json:"playerId"`
	Metadata    *EventMetadata `json:"metadata"`
}

type InsertMatchPlayerStats struct {
	MatchID         string `json:"matchId" validate:"required"`
	PlayerID        string `json:"playerId" validate:"required"`
	Kills           int    `json:"kills" validate:"min=0"`
	Deaths          int    `json:"deaths" validate:"min=0"`
	Assists         int    `json:"assists" validate:"min=0"`
	ADR             int    `json:"adr" validate:"min=0"`
	HeadshotPercent int    `json:"headshotPercent" validate:"min=0,max=100"`
	Rating          int    `json:"rating" validate:"min=0"`
	OpeningKills    int    `json:"openingKills" validate:"min=0"`
}

type InsertNewsArticle struct {
	AuthorID     *string  `json:"authorId"`
	Title        string   `json:"title" validate:"required"`
	Subtitle     *string  `json:"subtitle"`
	Content      string   `json:"content" validate:"required"`
	HeroImageURL *string  `json:"heroImageUrl"`
	Tags         []string `json:"tags"`
	Published    bool     `json:"published"`
}

type UpdateNewsArticle struct {
	Title        *string  `json:"title"`
	Subtitle     *string  `json:"subtitle"`
	Content      *string  `json:"content"`
	HeroImageURL *string  `json:"heroImageUrl"`
	Tags         []string `json:"tags"`
	Published    *bool    `json:"published"`
}

type InsertComment struct {
	UserID          string  `json:"userId" validate:"required"`
	MatchID         *string `json:"matchId"`
	ArticleID       *string `json:"articleId"`
	ParentCommentID *string `json:"parentCommentId"`
	Content         string  `json:"content" validate:"required"`
}

type UpdateComment struct {
	Content       *string `json:"content"`
	Likes         *int    `json:"likes"`
	Flagged       *bool   `json:"flagged"`
	Removed       *bool   `json:"removed"`
	RemovalReason *string `json:"removalReason"`
	RemovedBy     *string `json:"removedBy"`
}

type InsertCommentFlag struct {
	CommentID      string     `json:"commentId" validate:"required"`
	UserID         string     `json:"userId" validate:"required"`
	Reason         FlagReason `json:"reason" validate:"required,oneof=spam hate harassment inappropriate other"`
	AdditionalInfo *string    `json:"additionalInfo"`
}

type InsertUserFavorite struct {
	UserID   string  `json:"userId" validate:"required"`
	TeamID   *string `json:"teamId" validate:"required_without=PlayerID"`
	PlayerID *string `json:"playerId" validate:"required_without=TeamID"`
}

type InsertNotification struct {
	UserID  string           `json:"userId" validate:"required"`
	Type    NotificationType `json:"type" validate:"required,oneof=match_start favorite_team_match favorite_player_match comment_reply mention admin_announcement"`
	Title   string           `json:"title" validate:"required"`
	Message string           `json:"message" validate:"required"`
	Link    *string          `json:"link"`
}

type UpsertUserSettings struct {
	UserID             string  `json:"userId" validate:"required"`
	Theme              *string `json:"theme" validate:"omitempty,oneof=light dark system"`
	EmailNotifications *bool   `json:"emailNotifications"`
	PushNotifications  *bool   `json:"pushNotifications"`
	MatchStartAlerts   *bool   `json:"matchStartAlerts"`
	CommentReplyAlerts *bool   `json:"commentReplyAlerts"`
	Newsletter         *bool   `json:"newsletter"`
	PublicProfile      *bool   `json:"publicProfile"`
}
