// Package models defines the persisted entities of the match tracker and the
// insert/update payloads accepted by the API and the real-time channel.
package models

import "time"

// Role is a user's authorization level.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// MatchStatus is the lifecycle state of a match.
type MatchStatus string

const (
	MatchStatusLive     MatchStatus = "live"
	MatchStatusUpcoming MatchStatus = "upcoming"
	MatchStatusFinished MatchStatus = "finished"
)

// MatchEventType is the closed vocabulary of live timeline events.
type MatchEventType string

const (
	EventKill         MatchEventType = "kill"
	EventRoundEnd     MatchEventType = "round_end"
	EventBombPlant    MatchEventType = "bomb_plant"
	EventBombDefuse   MatchEventType = "bomb_defuse"
	EventClutch       MatchEventType = "clutch"
	EventAce          MatchEventType = "ace"
	EventPlayerInjury MatchEventType = "player_injury"
	EventRosterChange MatchEventType = "roster_change"
)

// NotificationType categorizes user notifications.
type NotificationType string

const (
	NotificationMatchStart         NotificationType = "match_start"
	NotificationFavoriteTeamMatch  NotificationType = "favorite_team_match"
	NotificationFavoritePlayer     NotificationType = "favorite_player_match"
	NotificationCommentReply       NotificationType = "comment_reply"
	NotificationMention            NotificationType = "mention"
	NotificationAdminAnnouncement  NotificationType = "admin_announcement"
)

// FlagReason is the closed vocabulary of comment abuse reports.
type FlagReason string

const (
	FlagSpam          FlagReason = "spam"
	FlagHate          FlagReason = "hate"
	FlagHarassment    FlagReason = "harassment"
	FlagInappropriate FlagReason = "inappropriate"
	FlagOther         FlagReason = "other"
)

type User struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	FirstName       *string   `json:"firstName"`
	LastName        *string   `json:"lastName"`
	ProfileImageURL *string   `json:"profileImageUrl"`
	PasswordHash    string    `json:"-"`
	Role            Role      `json:"role"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// SocialLinks holds a team's external profiles.
type SocialLinks struct {
	Twitter string `json:"twitter,omitempty"`
	Twitch  string `json:"twitch,omitempty"`
	YouTube string `json:"youtube,omitempty"`
}

type Team struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Acronym     *string      `json:"acronym"`
	Country     *string      `json:"country"`
	LogoURL     *string      `json:"logoUrl"`
	BannerURL   *string      `json:"bannerUrl"`
	Region      *string      `json:"region"`
	Rank        *int         `json:"rank"`
	Wins        int          `json:"wins"`
	Losses      int          `json:"losses"`
	SocialLinks *SocialLinks `json:"socialLinks"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

type Player struct {
	ID            string    `json:"id"`
	TeamID        *string   `json:"teamId"`
	Alias         string    `json:"alias"`
	RealName      *string   `json:"realName"`
	Country       *string   `json:"country"`
	AvatarURL     *string   `json:"avatarUrl"`
	Role          *string   `json:"role"`
	SteamID       *string   `json:"steamId"`
	TotalMatches  int       `json:"totalMatches"`
	TotalKills    int       `json:"totalKills"`
	TotalDeaths   int       `json:"totalDeaths"`
	TotalAssists  int       `json:"totalAssists"`
	AverageRating int       `json:"averageRating"` // rating * 100
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// StreamLink points at a live broadcast of a match.
type StreamLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Latency  string `json:"latency,omitempty"`
}

type Match struct {
	ID          string       `json:"id"`
	Team1ID     string       `json:"team1Id"`
	Team2ID     string       `json:"team2Id"`
	Status      MatchStatus  `json:"status"`
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
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// MatchWithTeams is the read shape of a match, with both team records joined in.
type MatchWithTeams struct {
	Match
	Team1 *Team `json:"team1"`
	Team2 *Team `json:"team2"`
}

// EventMetadata carries optional per-event detail for the live timeline.
type EventMetadata struct {
	Weapon string `json:"weapon,omitempty"`
	Round  int    `json:"round,omitempty"`
	Side   string `json:"side,omitempty"`
	Victim string `json:"victim,omitempty"`
}

type MatchEvent struct {
	ID          string         `json:"id"`
	MatchID     string         `json:"matchId"`
	EventType   MatchEventType `json:"eventType"`
	Timestamp   time.Time      `json:"timestamp"`
	Description string         `json:"description"`
	PlayerID    *string        `json:"playerId"`
	Metadata    *EventMetadata `json:"metadata"`
	CreatedAt   time.Time      `json:"createdAt"`
}

type MatchPlayerStats struct {
	ID              string    `json:"id"`
	MatchID         string    `json:"matchId"`
	PlayerID        string    `json:"playerId"`
	Kills           int       `json:"kills"`
	Deaths          int       `json:"deaths"`
	Assists         int       `json:"assists"`
	ADR             int       `json:"adr"`
	HeadshotPercent int       `json:"headshotPercent"`
	Rating          int       `json:"rating"` // rating * 100
	OpeningKills    int       `json:"openingKills"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type NewsArticle struct {
	ID           string    `json:"id"`
	AuthorID     *string   `json:"authorId"`
	Title        string    `json:"title"`
	Subtitle     *string   `json:"subtitle"`
	Content      string    `json:"content"`
	HeroImageURL *string   `json:"heroImageUrl"`
	Tags         []string  `json:"tags"`
	Published    bool      `json:"published"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Comment struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	MatchID         *string   `json:"matchId"`
	ArticleID       *string   `json:"articleId"`
	ParentCommentID *string   `json:"parentCommentId"`
	Content         string    `json:"content"`
	Likes           int       `json:"likes"`
	Flagged         bool      `json:"flagged"`
	Removed         bool      `json:"removed"`
	RemovalReason   *string   `json:"removalReason"`
	RemovedBy       *string   `json:"removedBy"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type CommentFlag struct {
	ID             string     `json:"id"`
	CommentID      string     `json:"commentId"`
	UserID         string     `json:"userId"`
	Reason         FlagReason `json:"reason"`
	AdditionalInfo *string    `json:"additionalInfo"`
	Reviewed       bool       `json:"reviewed"`
	CreatedAt      time.Time  `json:"createdAt"`
}

type UserFavorite struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	TeamID    *string   `json:"teamId"`
	PlayerID  *string   `json:"playerId"`
	CreatedAt time.Time `json:"createdAt"`
}

type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Link      *string          `json:"link"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}

type UserSettings struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"userId"`
	Theme              string    `json:"theme"`
	EmailNotifications bool      `json:"emailNotifications"`
	PushNotifications  bool      `json:"pushNotifications"`
	MatchStartAlerts   bool      `json:"matchStartAlerts"`
	CommentReplyAlerts bool      `json:"commentReplyAlerts"`
	Newsletter         bool      `json:"newsletter"`
	PublicProfile      bool      `json:"publicProfile"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}
