// Package realtime fans live tracker events out to websocket subscribers and
// accepts a small set of inbound commands on the same connection.
package realtime

import "github.com/cs2stats/cs2stats/internal/models"

// Message types pushed to subscribers. Entity lifecycle events follow the
// {entity}_{created|updated|deleted} naming. match_update is a score/status
// refresh emitted alongside match_updated so feed consumers can patch their
// cached match without refetching it.
const (
	MessageTypeConnected = "connected"

	MessageTypeTeamCreated = "team_created"
	MessageTypeTeamUpdated = "team_updated"
	MessageTypeTeamDeleted = "team_deleted"

	MessageTypePlayerCreated = "player_created"
	MessageTypePlayerUpdated = "player_updated"
	MessageTypePlayerDeleted = "player_deleted"

	MessageTypeMatchCreated = "match_created"
	MessageTypeMatchUpdated = "match_updated"
	MessageTypeMatchUpdate  = "match_update"
	MessageTypeMatchDeleted = "match_deleted"

	MessageTypeMatchEvent  = "match_event"
	MessageTypeMatchStats  = "match_stats_created"
	MessageTypeNewsCreated = "news_created"
	MessageTypeNewsUpdated = "news_updated"
	MessageTypeNewsDeleted = "news_deleted"

	MessageTypeCommentCreated = "comment_created"
	MessageTypeCommentUpdated = "comment_updated"
	MessageTypeCommentDeleted = "comment_deleted"

	MessageTypeFavoriteCreated = "favorite_created"
	MessageTypeFavoriteDeleted = "favorite_deleted"

	MessageTypeNotification = "notification_created"
)

// Inbound command types accepted from subscribers. Anything else is ignored.
const (
	CommandCreateMatchEvent = "create_match_event"
	CommandGetMatchEvents   = "get_match_events"
)

// Reply types sent point-to-point to the issuing subscriber only.
const (
	ReplyMatchEventOK      = "create_match_event:ok"
	ReplyMatchEventError   = "create_match_event:error"
	ReplyMatchEvents       = "match_events"
	ReplyMatchEventsError  = "get_match_events:error"
)

// Message is the wire envelope for every frame in both directions.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Deleted is the payload of every *_deleted event.
type Deleted struct {
	ID string `json:"id"`
}

// Constructors below are the only way producers build outbound envelopes, so
// the type string and payload shape cannot drift per call site.

func TeamCreated(t *models.Team) Message   { return Message{Type: MessageTypeTeamCreated, Data: t} }
func TeamUpdated(t *models.Team) Message   { return Message{Type: MessageTypeTeamUpdated, Data: t} }
func TeamDeleted(id string) Message        { return Message{Type: MessageTypeTeamDeleted, Data: Deleted{ID: id}} }
func PlayerCreated(p *models.Player) Message { return Message{Type: MessageTypePlayerCreated, Data: p} }
func PlayerUpdated(p *models.Player) Message { return Message{Type: MessageTypePlayerUpdated, Data: p} }
func PlayerDeleted(id string) Message      { return Message{Type: MessageTypePlayerDeleted, Data: Deleted{ID: id}} }
func MatchCreated(m *models.MatchWithTeams) Message {
	return Message{Type: MessageTypeMatchCreated, Data: m}
}
func MatchUpdated(m *models.Match) Message { return Message{Type: MessageTypeMatchUpdated, Data: m} }
func MatchUpdate(m *models.Match) Message  { return Message{Type: MessageTypeMatchUpdate, Data: m} }
func MatchDeleted(id string) Message       { return Message{Type: MessageTypeMatchDeleted, Data: Deleted{ID: id}} }
func MatchEventCreated(e *models.MatchEvent) Message {
	return Message{Type: MessageTypeMatchEvent, Data: e}
}
func MatchStatsCreated(s *models.MatchPlayerStats) Message {
	return Message{Type: MessageTypeMatchStats, Data: s}
}
func NewsCreated(a *models.NewsArticle) Message { return Message{Type: MessageTypeNewsCreated, Data: a} }
func NewsUpdated(a *models.NewsArticle) Message { return Message{Type: MessageTypeNewsUpdated, Data: a} }
func NewsDeleted(id string) Message             { return Message{Type: MessageTypeNewsDeleted, Data: Deleted{ID: id}} }
func CommentCreated(c *models.Comment) Message {
	return Message{Type: MessageTypeCommentCreated, Data: c}
}
func CommentUpdated(c *models.Comment) Message {
	return Message{Type: MessageTypeCommentUpdated, Data: c}
}
func CommentDeleted(id string) Message { return Message{Type: MessageTypeCommentDeleted, Data: Deleted{ID: id}} }
func FavoriteCreated(f *models.UserFavorite) Message {
	return Message{Type: MessageTypeFavoriteCreated, Data: f}
}
func FavoriteDeleted(id string) Message {
	return Message{Type: MessageTypeFavoriteDeleted, Data: Deleted{ID: id}}
}
func NotificationCreated(n *models.Notification) Message {
	return Message{Type: MessageTypeNotification, Data: n}
}
