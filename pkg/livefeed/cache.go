// Package livefeed is the Go client for the tracker's websocket feed. It
// maintains a single connection with automatic reconnection and keeps a
// query-style response cache consistent with incoming events.
package livefeed

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/cs2stats/cs2stats/internal/models"
)

// Event is a decoded feed envelope. Data stays raw until a consumer knows
// the concrete payload type.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Cache is a keyed response cache, keyed by API path ("/api/matches",
// "/api/matches/{id}"). Apply reconciles it against feed events: score
// refreshes patch the cached match in place, everything else invalidates the
// affected keys so the next read refetches.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]interface{}
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]interface{})}
}

func (c *Cache) Set(key string, value interface{}) {
	c.mu.Lock()
	c.entries[key] = value
	c.mu.Unlock()
}

func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// InvalidatePrefix drops every entry whose key starts with prefix.
func (c *Cache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}

// matchPatch is the subset of match fields a match_update carries that feed
// consumers patch without refetching.
type matchPatch struct {
	ID         string             `json:"id"`
	Team1Score *int               `json:"team1Score"`
	Team2Score *int               `json:"team2Score"`
	Status     models.MatchStatus `json:"status"`
	CurrentMap *string            `json:"currentMap"`
	StartedAt  *time.Time         `json:"startedAt"`
	FinishedAt *time.Time         `json:"finishedAt"`
}

// Apply reconciles the cache against one feed event.
func (c *Cache) Apply(evt Event) {
	switch evt.Type {
	case "match_update":
		c.applyMatchUpdate(evt.Data)
	case "match_event":
		var payload struct {
			MatchID string `json:"matchId"`
		}
		if err := json.Unmarshal(evt.Data, &payload); err == nil && payload.MatchID != "" {
			c.Invalidate("/api/matches/" + payload.MatchID + "/events")
		}
	case "connected":
		// Welcome frame, nothing cached yet.
	default:
		c.applyGeneric(evt)
	}
}

// applyMatchUpdate patches the cached match entry in place and invalidates
// match listings, which may have reordered.
func (c *Cache) applyMatchUpdate(data json.RawMessage) {
	var patch matchPatch
	if err := json.Unmarshal(data, &patch); err != nil || patch.ID == "" {
		return
	}

	key := "/api/matches/" + patch.ID
	c.mu.Lock()
	if cached, ok := c.entries[key].(*models.MatchWithTeams); ok {
		if patch.Team1Score != nil {
			cached.Team1Score = *patch.Team1Score
		}
		if patch.Team2Score != nil {
			cached.Team2Score = *patch.Team2Score
		}
		if patch.Status != "" {
			cached.Status = patch.Status
		}
		if patch.CurrentMap != nil {
			cached.CurrentMap = patch.CurrentMap
		}
		if patch.StartedAt != nil {
			cached.StartedAt = patch.StartedAt
		}
		if patch.FinishedAt != nil {
			cached.FinishedAt = patch.FinishedAt
		}
	}
	delete(c.entries, "/api/matches")
	c.mu.Unlock()
}

// applyGeneric handles every {entity}_{created|updated|deleted} envelope by
// invalidating the entity's listing and, when an id is present, its entry.
// Unknown types that do not follow the naming are ignored.
func (c *Cache) applyGeneric(evt Event) {
	entity, ok := entityForEventType(evt.Type)
	if !ok {
		return
	}

	prefix := "/api/" + entity
	var payload struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(evt.Data, &payload); err == nil && payload.ID != "" {
		c.Invalidate(prefix + "/" + payload.ID)
	}
	c.Invalidate(prefix)
}

func entityForEventType(eventType string) (string, bool) {
	idx := strings.LastIndex(eventType, "_")
	if idx <= 0 {
		return "", false
	}
	entity, action := eventType[:idx], eventType[idx+1:]
	switch action {
	case "created", "updated", "deleted":
	default:
		return "", false
	}

	switch entity {
	case "team":
		return "teams", true
	case "player":
		return "players", true
	case "match":
		return "matches", true
	case "match_stats":
		return "matches", true
	case "news":
		return "news", true
	case "comment":
		return "comments", true
	case "favorite":
		return "favorites", true
	case "notification":
		return "notifications", true
	default:
		return "", false
	}
}
