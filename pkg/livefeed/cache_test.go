package livefeed

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/cs2stats/cs2stats/internal/models"
)

func event(t *testing.T, eventType string, data interface{}) Event {
	t.Helper()
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal event data: %v", err)
	}
	return Event{Type: eventType, Data: raw}
}

func cachedMatch(id string) *models.MatchWithTeams {
	return &models.MatchWithTeams{Match: models.Match{
		ID:         id,
		Status:     models.MatchStatusLive,
		Team1Score: 5,
		Team2Score: 3,
	}}
}

func TestApplyMatchUpdatePatchesInPlace(t *testing.T) {
	cache := NewCache()
	match := cachedMatch("m-1")
	cache.Set("/api/matches/m-1", match)
	cache.Set("/api/matches", []string{"stale list"})

	score1, score2 := 12, 10
	mapName := "Inferno"
	finished := time.Now().Truncate(time.Second)
	cache.Apply(event(t, "match_update", map[string]interface{}{
		"id":         "m-1",
		"team1Score": score1,
		"team2Score": score2,
		"status":     "finished",
		"currentMap": mapName,
		"finishedAt": finished,
	}))

	if match.Team1Score != 12 || match.Team2Score != 10 {
		t.Errorf("scores = %d:%d, want 12:10", match.Team1Score, match.Team2Score)
	}
	if match.Status != models.MatchStatusFinished {
		t.Errorf("status = %q, want finished", match.Status)
	}
	if match.CurrentMap == nil || *match.CurrentMap != mapName {
		t.Errorf("currentMap = %v, want %q", match.CurrentMap, mapName)
	}
	if match.FinishedAt == nil || !match.FinishedAt.Equal(finished) {
		t.Errorf("finishedAt = %v, want %v", match.FinishedAt, finished)
	}

	// The entry survives, the listing does not.
	if _, ok := cache.Get("/api/matches/m-1"); !ok {
		t.Error("match entry evicted, want patched in place")
	}
	if _, ok := cache.Get("/api/matches"); ok {
		t.Error("match listing not invalidated")
	}
}

func TestApplyMatchUpdatePartialPatch(t *testing.T) {
	cache := NewCache()
	match := cachedMatch("m-1")
	started := time.Now().Add(-time.Hour)
	match.StartedAt = &started
	cache.Set("/api/matches/m-1", match)

	score := 6
	cache.Apply(event(t, "match_update", map[string]interface{}{
		"id":         "m-1",
		"team1Score": score,
	}))

	if match.Team1Score != 6 {
		t.Errorf("team1Score = %d, want 6", match.Team1Score)
	}
	// Absent fields stay untouched.
	if match.Team2Score != 3 {
		t.Errorf("team2Score = %d, want 3 untouched", match.Team2Score)
	}
	if match.StartedAt == nil {
		t.Error("startedAt cleared by partial patch")
	}
}

func TestApplyMatchEventInvalidatesTimeline(t *testing.T) {
	cache := NewCache()
	cache.Set("/api/matches/m-1/events", []string{"stale"})
	cache.Set("/api/matches/m-1", cachedMatch("m-1"))

	cache.Apply(event(t, "match_event", map[string]string{"matchId": "m-1", "eventType": "kill"}))

	if _, ok := cache.Get("/api/matches/m-1/events"); ok {
		t.Error("timeline not invalidated")
	}
	if _, ok := cache.Get("/api/matches/m-1"); !ok {
		t.Error("match entry should stay cached on match_event")
	}
}

func TestApplyGenericInvalidation(t *testing.T) {
	tests := []struct {
		eventType string
		keys      []string
	}{
		{"team_created", []string{"/api/teams"}},
		{"team_updated", []string{"/api/teams", "/api/teams/t-1"}},
		{"player_deleted", []string{"/api/players", "/api/players/t-1"}},
		{"news_updated", []string{"/api/news", "/api/news/t-1"}},
		{"comment_created", []string{"/api/comments"}},
		{"favorite_created", []string{"/api/favorites"}},
		{"favorite_deleted", []string{"/api/favorites", "/api/favorites/t-1"}},
	}

	for _, tc := range tests {
		t.Run(tc.eventType, func(t *testing.T) {
			cache := NewCache()
			for _, key := range tc.keys {
				cache.Set(key, "stale")
			}
			cache.Apply(event(t, tc.eventType, map[string]string{"id": "t-1"}))
			for _, key := range tc.keys {
				if _, ok := cache.Get(key); ok {
					t.Errorf("%s not invalidated by %s", key, tc.eventType)
				}
			}
		})
	}
}

func TestApplyIgnoresUnknownTypes(t *testing.T) {
	cache := NewCache()
	cache.Set("/api/teams", "kept")

	cache.Apply(event(t, "server_metrics", map[string]int{"goroutines": 12}))
	cache.Apply(event(t, "connected", map[string]string{"message": "hi"}))
	cache.Apply(Event{Type: "team_created", Data: json.RawMessage("{broken")})

	// Unknown/welcome frames leave the cache alone; the malformed team event
	// still invalidates the listing since its type is recognized.
	if _, ok := cache.Get("/api/teams"); ok {
		t.Error("recognized type with malformed payload should still invalidate the listing")
	}
}

func TestApplyMatchUpdateWithoutCachedEntry(t *testing.T) {
	cache := NewCache()
	cache.Set("/api/matches", "stale")

	// No entry for the match; Apply must not panic and still drops the list.
	cache.Apply(event(t, "match_update", map[string]string{"id": "m-9"}))

	if _, ok := cache.Get("/api/matches"); ok {
		t.Error("match listing not invalidated")
	}
}
