package realtime

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cs2stats/cs2stats/internal/models"
	"github.com/cs2stats/cs2stats/internal/storage"
	"github.com/cs2stats/cs2stats/internal/validation"
)

type fakeNotifier struct {
	mu     sync.Mutex
	events []*models.MatchEvent
}

func (f *fakeNotifier) SendMatchEventAlert(event *models.MatchEvent) {
	f.mu.Lock()
	f.events = append(f.events, event)
	f.mu.Unlock()
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

func seedMatch(t *testing.T, store storage.Storage) *models.MatchWithTeams {
	t.Helper()
	ctx := context.Background()
	team1, err := store.CreateTeam(ctx, models.InsertTeam{Name: "Alpha"})
	if err != nil {
		t.Fatalf("create team1: %v", err)
	}
	team2, err := store.CreateTeam(ctx, models.InsertTeam{Name: "Bravo"})
	if err != nil {
		t.Fatalf("create team2: %v", err)
	}
	match, err := store.CreateMatch(ctx, models.InsertMatch{
		Team1ID: team1.ID,
		Team2ID: team2.ID,
		Status:  models.MatchStatusLive,
	})
	if err != nil {
		t.Fatalf("create match: %v", err)
	}
	return match
}

func TestCommandsCreateMatchEvent(t *testing.T) {
	store := storage.NewMemory()
	hub := NewHub()
	notifier := &fakeNotifier{}
	commands := NewCommands(store, validation.New(), hub, notifier)

	match := seedMatch(t, store)
	sub := testSubscriber()
	hub.Register(sub)

	event, err := commands.CreateMatchEvent(context.Background(), models.InsertMatchEvent{
		MatchID:     match.ID,
		EventType:   models.EventKill,
		Description: "s1mple opens the round with an AWP pick",
	})
	if err != nil {
		t.Fatalf("CreateMatchEvent: %v", err)
	}
	if event.ID == "" {
		t.Error("event ID not assigned")
	}

	// Persisted.
	events, err := store.GetMatchEvents(context.Background(), match.ID, 10)
	if err != nil {
		t.Fatalf("GetMatchEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("stored events = %d, want 1", len(events))
	}

	// Broadcast to subscribers.
	msgs := drain(sub)
	if len(msgs) != 1 || msgs[0].Type != MessageTypeMatchEvent {
		t.Fatalf("broadcast = %+v, want one match_event", msgs)
	}

	// Notifier fires asynchronously.
	deadline := time.Now().Add(2 * time.Second)
	for notifier.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if notifier.count() != 1 {
		t.Errorf("notifier called %d times, want 1", notifier.count())
	}
}

func TestCommandsCreateMatchEventValidation(t *testing.T) {
	store := storage.NewMemory()
	commands := NewCommands(store, validation.New(), NewHub(), nil)
	match := seedMatch(t, store)

	tests := []struct {
		name    string
		payload models.InsertMatchEvent
	}{
		{"missing match id", models.InsertMatchEvent{EventType: models.EventKill, Description: "x"}},
		{"missing description", models.InsertMatchEvent{MatchID: match.ID, EventType: models.EventKill}},
		{"unknown event type", models.InsertMatchEvent{MatchID: match.ID, EventType: "teleport", Description: "x"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := commands.CreateMatchEvent(context.Background(), tc.payload)
			if !errors.Is(err, ErrInvalidPayload) {
				t.Errorf("err = %v, want ErrInvalidPayload", err)
			}
		})
	}
}

func TestCommandsCreateMatchEventUnknownMatch(t *testing.T) {
	store := storage.NewMemory()
	commands := NewCommands(store, validation.New(), NewHub(), nil)

	_, err := commands.CreateMatchEvent(context.Background(), models.InsertMatchEvent{
		MatchID:     "missing",
		EventType:   models.EventAce,
		Description: "five in a row",
	})
	if !errors.Is(err, ErrInvalidPayload) {
		t.Errorf("err = %v, want ErrInvalidPayload for unknown match", err)
	}
}

func TestCommandsGetMatchEventsLimit(t *testing.T) {
	store := storage.NewMemory()
	commands := NewCommands(store, validation.New(), NewHub(), nil)
	match := seedMatch(t, store)

	for i := 0; i < 60; i++ {
		ts := time.Now().Add(time.Duration(i) * time.Second)
		_, err := store.CreateMatchEvent(context.Background(), models.InsertMatchEvent{
			MatchID:     match.ID,
			EventType:   models.EventRoundEnd,
			Description: "round over",
			Timestamp:   &ts,
		})
		if err != nil {
			t.Fatalf("seed event %d: %v", i, err)
		}
	}

	events, err := commands.GetMatchEvents(context.Background(), match.ID, 0)
	if err != nil {
		t.Fatalf("GetMatchEvents: %v", err)
	}
	if len(events) != 50 {
		t.Errorf("default limit returned %d events, want 50", len(events))
	}

	events, err = commands.GetMatchEvents(context.Background(), match.ID, 10)
	if err != nil {
		t.Fatalf("GetMatchEvents: %v", err)
	}
	if len(events) != 10 {
		t.Errorf("limit 10 returned %d events, want 10", len(events))
	}
	// Newest first.
	for i := 1; i < len(events); i++ {
		if events[i].Timestamp.After(events[i-1].Timestamp) {
			t.Fatalf("events not ordered newest first at index %d", i)
		}
	}
}
