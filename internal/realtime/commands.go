package realtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/cs2stats/cs2stats/internal/logging"
	"github.com/cs2stats/cs2stats/internal/models"
	"github.com/cs2stats/cs2stats/internal/storage"
	"github.com/cs2stats/cs2stats/internal/validation"
)

// ErrInvalidPayload wraps validation failures on inbound commands.
var ErrInvalidPayload = errors.New("invalid payload")

// Notifier sends out-of-band alerts for match events. *email.Mailer satisfies
// it; tests substitute a fake.
type Notifier interface {
	SendMatchEventAlert(event *models.MatchEvent)
}

// Commands executes the inbound websocket commands against storage. The same
// code path backs the HTTP match-event endpoint, so events created over
// either transport are persisted, broadcast and mailed identically.
type Commands struct {
	store    storage.Storage
	validate *validation.Validator
	hub      *Hub
	notifier Notifier
}

func NewCommands(store storage.Storage, validate *validation.Validator, hub *Hub, notifier Notifier) *Commands {
	return &Commands{store: store, validate: validate, hub: hub, notifier: notifier}
}

// CreateMatchEvent validates and persists a timeline event, then fans it out
// to every subscriber. The notification mail is fire-and-forget.
func (c *Commands) CreateMatchEvent(ctx context.Context, payload models.InsertMatchEvent) (*models.MatchEvent, error) {
	if err := c.validate.Struct(payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if _, err := c.store.GetMatch(ctx, payload.MatchID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: match not found", ErrInvalidPayload)
		}
		return nil, err
	}

	event, err := c.store.CreateMatchEvent(ctx, payload)
	if err != nil {
		return nil, err
	}

	c.hub.Broadcast(MatchEventCreated(event))

	if c.notifier != nil {
		go func() {
			defer func() {
				if r := recover(); r != nil {
					logging.Error().Interface("panic", r).Msg("match event notifier panicked")
				}
			}()
			c.notifier.SendMatchEventAlert(event)
		}()
	}

	logging.Info().
		Str("match_id", event.MatchID).
		Str("event_type", string(event.EventType)).
		Msg("match event created")
	return event, nil
}

// GetMatchEvents returns the most recent events for a match, newest first.
func (c *Commands) GetMatchEvents(ctx context.Context, matchID string, limit int) ([]models.MatchEvent, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return c.store.GetMatchEvents(ctx, matchID, limit)
}
