// Package events defines the append-only game event sink. The engine
// never blocks on a sink and tolerates any of them failing.
package events

import (
	"context"
	"time"
)

// GameEvent is one accepted action or derived outcome, flattened for
// external consumers (stats, replay tooling).
type GameEvent struct {
	GameID    string    `json:"gameId"`
	Hand      int       `json:"hand"`
	Trick     int       `json:"trick"`
	Type      string    `json:"type"`
	Actor     string    `json:"actor,omitempty"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type Store interface {
	Publish(ctx context.Context, ev GameEvent) error
	Close() error
}

// NopStore drops every event. Used when no external store is configured.
type NopStore struct{}

func (NopStore) Publish(context.Context, GameEvent) error { return nil }

func (NopStore) Close() error { return nil }
