// Package bots provides server-side agents that occupy open seats.
// Agents are ordinary clients of the engine API and only ever submit
// legal actions; their choices carry no strategy.
package bots

import (
	"math/rand"

	"github.com/JackieChiles/Cinch/internal/engine"
)

type Bot interface {
	ChooseBid(g *engine.GameState, seat engine.Seat) int
	ChoosePlay(g *engine.GameState, seat engine.Seat) engine.Card
}

type RandomBot struct {
	RNG *rand.Rand
}

func NewRandom(seed int64) *RandomBot {
	return &RandomBot{RNG: rand.New(rand.NewSource(seed))}
}

func (b *RandomBot) ChooseBid(g *engine.GameState, seat engine.Seat) int {
	legal := engine.LegalBids(g, seat)
	if len(legal) == 0 {
		return engine.BidPass
	}
	// Lean on pass when available to keep auctions short.
	if legal[0] == engine.BidPass && b.RNG.Intn(2) == 0 {
		return engine.BidPass
	}
	return legal[b.RNG.Intn(len(legal))]
}

func (b *RandomBot) ChoosePlay(g *engine.GameState, seat engine.Seat) engine.Card {
	legal := engine.LegalPlays(g, seat)
	if len(legal) == 0 {
		return engine.Card{}
	}
	return legal[b.RNG.Intn(len(legal))]
}
