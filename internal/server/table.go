package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JackieChiles/Cinch/internal/bots"
	"github.com/JackieChiles/Cinch/internal/engine"
	"github.com/JackieChiles/Cinch/internal/events"
)

// Notifier delivers a message to one user. Delivery is fire-and-forget;
// implementations must never block game progress on a slow recipient.
type Notifier interface {
	Send(userID string, msg ServerMessage)
}

// AbandonPolicy decides what happens to a started game when a seated
// player leaves.
type AbandonPolicy string

const (
	// AbandonWait vacates the seat and pauses until it refills.
	AbandonWait AbandonPolicy = "wait"
	// AbandonEnd moves the game to postgame with no winner.
	AbandonEnd AbandonPolicy = "end"
)

const (
	publishTimeout = 2 * time.Second
	publishBacklog = 256
)

// Table owns one game. Every mutation is serialized behind mu;
// operations on different tables are fully independent.
type Table struct {
	mu       sync.Mutex
	game     *engine.GameState
	notifier Notifier
	store    events.Store
	log      *slog.Logger
	policy   AbandonPolicy
	bots     map[engine.Seat]bots.Bot

	pub       chan events.GameEvent
	done      chan struct{}
	closeOnce sync.Once
}

func NewTable(game *engine.GameState, notifier Notifier, store events.Store, policy AbandonPolicy, log *slog.Logger) *Table {
	if policy == "" {
		policy = AbandonWait
	}
	t := &Table{
		game:     game,
		notifier: notifier,
		store:    store,
		log:      log.With("game", game.ID),
		policy:   policy,
		bots:     map[engine.Seat]bots.Bot{},
		done:     make(chan struct{}),
	}
	if store != nil {
		t.pub = make(chan events.GameEvent, publishBacklog)
		go t.publishPump()
	}
	return t
}

// Close stops the publish worker. Called by the registry when the
// table is torn down; safe to call more than once.
func (t *Table) Close() {
	t.closeOnce.Do(func() { close(t.done) })
}

func (t *Table) ID() string {
	return t.game.ID
}

// Join seats a user and broadcasts, returning the joining user's view.
func (t *Table) Join(seat engine.Seat, user engine.User) (*GameView, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev := snapshot(t.game)
	if err := engine.Join(t.game, seat, user); err != nil {
		return nil, err
	}
	t.log.Info("player joined", "seat", seat, "user", user.ID)

	ev := []Event{{Type: "player_joined", Data: EventPayload{Position: string(seat), Name: user.Name}}}
	ev = deriveEvents(ev, prev, t.game)
	t.broadcastLocked(ev)
	t.publishLocked(ev, string(seat))
	t.botTurnsLocked()
	return BuildGameView(t.game, user.ID), nil
}

// Leave vacates the user's seat and reports whether the table is now
// empty and eligible for teardown. A table whose only remaining
// occupants are bots counts as empty: the bot seats are dropped with it.
func (t *Table) Leave(userID string) (empty bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	seat, seated := t.game.SeatOf(userID)
	if !seated {
		return len(t.game.Seats) == 0
	}
	prev := snapshot(t.game)
	empty = engine.Leave(t.game, userID)
	delete(t.bots, seat)
	t.log.Info("player left", "seat", seat, "user", userID)

	if t.humansLocked() == 0 {
		for s := range t.bots {
			engine.Leave(t.game, t.game.Seats[s].ID)
			delete(t.bots, s)
		}
		empty = true
	}
	if t.policy == AbandonEnd {
		engine.Abort(t.game)
	}
	if !empty {
		ev := []Event{{Type: "player_left", Data: EventPayload{Position: string(seat)}}}
		ev = deriveEvents(ev, prev, t.game)
		t.broadcastLocked(ev)
		t.publishLocked(ev, string(seat))
	}
	return empty
}

// Bid applies a bid for the seated user. Illegal bids are rejected
// without state change and surfaced only to the acting client.
func (t *Table) Bid(userID string, value int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	seat, ok := t.game.SeatOf(userID)
	if !ok {
		return engine.ErrNotSeated
	}
	prev := snapshot(t.game)
	if err := engine.ApplyBid(t.game, seat, value); err != nil {
		t.log.Debug("bid rejected", "seat", seat, "value", value, "err", err)
		return err
	}

	ev := deriveEvents([]Event{bidEvent(seat, value)}, prev, t.game)
	t.broadcastLocked(ev)
	t.publishLocked(ev, string(seat))
	t.botTurnsLocked()
	return nil
}

// Play applies a card play for the seated user.
func (t *Table) Play(userID string, card engine.Card) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	seat, ok := t.game.SeatOf(userID)
	if !ok {
		return engine.ErrNotSeated
	}
	prev := snapshot(t.game)
	if err := engine.ApplyPlay(t.game, seat, card); err != nil {
		t.log.Debug("play rejected", "seat", seat, "card", card, "err", err)
		return err
	}

	ev := deriveEvents([]Event{playEvent(seat, card)}, prev, t.game)
	t.broadcastLocked(ev)
	t.publishLocked(ev, string(seat))
	t.botTurnsLocked()
	return nil
}

// AddBot seats an agent that plays whenever it holds the active position.
func (t *Table) AddBot(seat engine.Seat, seed int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	user := engine.User{ID: "bot-" + uuid.NewString(), Name: "Bot " + string(seat)}
	prev := snapshot(t.game)
	if err := engine.Join(t.game, seat, user); err != nil {
		return err
	}
	t.bots[seat] = bots.NewRandom(seed)
	t.log.Info("bot seated", "seat", seat)

	ev := []Event{{Type: "player_joined", Data: EventPayload{Position: string(seat), Name: user.Name}}}
	ev = deriveEvents(ev, prev, t.game)
	t.broadcastLocked(ev)
	t.publishLocked(ev, string(seat))
	t.botTurnsLocked()
	return nil
}

// View renders the table for one user outside of a mutation.
func (t *Table) View(userID string) *GameView {
	t.mu.Lock()
	defer t.mu.Unlock()
	return BuildGameView(t.game, userID)
}

func (t *Table) Summary() GameSummary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return BuildGameSummary(t.game)
}

// HasMember reports whether the user currently occupies a seat.
func (t *Table) HasMember(userID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.game.SeatOf(userID)
	return ok
}

func (t *Table) humansLocked() int {
	n := 0
	for s := range t.game.Seats {
		if _, isBot := t.bots[s]; !isBot {
			n++
		}
	}
	return n
}

// botTurnsLocked lets seated agents act until a human (or nobody)
// holds the active position.
func (t *Table) botTurnsLocked() {
	for t.game.Phase == engine.PhaseBid || t.game.Phase == engine.PhasePlay {
		seat := t.game.Active
		bot, ok := t.bots[seat]
		if !ok {
			return
		}
		prev := snapshot(t.game)
		var ev []Event
		switch t.game.Phase {
		case engine.PhaseBid:
			value := bot.ChooseBid(t.game, seat)
			if err := engine.ApplyBid(t.game, seat, value); err != nil {
				t.log.Error("bot bid failed", "seat", seat, "err", err)
				return
			}
			ev = deriveEvents([]Event{bidEvent(seat, value)}, prev, t.game)
		case engine.PhasePlay:
			card := bot.ChoosePlay(t.game, seat)
			if err := engine.ApplyPlay(t.game, seat, card); err != nil {
				t.log.Error("bot play failed", "seat", seat, "err", err)
				return
			}
			ev = deriveEvents([]Event{playEvent(seat, card)}, prev, t.game)
		}
		t.broadcastLocked(ev)
		t.publishLocked(ev, string(seat))
	}
}

// broadcastLocked pushes a personalized view plus the action deltas to
// every seated human.
func (t *Table) broadcastLocked(ev []Event) {
	for seat, u := range t.game.Seats {
		if _, isBot := t.bots[seat]; isBot {
			continue
		}
		t.notifier.Send(u.ID, ServerMessage{
			Type:   "state",
			Game:   BuildGameView(t.game, u.ID),
			Events: ev,
		})
	}
}

// publishLocked queues the deltas for the event sink without blocking
// the table. A single worker per table keeps the stream in action order.
func (t *Table) publishLocked(evs []Event, actor string) {
	if t.pub == nil {
		return
	}
	for _, e := range evs {
		rec := events.GameEvent{
			GameID:    t.game.ID,
			Hand:      t.game.HandNum,
			Trick:     t.game.TrickNum,
			Type:      e.Type,
			Actor:     actor,
			Data:      e.Data,
			Timestamp: time.Now().UTC(),
		}
		select {
		case t.pub <- rec:
		default:
			t.log.Warn("event backlog full, dropping", "type", rec.Type)
		}
	}
}

func (t *Table) publishPump() {
	for {
		select {
		case rec := <-t.pub:
			ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
			if err := t.store.Publish(ctx, rec); err != nil {
				t.log.Warn("event publish failed", "type", rec.Type, "err", err)
			}
			cancel()
		case <-t.done:
			return
		}
	}
}
