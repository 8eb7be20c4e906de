package server

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/JackieChiles/Cinch/internal/engine"
	"github.com/JackieChiles/Cinch/internal/events"
)

var ErrGameNotFound = errors.New("game not found")

// Registry tracks every live table and which tables each connected
// user sits at. Table mutations happen under the table's own lock;
// the registry lock only guards the maps.
type Registry struct {
	mu     sync.RWMutex
	games  map[string]*Table
	byUser map[string]map[string]*Table

	rules    engine.Rules
	policy   AbandonPolicy
	notifier Notifier
	store    events.Store
	log      *slog.Logger
	seed     int64
}

func NewRegistry(rules engine.Rules, policy AbandonPolicy, notifier Notifier, store events.Store, seed int64, log *slog.Logger) *Registry {
	return &Registry{
		games:    map[string]*Table{},
		byUser:   map[string]map[string]*Table{},
		rules:    rules,
		policy:   policy,
		notifier: notifier,
		store:    store,
		log:      log,
		seed:     seed,
	}
}

// StartNew creates a table and seats the creator south, making them
// the first dealer.
func (r *Registry) StartNew(user engine.User) (*GameView, error) {
	id := uuid.NewString()

	r.mu.Lock()
	r.seed++
	seed := r.seed
	t := NewTable(engine.NewGame(id, r.rules, seed), r.notifier, r.store, r.policy, r.log)
	r.games[id] = t
	r.mu.Unlock()

	r.log.Info("game created", "game", id, "creator", user.ID)
	view, err := t.Join(engine.SeatSouth, user)
	if err != nil {
		r.remove(id)
		t.Close()
		return nil, err
	}
	r.mu.Lock()
	r.indexLocked(user.ID, t)
	r.mu.Unlock()
	return view, nil
}

// Join seats the user at an existing table.
func (r *Registry) Join(gameID string, seat engine.Seat, user engine.User) (*GameView, error) {
	t, ok := r.lookup(gameID)
	if !ok {
		return nil, ErrGameNotFound
	}
	view, err := t.Join(seat, user)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.indexLocked(user.ID, t)
	r.mu.Unlock()
	return view, nil
}

// Leave removes the user from one table, tearing it down if empty.
func (r *Registry) Leave(gameID, userID string) error {
	t, ok := r.lookup(gameID)
	if !ok {
		return ErrGameNotFound
	}
	empty := t.Leave(userID)

	r.mu.Lock()
	r.unindexLocked(userID, gameID)
	if empty {
		delete(r.games, gameID)
	}
	r.mu.Unlock()

	if empty {
		t.Close()
		r.log.Info("game torn down", "game", gameID)
	}
	return nil
}

func (r *Registry) Bid(gameID, userID string, value int) error {
	t, ok := r.lookup(gameID)
	if !ok {
		return ErrGameNotFound
	}
	return t.Bid(userID, value)
}

func (r *Registry) Play(gameID, userID string, card engine.Card) error {
	t, ok := r.lookup(gameID)
	if !ok {
		return ErrGameNotFound
	}
	return t.Play(userID, card)
}

func (r *Registry) AddBot(gameID string, seat engine.Seat) error {
	t, ok := r.lookup(gameID)
	if !ok {
		return ErrGameNotFound
	}
	r.mu.Lock()
	r.seed++
	seed := r.seed
	r.mu.Unlock()
	return t.AddBot(seat, seed)
}

func (r *Registry) View(gameID, userID string) (*GameView, error) {
	t, ok := r.lookup(gameID)
	if !ok {
		return nil, ErrGameNotFound
	}
	return t.View(userID), nil
}

// Disconnect pulls the user out of every table they sit at. Called
// when a connection drops.
func (r *Registry) Disconnect(userID string) {
	r.mu.Lock()
	tables := make([]*Table, 0, len(r.byUser[userID]))
	for _, t := range r.byUser[userID] {
		tables = append(tables, t)
	}
	delete(r.byUser, userID)
	r.mu.Unlock()

	for _, t := range tables {
		if empty := t.Leave(userID); empty {
			r.remove(t.ID())
			t.Close()
			r.log.Info("game torn down", "game", t.ID())
		}
	}
}

// GameList snapshots every live table for the lobby.
func (r *Registry) GameList() []GameSummary {
	r.mu.RLock()
	tables := make([]*Table, 0, len(r.games))
	for _, t := range r.games {
		tables = append(tables, t)
	}
	r.mu.RUnlock()

	out := make([]GameSummary, 0, len(tables))
	for _, t := range tables {
		out = append(out, t.Summary())
	}
	return out
}

func (r *Registry) lookup(gameID string) (*Table, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.games[gameID]
	return t, ok
}

func (r *Registry) remove(gameID string) {
	r.mu.Lock()
	delete(r.games, gameID)
	r.mu.Unlock()
}

func (r *Registry) indexLocked(userID string, t *Table) {
	if r.byUser[userID] == nil {
		r.byUser[userID] = map[string]*Table{}
	}
	r.byUser[userID][t.ID()] = t
}

func (r *Registry) unindexLocked(userID, gameID string) {
	if m := r.byUser[userID]; m != nil {
		delete(m, gameID)
		if len(m) == 0 {
			delete(r.byUser, userID)
		}
	}
}
