package server

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JackieChiles/Cinch/internal/engine"
	"github.com/JackieChiles/Cinch/internal/events"
)

// recordingNotifier captures every message pushed to each user.
type recordingNotifier struct {
	mu   sync.Mutex
	msgs map[string][]ServerMessage
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{msgs: map[string][]ServerMessage{}}
}

func (n *recordingNotifier) Send(userID string, msg ServerMessage) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs[userID] = append(n.msgs[userID], msg)
}

func (n *recordingNotifier) count(userID string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.msgs[userID])
}

func (n *recordingNotifier) last(userID string) ServerMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	msgs := n.msgs[userID]
	if len(msgs) == 0 {
		return ServerMessage{}
	}
	return msgs[len(msgs)-1]
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRegistry(policy AbandonPolicy) (*Registry, *recordingNotifier) {
	n := newRecordingNotifier()
	r := NewRegistry(engine.StandardRules(), policy, n, events.NopStore{}, 7, testLogger())
	return r, n
}

func TestStartNewSeatsCreatorSouth(t *testing.T) {
	r, _ := newTestRegistry(AbandonWait)

	view, err := r.StartNew(engine.User{ID: "u1", Name: "Alice"})
	require.NoError(t, err)

	require.NotNil(t, view.Seats["south"])
	assert.Equal(t, "u1", view.Seats["south"].UserID)
	assert.Equal(t, "south", view.Dealer)
	assert.Equal(t, "pregame", view.Phase)
	assert.Len(t, r.GameList(), 1)
}

func TestFourthJoinStartsBidding(t *testing.T) {
	r, n := newTestRegistry(AbandonWait)

	view, err := r.StartNew(engine.User{ID: "u1", Name: "Alice"})
	require.NoError(t, err)
	id := view.ID

	_, err = r.Join(id, engine.SeatNorth, engine.User{ID: "u2", Name: "Bob"})
	require.NoError(t, err)
	_, err = r.Join(id, engine.SeatEast, engine.User{ID: "u3", Name: "Cara"})
	require.NoError(t, err)
	view, err = r.Join(id, engine.SeatWest, engine.User{ID: "u4", Name: "Dana"})
	require.NoError(t, err)

	assert.Equal(t, "bid", view.Phase)
	assert.Equal(t, "south", view.Dealer)
	// Bidding opens with the player to the dealer's left.
	assert.Equal(t, "west", view.ActivePlayer)
	assert.Len(t, view.Hands["u4"], 9)
	assert.NotContains(t, view.Hands, "u1")

	for _, uid := range []string{"u1", "u2", "u3", "u4"} {
		require.Greater(t, n.count(uid), 0, "user %s never notified", uid)
		last := n.last(uid)
		assert.Equal(t, "state", last.Type)
		assert.Equal(t, "bid", last.Game.Phase)
	}
}

func TestRejectedActionReachesOnlyActor(t *testing.T) {
	r, n := newTestRegistry(AbandonWait)

	view, err := r.StartNew(engine.User{ID: "u1", Name: "Alice"})
	require.NoError(t, err)
	id := view.ID
	_, err = r.Join(id, engine.SeatNorth, engine.User{ID: "u2"})
	require.NoError(t, err)
	_, err = r.Join(id, engine.SeatEast, engine.User{ID: "u3"})
	require.NoError(t, err)
	_, err = r.Join(id, engine.SeatWest, engine.User{ID: "u4"})
	require.NoError(t, err)

	before := n.count("u2")
	// West is active; east acting out of turn is rejected without a broadcast.
	err = r.Bid(id, "u3", 2)
	assert.ErrorIs(t, err, engine.ErrNotYourTurn)
	assert.Equal(t, before, n.count("u2"))

	err = r.Bid(id, "ghost", 2)
	assert.ErrorIs(t, err, engine.ErrNotSeated)
}

func TestDisconnectTearsDownEmptyGame(t *testing.T) {
	r, _ := newTestRegistry(AbandonWait)

	_, err := r.StartNew(engine.User{ID: "u1", Name: "Alice"})
	require.NoError(t, err)
	require.Len(t, r.GameList(), 1)

	r.Disconnect("u1")
	assert.Empty(t, r.GameList())
}

func TestAbandonEndPolicyEndsGame(t *testing.T) {
	r, n := newTestRegistry(AbandonEnd)

	view, err := r.StartNew(engine.User{ID: "u1", Name: "Alice"})
	require.NoError(t, err)
	id := view.ID
	_, err = r.Join(id, engine.SeatNorth, engine.User{ID: "u2"})
	require.NoError(t, err)
	_, err = r.Join(id, engine.SeatEast, engine.User{ID: "u3"})
	require.NoError(t, err)
	_, err = r.Join(id, engine.SeatWest, engine.User{ID: "u4"})
	require.NoError(t, err)

	r.Disconnect("u4")

	last := n.last("u1")
	require.NotNil(t, last.Game)
	assert.Equal(t, "postgame", last.Game.Phase)
	assert.Empty(t, last.Game.GameWinner)
}

func TestAbandonWaitPolicyHoldsSeatOpen(t *testing.T) {
	r, _ := newTestRegistry(AbandonWait)

	view, err := r.StartNew(engine.User{ID: "u1", Name: "Alice"})
	require.NoError(t, err)
	id := view.ID
	_, err = r.Join(id, engine.SeatNorth, engine.User{ID: "u2"})
	require.NoError(t, err)
	_, err = r.Join(id, engine.SeatEast, engine.User{ID: "u3"})
	require.NoError(t, err)
	_, err = r.Join(id, engine.SeatWest, engine.User{ID: "u4"})
	require.NoError(t, err)

	r.Disconnect("u4")

	got, err := r.View(id, "u1")
	require.NoError(t, err)
	assert.Equal(t, "bid", got.Phase)
	assert.Nil(t, got.Seats["west"])

	// A replacement can take the vacated seat and the hand continues.
	view, err = r.Join(id, engine.SeatWest, engine.User{ID: "u5", Name: "Eve"})
	require.NoError(t, err)
	assert.Equal(t, "bid", view.Phase)
	assert.Equal(t, "west", view.ActivePlayer)
}

func TestHumanWithBotsPlaysToCompletion(t *testing.T) {
	if testing.Short() {
		t.Skip("full game loop")
	}
	r, _ := newTestRegistry(AbandonWait)

	view, err := r.StartNew(engine.User{ID: "u1", Name: "Alice"})
	require.NoError(t, err)
	id := view.ID

	require.NoError(t, r.AddBot(id, engine.SeatNorth))
	require.NoError(t, r.AddBot(id, engine.SeatEast))
	require.NoError(t, r.AddBot(id, engine.SeatWest))

	// Bots act automatically; drive the human seat with any legal move.
	for step := 0; step < 1000; step++ {
		view, err = r.View(id, "u1")
		require.NoError(t, err)
		if view.Phase == "postgame" {
			return
		}
		require.Equal(t, "south", view.ActivePlayer, "step %d: bots stalled", step)

		switch view.Phase {
		case "bid":
			require.NotEmpty(t, view.LegalBids)
			require.NoError(t, r.Bid(id, "u1", view.LegalBids[0]))
		case "play":
			require.NotEmpty(t, view.LegalPlays)
			card, convErr := view.LegalPlays[0].toEngine()
			require.NoError(t, convErr)
			require.NoError(t, r.Play(id, "u1", card))
		default:
			t.Fatalf("step %d: unexpected phase %q", step, view.Phase)
		}
	}
	t.Fatal("game did not finish")
}

func TestBotOnlyTableIsTornDown(t *testing.T) {
	r, _ := newTestRegistry(AbandonWait)

	view, err := r.StartNew(engine.User{ID: "u1", Name: "Alice"})
	require.NoError(t, err)
	id := view.ID
	require.NoError(t, r.AddBot(id, engine.SeatNorth))
	require.NoError(t, r.AddBot(id, engine.SeatEast))
	require.NoError(t, r.AddBot(id, engine.SeatWest))
	require.Len(t, r.GameList(), 1)

	// Bots cannot finish a game by themselves; losing the last human
	// must tear the table down rather than leak it in the lobby.
	r.Disconnect("u1")
	assert.Empty(t, r.GameList())
}

// recordingStore captures published events in arrival order.
type recordingStore struct {
	mu     sync.Mutex
	events []events.GameEvent
}

func (s *recordingStore) Publish(_ context.Context, ev events.GameEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func (s *recordingStore) Close() error { return nil }

func (s *recordingStore) snapshot() []events.GameEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]events.GameEvent(nil), s.events...)
}

func TestEventsReachSinkInActionOrder(t *testing.T) {
	store := &recordingStore{}
	r := NewRegistry(engine.StandardRules(), AbandonWait, newRecordingNotifier(), store, 7, testLogger())

	_, err := r.StartNew(engine.User{ID: "u1", Name: "Alice"})
	require.NoError(t, err)
	id := r.GameList()[0].ID
	_, err = r.Join(id, engine.SeatNorth, engine.User{ID: "u2"})
	require.NoError(t, err)
	_, err = r.Join(id, engine.SeatEast, engine.User{ID: "u3"})
	require.NoError(t, err)
	_, err = r.Join(id, engine.SeatWest, engine.User{ID: "u4"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(store.snapshot()) >= 4
	}, time.Second, 10*time.Millisecond, "events never reached the sink")

	got := store.snapshot()
	want := []string{"south", "north", "east", "west"}
	for i, pos := range want {
		assert.Equal(t, "player_joined", got[i].Type)
		assert.Equal(t, pos, got[i].Data.(EventPayload).Position, "event %d out of order", i)
	}
}

func TestGameNotFound(t *testing.T) {
	r, _ := newTestRegistry(AbandonWait)

	_, err := r.Join("nope", engine.SeatNorth, engine.User{ID: "u1"})
	assert.ErrorIs(t, err, ErrGameNotFound)
	assert.ErrorIs(t, r.Bid("nope", "u1", 2), ErrGameNotFound)
	assert.ErrorIs(t, r.Play("nope", "u1", engine.Card{}), ErrGameNotFound)
}
