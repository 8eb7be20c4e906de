package engine

import "errors"

var (
	ErrSeatInvalid   = errors.New("invalid seat")
	ErrSeatOccupied  = errors.New("seat occupied")
	ErrAlreadySeated = errors.New("user already seated")
	ErrGameOver      = errors.New("game is over")
	ErrNotSeated     = errors.New("user not seated")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrWrongPhase    = errors.New("wrong phase")
	ErrIllegalBid    = errors.New("illegal bid")
	ErrIllegalPlay   = errors.New("illegal play")
)

// Join seats a user. Filling the fourth seat of a pregame game deals
// the first hand and opens bidding.
func Join(g *GameState, seat Seat, user User) error {
	if !ValidSeat(seat) {
		return ErrSeatInvalid
	}
	if g.Phase == PhasePostgame {
		return ErrGameOver
	}
	if _, ok := g.Seats[seat]; ok {
		return ErrSeatOccupied
	}
	if _, ok := g.SeatOf(user.ID); ok {
		return ErrAlreadySeated
	}
	g.Seats[seat] = user

	if len(g.Seats) == len(SeatOrder) && g.Phase == PhasePregame {
		startHand(g)
	}
	return nil
}

// Leave vacates the user's seat, if any, and reports whether the game
// is now completely empty. Cleanup is idempotent.
func Leave(g *GameState, userID string) (empty bool) {
	if seat, ok := g.SeatOf(userID); ok {
		delete(g.Seats, seat)
	}
	return len(g.Seats) == 0
}

// Abort ends a started game without a winner. Used by the "end"
// abandonment policy.
func Abort(g *GameState) {
	if g.Phase == PhaseBid || g.Phase == PhasePlay {
		g.Phase = PhasePostgame
	}
}

// ApplyBid validates and records a bid for the seat. The fourth bid of
// a hand closes bidding and hands the lead to the winning bidder.
func ApplyBid(g *GameState, seat Seat, value int) error {
	if g.Phase != PhaseBid {
		return ErrWrongPhase
	}
	if seat != g.Active {
		return ErrNotYourTurn
	}
	if !bidLegal(g, seat, value) {
		return ErrIllegalBid
	}

	g.Bids = append(g.Bids, BidEntry{Seat: seat, Hand: g.HandNum, Value: value})

	if len(g.HandBids()) == len(SeatOrder) {
		g.Declarer, g.WinningBid = winningBid(g)
		g.Active = g.Declarer
		g.Phase = PhasePlay
		g.TrickNum = 1
		return nil
	}
	g.Active = g.Active.Next()
	return nil
}

// ApplyPlay validates and records a card play for the seat, resolving
// the trick, the hand, and the game as they complete.
func ApplyPlay(g *GameState, seat Seat, card Card) error {
	if g.Phase != PhasePlay {
		return ErrWrongPhase
	}
	if seat != g.Active {
		return ErrNotYourTurn
	}
	if !playLegal(g, seat, card) {
		return ErrIllegalPlay
	}

	removeCard(g, seat, card)
	g.Plays = append(g.Plays, PlayEntry{Seat: seat, Hand: g.HandNum, Trick: g.TrickNum, Card: card})
	if g.Trump == nil {
		// First card led this hand names trump.
		s := card.Suit
		g.Trump = &s
	}

	trick := g.TrickPlays()
	if len(trick) < len(SeatOrder) {
		g.Active = g.Active.Next()
		return nil
	}

	winner := trickWinner(trick, *g.Trump)
	g.Tricks = append(g.Tricks, TrickRecord{Hand: g.HandNum, Trick: g.TrickNum, Winner: winner})

	if g.TrickNum < g.Rules.HandSize {
		g.Active = winner
		g.TrickNum++
		return nil
	}

	finishHand(g)
	return nil
}

func startHand(g *GameState) {
	deck := Shuffle(BuildDeck(), g.Seed+int64(g.HandNum))
	for _, seat := range SeatOrder {
		var hand []Card
		hand, deck = Deal(deck, g.Rules.HandSize)
		sortHand(hand)
		g.Hands[seat] = hand
	}
	g.Stock = deck
	g.Trump = nil
	g.Phase = PhaseBid
	g.TrickNum = 1
	g.Active = g.Dealer.Next()
}

func finishHand(g *GameState) {
	g.LastResult = scoreHand(g)

	declTeam := TeamOf(g.Declarer)
	if g.Scores[declTeam] >= g.Rules.WinScore {
		// Declarer's team takes precedence when both cross the line.
		g.Phase = PhasePostgame
		t := declTeam
		g.Winner = &t
		return
	}
	if g.Scores[declTeam.Other()] >= g.Rules.WinScore {
		g.Phase = PhasePostgame
		t := declTeam.Other()
		g.Winner = &t
		return
	}
	if g.Rules.MaxHands > 0 && g.HandNum >= g.Rules.MaxHands {
		// Hand cap reached with no winner: the game is a draw.
		g.Phase = PhasePostgame
		return
	}

	g.HandNum++
	g.Dealer = g.Dealer.Next()
	g.Declarer = ""
	g.WinningBid = 0
	startHand(g)
}

func removeCard(g *GameState, seat Seat, card Card) {
	hand := g.Hands[seat]
	for i, c := range hand {
		if c == card {
			g.Hands[seat] = append(hand[:i:i], hand[i+1:]...)
			return
		}
	}
}

// LegalBids lists the bid values the seat could make right now.
func LegalBids(g *GameState, seat Seat) []int {
	if g.Phase != PhaseBid || seat != g.Active {
		return nil
	}
	out := []int{}
	for v := BidPass; v <= BidCinch; v++ {
		if bidLegal(g, seat, v) {
			out = append(out, v)
		}
	}
	return out
}

// LegalPlays lists the cards the seat could play right now.
func LegalPlays(g *GameState, seat Seat) []Card {
	if g.Phase != PhasePlay || seat != g.Active {
		return nil
	}
	out := []Card{}
	for _, c := range g.Hands[seat] {
		if playLegal(g, seat, c) {
			out = append(out, c)
		}
	}
	return out
}
