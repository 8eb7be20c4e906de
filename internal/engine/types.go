package engine

import "fmt"

type Suit int

type Rank int

const (
	SuitClubs Suit = iota
	SuitDiamonds
	SuitHearts
	SuitSpades
)

const (
	Rank2 Rank = iota + 2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
	Rank9
	Rank10
	RankJ
	RankQ
	RankK
	RankA
)

func (s Suit) String() string {
	switch s {
	case SuitClubs:
		return "C"
	case SuitDiamonds:
		return "D"
	case SuitHearts:
		return "H"
	case SuitSpades:
		return "S"
	default:
		return "?"
	}
}

func (r Rank) String() string {
	switch r {
	case Rank10:
		return "T"
	case RankJ:
		return "J"
	case RankQ:
		return "Q"
	case RankK:
		return "K"
	case RankA:
		return "A"
	default:
		if r >= Rank2 && r <= Rank9 {
			return fmt.Sprintf("%d", int(r))
		}
		return "?"
	}
}

type Card struct {
	Rank Rank
	Suit Suit
}

func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Seat is one of the four fixed table positions. Turn order is
// north, east, south, west, back to north.
type Seat string

const (
	SeatNorth Seat = "north"
	SeatEast  Seat = "east"
	SeatSouth Seat = "south"
	SeatWest  Seat = "west"
)

var SeatOrder = [4]Seat{SeatNorth, SeatEast, SeatSouth, SeatWest}

func ValidSeat(s Seat) bool {
	for _, v := range SeatOrder {
		if v == s {
			return true
		}
	}
	return false
}

func (s Seat) Next() Seat {
	for i, v := range SeatOrder {
		if v == s {
			return SeatOrder[(i+1)%len(SeatOrder)]
		}
	}
	return s
}

type Team int

const (
	TeamNorthSouth Team = iota
	TeamEastWest
)

func (t Team) String() string {
	switch t {
	case TeamNorthSouth:
		return "ns"
	case TeamEastWest:
		return "ew"
	default:
		return "?"
	}
}

func TeamOf(s Seat) Team {
	if s == SeatNorth || s == SeatSouth {
		return TeamNorthSouth
	}
	return TeamEastWest
}

func (t Team) Other() Team {
	if t == TeamNorthSouth {
		return TeamEastWest
	}
	return TeamNorthSouth
}

type Phase int

const (
	PhasePregame Phase = iota
	PhaseBid
	PhasePlay
	PhasePostgame
)

func (p Phase) String() string {
	switch p {
	case PhasePregame:
		return "pregame"
	case PhaseBid:
		return "bid"
	case PhasePlay:
		return "play"
	case PhasePostgame:
		return "postgame"
	default:
		return "unknown"
	}
}

const (
	BidPass  = 0
	BidCinch = 5
)

type Rules struct {
	HandSize   int
	WinScore   int
	CinchAward int
	// MaxHands ends the game in a draw once this many hands complete
	// without a winner. Zero disables the cap.
	MaxHands int
}

func StandardRules() Rules {
	return Rules{
		HandSize:   9,
		WinScore:   11,
		CinchAward: 10,
		MaxHands:   16,
	}
}

type User struct {
	ID   string
	Name string
}

// BidEntry is one row of the append-only bid ledger.
type BidEntry struct {
	Seat  Seat
	Hand  int
	Value int
}

// PlayEntry is one row of the append-only play ledger.
type PlayEntry struct {
	Seat  Seat
	Hand  int
	Trick int
	Card  Card
}

// TrickRecord is written once per completed trick.
type TrickRecord struct {
	Hand   int
	Trick  int
	Winner Seat
}

// HandResult holds the outcome of one scored hand.
type HandResult struct {
	Hand       int
	High       *Team
	Low        *Team
	Jack       *Team
	GamePoint  *Team
	GamePoints map[Team]int
	Declarer   Seat
	Bid        int
	Made       bool
	Deltas     map[Team]int
}

// GameState is the aggregate root for one game. Fields are exported;
// the server layer owns locking and serialization.
type GameState struct {
	ID    string
	Rules Rules
	Seed  int64

	Phase    Phase
	HandNum  int
	TrickNum int
	Dealer   Seat
	Active   Seat
	Trump    *Suit

	Seats map[Seat]User
	Hands map[Seat][]Card
	// Stock holds the undealt remainder of the current hand's deck.
	Stock []Card

	Bids   []BidEntry
	Plays  []PlayEntry
	Tricks []TrickRecord

	// Declarer and WinningBid are set when a hand's bidding closes.
	Declarer   Seat
	WinningBid int

	Scores     map[Team]int
	Winner     *Team
	LastResult *HandResult
}

func NewGame(id string, rules Rules, seed int64) *GameState {
	return &GameState{
		ID:       id,
		Rules:    rules,
		Seed:     seed,
		Phase:    PhasePregame,
		HandNum:  1,
		TrickNum: 1,
		Dealer:   SeatSouth,
		Seats:    map[Seat]User{},
		Hands:    map[Seat][]Card{},
		Scores:   map[Team]int{TeamNorthSouth: 0, TeamEastWest: 0},
	}
}

// SeatOf returns the seat occupied by the given user, if any.
func (g *GameState) SeatOf(userID string) (Seat, bool) {
	for seat, u := range g.Seats {
		if u.ID == userID {
			return seat, true
		}
	}
	return "", false
}

// HandBids returns the bid ledger entries for the current hand in order.
func (g *GameState) HandBids() []BidEntry {
	out := []BidEntry{}
	for _, b := range g.Bids {
		if b.Hand == g.HandNum {
			out = append(out, b)
		}
	}
	return out
}

// TrickPlays returns the play ledger entries for the current trick in order.
func (g *GameState) TrickPlays() []PlayEntry {
	out := []PlayEntry{}
	for _, p := range g.Plays {
		if p.Hand == g.HandNum && p.Trick == g.TrickNum {
			out = append(out, p)
		}
	}
	return out
}

// HandPlays returns the play ledger entries for the given hand in order.
func (g *GameState) HandPlays(hand int) []PlayEntry {
	out := []PlayEntry{}
	for _, p := range g.Plays {
		if p.Hand == hand {
			out = append(out, p)
		}
	}
	return out
}
