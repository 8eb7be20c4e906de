package engine

import "testing"

func TestTrickWinnerHighestTrump(t *testing.T) {
	plays := []PlayEntry{
		{Seat: SeatNorth, Card: Card{Rank: RankA, Suit: SuitHearts}},
		{Seat: SeatEast, Card: Card{Rank: Rank2, Suit: SuitSpades}},
		{Seat: SeatSouth, Card: Card{Rank: RankK, Suit: SuitHearts}},
		{Seat: SeatWest, Card: Card{Rank: Rank9, Suit: SuitSpades}},
	}
	if w := trickWinner(plays, SuitSpades); w != SeatWest {
		t.Fatalf("expected high trump to win, got %v", w)
	}
}

func TestTrickWinnerLedSuitWhenNoTrump(t *testing.T) {
	plays := []PlayEntry{
		{Seat: SeatNorth, Card: Card{Rank: Rank7, Suit: SuitClubs}},
		{Seat: SeatEast, Card: Card{Rank: RankA, Suit: SuitDiamonds}},
		{Seat: SeatSouth, Card: Card{Rank: RankQ, Suit: SuitClubs}},
		{Seat: SeatWest, Card: Card{Rank: Rank8, Suit: SuitClubs}},
	}
	if w := trickWinner(plays, SuitSpades); w != SeatSouth {
		t.Fatalf("off-suit ace must not win, got %v", w)
	}
}

func TestWinningBidDealerTakesTies(t *testing.T) {
	g := NewGame("g1", StandardRules(), 1)
	g.Dealer = SeatSouth
	g.Bids = []BidEntry{
		{Seat: SeatWest, Hand: 1, Value: BidCinch},
		{Seat: SeatNorth, Hand: 1, Value: BidPass},
		{Seat: SeatEast, Hand: 1, Value: BidPass},
		{Seat: SeatSouth, Hand: 1, Value: BidCinch},
	}
	seat, value := winningBid(g)
	if seat != SeatSouth || value != BidCinch {
		t.Fatalf("expected dealer to win tied cinch, got %v/%d", seat, value)
	}
}

// scoredGame fabricates a one-trick hand whose ledger yields:
// high trump (JS) and the jack to north-south, low trump (2S) to
// east-west, and the game point to north-south (11 card points to 0).
func scoredGame(declarer Seat, bid int) *GameState {
	g := NewGame("g1", StandardRules(), 1)
	spades := SuitSpades
	g.Trump = &spades
	g.Phase = PhasePlay
	g.Declarer = declarer
	g.WinningBid = bid
	g.Plays = []PlayEntry{
		{Seat: SeatNorth, Hand: 1, Trick: 1, Card: Card{Rank: RankJ, Suit: SuitSpades}},
		{Seat: SeatEast, Hand: 1, Trick: 1, Card: Card{Rank: Rank2, Suit: SuitSpades}},
		{Seat: SeatSouth, Hand: 1, Trick: 1, Card: Card{Rank: Rank10, Suit: SuitHearts}},
		{Seat: SeatWest, Hand: 1, Trick: 1, Card: Card{Rank: Rank3, Suit: SuitClubs}},
	}
	g.Tricks = []TrickRecord{{Hand: 1, Trick: 1, Winner: SeatNorth}}
	return g
}

func TestScoreHandAwardsMatchPoints(t *testing.T) {
	g := scoredGame(SeatNorth, 2)
	res := scoreHand(g)

	if res.High == nil || *res.High != TeamNorthSouth {
		t.Fatalf("high trump misawarded: %+v", res.High)
	}
	if res.Low == nil || *res.Low != TeamEastWest {
		t.Fatalf("low trump misawarded: %+v", res.Low)
	}
	if res.Jack == nil || *res.Jack != TeamNorthSouth {
		t.Fatalf("jack misawarded: %+v", res.Jack)
	}
	if res.GamePoint == nil || *res.GamePoint != TeamNorthSouth {
		t.Fatalf("game point misawarded: %+v", res.GamePoint)
	}
	if !res.Made {
		t.Fatalf("declarer with 3 points should make a bid of 2")
	}
	if g.Scores[TeamNorthSouth] != 3 || g.Scores[TeamEastWest] != 1 {
		t.Fatalf("scores %v", g.Scores)
	}
}

func TestScoreHandSetsDeclarer(t *testing.T) {
	// Declarer's team earned only the low; a bid of 3 is set for -3.
	g := scoredGame(SeatEast, 3)
	res := scoreHand(g)

	if res.Made {
		t.Fatalf("declarer with 1 point must not make a bid of 3")
	}
	if g.Scores[TeamEastWest] != -3 {
		t.Fatalf("expected -3 for set declarer, got %d", g.Scores[TeamEastWest])
	}
	if g.Scores[TeamNorthSouth] != 3 {
		t.Fatalf("opponents bank their own points, got %d", g.Scores[TeamNorthSouth])
	}
}

func TestScoreHandCinchFailure(t *testing.T) {
	g := scoredGame(SeatNorth, BidCinch)
	scoreHand(g)

	// Three of four points is not a cinch.
	if g.Scores[TeamNorthSouth] != -10 {
		t.Fatalf("cinch failure should cost 10, got %d", g.Scores[TeamNorthSouth])
	}
}

func TestScoreHandCinchSuccess(t *testing.T) {
	g := scoredGame(SeatNorth, BidCinch)
	// Move the low trump to north-south so all four points land there.
	g.Plays[1].Seat = SeatSouth
	g.Plays[2].Seat = SeatEast

	scoreHand(g)
	if g.Scores[TeamNorthSouth] != 11 {
		t.Fatalf("cinch from zero should award 11, got %d", g.Scores[TeamNorthSouth])
	}

	g2 := scoredGame(SeatNorth, BidCinch)
	g2.Plays[1].Seat = SeatSouth
	g2.Plays[2].Seat = SeatEast
	g2.Scores[TeamNorthSouth] = 3
	scoreHand(g2)
	if g2.Scores[TeamNorthSouth] != 13 {
		t.Fatalf("cinch success should award 10, got %d", g2.Scores[TeamNorthSouth])
	}
}

func TestScoreHandGamePointTieUnawarded(t *testing.T) {
	g := scoredGame(SeatNorth, 2)
	// Split the tricks so each team captures 10 card points.
	g.Plays = []PlayEntry{
		{Seat: SeatNorth, Hand: 1, Trick: 1, Card: Card{Rank: Rank10, Suit: SuitSpades}},
		{Seat: SeatEast, Hand: 1, Trick: 1, Card: Card{Rank: Rank2, Suit: SuitSpades}},
		{Seat: SeatNorth, Hand: 1, Trick: 2, Card: Card{Rank: Rank10, Suit: SuitHearts}},
		{Seat: SeatEast, Hand: 1, Trick: 2, Card: Card{Rank: Rank3, Suit: SuitSpades}},
	}
	g.Tricks = []TrickRecord{
		{Hand: 1, Trick: 1, Winner: SeatNorth},
		{Hand: 1, Trick: 2, Winner: SeatEast},
	}
	res := scoreHand(g)
	if res.GamePoint != nil {
		t.Fatalf("tied game point must not be awarded: %v", *res.GamePoint)
	}
}

func TestFinishHandBothTeamsCrossDeclarerWins(t *testing.T) {
	g := scoredGame(SeatNorth, 2)
	g.TrickNum = 1
	g.Rules.HandSize = 1
	g.Scores[TeamNorthSouth] = 9
	g.Scores[TeamEastWest] = 10

	finishHand(g)

	if g.Phase != PhasePostgame {
		t.Fatalf("expected postgame, got %v", g.Phase)
	}
	if g.Winner == nil || *g.Winner != TeamNorthSouth {
		t.Fatalf("declarer's team must win when both cross, got %v", g.Winner)
	}
}

func TestFinishHandRotatesDealerAndRedeals(t *testing.T) {
	g := scoredGame(SeatNorth, 2)
	for _, seat := range SeatOrder {
		g.Seats[seat] = User{ID: "u-" + string(seat)}
	}
	dealer := g.Dealer
	finishHand(g)

	if g.Phase != PhaseBid {
		t.Fatalf("expected next hand bidding, got %v", g.Phase)
	}
	if g.HandNum != 2 || g.Dealer != dealer.Next() {
		t.Fatalf("hand %d dealer %v, want 2/%v", g.HandNum, g.Dealer, dealer.Next())
	}
	if g.Active != g.Dealer.Next() {
		t.Fatalf("active %v, want seat after dealer", g.Active)
	}
	if g.Trump != nil {
		t.Fatalf("trump must reset between hands")
	}
	for _, seat := range SeatOrder {
		if len(g.Hands[seat]) != g.Rules.HandSize {
			t.Fatalf("fresh hand not dealt to %v", seat)
		}
	}
}

func TestFinishHandDrawAtHandCap(t *testing.T) {
	g := scoredGame(SeatNorth, 2)
	g.Rules.MaxHands = 1
	finishHand(g)

	if g.Phase != PhasePostgame || g.Winner != nil {
		t.Fatalf("capped game should end in a draw, got %v/%v", g.Phase, g.Winner)
	}
}
