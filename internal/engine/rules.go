package engine

// gamePoints is the "game" match-point value of a rank.
func gamePoints(r Rank) int {
	switch r {
	case Rank10:
		return 10
	case RankJ:
		return 1
	case RankQ:
		return 2
	case RankK:
		return 3
	case RankA:
		return 4
	default:
		return 0
	}
}

func hasSuit(hand []Card, suit Suit) bool {
	for _, c := range hand {
		if c.Suit == suit {
			return true
		}
	}
	return false
}

func handContains(hand []Card, card Card) bool {
	for _, c := range hand {
		if c == card {
			return true
		}
	}
	return false
}

// highBid returns the highest bid made so far this hand.
func highBid(g *GameState) int {
	high := 0
	for _, b := range g.HandBids() {
		if b.Value > high {
			high = b.Value
		}
	}
	return high
}

// bidLegal checks a bid value against the bidding rules. Turn and
// phase checks belong to the caller.
func bidLegal(g *GameState, seat Seat, value int) bool {
	if value < BidPass || value > BidCinch {
		return false
	}
	if value == BidPass {
		// The dealer bids last and may not pass out a hand.
		if seat == g.Dealer && allOthersPassed(g) {
			return false
		}
		return true
	}
	if value > highBid(g) {
		return true
	}
	// Dealer precedence: the dealer may counter-cinch a cinch.
	if value == BidCinch && seat == g.Dealer {
		return true
	}
	return false
}

func allOthersPassed(g *GameState) bool {
	bids := g.HandBids()
	if len(bids) != 3 {
		return false
	}
	for _, b := range bids {
		if b.Value != BidPass {
			return false
		}
	}
	return true
}

// winningBid resolves a completed hand's bidding. The dealer bids
// last, so taking >= in ledger order gives the dealer ties.
func winningBid(g *GameState) (Seat, int) {
	seat := g.Dealer
	value := 0
	for _, b := range g.HandBids() {
		if b.Value >= value {
			seat = b.Seat
			value = b.Value
		}
	}
	return seat, value
}

// playLegal checks the follow-suit rules. Turn and phase checks
// belong to the caller.
func playLegal(g *GameState, seat Seat, card Card) bool {
	hand := g.Hands[seat]
	if !handContains(hand, card) {
		return false
	}
	trick := g.TrickPlays()
	if len(trick) == 0 {
		return true // No restrictions on what can be led.
	}
	if g.Trump != nil && card.Suit == *g.Trump {
		return true // Trump is always OK.
	}
	led := trick[0].Card.Suit
	if card.Suit == led {
		return true
	}
	return !hasSuit(hand, led) // Throwing off only when void.
}

// trickWinner picks the winning play of a completed trick: highest
// trump if any trump was played, else highest card of the led suit.
func trickWinner(plays []PlayEntry, trump Suit) Seat {
	led := plays[0].Card.Suit
	best := plays[0]
	for _, p := range plays[1:] {
		c := p.Card
		if c.Suit == trump {
			if best.Card.Suit != trump || c.Rank > best.Card.Rank {
				best = p
			}
		} else if c.Suit == led && best.Card.Suit != trump && c.Rank > best.Card.Rank {
			best = p
		}
	}
	return best.Seat
}

// scoreHand applies the four match points and the declarer's contract
// to the team scores for the hand just completed.
func scoreHand(g *GameState) *HandResult {
	trump := *g.Trump
	plays := g.HandPlays(g.HandNum)

	res := &HandResult{
		Hand:       g.HandNum,
		Declarer:   g.Declarer,
		Bid:        g.WinningBid,
		GamePoints: map[Team]int{TeamNorthSouth: 0, TeamEastWest: 0},
		Deltas:     map[Team]int{TeamNorthSouth: 0, TeamEastWest: 0},
	}

	// High and low trump go to the teams that played them.
	var high, low *PlayEntry
	for i := range plays {
		p := plays[i]
		if p.Card.Suit != trump {
			continue
		}
		if high == nil || p.Card.Rank > high.Card.Rank {
			high = &plays[i]
		}
		if low == nil || p.Card.Rank < low.Card.Rank {
			low = &plays[i]
		}
	}
	if high != nil {
		t := TeamOf(high.Seat)
		res.High = &t
	}
	if low != nil {
		t := TeamOf(low.Seat)
		res.Low = &t
	}

	// Jack goes to the team that captured the trick containing it.
	winners := map[int]Seat{}
	for _, tr := range g.Tricks {
		if tr.Hand == g.HandNum {
			winners[tr.Trick] = tr.Winner
		}
	}
	for _, p := range plays {
		if p.Card.Suit == trump && p.Card.Rank == RankJ {
			t := TeamOf(winners[p.Trick])
			res.Jack = &t
			break
		}
	}

	// Game point: most card points captured in won tricks, ties unawarded.
	for _, p := range plays {
		res.GamePoints[TeamOf(winners[p.Trick])] += gamePoints(p.Card.Rank)
	}
	ns, ew := res.GamePoints[TeamNorthSouth], res.GamePoints[TeamEastWest]
	if ns > ew {
		t := TeamNorthSouth
		res.GamePoint = &t
	} else if ew > ns {
		t := TeamEastWest
		res.GamePoint = &t
	}

	earned := map[Team]int{TeamNorthSouth: 0, TeamEastWest: 0}
	for _, t := range []*Team{res.High, res.Low, res.Jack, res.GamePoint} {
		if t != nil {
			earned[*t]++
		}
	}

	declTeam := TeamOf(g.Declarer)
	oppTeam := declTeam.Other()

	// A cinch claims all four match points.
	need := res.Bid
	if res.Bid == BidCinch {
		need = 4
	}

	if earned[declTeam] >= need {
		res.Made = true
		award := earned[declTeam]
		if res.Bid == BidCinch {
			award = g.Rules.CinchAward
			if g.Scores[declTeam] == 0 {
				award = g.Rules.CinchAward + 1
			}
		}
		res.Deltas[declTeam] = award
	} else {
		penalty := res.Bid
		if res.Bid == BidCinch {
			penalty = g.Rules.CinchAward
		}
		res.Deltas[declTeam] = -penalty
	}
	res.Deltas[oppTeam] = earned[oppTeam]

	g.Scores[declTeam] += res.Deltas[declTeam]
	g.Scores[oppTeam] += res.Deltas[oppTeam]
	return res
}
