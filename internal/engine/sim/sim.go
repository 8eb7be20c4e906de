// Package sim drives full games with random legal actions and checks
// state invariants after every step. It backs the fuzz-style engine
// tests and is handy for shaking out rule regressions from the CLI.
package sim

import (
	"fmt"
	"math/rand"

	"github.com/JackieChiles/Cinch/internal/engine"
)

type ActionRecord struct {
	Step  int
	Phase engine.Phase
	Seat  engine.Seat
	Bid   int
	Card  engine.Card
	Play  bool
}

// RunSelfPlayGames plays games to completion with a seeded random
// policy, returning an error describing the first violated invariant.
func RunSelfPlayGames(seed int64, games int, maxStepsPerGame int) error {
	for n := 0; n < games; n++ {
		if err := runOne(seed+int64(n), maxStepsPerGame); err != nil {
			return err
		}
	}
	return nil
}

func runOne(seed int64, maxSteps int) error {
	rng := rand.New(rand.NewSource(seed))
	g := engine.NewGame(fmt.Sprintf("sim-%d", seed), engine.StandardRules(), seed)

	for i, seat := range engine.SeatOrder {
		u := engine.User{ID: fmt.Sprintf("sim-u%d", i), Name: string(seat)}
		if err := engine.Join(g, seat, u); err != nil {
			return fmt.Errorf("seed=%d join %s: %v", seed, seat, err)
		}
	}

	records := []ActionRecord{}
	for step := 0; step < maxSteps; step++ {
		if g.Phase == engine.PhasePostgame {
			return nil
		}
		seat := g.Active
		var rec ActionRecord
		switch g.Phase {
		case engine.PhaseBid:
			bids := engine.LegalBids(g, seat)
			if len(bids) == 0 {
				return failure(seed, step, g, records, "no legal bids")
			}
			bid := bids[rng.Intn(len(bids))]
			if err := engine.ApplyBid(g, seat, bid); err != nil {
				return failure(seed, step, g, records, fmt.Sprintf("apply bid: %v", err))
			}
			rec = ActionRecord{Step: step, Phase: engine.PhaseBid, Seat: seat, Bid: bid}
		case engine.PhasePlay:
			plays := engine.LegalPlays(g, seat)
			if len(plays) == 0 {
				return failure(seed, step, g, records, "no legal plays")
			}
			card := plays[rng.Intn(len(plays))]
			if err := engine.ApplyPlay(g, seat, card); err != nil {
				return failure(seed, step, g, records, fmt.Sprintf("apply play: %v", err))
			}
			rec = ActionRecord{Step: step, Phase: engine.PhasePlay, Seat: seat, Card: card, Play: true}
		default:
			return failure(seed, step, g, records, fmt.Sprintf("unexpected phase %v", g.Phase))
		}
		records = append(records, rec)
		if err := checkInvariants(g); err != nil {
			return failure(seed, step, g, records, err.Error())
		}
	}
	return failure(seed, maxSteps, g, records, "game did not terminate")
}

func checkInvariants(g *engine.GameState) error {
	if g.Phase == engine.PhasePostgame {
		return nil
	}

	// The full 52-card set is conserved across hands, stock, and the
	// current hand's plays, with no duplicates.
	seen := map[engine.Card]bool{}
	total := 0
	add := func(c engine.Card) error {
		total++
		if seen[c] {
			return fmt.Errorf("duplicate card %v", c)
		}
		seen[c] = true
		return nil
	}
	for _, seat := range engine.SeatOrder {
		for _, c := range g.Hands[seat] {
			if err := add(c); err != nil {
				return err
			}
		}
	}
	for _, c := range g.Stock {
		if err := add(c); err != nil {
			return err
		}
	}
	for _, p := range g.HandPlays(g.HandNum) {
		if err := add(p.Card); err != nil {
			return err
		}
	}
	if total != 52 {
		return fmt.Errorf("card count mismatch: %d", total)
	}

	if len(g.TrickPlays()) >= len(engine.SeatOrder) {
		return fmt.Errorf("unresolved full trick")
	}
	if g.TrickNum < 1 || g.TrickNum > g.Rules.HandSize {
		return fmt.Errorf("trick number out of range: %d", g.TrickNum)
	}
	if _, ok := g.Seats[g.Active]; !ok {
		return fmt.Errorf("active seat %v unoccupied", g.Active)
	}
	if g.Phase == engine.PhasePlay && g.Trump == nil && len(g.HandPlays(g.HandNum)) > 0 {
		return fmt.Errorf("trump unset after first play")
	}
	return nil
}

func failure(seed int64, step int, g *engine.GameState, records []ActionRecord, reason string) error {
	start := 0
	if len(records) > 20 {
		start = len(records) - 20
	}
	log := ""
	for _, r := range records[start:] {
		if r.Play {
			log += fmt.Sprintf("[s%d %v %s] play %v\n", r.Step, r.Phase, r.Seat, r.Card)
		} else {
			log += fmt.Sprintf("[s%d %v %s] bid %d\n", r.Step, r.Phase, r.Seat, r.Bid)
		}
	}
	return fmt.Errorf("seed=%d step=%d hand=%d trick=%d phase=%v reason=%s\nlast actions:\n%s",
		seed, step, g.HandNum, g.TrickNum, g.Phase, reason, log)
}
