package server

import "github.com/JackieChiles/Cinch/internal/engine"

// digest captures the scalar state needed to derive push events by
// comparing before and after an applied action.
type digest struct {
	phase  engine.Phase
	hand   int
	tricks int
	trump  bool
}

func snapshot(g *engine.GameState) digest {
	return digest{
		phase:  g.Phase,
		hand:   g.HandNum,
		tricks: len(g.Tricks),
		trump:  g.Trump != nil,
	}
}

func bidEvent(seat engine.Seat, value int) Event {
	v := value
	return Event{Type: "bid_made", Data: EventPayload{Position: string(seat), Value: &v}}
}

func playEvent(seat engine.Seat, card engine.Card) Event {
	dto := cardToDTO(card)
	return Event{Type: "card_played", Data: EventPayload{Position: string(seat), Card: &dto}}
}

// deriveEvents appends the consequences of an action (trump named,
// trick resolved, hand scored, game over) by diffing prev against the
// updated state.
func deriveEvents(events []Event, prev digest, g *engine.GameState) []Event {
	if !prev.trump && g.Trump != nil {
		events = append(events, Event{Type: "trump_set", Data: EventPayload{Trump: g.Trump.String()}})
	}
	if len(g.Tricks) > prev.tricks {
		last := g.Tricks[len(g.Tricks)-1]
		events = append(events, Event{Type: "trick_won", Data: EventPayload{TrickWinner: string(last.Winner)}})
	}
	scored := g.HandNum > prev.hand ||
		(g.Phase == engine.PhasePostgame && prev.phase == engine.PhasePlay && g.LastResult != nil)
	if scored && g.LastResult != nil {
		events = append(events, Event{Type: "hand_scored", Data: EventPayload{Result: resultToView(g.LastResult)}})
	}
	if g.Phase == engine.PhasePostgame && prev.phase != engine.PhasePostgame {
		data := EventPayload{}
		if g.Winner != nil {
			data.Winner = g.Winner.String()
		}
		events = append(events, Event{Type: "game_over", Data: data})
	}
	return events
}
