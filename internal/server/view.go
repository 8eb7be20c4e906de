package server

import "github.com/JackieChiles/Cinch/internal/engine"

type SeatView struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

type BidView struct {
	Position string `json:"position"`
	Value    int    `json:"value"`
}

type PlayView struct {
	Position string  `json:"position"`
	Card     CardDTO `json:"card"`
}

type ResultView struct {
	Hand       int    `json:"hand"`
	High       string `json:"high,omitempty"`
	Low        string `json:"low,omitempty"`
	Jack       string `json:"jack,omitempty"`
	GamePoint  string `json:"gamePoint,omitempty"`
	Declarer   string `json:"declarer"`
	Bid        int    `json:"bid"`
	Made       bool   `json:"made"`
	NSDelta    int    `json:"nsDelta"`
	EWDelta    int    `json:"ewDelta"`
}

// GameView is the personalized projection of one game: only the
// viewer's own hand is revealed, everyone else is card counts.
type GameView struct {
	ID           string               `json:"id"`
	Seats        map[string]*SeatView `json:"seats"`
	Phase        string               `json:"phase"`
	Hand         int                  `json:"hand"`
	Trick        int                  `json:"trick"`
	Dealer       string               `json:"dealer"`
	ActivePlayer string               `json:"activePlayer"`
	Trump        string               `json:"trump,omitempty"`
	NSScore      int                  `json:"nsScore"`
	EWScore      int                  `json:"ewScore"`
	GameWinner   string               `json:"gameWinner,omitempty"`
	Hands        map[string][]CardDTO `json:"hands"`
	HandCounts   map[string]int       `json:"handCounts"`
	CurrentBids  []BidView            `json:"currentBids"`
	WinningBid   *BidView             `json:"currentHandWinningBid,omitempty"`
	CurrentPlays []PlayView           `json:"currentPlays"`
	LegalBids    []int                `json:"legalBids,omitempty"`
	LegalPlays   []CardDTO            `json:"legalPlays,omitempty"`
	LastResult   *ResultView          `json:"lastResult,omitempty"`
}

type GameSummary struct {
	ID      string            `json:"id"`
	Phase   string            `json:"phase"`
	Seats   map[string]string `json:"seats"`
	NSScore int               `json:"nsScore"`
	EWScore int               `json:"ewScore"`
}

// BuildGameView renders the state for one viewer.
func BuildGameView(g *engine.GameState, viewerID string) *GameView {
	view := &GameView{
		ID:           g.ID,
		Seats:        map[string]*SeatView{},
		Phase:        g.Phase.String(),
		Hand:         g.HandNum,
		Trick:        g.TrickNum,
		Dealer:       string(g.Dealer),
		ActivePlayer: string(g.Active),
		NSScore:      g.Scores[engine.TeamNorthSouth],
		EWScore:      g.Scores[engine.TeamEastWest],
		Hands:        map[string][]CardDTO{},
		HandCounts:   map[string]int{},
		CurrentBids:  []BidView{},
		CurrentPlays: []PlayView{},
	}

	for _, seat := range engine.SeatOrder {
		if u, ok := g.Seats[seat]; ok {
			view.Seats[string(seat)] = &SeatView{UserID: u.ID, Name: u.Name}
		} else {
			view.Seats[string(seat)] = nil
		}
		view.HandCounts[string(seat)] = len(g.Hands[seat])
	}

	if g.Trump != nil {
		view.Trump = g.Trump.String()
	}
	if g.Winner != nil {
		view.GameWinner = g.Winner.String()
	}

	for _, b := range g.HandBids() {
		view.CurrentBids = append(view.CurrentBids, BidView{Position: string(b.Seat), Value: b.Value})
	}
	if g.Phase == engine.PhasePlay && g.Declarer != "" {
		view.WinningBid = &BidView{Position: string(g.Declarer), Value: g.WinningBid}
	}
	for _, p := range g.TrickPlays() {
		view.CurrentPlays = append(view.CurrentPlays, PlayView{Position: string(p.Seat), Card: cardToDTO(p.Card)})
	}

	if seat, ok := g.SeatOf(viewerID); ok {
		own := make([]CardDTO, 0, len(g.Hands[seat]))
		for _, c := range g.Hands[seat] {
			own = append(own, cardToDTO(c))
		}
		view.Hands[viewerID] = own
		view.LegalBids = engine.LegalBids(g, seat)
		for _, c := range engine.LegalPlays(g, seat) {
			view.LegalPlays = append(view.LegalPlays, cardToDTO(c))
		}
	}

	if g.LastResult != nil {
		view.LastResult = resultToView(g.LastResult)
	}
	return view
}

func resultToView(r *engine.HandResult) *ResultView {
	v := &ResultView{
		Hand:     r.Hand,
		Declarer: string(r.Declarer),
		Bid:      r.Bid,
		Made:     r.Made,
		NSDelta:  r.Deltas[engine.TeamNorthSouth],
		EWDelta:  r.Deltas[engine.TeamEastWest],
	}
	if r.High != nil {
		v.High = r.High.String()
	}
	if r.Low != nil {
		v.Low = r.Low.String()
	}
	if r.Jack != nil {
		v.Jack = r.Jack.String()
	}
	if r.GamePoint != nil {
		v.GamePoint = r.GamePoint.String()
	}
	return v
}

// BuildGameSummary renders the non-hand-revealing lobby line for a game.
func BuildGameSummary(g *engine.GameState) GameSummary {
	s := GameSummary{
		ID:      g.ID,
		Phase:   g.Phase.String(),
		Seats:   map[string]string{},
		NSScore: g.Scores[engine.TeamNorthSouth],
		EWScore: g.Scores[engine.TeamEastWest],
	}
	for _, seat := range engine.SeatOrder {
		if u, ok := g.Seats[seat]; ok {
			s.Seats[string(seat)] = u.Name
		}
	}
	return s
}
