package server

import (
	"errors"

	"github.com/JackieChiles/Cinch/internal/engine"
)

type CardDTO struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

// ClientMessage is the tagged union of everything a client may send.
type ClientMessage struct {
	Type   string   `json:"type"`
	GameID string   `json:"gameId,omitempty"`
	Seat   string   `json:"seat,omitempty"`
	Name   string   `json:"name,omitempty"`
	Value  *int     `json:"value,omitempty"`
	Card   *CardDTO `json:"card,omitempty"`
}

// ServerMessage is the tagged union of everything the server pushes.
type ServerMessage struct {
	Type   string        `json:"type"`
	User   *UserView     `json:"user,omitempty"`
	Game   *GameView     `json:"game,omitempty"`
	Events []Event       `json:"events,omitempty"`
	Games  []GameSummary `json:"games,omitempty"`
	Error  *ErrorView    `json:"error,omitempty"`
}

type UserView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ErrorView struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Event struct {
	Type string       `json:"type"`
	Data EventPayload `json:"data"`
}

// EventPayload carries the delta fields describing what just happened.
type EventPayload struct {
	Position    string      `json:"position,omitempty"`
	Name        string      `json:"name,omitempty"`
	Value       *int        `json:"value,omitempty"`
	Card        *CardDTO    `json:"card,omitempty"`
	Trump       string      `json:"trump,omitempty"`
	TrickWinner string      `json:"trickWinner,omitempty"`
	Result      *ResultView `json:"result,omitempty"`
	Winner      string      `json:"winner,omitempty"`
}

func cardToDTO(c engine.Card) CardDTO {
	return CardDTO{Rank: c.Rank.String(), Suit: c.Suit.String()}
}

func (c CardDTO) toEngine() (engine.Card, error) {
	r, err := parseRank(c.Rank)
	if err != nil {
		return engine.Card{}, err
	}
	s, err := parseSuit(c.Suit)
	if err != nil {
		return engine.Card{}, err
	}
	return engine.Card{Rank: r, Suit: s}, nil
}

func parseSuit(s string) (engine.Suit, error) {
	switch s {
	case "C":
		return engine.SuitClubs, nil
	case "D":
		return engine.SuitDiamonds, nil
	case "H":
		return engine.SuitHearts, nil
	case "S":
		return engine.SuitSpades, nil
	default:
		return engine.SuitClubs, errors.New("invalid suit")
	}
}

func parseRank(r string) (engine.Rank, error) {
	switch r {
	case "2":
		return engine.Rank2, nil
	case "3":
		return engine.Rank3, nil
	case "4":
		return engine.Rank4, nil
	case "5":
		return engine.Rank5, nil
	case "6":
		return engine.Rank6, nil
	case "7":
		return engine.Rank7, nil
	case "8":
		return engine.Rank8, nil
	case "9":
		return engine.Rank9, nil
	case "T":
		return engine.Rank10, nil
	case "J":
		return engine.RankJ, nil
	case "Q":
		return engine.RankQ, nil
	case "K":
		return engine.RankK, nil
	case "A":
		return engine.RankA, nil
	default:
		return engine.Rank2, errors.New("invalid rank")
	}
}
