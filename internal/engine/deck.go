package engine

import (
	"math/rand"
	"sort"
)

// BuildDeck returns all 52 cards in a fixed order.
func BuildDeck() []Card {
	deck := make([]Card, 0, 52)
	suits := []Suit{SuitClubs, SuitDiamonds, SuitHearts, SuitSpades}
	for _, s := range suits {
		for r := Rank2; r <= RankA; r++ {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// Shuffle returns a uniformly shuffled copy of deck for the given seed.
func Shuffle(deck []Card, seed int64) []Card {
	shuffled := make([]Card, len(deck))
	copy(shuffled, deck)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

// Deal splits size cards off the front of the deck. Running out of
// cards is a programming error, not a user-facing condition.
func Deal(deck []Card, size int) (hand, rest []Card) {
	if size > len(deck) {
		panic("invalid deal: not enough cards in deck")
	}
	hand = append([]Card(nil), deck[:size]...)
	rest = deck[size:]
	return hand, rest
}

// sortHand orders a hand by suit then descending rank, for stable views.
func sortHand(hand []Card) {
	sort.Slice(hand, func(i, j int) bool {
		if hand[i].Suit != hand[j].Suit {
			return hand[i].Suit < hand[j].Suit
		}
		return hand[i].Rank > hand[j].Rank
	})
}
