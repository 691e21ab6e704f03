package game

import (
	"fmt"
	"math/rand"
)

// HandLimit is the maximum number of cards a hand may hold.
const HandLimit = 8

// DeckSize is the canonical deck size.
const DeckSize = 52

// Initial hand sizes: the dealer's opponent (player 0) gets 5, the dealer
// (player 1) gets 6.
const (
	HandSizeP0 = 5
	HandSizeP1 = 6
)

// NewDeck returns the canonical 52-card deck in suit-major order, each card
// with a fresh id. The order is deal order: callers shuffle or arrange
// before dealing.
func NewDeck() []*Card {
	cards := make([]*Card, 0, DeckSize)
	for s := SuitClubs; s <= SuitSpades; s++ {
		for r := RankAce; r <= RankKing; r++ {
			cards = append(cards, NewCard(s, r))
		}
	}
	return cards
}

// ShuffleDeck shuffles cards in place using the supplied source.
func ShuffleDeck(cards []*Card, rng *rand.Rand) {
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

// Deal splits a deck into the two initial hands and the remaining draw pile.
// The first 5 cards go to player 0, the next 6 to player 1, the remainder
// becomes the deck in the given order. The top of the deck is the LAST
// element: draws pop from the tail, so the first card drawn is the last
// card of the input.
func Deal(deck []*Card) (hands [2][]*Card, rest []*Card, err error) {
	if len(deck) < HandSizeP0+HandSizeP1 {
		return hands, nil, fmt.Errorf("deck has %d cards, need at least %d to deal", len(deck), HandSizeP0+HandSizeP1)
	}
	hands[0] = append([]*Card(nil), deck[:HandSizeP0]...)
	hands[1] = append([]*Card(nil), deck[HandSizeP0:HandSizeP0+HandSizeP1]...)
	rest = append([]*Card(nil), deck[HandSizeP0+HandSizeP1:]...)
	return hands, rest, nil
}
