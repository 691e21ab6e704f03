package game

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// NoPlayer marks a card not currently played by anyone.
const NoPlayer = -1

// Card is a single playing card. Identity (ID, Suit, Rank) is fixed at deck
// build; PlayedBy, Purpose and Attachments change as the card moves through
// the game. Cards are shared by reference: each lives in exactly one
// container (a hand, a field, the deck, the discard pile) or as an
// attachment of one field card.
type Card struct {
	ID   string
	Suit Suit
	Rank Rank

	PlayedBy int
	Purpose  Purpose
	// Attachments holds Jacks stacked on this card, in play order.
	Attachments []*Card
}

// NewCard creates a card with a fresh unique id.
func NewCard(suit Suit, rank Rank) *Card {
	return &Card{
		ID:       uuid.NewString(),
		Suit:     suit,
		Rank:     rank,
		PlayedBy: NoPlayer,
	}
}

// PointValue is the card's numeric scoring value (Ace=1 .. King=13).
func (c *Card) PointValue() int {
	return int(c.Rank)
}

// SuitValue is the suit tiebreak order (Clubs=0 .. Spades=3).
func (c *Card) SuitValue() int {
	return int(c.Suit)
}

// IsPointCard reports whether the card can be played for points (Ace..Ten).
func (c *Card) IsPointCard() bool {
	return c.Rank >= RankAce && c.Rank <= RankTen
}

// IsFaceCard reports whether the card counts as a face card
// (Jack, Queen, King, Eight).
func (c *Card) IsFaceCard() bool {
	switch c.Rank {
	case RankJack, RankQueen, RankKing, RankEight:
		return true
	}
	return false
}

// IsOneOff reports whether the card has a one-off effect
// (Ace, Three, Four, Five, Six).
func (c *Card) IsOneOff() bool {
	switch c.Rank {
	case RankAce, RankThree, RankFour, RankFive, RankSix:
		return true
	}
	return false
}

// IsStolen reports whether the card currently scores for the opponent of the
// player whose field it sits on. Each attached Jack flips control, so
// attachment parity decides.
func (c *Card) IsStolen() bool {
	return len(c.Attachments)%2 == 1
}

// CanScuttle reports whether c beats target in a scuttle: strictly higher
// rank, or equal rank and higher suit. Only point cards compare.
func (c *Card) CanScuttle(target *Card) bool {
	if !c.IsPointCard() || !target.IsPointCard() {
		return false
	}
	if c.Rank != target.Rank {
		return c.Rank > target.Rank
	}
	return c.SuitValue() > target.SuitValue()
}

// Name returns the plain "<Rank> of <Suit>" name without status prefixes.
func (c *Card) Name() string {
	return fmt.Sprintf("%s of %s", c.Rank, c.Suit)
}

// String renders the card with one [Jack] prefix per attachment and a stolen
// marker, e.g. "[Stolen from opponent] [Jack] Ace of Hearts".
func (c *Card) String() string {
	var sb strings.Builder
	if c.IsStolen() {
		sb.WriteString("[Stolen from opponent] ")
	}
	if n := len(c.Attachments); n > 0 {
		sb.WriteString(strings.Repeat("[Jack]", n))
		sb.WriteByte(' ')
	}
	sb.WriteString(c.Name())
	return sb.String()
}

// ClearPlayerInfo resets the runtime facets when the card leaves play.
// Attachments are not touched; callers strip those separately.
func (c *Card) ClearPlayerInfo() {
	c.PlayedBy = NoPlayer
	c.Purpose = PurposeNone
}

// Code returns the compact "<rank><suit letter>" form used by scenario
// files, e.g. "AS", "10H", "KC".
func (c *Card) Code() string {
	var r string
	switch c.Rank {
	case RankAce:
		r = "A"
	case RankJack:
		r = "J"
	case RankQueen:
		r = "Q"
	case RankKing:
		r = "K"
	default:
		r = fmt.Sprintf("%d", int(c.Rank))
	}
	return r + c.Suit.Name()[:1]
}

// ParseCardCode is the inverse of Code. It builds a fresh card, so parsing
// the same code twice yields two distinct cards.
func ParseCardCode(code string) (*Card, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) < 2 {
		return nil, fmt.Errorf("bad card code %q", code)
	}

	var suit Suit
	switch code[len(code)-1] {
	case 'C':
		suit = SuitClubs
	case 'D':
		suit = SuitDiamonds
	case 'H':
		suit = SuitHearts
	case 'S':
		suit = SuitSpades
	default:
		return nil, fmt.Errorf("bad card code %q: unknown suit", code)
	}

	var rank Rank
	switch part := code[:len(code)-1]; part {
	case "A":
		rank = RankAce
	case "J":
		rank = RankJack
	case "Q":
		rank = RankQueen
	case "K":
		rank = RankKing
	default:
		n, err := strconv.Atoi(part)
		if err != nil || n < 2 || n > 10 {
			return nil, fmt.Errorf("bad card code %q: unknown rank", code)
		}
		rank = Rank(n)
	}

	return NewCard(suit, rank), nil
}
