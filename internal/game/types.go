package game

import "fmt"

// --- Enums ---

// Suit identifies one of the four French suits. Declaration order is the
// tiebreak order for equal-rank scuttles: Clubs < Diamonds < Hearts < Spades.
type Suit int

const (
	SuitClubs Suit = iota
	SuitDiamonds
	SuitHearts
	SuitSpades
)

func (s Suit) String() string {
	switch s {
	case SuitClubs:
		return "Clubs"
	case SuitDiamonds:
		return "Diamonds"
	case SuitHearts:
		return "Hearts"
	case SuitSpades:
		return "Spades"
	default:
		return "Unknown"
	}
}

// Name returns the symbolic name used in snapshots and API views.
func (s Suit) Name() string {
	switch s {
	case SuitClubs:
		return "CLUBS"
	case SuitDiamonds:
		return "DIAMONDS"
	case SuitHearts:
		return "HEARTS"
	case SuitSpades:
		return "SPADES"
	default:
		return "UNKNOWN"
	}
}

// ParseSuit is the inverse of Name.
func ParseSuit(name string) (Suit, error) {
	switch name {
	case "CLUBS":
		return SuitClubs, nil
	case "DIAMONDS":
		return SuitDiamonds, nil
	case "HEARTS":
		return SuitHearts, nil
	case "SPADES":
		return SuitSpades, nil
	}
	return 0, fmt.Errorf("unknown suit %q", name)
}

// Rank is the numeric card rank, Ace low (1) through King (13).
type Rank int

const (
	RankAce Rank = iota + 1
	RankTwo
	RankThree
	RankFour
	RankFive
	RankSix
	RankSeven
	RankEight
	RankNine
	RankTen
	RankJack
	RankQueen
	RankKing
)

var rankStrings = [...]string{
	RankAce:   "Ace",
	RankTwo:   "Two",
	RankThree: "Three",
	RankFour:  "Four",
	RankFive:  "Five",
	RankSix:   "Six",
	RankSeven: "Seven",
	RankEight: "Eight",
	RankNine:  "Nine",
	RankTen:   "Ten",
	RankJack:  "Jack",
	RankQueen: "Queen",
	RankKing:  "King",
}

var rankNames = [...]string{
	RankAce:   "ACE",
	RankTwo:   "TWO",
	RankThree: "THREE",
	RankFour:  "FOUR",
	RankFive:  "FIVE",
	RankSix:   "SIX",
	RankSeven: "SEVEN",
	RankEight: "EIGHT",
	RankNine:  "NINE",
	RankTen:   "TEN",
	RankJack:  "JACK",
	RankQueen: "QUEEN",
	RankKing:  "KING",
}

func (r Rank) String() string {
	if r < RankAce || r > RankKing {
		return "Unknown"
	}
	return rankStrings[r]
}

// Name returns the symbolic name used in snapshots and API views.
func (r Rank) Name() string {
	if r < RankAce || r > RankKing {
		return "UNKNOWN"
	}
	return rankNames[r]
}

// ParseRank is the inverse of Name.
func ParseRank(name string) (Rank, error) {
	for r := RankAce; r <= RankKing; r++ {
		if rankNames[r] == name {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown rank %q", name)
}

// Purpose records what a card was played as. A card in the deck, a hand, or
// the discard pile has PurposeNone.
type Purpose int

const (
	PurposeNone Purpose = iota
	PurposePoints
	PurposeFaceCard
	PurposeOneOff
	PurposeCounter
	PurposeJack
	PurposeScuttle
)

func (p Purpose) String() string {
	switch p {
	case PurposePoints:
		return "Points"
	case PurposeFaceCard:
		return "Face Card"
	case PurposeOneOff:
		return "One-Off"
	case PurposeCounter:
		return "Counter"
	case PurposeJack:
		return "Jack"
	case PurposeScuttle:
		return "Scuttle"
	default:
		return ""
	}
}

// Name returns the symbolic name used in snapshots and API views, or ""
// for PurposeNone.
func (p Purpose) Name() string {
	switch p {
	case PurposePoints:
		return "POINTS"
	case PurposeFaceCard:
		return "FACE_CARD"
	case PurposeOneOff:
		return "ONE_OFF"
	case PurposeCounter:
		return "COUNTER"
	case PurposeJack:
		return "JACK"
	case PurposeScuttle:
		return "SCUTTLE"
	default:
		return ""
	}
}

// ParsePurpose is the inverse of Name; "" parses to PurposeNone.
func ParsePurpose(name string) (Purpose, error) {
	switch name {
	case "":
		return PurposeNone, nil
	case "POINTS":
		return PurposePoints, nil
	case "FACE_CARD":
		return PurposeFaceCard, nil
	case "ONE_OFF":
		return PurposeOneOff, nil
	case "COUNTER":
		return PurposeCounter, nil
	case "JACK":
		return PurposeJack, nil
	case "SCUTTLE":
		return PurposeScuttle, nil
	}
	return 0, fmt.Errorf("unknown purpose %q", name)
}

// --- Phase ---

// PhaseKind discriminates the resolver's multi-step-effect state.
type PhaseKind int

const (
	PhaseBase PhaseKind = iota
	PhaseResolvingOneOff
	PhaseResolvingThree
	PhaseResolvingFour
)

func (k PhaseKind) String() string {
	switch k {
	case PhaseResolvingOneOff:
		return "Resolving One-Off"
	case PhaseResolvingThree:
		return "Resolving Three"
	case PhaseResolvingFour:
		return "Resolving Four"
	default:
		return "Base"
	}
}

// Phase is a tagged variant: only the fields for the current Kind carry
// meaning. ResolvingOneOff holds the pending one-off and the number of
// counters played so far; ResolvingFour holds who must discard and how many
// cards remain.
type Phase struct {
	Kind          PhaseKind
	OneOff        *Card
	Counters      int
	FourPlayer    int
	FourRemaining int
}

// Reset returns the phase to Base and clears all pending data.
func (p *Phase) Reset() {
	*p = Phase{}
}

// --- Actions ---

type ActionType int

const (
	ActionDraw ActionType = iota
	ActionPoints
	ActionFaceCard
	ActionOneOff
	ActionCounter
	ActionResolve
	ActionScuttle
	ActionJack
	ActionTakeFromDiscard
	ActionDiscardFromHand
)

func (a ActionType) String() string {
	switch a {
	case ActionDraw:
		return "Draw"
	case ActionPoints:
		return "Points"
	case ActionFaceCard:
		return "Face Card"
	case ActionOneOff:
		return "One-Off"
	case ActionCounter:
		return "Counter"
	case ActionResolve:
		return "Resolve"
	case ActionScuttle:
		return "Scuttle"
	case ActionJack:
		return "Jack"
	case ActionTakeFromDiscard:
		return "Take From Discard"
	case ActionDiscardFromHand:
		return "Discard From Hand"
	default:
		return "Unknown"
	}
}

// Source says which container an action's card comes from.
type Source int

const (
	SourceHand Source = iota
	SourceDeck
	SourceField
	SourceDiscard
)

func (s Source) String() string {
	switch s {
	case SourceDeck:
		return "Deck"
	case SourceField:
		return "Field"
	case SourceDiscard:
		return "Discard"
	default:
		return "Hand"
	}
}

// Action is a single legal move as produced by the enumerator. Card and
// Target are nil when the type does not use them: Draw carries neither,
// Counter and Resolve carry the pending one-off as Target.
type Action struct {
	Type     ActionType
	PlayedBy int
	Card     *Card
	Target   *Card
	Source   Source
}

func (a Action) String() string {
	switch a.Type {
	case ActionDraw:
		return "Draw a card from deck"
	case ActionPoints:
		return fmt.Sprintf("Play %s as points", a.Card)
	case ActionFaceCard:
		return fmt.Sprintf("Play %s as face card", a.Card)
	case ActionOneOff:
		return fmt.Sprintf("Play %s as one-off", a.Card)
	case ActionScuttle:
		return fmt.Sprintf("Scuttle %s on P%d's field with %s", a.Target, a.Target.PlayedBy, a.Card)
	case ActionCounter:
		return fmt.Sprintf("Counter %s with %s", a.Target, a.Card)
	case ActionJack:
		return fmt.Sprintf("Play %s as jack on %s", a.Card, a.Target)
	case ActionResolve:
		return fmt.Sprintf("Resolve one-off %s", a.Target)
	case ActionTakeFromDiscard:
		return fmt.Sprintf("Take %s from discard", a.Card)
	case ActionDiscardFromHand:
		return fmt.Sprintf("Discard %s from hand", a.Card)
	default:
		return a.Type.String()
	}
}

/// Equal reports whether two actions denote the same move: same type, same
// actor, and the same card/target identities.
func (a Action) Equal(b Action) bool {
	return a.Type == b.Type && a.PlayedBy == b.PlayedBy &&
		sameCard(a.Card, b.Card) && sameCard(a.Target, b.Target)
}

func sameCard(a, b *Card) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID
}
