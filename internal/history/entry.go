package history

import (
	"fmt"
	"time"
)

// Location names a card container for entry source/destination fields.
type Location string

const (
	LocationNone    Location = ""
	LocationHand    Location = "hand"
	LocationDeck    Location = "deck"
	LocationField   Location = "field"
	LocationDiscard Location = "discard_pile"
)

// CardRef identifies a card in an entry without holding the live object.
// Name is the display string at record time, prefixes included.
type CardRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Entry is one applied action. Turn is the overall turn it happened on;
// Action is the action type label.
type Entry struct {
	Timestamp   time.Time      `json:"timestamp"`
	Turn        int            `json:"turn_number"`
	Player      int            `json:"player"`
	Action      string         `json:"action_type"`
	Card        *CardRef       `json:"card"`
	Target      *CardRef       `json:"target"`
	Source      Location       `json:"source_location"`
	Destination Location       `json:"destination_location"`
	Metadata    map[string]any `json:"additional_data,omitempty"`
	Description string         `json:"description"`
}

// --- Helper constructors for the entries the resolver writes ---

func NewDrawEntry(player int, card CardRef) Entry {
	return Entry{
		Player:      player,
		Action:      "Draw",
		Card:        &card,
		Source:      LocationDeck,
		Destination: LocationHand,
		Description: fmt.Sprintf("Player %d draws %s from deck", player, card.Name),
	}
}

func NewPointsEntry(player int, card CardRef, points int) Entry {
	return Entry{
		Player:      player,
		Action:      "Points",
		Card:        &card,
		Source:      LocationHand,
		Destination: LocationField,
		Description: fmt.Sprintf("Player %d plays %s for %d points", player, card.Name, points),
	}
}

func NewFaceCardEntry(player int, card CardRef) Entry {
	return Entry{
		Player:      player,
		Action:      "Face Card",
		Card:        &card,
		Source:      LocationHand,
		Destination: LocationField,
		Description: fmt.Sprintf("Player %d plays %s as face card", player, card.Name),
	}
}

func NewScuttleEntry(player int, card, target CardRef) Entry {
	return Entry{
		Player:      player,
		Action:      "Scuttle",
		Card:        &card,
		Target:      &target,
		Source:      LocationHand,
		Destination: LocationDiscard,
		Description: fmt.Sprintf("Player %d scuttles %s with %s", player, target.Name, card.Name),
	}
}

func NewJackEntry(player int, card, target CardRef) Entry {
	return Entry{
		Player:      player,
		Action:      "Jack",
		Card:        &card,
		Target:      &target,
		Source:      LocationHand,
		Destination: LocationField,
		Description: fmt.Sprintf("Player %d uses %s to steal %s", player, card.Name, target.Name),
	}
}

func NewOneOffEntry(player int, card CardRef) Entry {
	return Entry{
		Player:      player,
		Action:      "One-Off",
		Card:        &card,
		Source:      LocationHand,
		Description: fmt.Sprintf("Player %d plays %s as one-off", player, card.Name),
	}
}

func NewCounterEntry(player int, card, target CardRef, counters int) Entry {
	return Entry{
		Player:      player,
		Action:      "Counter",
		Card:        &card,
		Target:      &target,
		Source:      LocationHand,
		Destination: LocationDiscard,
		Metadata:    map[string]any{"counters": counters},
		Description: fmt.Sprintf("Player %d counters %s with %s", player, target.Name, card.Name),
	}
}

func NewResolveEntry(player int, target CardRef, applied bool, counters int) Entry {
	return Entry{
		Player:      player,
		Action:      "Resolve",
		Target:      &target,
		Source:      LocationHand,
		Destination: LocationDiscard,
		Metadata:    map[string]any{"applied": applied, "counters": counters},
		Description: fmt.Sprintf("Player %d resolves %s", player, target.Name),
	}
}

func NewTakeFromDiscardEntry(player int, card CardRef) Entry {
	return Entry{
		Player:      player,
		Action:      "Take From Discard",
		Card:        &card,
		Source:      LocationDiscard,
		Destination: LocationHand,
		Description: fmt.Sprintf("Player %d takes %s from discard", player, card.Name),
	}
}

func NewDiscardFromHandEntry(player int, card CardRef) Entry {
	return Entry{
		Player:      player,
		Action:      "Discard From Hand",
		Card:        &card,
		Source:      LocationHand,
		Destination: LocationDiscard,
		Description: fmt.Sprintf("Player %d discards %s from hand", player, card.Name),
	}
}
