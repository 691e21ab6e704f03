package game

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/peterkuimelis/cuttle/internal/history"
)

// snapshotCard is the wire form of a card. Attachments nest inside their
// host so that every card appears in exactly one place.
type snapshotCard struct {
	ID          string         `json:"id"`
	Suit        string         `json:"suit"`
	Rank        string         `json:"rank"`
	PlayedBy    int            `json:"played_by"`
	Purpose     string         `json:"purpose,omitempty"`
	Attachments []snapshotCard `json:"attachments,omitempty"`
}

type snapshot struct {
	Hands               [2][]snapshotCard `json:"hands"`
	Fields              [2][]snapshotCard `json:"fields"`
	Deck                []snapshotCard    `json:"deck"`
	DiscardPile         []snapshotCard    `json:"discard_pile"`
	Turn                int               `json:"turn"`
	CurrentActionPlayer int               `json:"current_action_player"`
	OverallTurn         int               `json:"overall_turn"`
	Status              string            `json:"status,omitempty"`
	ResolvingOneOff     bool              `json:"resolving_one_off"`
	PendingOneOff       string            `json:"pending_one_off,omitempty"`
	Counters            int               `json:"counters,omitempty"`
	ResolvingThree      bool              `json:"resolving_three"`
	ResolvingFour       bool              `json:"resolving_four"`
	PendingFourPlayer   int               `json:"pending_four_player,omitempty"`
	PendingFourCount    int               `json:"pending_four_count,omitempty"`
	History             json.RawMessage   `json:"history,omitempty"`
}

// Snapshot encodes the whole game as indented JSON: all six containers with
// attachments nested, the turn counters, any open phase, and the history
// log. Restore rebuilds an equivalent game from the output.
func (g *Game) Snapshot() ([]byte, error) {
	s := g.State
	snap := snapshot{
		Turn:                s.Turn,
		CurrentActionPlayer: s.CurrentActionPlayer,
		OverallTurn:         s.OverallTurn,
		Status:              s.Status,
		Deck:                encodeCards(s.Deck),
		DiscardPile:         encodeCards(s.Discard),
	}
	for p := 0; p < 2; p++ {
		snap.Hands[p] = encodeCards(s.Hands[p])
		snap.Fields[p] = encodeCards(s.Fields[p])
	}

	switch s.Phase.Kind {
	case PhaseResolvingOneOff:
		snap.ResolvingOneOff = true
		snap.PendingOneOff = s.Phase.OneOff.ID
		snap.Counters = s.Phase.Counters
	case PhaseResolvingThree:
		snap.ResolvingThree = true
		snap.PendingOneOff = s.Phase.OneOff.ID
	case PhaseResolvingFour:
		snap.ResolvingFour = true
		snap.PendingFourPlayer = s.Phase.FourPlayer
		snap.PendingFourCount = s.Phase.FourRemaining
	}

	entries := history.NewLog()
	for _, e := range g.History.Entries() {
		entries.Record(e)
	}
	hist, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("snapshot history: %w", err)
	}
	snap.History = hist

	return json.MarshalIndent(snap, "", "  ")
}

// Restore rebuilds a game from Snapshot output. Options supply the PRNG
// seed and clock for the revived game; the snapshot's history entries are
// replayed into opts.History when one is given.
func Restore(data []byte, opts Options) (*Game, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	seen := map[string]bool{}
	var hands [2][]*Card
	var fields [2][]*Card
	var err error
	for p := 0; p < 2; p++ {
		if hands[p], err = decodeCards(snap.Hands[p], seen); err != nil {
			return nil, err
		}
		if fields[p], err = decodeCards(snap.Fields[p], seen); err != nil {
			return nil, err
		}
	}
	deck, err := decodeCards(snap.Deck, seen)
	if err != nil {
		return nil, err
	}
	discard, err := decodeCards(snap.DiscardPile, seen)
	if err != nil {
		return nil, err
	}

	state := NewState(hands, deck)
	state.Fields = fields
	state.Discard = discard
	state.Turn = snap.Turn
	state.CurrentActionPlayer = snap.CurrentActionPlayer
	state.OverallTurn = snap.OverallTurn
	state.Status = snap.Status

	switch {
	case snap.ResolvingOneOff:
		c := state.FindCard(snap.PendingOneOff)
		if c == nil {
			return nil, fmt.Errorf("decode snapshot: pending one-off %q not found", snap.PendingOneOff)
		}
		state.Phase = Phase{Kind: PhaseResolvingOneOff, OneOff: c, Counters: snap.Counters}
	case snap.ResolvingThree:
		c := state.FindCard(snap.PendingOneOff)
		if c == nil {
			return nil, fmt.Errorf("decode snapshot: pending three %q not found", snap.PendingOneOff)
		}
		state.Phase = Phase{Kind: PhaseResolvingThree, OneOff: c}
	case snap.ResolvingFour:
		state.Phase = Phase{
			Kind:          PhaseResolvingFour,
			FourPlayer:    snap.PendingFourPlayer,
			FourRemaining: snap.PendingFourCount,
		}
	}

	recorder := opts.History
	if recorder == nil {
		recorder = history.NewLog()
	}
	if len(snap.History) > 0 {
		replay := history.NewLog()
		if err := json.Unmarshal(snap.History, replay); err != nil {
			return nil, fmt.Errorf("decode snapshot history: %w", err)
		}
		for _, e := range replay.Entries() {
			recorder.Record(e)
		}
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Game{
		State:   state,
		History: recorder,
		rng:     rand.New(rand.NewSource(seed)),
		now:     now,
	}, nil
}

func encodeCards(cards []*Card) []snapshotCard {
	out := make([]snapshotCard, 0, len(cards))
	for _, c := range cards {
		out = append(out, encodeCard(c))
	}
	return out
}

func encodeCard(c *Card) snapshotCard {
	return snapshotCard{
		ID:          c.ID,
		Suit:        c.Suit.Name(),
		Rank:        c.Rank.Name(),
		PlayedBy:    c.PlayedBy,
		Purpose:     c.Purpose.Name(),
		Attachments: encodeCards(c.Attachments),
	}
}

func decodeCards(cards []snapshotCard, seen map[string]bool) ([]*Card, error) {
	var out []*Card
	for _, sc := range cards {
		c, err := decodeCard(sc, seen)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func decodeCard(sc snapshotCard, seen map[string]bool) (*Card, error) {
	if sc.ID == "" {
		return nil, fmt.Errorf("decode snapshot: card without id")
	}
	if seen[sc.ID] {
		return nil, fmt.Errorf("decode snapshot: duplicate card id %q", sc.ID)
	}
	seen[sc.ID] = true

	suit, err := ParseSuit(sc.Suit)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	rank, err := ParseRank(sc.Rank)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	purpose, err := ParsePurpose(sc.Purpose)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	c := &Card{
		ID:       sc.ID,
		Suit:     suit,
		Rank:     rank,
		PlayedBy: sc.PlayedBy,
		Purpose:  purpose,
	}
	if c.Attachments, err = decodeCards(sc.Attachments, seen); err != nil {
		return nil, err
	}
	return c, nil
}
