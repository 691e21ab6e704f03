package game

import (
	"errors"
	"testing"
)

// TestAceSweepsPoints: an uncountered ace clears every point card on both
// fields.
func TestAceSweepsPoints(t *testing.T) {
	deck := testDeck(t,
		[]string{"AS", "2C", "2D", "7C", "7D"},
		[]string{"10H", "3C", "3D", "3S", "4C", "4D"},
		nil)
	g := newTestGame(t, deck)

	play(t, g, ActionDraw)
	play(t, g, ActionPoints, "10H")
	play(t, g, ActionOneOff, "AS")

	// Mid-chain the ace stays in hand and the decision sits with player 1.
	if !containsCode(g.State.Hands[0], "AS") {
		t.Error("one-off left the hand before resolution")
	}
	if g.State.Phase.Kind != PhaseResolvingOneOff || g.State.CurrentActionPlayer != 1 {
		t.Fatalf("after one-off: phase=%v cap=%d", g.State.Phase.Kind, g.State.CurrentActionPlayer)
	}

	play(t, g, ActionResolve)
	if len(g.State.Fields[1]) != 0 || g.State.PlayerScore(1) != 0 {
		t.Errorf("field survived the ace: %v", g.State.Fields[1])
	}
	if !containsCode(g.State.Discard, "AS") || !containsCode(g.State.Discard, "10H") {
		t.Errorf("discard after ace: %v", g.State.Discard)
	}
	if g.State.Phase.Kind != PhaseBase || g.State.Turn != 1 {
		t.Errorf("after resolve: phase=%v turn=%d", g.State.Phase.Kind, g.State.Turn)
	}

	entries := g.History.Entries()
	last := entries[len(entries)-1]
	if last.Description != "Player 1 resolves Ace of Spades" {
		t.Errorf("resolve description: %q", last.Description)
	}
	if last.Metadata["applied"] != true || last.Metadata["counters"] != 0 {
		t.Errorf("resolve metadata: %v", last.Metadata)
	}
	checkConservation(t, g.State, DeckSize)
}

// TestCounterStopsOneOff: one two flips the outcome, and only the two
// changes zones before the resolve.
func TestCounterStopsOneOff(t *testing.T) {
	deck := testDeck(t,
		[]string{"AS", "2C", "7C", "7D", "7H"},
		[]string{"10H", "2S", "3C", "3D", "3S", "4C"},
		nil)
	g := newTestGame(t, deck)

	play(t, g, ActionDraw)
	play(t, g, ActionPoints, "10H")
	play(t, g, ActionOneOff, "AS")
	play(t, g, ActionCounter, "2S")

	if !containsCode(g.State.Discard, "2S") {
		t.Error("counter two should move to discard immediately")
	}
	if !containsCode(g.State.Hands[0], "AS") {
		t.Error("countered one-off must stay in hand until resolve")
	}
	if g.State.CurrentActionPlayer != 0 {
		t.Fatalf("counter should hand the decision back, cap=%d", g.State.CurrentActionPlayer)
	}

	play(t, g, ActionResolve)
	if g.State.PlayerScore(1) != 10 {
		t.Errorf("countered ace still swept, score=%d", g.State.PlayerScore(1))
	}
	if !containsCode(g.State.Discard, "AS") {
		t.Error("one-off should land in discard after the chain")
	}

	entries := g.History.Entries()
	counterEntry := entries[len(entries)-2]
	if counterEntry.Description != "Player 1 counters Ace of Spades with Two of Spades" {
		t.Errorf("counter description: %q", counterEntry.Description)
	}
	last := entries[len(entries)-1]
	if last.Metadata["applied"] != false || last.Metadata["counters"] != 1 {
		t.Errorf("resolve metadata: %v", last.Metadata)
	}
}

// TestCounterCounter: two twos cancel out and the effect lands.
func TestCounterCounter(t *testing.T) {
	deck := testDeck(t,
		[]string{"AS", "2C", "7C", "7D", "7H"},
		[]string{"10H", "2S", "3C", "3D", "3S", "4C"},
		nil)
	g := newTestGame(t, deck)

	play(t, g, ActionDraw)
	play(t, g, ActionPoints, "10H")
	play(t, g, ActionOneOff, "AS")
	play(t, g, ActionCounter, "2S") // player 1 counters
	play(t, g, ActionCounter, "2C") // player 0 counters the counter
	play(t, g, ActionResolve)

	if g.State.PlayerScore(1) != 0 {
		t.Errorf("double-countered ace should apply, score=%d", g.State.PlayerScore(1))
	}
	for _, code := range []string{"AS", "2S", "2C", "10H"} {
		if !containsCode(g.State.Discard, code) {
			t.Errorf("%s missing from discard", code)
		}
	}

	entries := g.History.Entries()
	last := entries[len(entries)-1]
	if last.Metadata["applied"] != true || last.Metadata["counters"] != 2 {
		t.Errorf("resolve metadata: %v", last.Metadata)
	}
}

// TestCounterValidation: only a two from the deciding player's hand, and
// never through a queen.
func TestCounterValidation(t *testing.T) {
	s := blankState()
	s.Deck = append(s.Deck, mustCard("KD"))
	inHand(s, 0, mustCard("AS"))
	five := inHand(s, 1, mustCard("5H"))
	strayTwo := inHand(s, 0, mustCard("2C"))
	twoS := inHand(s, 1, mustCard("2S"))
	g := gameFromState(s)

	play(t, g, ActionOneOff, "AS")

	if _, err := g.Apply(Action{Type: ActionCounter, PlayedBy: 1, Card: five}); !errors.Is(err, ErrCounterBlocked) {
		t.Errorf("countering with a five: %v", err)
	}
	if _, err := g.Apply(Action{Type: ActionCounter, PlayedBy: 1, Card: strayTwo}); !errors.Is(err, ErrCounterBlocked) {
		t.Errorf("countering with the opponent's two: %v", err)
	}

	onField(s, 0, mustCard("QD"), PurposeFaceCard)
	if _, err := g.Apply(Action{Type: ActionCounter, PlayedBy: 1, Card: twoS}); !errors.Is(err, ErrCounterBlocked) {
		t.Errorf("countering through a queen: %v", err)
	}
}

// TestFiveDrawsTwo: the five leaves the hand first, then up to two cards
// come off the pile.
func TestFiveDrawsTwo(t *testing.T) {
	deck := testDeck(t,
		[]string{"5C", "7C", "7D", "7H", "8C"},
		[]string{"3C", "3D", "3H", "3S", "4C", "4D"},
		[]string{"9S", "9H"})
	g := newTestGame(t, deck)

	play(t, g, ActionOneOff, "5C")
	play(t, g, ActionResolve)

	hand := g.State.Hands[0]
	if len(hand) != 6 || !containsCode(hand, "9S") || !containsCode(hand, "9H") {
		t.Errorf("hand after five: %v", hand)
	}
	if !containsCode(g.State.Discard, "5C") {
		t.Error("five should end in discard")
	}
}

// TestFiveRespectsHandLimit: near the cap the five draws fewer cards.
func TestFiveRespectsHandLimit(t *testing.T) {
	s := blankState()
	for _, code := range []string{"5C", "2C", "2D", "2H", "2S", "4C", "4D", "4H"} {
		inHand(s, 0, mustCard(code))
	}
	inHand(s, 1, mustCard("7C"))
	s.Deck = append(s.Deck, mustCard("KD"), mustCard("KH"), mustCard("KS"))
	g := gameFromState(s)

	play(t, g, ActionOneOff, "5C")
	play(t, g, ActionResolve)
	// Eight in hand, minus the five, plus one draw back to the cap.
	if len(s.Hands[0]) != HandLimit {
		t.Errorf("hand after capped five: %d cards", len(s.Hands[0]))
	}
	if len(s.Deck) != 2 {
		t.Errorf("deck after capped five: %d cards", len(s.Deck))
	}
}

// TestFiveOnShortDeck: the five never draws more than the pile holds, and
// an empty pile is fine.
func TestFiveOnShortDeck(t *testing.T) {
	s := blankState()
	inHand(s, 0, mustCard("5C"))
	inHand(s, 1, mustCard("7C"))
	s.Deck = append(s.Deck, mustCard("KD"))
	g := gameFromState(s)

	play(t, g, ActionOneOff, "5C")
	play(t, g, ActionResolve)
	if len(s.Hands[0]) != 1 || !containsCode(s.Hands[0], "KD") {
		t.Errorf("hand after short five: %v", s.Hands[0])
	}
	if len(s.Deck) != 0 {
		t.Errorf("deck should be empty, has %d", len(s.Deck))
	}

	// Again with nothing left to draw.
	s2 := blankState()
	inHand(s2, 0, mustCard("5D"))
	inHand(s2, 1, mustCard("7D"))
	g2 := gameFromState(s2)
	play(t, g2, ActionOneOff, "5D")
	out := play(t, g2, ActionResolve)
	if !out.TurnFinished {
		t.Error("five on empty deck should still finish the turn")
	}
	if len(s2.Hands[0]) != 0 || !containsCode(s2.Discard, "5D") {
		t.Errorf("state after empty five: hand=%v discard=%v", s2.Hands[0], s2.Discard)
	}
}

// TestThreeTakesFromDiscard: the player picks any pile card except the
// three itself.
func TestThreeTakesFromDiscard(t *testing.T) {
	s := blankState()
	three := inHand(s, 0, mustCard("3H"))
	inHand(s, 1, mustCard("7C"))
	inDiscard(s, mustCard("KC"))
	inDiscard(s, mustCard("9S"))
	s.Deck = append(s.Deck, mustCard("KD"))
	g := gameFromState(s)

	play(t, g, ActionOneOff, "3H")
	play(t, g, ActionResolve)

	if g.State.Phase.Kind != PhaseResolvingThree {
		t.Fatalf("phase after three = %v", g.State.Phase.Kind)
	}
	if g.State.CurrentActionPlayer != 0 {
		t.Fatalf("the pick belongs to the turn player, cap=%d", g.State.CurrentActionPlayer)
	}
	if !containsCode(s.Discard, "3H") {
		t.Error("the three should already sit in the pile during the pick")
	}

	if _, err := g.Apply(Action{Type: ActionTakeFromDiscard, PlayedBy: 0, Card: three}); !errors.Is(err, ErrIllegalAction) {
		t.Errorf("taking back the resolving three: %v", err)
	}

	play(t, g, ActionTakeFromDiscard, "KC")
	if !containsCode(s.Hands[0], "KC") {
		t.Errorf("hand after take: %v", s.Hands[0])
	}
	if g.State.Phase.Kind != PhaseBase || g.State.Turn != 1 {
		t.Errorf("after take: phase=%v turn=%d", g.State.Phase.Kind, g.State.Turn)
	}

	entries := g.History.Entries()
	if got := entries[len(entries)-1].Description; got != "Player 0 takes King of Clubs from discard" {
		t.Errorf("take description: %q", got)
	}
}

// TestThreeOnEmptyDiscard: nothing to take, so the effect fizzles and the
// turn ends.
func TestThreeOnEmptyDiscard(t *testing.T) {
	s := blankState()
	inHand(s, 0, mustCard("3H"))
	inHand(s, 1, mustCard("7C"))
	s.Deck = append(s.Deck, mustCard("KD"))
	g := gameFromState(s)

	play(t, g, ActionOneOff, "3H")
	out := play(t, g, ActionResolve)
	if !out.TurnFinished || g.State.Phase.Kind != PhaseBase {
		t.Errorf("empty-pile three: outcome=%+v phase=%v", out, g.State.Phase.Kind)
	}
	if len(s.Discard) != 1 || !containsCode(s.Discard, "3H") {
		t.Errorf("discard after fizzled three: %v", s.Discard)
	}
}

// TestFourForcesDiscards: the opponent gives up two cards of their choice.
func TestFourForcesDiscards(t *testing.T) {
	s := blankState()
	inHand(s, 0, mustCard("4S"))
	inHand(s, 0, mustCard("7C"))
	for _, code := range []string{"2C", "9D", "KH"} {
		inHand(s, 1, mustCard(code))
	}
	s.Deck = append(s.Deck, mustCard("KD"))
	g := gameFromState(s)

	play(t, g, ActionOneOff, "4S")
	play(t, g, ActionResolve)

	if g.State.Phase.Kind != PhaseResolvingFour || g.State.CurrentActionPlayer != 1 {
		t.Fatalf("after four: phase=%v cap=%d", g.State.Phase.Kind, g.State.CurrentActionPlayer)
	}

	out := play(t, g, ActionDiscardFromHand, "2C")
	if out.TurnFinished {
		t.Error("one discard of two should not finish the turn")
	}
	out = play(t, g, ActionDiscardFromHand, "KH")
	if !out.TurnFinished {
		t.Error("second discard should close the phase")
	}

	if len(s.Hands[1]) != 1 || !containsCode(s.Hands[1], "9D") {
		t.Errorf("victim hand: %v", s.Hands[1])
	}
	if g.State.Turn != 1 || g.State.Phase.Kind != PhaseBase {
		t.Errorf("after four closes: turn=%d phase=%v", g.State.Turn, g.State.Phase.Kind)
	}

	entries := g.History.Entries()
	if got := entries[len(entries)-1].Description; got != "Player 1 discards King of Hearts from hand" {
		t.Errorf("discard description: %q", got)
	}
}

// TestFourAgainstShortHand: a one-card hand owes only that card; an empty
// hand owes nothing.
func TestFourAgainstShortHand(t *testing.T) {
	s := blankState()
	inHand(s, 0, mustCard("4S"))
	inHand(s, 1, mustCard("9D"))
	s.Deck = append(s.Deck, mustCard("KD"))
	g := gameFromState(s)

	play(t, g, ActionOneOff, "4S")
	play(t, g, ActionResolve)
	out := play(t, g, ActionDiscardFromHand, "9D")
	if !out.TurnFinished {
		t.Error("single forced discard should close the phase")
	}
	if len(s.Hands[1]) != 0 {
		t.Errorf("victim hand: %v", s.Hands[1])
	}

	s2 := blankState()
	inHand(s2, 0, mustCard("4C"))
	s2.Deck = append(s2.Deck, mustCard("KH"))
	g2 := gameFromState(s2)
	play(t, g2, ActionOneOff, "4C")
	out = play(t, g2, ActionResolve)
	if !out.TurnFinished || g2.State.Phase.Kind != PhaseBase {
		t.Errorf("four against empty hand: outcome=%+v phase=%v", out, g2.State.Phase.Kind)
	}
}

// TestSixSweepsFaceCards: kings and queens fall, point cards and attached
// jacks stay put.
func TestSixSweepsFaceCards(t *testing.T) {
	s := blankState()
	inHand(s, 0, mustCard("6C"))
	inHand(s, 1, mustCard("7C"))
	onField(s, 0, mustCard("KS"), PurposeFaceCard)
	onField(s, 1, mustCard("QH"), PurposeFaceCard)
	onField(s, 1, mustCard("KD"), PurposeFaceCard)
	ten := onField(s, 1, mustCard("10H"), PurposePoints)
	jack := mustCard("JC")
	jack.PlayedBy = 0
	jack.Purpose = PurposeJack
	ten.Attachments = append(ten.Attachments, jack)
	s.Deck = append(s.Deck, mustCard("KC"))
	g := gameFromState(s)

	play(t, g, ActionOneOff, "6C")
	play(t, g, ActionResolve)

	for _, code := range []string{"KS", "QH", "KD", "6C"} {
		if !containsCode(s.Discard, code) {
			t.Errorf("%s missing from discard", code)
		}
	}
	if len(s.Fields[0]) != 0 {
		t.Errorf("player 0 field: %v", s.Fields[0])
	}
	if len(s.Fields[1]) != 1 || s.Fields[1][0].ID != ten.ID {
		t.Errorf("player 1 field: %v", s.Fields[1])
	}
	if len(ten.Attachments) != 1 {
		t.Error("six should not strip jacks off point cards")
	}
	if s.PlayerTarget(0) != 21 || s.PlayerTarget(1) != 21 {
		t.Errorf("targets after six: %d/%d", s.PlayerTarget(0), s.PlayerTarget(1))
	}
	checkConservation(t, s, 8)
}
