package game

import (
	"context"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/peterkuimelis/cuttle/internal/history"
)

// ScriptedChooser is a Chooser that follows a predefined script of actions.
// Used in tests to deterministically drive the game.
type ScriptedChooser struct {
	t     *testing.T
	name  string
	steps []scriptStep
	pos   int
}

type scriptStep struct {
	// Match by ActionType — picks the first action of this type.
	Type ActionType
	// Optional: match by card code as well.
	Card string
	// Optional: match by target card code.
	Target string
}

func NewScriptedChooser(t *testing.T, name string) *ScriptedChooser {
	return &ScriptedChooser{t: t, name: name}
}

// Add appends a step. codes[0] is the card code, codes[1] the target code;
// both are optional.
func (sc *ScriptedChooser) Add(actionType ActionType, codes ...string) *ScriptedChooser {
	step := scriptStep{Type: actionType}
	if len(codes) > 0 {
		step.Card = codes[0]
	}
	if len(codes) > 1 {
		step.Target = codes[1]
	}
	sc.steps = append(sc.steps, step)
	return sc
}

func (sc *ScriptedChooser) ChooseAction(_ context.Context, _ *State, actions []Action) (Action, error) {
	if sc.pos < len(sc.steps) {
		// Peek at the next step — only consume it if it matches an available
		// action, so scripts can span turns without scripting every draw.
		step := sc.steps[sc.pos]
		for _, a := range actions {
			if a.Type != step.Type {
				continue
			}
			if step.Card != "" && (a.Card == nil || a.Card.Code() != step.Card) {
				continue
			}
			if step.Target != "" && (a.Target == nil || a.Target.Code() != step.Target) {
				continue
			}
			sc.pos++
			return a, nil
		}
	}

	// Default priority: Resolve > Draw > first action. Resolve is preferred
	// so counter windows close themselves when a script has nothing to say.
	for _, a := range actions {
		if a.Type == ActionResolve {
			return a, nil
		}
	}
	for _, a := range actions {
		if a.Type == ActionDraw {
			return a, nil
		}
	}
	return actions[0], nil
}

// --- Deck and state helpers ---

// mustCard builds a card from its code, panicking on a typo.
func mustCard(code string) *Card {
	c, err := ParseCardCode(code)
	if err != nil {
		panic(err)
	}
	return c
}

// testDeck builds a full 52-card deal: p0 holds the first five codes, p1
// the next six, and drawFirst come off the top of the draw pile in order.
// The remaining cards pad the bottom of the pile.
func testDeck(t *testing.T, p0, p1, drawFirst []string) []*Card {
	t.Helper()
	return buildDeal(t, p0, p1, drawFirst, true)
}

// shortDeck is testDeck without the padding: the draw pile holds only
// drawFirst, again with index 0 drawn first.
func shortDeck(t *testing.T, p0, p1, drawFirst []string) []*Card {
	t.Helper()
	return buildDeal(t, p0, p1, drawFirst, false)
}

func buildDeal(t *testing.T, p0, p1, drawFirst []string, pad bool) []*Card {
	t.Helper()
	if len(p0) != HandSizeP0 || len(p1) != HandSizeP1 {
		t.Fatalf("deal wants %d+%d hand codes, got %d+%d", HandSizeP0, HandSizeP1, len(p0), len(p1))
	}

	byCode := make(map[string]*Card, DeckSize)
	for _, c := range NewDeck() {
		byCode[c.Code()] = c
	}
	take := func(code string) *Card {
		c := byCode[strings.ToUpper(code)]
		if c == nil {
			t.Fatalf("deal: card %q unknown or listed twice", code)
		}
		delete(byCode, c.Code())
		return c
	}

	deck := make([]*Card, 0, DeckSize)
	for _, code := range p0 {
		deck = append(deck, take(code))
	}
	for _, code := range p1 {
		deck = append(deck, take(code))
	}

	draws := make([]*Card, 0, len(drawFirst))
	for _, code := range drawFirst {
		draws = append(draws, take(code))
	}
	if pad {
		// Unused cards fill the bottom in canonical order.
		for _, c := range NewDeck() {
			if orig, ok := byCode[c.Code()]; ok {
				deck = append(deck, orig)
				delete(byCode, c.Code())
			}
		}
	}
	// Top of the pile is the end of the slice, so drawFirst goes last in
	// reverse: index 0 is drawn first.
	for i := len(draws) - 1; i >= 0; i-- {
		deck = append(deck, draws[i])
	}
	return deck
}

// newTestGame deals the given deck verbatim.
func newTestGame(t *testing.T, deck []*Card) *Game {
	t.Helper()
	g, err := NewGame(Options{Seed: 1, TestDeck: deck})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	return g
}

// gameFromState wraps a hand-built state for direct Apply tests.
func gameFromState(s *State) *Game {
	return &Game{
		State:   s,
		History: history.NewLog(),
		rng:     rand.New(rand.NewSource(1)),
		now:     time.Now,
	}
}

// blankState is an empty board for enumerator tests that place cards by
// hand.
func blankState() *State {
	return NewState([2][]*Card{}, nil)
}

func inHand(s *State, player int, c *Card) *Card {
	s.Hands[player] = append(s.Hands[player], c)
	return c
}

func onField(s *State, player int, c *Card, purpose Purpose) *Card {
	c.PlayedBy = player
	c.Purpose = purpose
	s.Fields[player] = append(s.Fields[player], c)
	return c
}

func inDiscard(s *State, c *Card) *Card {
	s.Discard = append(s.Discard, c)
	return c
}

// --- Action helpers ---

// findAction returns the legal action matching type and optional card and
// target codes, failing the test when absent.
func findAction(t *testing.T, actions []Action, typ ActionType, codes ...string) Action {
	t.Helper()
	if a, ok := lookupAction(actions, typ, codes...); ok {
		return a
	}
	t.Fatalf("no %s action for %v in %v", typ, codes, actions)
	return Action{}
}

func hasAction(actions []Action, typ ActionType, codes ...string) bool {
	_, ok := lookupAction(actions, typ, codes...)
	return ok
}

func lookupAction(actions []Action, typ ActionType, codes ...string) (Action, bool) {
	for _, a := range actions {
		if a.Type != typ {
			continue
		}
		if len(codes) > 0 && codes[0] != "" && (a.Card == nil || a.Card.Code() != codes[0]) {
			continue
		}
		if len(codes) > 1 && codes[1] != "" && (a.Target == nil || a.Target.Code() != codes[1]) {
			continue
		}
		return a, true
	}
	return Action{}, false
}

func countActions(actions []Action, typ ActionType) int {
	n := 0
	for _, a := range actions {
		if a.Type == typ {
			n++
		}
	}
	return n
}

// mustApply applies an action, failing the test on any error.
func mustApply(t *testing.T, g *Game, a Action) Outcome {
	t.Helper()
	out, err := g.Apply(a)
	if err != nil {
		t.Logf("History:\n%s", history.FormatAll(g.History.Entries()))
		t.Fatalf("apply %s: %v", a, err)
	}
	return out
}

// step applies an action and advances the state the way the driver loop
// does.
func step(t *testing.T, g *Game, a Action) Outcome {
	t.Helper()
	out := mustApply(t, g, a)
	if !out.ShouldStop {
		g.State.Advance(out.TurnFinished)
	}
	return out
}

// play finds the action among the current legal ones and steps it.
func play(t *testing.T, g *Game, typ ActionType, codes ...string) Outcome {
	t.Helper()
	return step(t, g, findAction(t, g.State.LegalActions(), typ, codes...))
}

// runGame drives a game with one chooser per seat until it stops or
// maxActions is hit. Returns the outcome of the last applied action.
func runGame(t *testing.T, g *Game, p0, p1 Chooser, maxActions int) Outcome {
	t.Helper()
	choosers := [2]Chooser{p0, p1}
	out := Outcome{Winner: NoPlayer}
	for i := 0; i < maxActions; i++ {
		if g.State.GameOver() {
			break
		}
		actions := g.State.LegalActions()
		if len(actions) == 0 {
			break
		}
		chosen, err := choosers[g.State.CurrentActionPlayer].ChooseAction(context.Background(), g.State, actions)
		if err != nil {
			t.Fatalf("choose action: %v", err)
		}
		out, err = g.Apply(chosen)
		if err != nil {
			t.Logf("History:\n%s", history.FormatAll(g.History.Entries()))
			t.Fatalf("apply %s: %v", chosen, err)
		}
		if out.ShouldStop {
			return out
		}
		g.State.Advance(out.TurnFinished)
	}
	return out
}

func containsCode(cards []*Card, code string) bool {
	for _, c := range cards {
		if c.Code() == code {
			return true
		}
	}
	return false
}

// --- Invariant helpers ---

// checkConservation verifies that exactly want distinct cards exist across
// all containers, attachments included.
func checkConservation(t *testing.T, s *State, want int) {
	t.Helper()
	seen := map[string]bool{}
	count := 0
	add := func(cards []*Card) {
		for _, c := range cards {
			if seen[c.ID] {
				t.Fatalf("card %s appears twice", c)
			}
			seen[c.ID] = true
			count++
			for _, a := range c.Attachments {
				if seen[a.ID] {
					t.Fatalf("attachment %s appears twice", a)
				}
				seen[a.ID] = true
				count++
			}
		}
	}
	for p := 0; p < 2; p++ {
		add(s.Hands[p])
		add(s.Fields[p])
	}
	add(s.Deck)
	add(s.Discard)
	if count != want {
		t.Fatalf("have %d cards in play, want %d", count, want)
	}
}
