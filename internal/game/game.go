package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/peterkuimelis/cuttle/internal/history"
)

// HandPicker selects opening hands for manual setup. Pick is called once
// per player with the cards still available and the number of slots to
// fill. Picking fewer than max is allowed; the rest are dealt at random.
type HandPicker interface {
	Pick(player int, available []*Card, max int) []*Card
}

// Options configures a new game. The zero value plays a shuffled deal with
// a clock-seeded PRNG and an in-memory history log.
type Options struct {
	Seed int64 // PRNG seed (0 draws one from the clock)

	// TestDeck, when set, is dealt verbatim instead of a shuffled deck.
	TestDeck []*Card

	// ManualSelection lets both players pick opening hands through Picker;
	// leftover cards are shuffled into the deck.
	ManualSelection bool
	Picker          HandPicker

	History history.Recorder // defaults to history.NewLog()
	Now     func() time.Time // timestamp source, defaults to time.Now
}

func (o *Options) validate() error {
	if o.ManualSelection && o.Picker == nil {
		return errors.New("manual selection requires a hand picker")
	}
	if o.ManualSelection && o.TestDeck != nil {
		return errors.New("manual selection and test deck are mutually exclusive")
	}
	if o.TestDeck != nil && len(o.TestDeck) < HandSizeP0+HandSizeP1 {
		return fmt.Errorf("test deck has %d cards, need at least %d", len(o.TestDeck), HandSizeP0+HandSizeP1)
	}
	return nil
}

// Game couples a State with the injected collaborators the resolver needs:
// the history recorder, the PRNG, and the clock.
type Game struct {
	State   *State
	History history.Recorder

	rng *rand.Rand
	now func() time.Time
}

// NewGame deals a fresh game. Player 0 receives 5 cards, player 1 receives
// 6, and the rest becomes the draw pile.
func NewGame(opts Options) (*Game, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	recorder := opts.History
	if recorder == nil {
		recorder = history.NewLog()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	var state *State
	switch {
	case opts.TestDeck != nil:
		hands, rest, err := Deal(opts.TestDeck)
		if err != nil {
			return nil, err
		}
		state = NewState(hands, rest)
	case opts.ManualSelection:
		state = manualState(opts.Picker, rng)
	default:
		deck := NewDeck()
		ShuffleDeck(deck, rng)
		hands, rest, err := Deal(deck)
		if err != nil {
			return nil, err
		}
		state = NewState(hands, rest)
	}

	return &Game{State: state, History: recorder, rng: rng, now: now}, nil
}

// manualState builds the opening state from picked hands. Both players pick
// from the same pool in seat order; unpicked slots are filled at random and
// the leftover pool is shuffled into the deck.
func manualState(picker HandPicker, rng *rand.Rand) *State {
	pool := NewDeck()
	var hands [2][]*Card
	for p := 0; p < 2; p++ {
		want := HandSizeP0
		if p == 1 {
			want = HandSizeP1
		}
		chosen := picker.Pick(p, append([]*Card(nil), pool...), want)
		for _, c := range chosen {
			if len(hands[p]) == want {
				break
			}
			var ok bool
			if pool, ok = removeCard(pool, c); ok {
				hands[p] = append(hands[p], c)
			}
		}
		for len(hands[p]) < want {
			i := rng.Intn(len(pool))
			hands[p] = append(hands[p], pool[i])
			pool = append(pool[:i], pool[i+1:]...)
		}
	}
	ShuffleDeck(pool, rng)
	return NewState(hands, pool)
}

// record stamps and appends a history entry for a just-applied action.
func (g *Game) record(e history.Entry) {
	e.Timestamp = g.now()
	e.Turn = g.State.OverallTurn
	g.History.Record(e)
}

// ref captures a card's identity and display string for the history log.
func ref(c *Card) history.CardRef {
	return history.CardRef{ID: c.ID, Name: c.String()}
}
