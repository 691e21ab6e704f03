package game

import (
	"fmt"

	"github.com/peterkuimelis/cuttle/internal/history"
)

// Outcome is the resolver's completion signal for one applied action.
type Outcome struct {
	// TurnFinished reports that the root turn is over and the driver should
	// call Advance(true). When false a follow-up decision is still pending
	// (counter window, three pick, or four discards).
	TurnFinished bool

	// ShouldStop reports that the game ended with this action.
	ShouldStop bool

	// Winner is the winning player, or NoPlayer while the game continues.
	Winner int
}

func noOutcome() Outcome {
	return Outcome{Winner: NoPlayer}
}

// Apply executes one action against the game state. Every precondition is
// checked before the first mutation, so an error return means the state did
// not change. Successful actions are appended to the history log.
func (g *Game) Apply(action Action) (Outcome, error) {
	if g.State.GameOver() {
		return noOutcome(), fmt.Errorf("%w: game is already over", ErrIllegalAction)
	}

	switch action.Type {
	case ActionDraw:
		return g.applyDraw(action)
	case ActionPoints:
		return g.applyPoints(action)
	case ActionFaceCard:
		return g.applyFaceCard(action)
	case ActionJack:
		return g.applyJack(action)
	case ActionScuttle:
		return g.applyScuttle(action)
	case ActionOneOff:
		return g.applyOneOff(action)
	case ActionCounter:
		return g.applyCounter(action)
	case ActionResolve:
		return g.applyResolve(action)
	case ActionTakeFromDiscard:
		return g.applyTakeFromDiscard(action)
	case ActionDiscardFromHand:
		return g.applyDiscardFromHand(action)
	default:
		return noOutcome(), fmt.Errorf("%w: unknown action type %d", ErrIllegalAction, action.Type)
	}
}

// requireBase rejects main-phase actions submitted mid-resolution or by a
// player whose turn it is not.
func (g *Game) requireBase(action Action) error {
	s := g.State
	if s.Phase.Kind != PhaseBase {
		return fmt.Errorf("%w: %s not allowed during %s", ErrIllegalAction, action.Type, s.Phase.Kind)
	}
	if action.PlayedBy != s.Turn {
		return fmt.Errorf("%w: not player %d's turn", ErrIllegalAction, action.PlayedBy)
	}
	return nil
}

func requireCard(action Action) error {
	if action.Card == nil {
		return fmt.Errorf("%w: %s requires a card", ErrIllegalAction, action.Type)
	}
	return nil
}

// finishTurn closes the root turn, stopping the game instead when the
// action lifted a player to their target.
func (g *Game) finishTurn(actor int) (Outcome, error) {
	s := g.State
	if w := s.winnerFavoring(actor); w != NoPlayer {
		s.Status = StatusWin
		return Outcome{TurnFinished: true, ShouldStop: true, Winner: w}, nil
	}
	return Outcome{TurnFinished: true, Winner: NoPlayer}, nil
}

func (g *Game) applyDraw(action Action) (Outcome, error) {
	s := g.State
	if err := g.requireBase(action); err != nil {
		return noOutcome(), err
	}
	if len(s.Deck) == 0 {
		return noOutcome(), fmt.Errorf("%w: deck is empty", ErrIllegalAction)
	}
	if len(s.Hands[s.Turn]) >= HandLimit {
		return noOutcome(), fmt.Errorf("%w: player %d already holds %d cards", ErrHandFull, s.Turn, HandLimit)
	}

	card := s.Deck[len(s.Deck)-1]
	s.Deck = s.Deck[:len(s.Deck)-1]
	s.Hands[s.Turn] = append(s.Hands[s.Turn], card)

	g.record(history.NewDrawEntry(s.Turn, ref(card)))
	return Outcome{TurnFinished: true, Winner: NoPlayer}, nil
}

func (g *Game) applyPoints(action Action) (Outcome, error) {
	s := g.State
	if err := g.requireBase(action); err != nil {
		return noOutcome(), err
	}
	if err := requireCard(action); err != nil {
		return noOutcome(), err
	}
	card := action.Card
	if !s.HandContains(s.Turn, card) {
		return noOutcome(), fmt.Errorf("%w: %s is not in player %d's hand", ErrCardMissing, card, s.Turn)
	}
	if !card.IsPointCard() {
		return noOutcome(), fmt.Errorf("%w: %s is not a point card", ErrIllegalAction, card)
	}

	s.RemoveFromHand(s.Turn, card)
	card.Purpose = PurposePoints
	card.PlayedBy = s.Turn
	s.Fields[s.Turn] = append(s.Fields[s.Turn], card)

	g.record(history.NewPointsEntry(s.Turn, ref(card), card.PointValue()))
	return g.finishTurn(s.Turn)
}

func (g *Game) applyFaceCard(action Action) (Outcome, error) {
	s := g.State
	if err := g.requireBase(action); err != nil {
		return noOutcome(), err
	}
	if err := requireCard(action); err != nil {
		return noOutcome(), err
	}
	card := action.Card
	if !s.HandContains(s.Turn, card) {
		return noOutcome(), fmt.Errorf("%w: %s is not in player %d's hand", ErrCardMissing, card, s.Turn)
	}
	if card.Rank != RankKing && card.Rank != RankQueen {
		return noOutcome(), fmt.Errorf("%w: %s cannot be played as a face card", ErrIllegalAction, card)
	}

	s.RemoveFromHand(s.Turn, card)
	card.Purpose = PurposeFaceCard
	card.PlayedBy = s.Turn
	s.Fields[s.Turn] = append(s.Fields[s.Turn], card)

	g.record(history.NewFaceCardEntry(s.Turn, ref(card)))
	return g.finishTurn(s.Turn)
}

func (g *Game) applyJack(action Action) (Outcome, error) {
	s := g.State
	if err := g.requireBase(action); err != nil {
		return noOutcome(), err
	}
	if err := requireCard(action); err != nil {
		return noOutcome(), err
	}
	card := action.Card
	if !s.HandContains(s.Turn, card) {
		return noOutcome(), fmt.Errorf("%w: %s is not in player %d's hand", ErrCardMissing, card, s.Turn)
	}
	if card.Rank != RankJack {
		return noOutcome(), fmt.Errorf("%w: %s is not a jack", ErrIllegalAction, card)
	}
	target := action.Target
	if target == nil {
		return noOutcome(), fmt.Errorf("%w: jack requires a point card to steal", ErrTargetMissing)
	}
	opp := s.Opponent(s.Turn)
	if s.queenOnField(opp) {
		return noOutcome(), fmt.Errorf("%w: queen on player %d's field", ErrJackBlocked, opp)
	}
	if !target.IsPointCard() || target.Purpose != PurposePoints {
		return noOutcome(), fmt.Errorf("%w: %s is not a point card in play", ErrJackBlocked, target)
	}
	if !s.controlsPoint(opp, target) {
		return noOutcome(), fmt.Errorf("%w: %s is not controlled by player %d", ErrTargetMissing, target, opp)
	}

	cardRef, targetRef := ref(card), ref(target)
	s.RemoveFromHand(s.Turn, card)
	card.Purpose = PurposeJack
	card.PlayedBy = s.Turn
	target.Attachments = append(target.Attachments, card)

	g.record(history.NewJackEntry(s.Turn, cardRef, targetRef))
	return g.finishTurn(s.Turn)
}

func (g *Game) applyScuttle(action Action) (Outcome, error) {
	s := g.State
	if err := g.requireBase(action); err != nil {
		return noOutcome(), err
	}
	if err := requireCard(action); err != nil {
		return noOutcome(), err
	}
	card := action.Card
	if !s.HandContains(s.Turn, card) {
		return noOutcome(), fmt.Errorf("%w: %s is not in player %d's hand", ErrCardMissing, card, s.Turn)
	}
	target := action.Target
	if target == nil {
		return noOutcome(), fmt.Errorf("%w: scuttle requires a target", ErrTargetMissing)
	}
	opp := s.Opponent(s.Turn)
	if !s.FieldContains(opp, target) || target.Purpose != PurposePoints {
		return noOutcome(), fmt.Errorf("%w: %s is not a point card on player %d's field", ErrTargetMissing, target, opp)
	}
	if target.IsStolen() {
		return noOutcome(), fmt.Errorf("%w: %s is controlled by player %d", ErrTargetMissing, target, s.Turn)
	}
	if !card.CanScuttle(target) {
		return noOutcome(), fmt.Errorf("%w: %s cannot take %s", ErrScuttleInvalid, card, target)
	}

	cardRef, targetRef := ref(card), ref(target)
	s.RemoveFromHand(s.Turn, card)
	s.ToDiscard(card)
	s.RemoveFromField(opp, target)
	s.ToDiscard(target)

	g.record(history.NewScuttleEntry(s.Turn, cardRef, targetRef))
	return g.finishTurn(s.Turn)
}

func (g *Game) applyOneOff(action Action) (Outcome, error) {
	s := g.State
	if err := g.requireBase(action); err != nil {
		return noOutcome(), err
	}
	if err := requireCard(action); err != nil {
		return noOutcome(), err
	}
	card := action.Card
	if !s.HandContains(s.Turn, card) {
		return noOutcome(), fmt.Errorf("%w: %s is not in player %d's hand", ErrCardMissing, card, s.Turn)
	}
	if !card.IsOneOff() {
		return noOutcome(), fmt.Errorf("%w: %s has no one-off effect", ErrIllegalAction, card)
	}

	// The card stays in hand until the counter chain settles; the driver
	// hands the next decision to the opponent.
	s.Phase = Phase{Kind: PhaseResolvingOneOff, OneOff: card}

	g.record(history.NewOneOffEntry(s.Turn, ref(card)))
	return Outcome{Winner: NoPlayer}, nil
}

func (g *Game) applyCounter(action Action) (Outcome, error) {
	s := g.State
	if s.Phase.Kind != PhaseResolvingOneOff {
		return noOutcome(), fmt.Errorf("%w: no one-off to counter", ErrIllegalAction)
	}
	q := s.CurrentActionPlayer
	if action.PlayedBy != q {
		return noOutcome(), fmt.Errorf("%w: not player %d's decision", ErrIllegalAction, action.PlayedBy)
	}
	if err := requireCard(action); err != nil {
		return noOutcome(), err
	}
	card := action.Card
	if card.Rank != RankTwo {
		return noOutcome(), fmt.Errorf("%w: %s is not a two", ErrCounterBlocked, card)
	}
	if !s.HandContains(q, card) {
		return noOutcome(), fmt.Errorf("%w: %s is not in player %d's hand", ErrCounterBlocked, card, q)
	}
	if s.queenOnField(s.Opponent(q)) {
		return noOutcome(), fmt.Errorf("%w: queen on player %d's field", ErrCounterBlocked, s.Opponent(q))
	}

	cardRef, targetRef := ref(card), ref(s.Phase.OneOff)
	s.RemoveFromHand(q, card)
	s.ToDiscard(card)
	s.Phase.Counters++

	g.record(history.NewCounterEntry(q, cardRef, targetRef, s.Phase.Counters))
	return Outcome{Winner: NoPlayer}, nil
}

func (g *Game) applyResolve(action Action) (Outcome, error) {
	s := g.State
	if s.Phase.Kind != PhaseResolvingOneOff {
		return noOutcome(), fmt.Errorf("%w: no one-off to resolve", ErrIllegalAction)
	}
	resolver := s.CurrentActionPlayer
	if action.PlayedBy != resolver {
		return noOutcome(), fmt.Errorf("%w: not player %d's decision", ErrIllegalAction, action.PlayedBy)
	}

	oneOff := s.Phase.OneOff
	counters := s.Phase.Counters
	applied := counters%2 == 0
	targetRef := ref(oneOff)

	// Close the chain before the effect runs; the effect may open a three
	// or four phase of its own.
	s.Phase.Reset()
	s.CurrentActionPlayer = s.Turn
	s.RemoveFromHand(s.Turn, oneOff)

	if !applied {
		s.ToDiscard(oneOff)
		g.record(history.NewResolveEntry(resolver, targetRef, false, counters))
		return Outcome{TurnFinished: true, Winner: NoPlayer}, nil
	}

	oneOff.Purpose = PurposeOneOff
	oneOff.PlayedBy = s.Turn
	finished := g.applyOneOffEffect(oneOff)
	s.ToDiscard(oneOff)

	g.record(history.NewResolveEntry(resolver, targetRef, true, counters))
	if !finished {
		return Outcome{Winner: NoPlayer}, nil
	}
	return g.finishTurn(s.Turn)
}

// applyOneOffEffect mutates state for an uncountered one-off and reports
// whether the turn finished. Threes and fours park a follow-up phase and
// return false; the one-off card itself is not yet in the discard pile
// when the effect runs.
func (g *Game) applyOneOffEffect(card *Card) bool {
	s := g.State
	switch card.Rank {
	case RankAce:
		for p := 0; p < 2; p++ {
			var points []*Card
			for _, c := range s.Fields[p] {
				if c.IsPointCard() && c.Purpose == PurposePoints {
					points = append(points, c)
				}
			}
			for _, c := range points {
				s.RemoveFromField(p, c)
				s.ToDiscard(c)
			}
		}
	case RankThree:
		if len(s.Discard) == 0 {
			return true
		}
		s.Phase = Phase{Kind: PhaseResolvingThree, OneOff: card}
	case RankFour:
		opp := s.Opponent(s.Turn)
		if len(s.Hands[opp]) == 0 {
			return true
		}
		s.Phase = Phase{
			Kind:          PhaseResolvingFour,
			FourPlayer:    opp,
			FourRemaining: min(2, len(s.Hands[opp])),
		}
		s.CurrentActionPlayer = opp
	case RankFive:
		n := min(2, HandLimit-len(s.Hands[s.Turn]), len(s.Deck))
		for i := 0; i < n; i++ {
			c := s.Deck[len(s.Deck)-1]
			s.Deck = s.Deck[:len(s.Deck)-1]
			s.Hands[s.Turn] = append(s.Hands[s.Turn], c)
		}
	case RankSix:
		for p := 0; p < 2; p++ {
			var faces []*Card
			for _, c := range s.Fields[p] {
				if c.IsFaceCard() && c.Purpose == PurposeFaceCard {
					faces = append(faces, c)
				}
			}
			for _, c := range faces {
				s.RemoveFromField(p, c)
				s.ToDiscard(c)
			}
		}
	}
	return s.Phase.Kind == PhaseBase
}

func (g *Game) applyTakeFromDiscard(action Action) (Outcome, error) {
	s := g.State
	if s.Phase.Kind != PhaseResolvingThree {
		return noOutcome(), fmt.Errorf("%w: no three effect to resolve", ErrIllegalAction)
	}
	if action.PlayedBy != s.Turn {
		return noOutcome(), fmt.Errorf("%w: not player %d's decision", ErrIllegalAction, action.PlayedBy)
	}
	if err := requireCard(action); err != nil {
		return noOutcome(), err
	}
	card := action.Card
	if !s.DiscardContains(card) {
		return noOutcome(), fmt.Errorf("%w: %s is not in the discard pile", ErrCardMissing, card)
	}
	if s.Phase.OneOff != nil && card.ID == s.Phase.OneOff.ID {
		return noOutcome(), fmt.Errorf("%w: cannot take back the three that is resolving", ErrIllegalAction)
	}

	cardRef := ref(card)
	s.RemoveFromDiscard(card)
	card.ClearPlayerInfo()
	s.Hands[s.Turn] = append(s.Hands[s.Turn], card)
	s.Phase.Reset()

	g.record(history.NewTakeFromDiscardEntry(s.Turn, cardRef))
	return Outcome{TurnFinished: true, Winner: NoPlayer}, nil
}

func (g *Game) applyDiscardFromHand(action Action) (Outcome, error) {
	s := g.State
	if s.Phase.Kind != PhaseResolvingFour {
		return noOutcome(), fmt.Errorf("%w: no four effect to resolve", ErrIllegalAction)
	}
	p := s.Phase.FourPlayer
	if action.PlayedBy != p {
		return noOutcome(), fmt.Errorf("%w: not player %d's decision", ErrIllegalAction, action.PlayedBy)
	}
	if err := requireCard(action); err != nil {
		return noOutcome(), err
	}
	card := action.Card
	if !s.HandContains(p, card) {
		return noOutcome(), fmt.Errorf("%w: %s is not in player %d's hand", ErrCardMissing, card, p)
	}

	cardRef := ref(card)
	s.RemoveFromHand(p, card)
	s.ToDiscard(card)
	s.Phase.FourRemaining--

	g.record(history.NewDiscardFromHandEntry(p, cardRef))
	if s.Phase.FourRemaining <= 0 || len(s.Hands[p]) == 0 {
		s.Phase.Reset()
		return Outcome{TurnFinished: true, Winner: NoPlayer}, nil
	}
	return Outcome{Winner: NoPlayer}, nil
}
