package server

import "github.com/peterkuimelis/cuttle/internal/game"

// HideNone renders every hand face up.
const HideNone = -1

// CardView is the JSON shape of a card in API responses. Attachments nest
// recursively, so a jacked point card carries its jacks inline.
type CardView struct {
	ID          string     `json:"id"`
	Suit        string     `json:"suit"`
	Rank        string     `json:"rank"`
	Display     string     `json:"display"`
	PlayedBy    int        `json:"played_by"`
	Purpose     string     `json:"purpose,omitempty"`
	PointValue  int        `json:"point_value"`
	IsStolen    bool       `json:"is_stolen"`
	Attachments []CardView `json:"attachments"`
}

func newCardView(c *game.Card) CardView {
	v := CardView{
		ID:          c.ID,
		Suit:        c.Suit.Name(),
		Rank:        c.Rank.Name(),
		Display:     c.String(),
		PlayedBy:    c.PlayedBy,
		Purpose:     c.Purpose.Name(),
		PointValue:  c.PointValue(),
		IsStolen:    c.IsStolen(),
		Attachments: []CardView{},
	}
	for _, a := range c.Attachments {
		v.Attachments = append(v.Attachments, newCardView(a))
	}
	return v
}

func newCardViewPtr(c *game.Card) *CardView {
	if c == nil {
		return nil
	}
	v := newCardView(c)
	return &v
}

func cardViews(cards []*game.Card) []CardView {
	views := make([]CardView, 0, len(cards))
	for _, c := range cards {
		views = append(views, newCardView(c))
	}
	return views
}

// ActionView is the JSON shape of a legal action. ID is the action's index
// in the legal-action list it came from; actions echoed back after a submit
// use -1 since that list is gone.
type ActionView struct {
	ID       int       `json:"id"`
	Label    string    `json:"label"`
	Type     string    `json:"type"`
	PlayedBy int       `json:"played_by"`
	Source   string    `json:"source"`
	Card     *CardView `json:"card,omitempty"`
	Target   *CardView `json:"target,omitempty"`
}

func newActionView(a game.Action, id int) ActionView {
	return ActionView{
		ID:       id,
		Label:    a.String(),
		Type:     a.Type.String(),
		PlayedBy: a.PlayedBy,
		Source:   a.Source.String(),
		Card:     newCardViewPtr(a.Card),
		Target:   newCardViewPtr(a.Target),
	}
}

// NewActionViews renders a legal-action list; each view's ID is its index in
// the list, which is what submit endpoints accept as action_id.
func NewActionViews(actions []game.Action) []ActionView {
	views := make([]ActionView, 0, len(actions))
	for i, a := range actions {
		views = append(views, newActionView(a, i))
	}
	return views
}

// AppliedActionViews renders already-applied actions; their ids are -1 since
// the legal list they were picked from no longer exists.
func AppliedActionViews(actions []game.Action) []ActionView {
	views := make([]ActionView, 0, len(actions))
	for _, a := range actions {
		views = append(views, newActionView(a, -1))
	}
	return views
}

// StateView is the JSON shape of a match. Effective fields list what each
// player controls after jack steals, next to the physical fields.
type StateView struct {
	Hands               [][]CardView `json:"hands"`
	HandCounts          []int        `json:"hand_counts"`
	Fields              [][]CardView `json:"fields"`
	EffectiveFields     [][]CardView `json:"effective_fields"`
	DeckCount           int          `json:"deck_count"`
	DiscardPile         []CardView   `json:"discard_pile"`
	DiscardCount        int          `json:"discard_count"`
	Scores              []int        `json:"scores"`
	Targets             []int        `json:"targets"`
	Turn                int          `json:"turn"`
	CurrentActionPlayer int          `json:"current_action_player"`
	Status              string       `json:"status,omitempty"`
	ResolvingOneOff     bool         `json:"resolving_one_off"`
	ResolvingThree      bool         `json:"resolving_three"`
	ResolvingFour       bool         `json:"resolving_four"`
	PendingFourCount    int          `json:"pending_four_count,omitempty"`
	OverallTurn         int          `json:"overall_turn"`
	UseAI               bool         `json:"use_ai"`
	OneOffCardToCounter *CardView    `json:"one_off_card_to_counter,omitempty"`
}

// NewStateView renders the state. hideHand names a seat whose cards stay
// face down (the automatic opponent's), or HideNone.
func NewStateView(st *game.State, useAI bool, hideHand int) StateView {
	hands := make([][]CardView, 2)
	counts := make([]int, 2)
	fields := make([][]CardView, 2)
	effective := make([][]CardView, 2)
	scores := make([]int, 2)
	targets := make([]int, 2)
	for p := 0; p < 2; p++ {
		counts[p] = len(st.Hands[p])
		if p == hideHand {
			hands[p] = []CardView{}
		} else {
			hands[p] = cardViews(st.Hands[p])
		}
		fields[p] = cardViews(st.Fields[p])
		effective[p] = cardViews(st.PlayerField(p))
		scores[p] = st.PlayerScore(p)
		targets[p] = st.PlayerTarget(p)
	}

	v := StateView{
		Hands:               hands,
		HandCounts:          counts,
		Fields:              fields,
		EffectiveFields:     effective,
		DeckCount:           len(st.Deck),
		DiscardPile:         cardViews(st.Discard),
		DiscardCount:        len(st.Discard),
		Scores:              scores,
		Targets:             targets,
		Turn:                st.Turn,
		CurrentActionPlayer: st.CurrentActionPlayer,
		Status:              st.Status,
		ResolvingOneOff:     st.Phase.Kind == game.PhaseResolvingOneOff,
		ResolvingThree:      st.Phase.Kind == game.PhaseResolvingThree,
		ResolvingFour:       st.Phase.Kind == game.PhaseResolvingFour,
		OverallTurn:         st.OverallTurn,
		UseAI:               useAI,
	}
	if st.Phase.Kind == game.PhaseResolvingOneOff {
		v.OneOffCardToCounter = newCardViewPtr(st.Phase.OneOff)
	}
	if st.Phase.Kind == game.PhaseResolvingFour {
		v.PendingFourCount = st.Phase.FourRemaining
	}
	return v
}
