package game

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ScenarioFile represents the top-level YAML structure.
type ScenarioFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// Scenario is a named fixed deal. Cards are card codes in deal order: the
// first five go to player 0, the next six to player 1, and the remainder is
// the draw pile with the LAST code on top.
type Scenario struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Cards       []string `yaml:"cards"`
}

// Deck materializes the scenario's card list. A scenario must name all 52
// cards exactly once; the returned cards are freshly built, so a scenario
// can seed any number of games.
func (sc Scenario) Deck() ([]*Card, error) {
	if len(sc.Cards) != DeckSize {
		return nil, fmt.Errorf("scenario %q has %d cards, want %d", sc.Name, len(sc.Cards), DeckSize)
	}
	seen := make(map[string]bool, DeckSize)
	cards := make([]*Card, 0, DeckSize)
	for _, code := range sc.Cards {
		c, err := ParseCardCode(code)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
		if seen[c.Code()] {
			return nil, fmt.Errorf("scenario %q lists %s twice", sc.Name, c.Code())
		}
		seen[c.Code()] = true
		cards = append(cards, c)
	}
	return cards, nil
}

// ParseScenarioFile parses a YAML scenario file and returns the scenarios
// in file order.
func ParseScenarioFile(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sf ScenarioFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse scenario YAML: %w", err)
	}
	return sf.Scenarios, nil
}

// ScenarioByName returns the named scenario from the file.
func ScenarioByName(path, name string) (Scenario, error) {
	scenarios, err := ParseScenarioFile(path)
	if err != nil {
		return Scenario{}, err
	}
	for _, sc := range scenarios {
		if sc.Name == name {
			return sc, nil
		}
	}
	return Scenario{}, fmt.Errorf("scenario %q not found (have %d scenarios)", name, len(scenarios))
}
