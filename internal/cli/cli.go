// Package cli implements the interactive terminal driver: startup prompts,
// the turn loop, and save/load around a single game at a time.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/peterkuimelis/cuttle/internal/game"
	"github.com/peterkuimelis/cuttle/internal/history"
)

// Config wires the driver. In and Out default to stdin/stdout; the
// directories default to the classic ones next to the binary.
type Config struct {
	VsAI         bool   // seat 1 is played by a seeded random chooser
	Seed         int64  // shuffle and chooser seed (0 draws one from the clock)
	SaveDir      string // snapshot files, default "saved_games"
	HistoryDir   string // end-of-game history dumps, default "game_history"
	ScenarioFile string // optional YAML of arranged decks
	ScenarioName string // scenario to start from; requires ScenarioFile

	In  io.Reader
	Out io.Writer
}

// App runs the terminal driver.
type App struct {
	cfg Config
	in  *bufio.Reader
	out io.Writer
	ai  game.Chooser
	now func() time.Time
}

// New builds a driver from the config, filling in defaults.
func New(cfg Config) *App {
	if cfg.SaveDir == "" {
		cfg.SaveDir = "saved_games"
	}
	if cfg.HistoryDir == "" {
		cfg.HistoryDir = "game_history"
	}
	var in io.Reader = cfg.In
	if in == nil {
		in = os.Stdin
	}
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}

	app := &App{
		cfg: cfg,
		in:  bufio.NewReader(in),
		out: out,
		now: time.Now,
	}
	if cfg.VsAI {
		app.ai = game.NewRandomChooser(cfg.Seed)
	}
	return app
}

// Run drives games until the player declines another round. A finished
// game is not an error; only setup failures are.
func (a *App) Run(ctx context.Context) error {
	for {
		g, err := a.initGame()
		if err != nil {
			return err
		}

		a.printf("\nStarting game...\n")
		a.renderState(g.State)

		winner, err := a.gameLoop(ctx, g)
		if err != nil {
			return err
		}

		if winner == game.NoPlayer {
			a.printf("Game over!\n")
		} else {
			a.printf("Game over! Winner is player %d\n", winner)
		}
		a.renderState(g.State)

		if a.askYesNo("Would you like to save the game history?") {
			if err := a.saveHistory(g); err != nil {
				a.printf("Error saving history: %v\n", err)
			}
		}

		if !a.cfg.VsAI || !a.askYesNo("Would you like to play again?") {
			return nil
		}
	}
}

// initGame builds the next game from the startup prompts: load a save,
// start from a scenario, or deal fresh (optionally with picked hands).
func (a *App) initGame() (*game.Game, error) {
	if a.cfg.ScenarioName != "" && a.cfg.ScenarioFile == "" {
		return nil, fmt.Errorf("scenario %q given without a scenario file", a.cfg.ScenarioName)
	}

	if a.askYesNo("Would you like to load a saved game?") {
		if g := a.loadSavedGame(); g != nil {
			return g, nil
		}
	}

	opts := game.Options{Seed: a.cfg.Seed, History: a.newRecorder()}
	if a.cfg.ScenarioName != "" {
		sc, err := game.ScenarioByName(a.cfg.ScenarioFile, a.cfg.ScenarioName)
		if err != nil {
			return nil, err
		}
		deck, err := sc.Deck()
		if err != nil {
			return nil, err
		}
		opts.TestDeck = deck
	} else if a.askYesNo("Would you like to manually select initial cards?") {
		opts.ManualSelection = true
		opts.Picker = &consolePicker{app: a}
	}

	g, err := game.NewGame(opts)
	if err != nil {
		return nil, err
	}

	if a.askYesNo("Would you like to save this initial game state?") {
		a.saveGamePrompt(g)
	}
	return g, nil
}

// newRecorder picks the game's history recorder. Hotseat games get live
// narration; AI games stay on the memory log since a draw line would name
// the hidden card.
func (a *App) newRecorder() history.Recorder {
	if a.cfg.VsAI {
		return history.NewLog()
	}
	return history.NewTextLog(a.out)
}

// gameLoop runs one game to completion. It returns the winner, or
// game.NoPlayer when the player ends the game early, the input runs out,
// or the board stalls.
func (a *App) gameLoop(ctx context.Context, g *game.Game) (int, error) {
	const maxInvalidInputs = 5
	invalid := 0

	for {
		if g.State.Turn == 0 && g.State.Phase.Kind == game.PhaseBase {
			a.printf("================ Turn %d =================\n", g.State.OverallTurn)
		}

		turnFinished := false
		for !turnFinished {
			actions := g.State.LegalActions()
			if len(actions) == 0 {
				a.printf("Stalemate!\n")
				return game.NoPlayer, nil
			}

			a.printf("Actions for player %d:\n", g.State.CurrentActionPlayer)
			for i, act := range actions {
				a.printf("%d: %s\n", i, act)
			}

			var chosen game.Action
			if a.cfg.VsAI && g.State.CurrentActionPlayer == 1 {
				chosen = a.aiAction(ctx, g.State, actions)
			} else {
				idx, quit, ok := a.readAction(g.State.CurrentActionPlayer, actions)
				if quit {
					return game.NoPlayer, nil
				}
				if !ok {
					a.printf("Invalid input, please enter a number\n")
					invalid++
					if invalid >= maxInvalidInputs {
						a.printf("Too many invalid inputs (%d). Game terminated.\n", maxInvalidInputs)
						return game.NoPlayer, nil
					}
					continue
				}
				invalid = 0
				chosen = actions[idx]
			}

			a.printf("Player %d chose %s\n", g.State.CurrentActionPlayer, chosen)

			out, err := g.Apply(chosen)
			if err != nil {
				a.printf("Invalid action: %v\n", err)
				continue
			}
			if out.ShouldStop {
				return out.Winner, nil
			}

			turnFinished = out.TurnFinished
			if turnFinished {
				a.renderState(g.State)
			}
			g.State.Advance(turnFinished)
		}
	}
}

// aiAction asks the chooser, falling back to the first action so a
// chooser failure never stalls the game.
func (a *App) aiAction(ctx context.Context, st *game.State, actions []game.Action) game.Action {
	a.printf("AI is thinking...\n")
	chosen, err := a.ai.ChooseAction(ctx, st, actions)
	if err != nil {
		a.printf("AI error: %v. Defaulting to first action.\n", err)
		return actions[0]
	}
	a.printf("AI chose: %s\n", chosen)
	return chosen
}

// readAction reads one action pick: a bare index, an exact label, or 'e'
// to end the game. ok is false when the input matched nothing.
func (a *App) readAction(player int, actions []game.Action) (idx int, quit, ok bool) {
	a.printf("Enter your action for player %d ('e' to end game): ", player)
	line, alive := a.readLine()
	if !alive {
		return 0, true, false
	}
	if strings.EqualFold(line, "e") || strings.EqualFold(line, "end game") {
		return 0, true, false
	}
	if i, found := actionIndexFromInput(line, actions); found {
		return i, false, true
	}
	return 0, false, false
}

// actionIndexFromInput resolves a typed pick against the action list:
// either the action's number or a case-insensitive match of its label.
func actionIndexFromInput(input string, actions []game.Action) (int, bool) {
	input = strings.TrimSpace(input)
	if n, err := strconv.Atoi(input); err == nil {
		if n >= 0 && n < len(actions) {
			return n, true
		}
		return 0, false
	}
	for i, act := range actions {
		if strings.EqualFold(input, act.String()) {
			return i, true
		}
	}
	return 0, false
}

// renderState prints the board: scores, targets, hands, and effective
// fields per seat, then the deck and discard piles. In AI mode seat 1's
// hand stays hidden.
func (a *App) renderState(st *game.State) {
	if w := st.Winner(); w != game.NoPlayer {
		a.printf("Player %d wins!\n", w)
		return
	}
	if st.IsStalemate() {
		a.printf("Stalemate!\n")
		return
	}

	a.printf("\n====================\n")
	a.printf("Turn: Player %d (Overall Turn: %d)\n", st.Turn, st.OverallTurn)
	a.printf("Current Action Player: %d\n", st.CurrentActionPlayer)

	for p := 0; p < 2; p++ {
		a.printf("--------------------\n")
		a.printf("Player %d: Score = %d, Target = %d\n", p, st.PlayerScore(p), st.PlayerTarget(p))
		if a.cfg.VsAI && p == 1 {
			a.printf("  Hand: [%d cards hidden]\n", len(st.Hands[p]))
		} else {
			a.printf("  Hand: [%s]\n", joinCards(st.Hands[p]))
		}
		a.printf("  Field: [%s]\n", joinCards(st.PlayerField(p)))
	}

	a.printf("--------------------\n")
	a.printf("Deck: %d cards remaining\n", len(st.Deck))
	a.printf("Discard Pile: [%s]\n", joinCards(st.Discard))
	if st.Phase.Kind == game.PhaseResolvingOneOff {
		a.printf("Resolving one-off: %s (%d counters)\n", st.Phase.OneOff, st.Phase.Counters)
	}
	a.printf("====================\n\n")
}

func joinCards(cards []*game.Card) string {
	parts := make([]string, 0, len(cards))
	for _, c := range cards {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, ", ")
}

// consolePicker implements game.HandPicker over the terminal: a numbered
// pool, one pick per line, 'done' to stop early.
type consolePicker struct {
	app *App
}

func (p *consolePicker) Pick(player int, available []*game.Card, max int) []*game.Card {
	a := p.app
	a.printf("\nSelecting cards for Player %d (max %d cards):\n", player, max)

	var picked []*game.Card
	for len(picked) < max {
		a.printf("\nAvailable cards:\n")
		for i, c := range available {
			a.printf("%d: %s\n", i, c)
		}
		line, ok := a.prompt(fmt.Sprintf("Enter card number to select (or 'done' to finish Player %d's selection): ", player))
		if !ok || strings.EqualFold(line, "done") {
			break
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			a.printf("Invalid input. Please enter a number or 'done'\n")
			continue
		}
		if n < 0 || n >= len(available) {
			a.printf("Invalid card number\n")
			continue
		}
		c := available[n]
		picked = append(picked, c)
		available = append(available[:n], available[n+1:]...)
		a.printf("Selected: %s\n", c)
	}
	return picked
}

// --- Saves and history ---

// loadSavedGame lists the save dir and restores the chosen file. A nil
// return means the player cancelled or the load failed; the caller deals
// a new game instead.
func (a *App) loadSavedGame() *game.Game {
	saves, err := a.listSavedGames()
	if err != nil || len(saves) == 0 {
		a.printf("No saved games found.\n")
		return nil
	}

	a.printf("\nAvailable saved games:\n")
	for i, name := range saves {
		a.printf("%d: %s\n", i, name)
	}

	for {
		line, ok := a.prompt("Enter the number of the game to load (or 'cancel'): ")
		if !ok || strings.EqualFold(line, "cancel") {
			return nil
		}
		idx, err := strconv.Atoi(line)
		if err != nil {
			a.printf("Please enter a number or 'cancel'.\n")
			continue
		}
		if idx < 0 || idx >= len(saves) {
			a.printf("Invalid number, please try again.\n")
			continue
		}
		g, err := a.loadGame(saves[idx])
		if err != nil {
			a.printf("Error loading game: %v\n", err)
			a.printf("Starting new game instead.\n")
			return nil
		}
		a.printf("Game loaded successfully!\n")
		return g
	}
}

// listSavedGames returns the snapshot files in the save dir, sorted by
// name. A missing dir is just an empty list.
func (a *App) listSavedGames() ([]string, error) {
	entries, err := os.ReadDir(a.cfg.SaveDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// loadGame restores a snapshot file from the save dir.
func (a *App) loadGame(name string) (*game.Game, error) {
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	data, err := os.ReadFile(filepath.Join(a.cfg.SaveDir, name))
	if err != nil {
		return nil, err
	}
	return game.Restore(data, game.Options{Seed: a.cfg.Seed, History: a.newRecorder()})
}

// saveGame snapshots the game into the save dir, creating it on demand.
func (a *App) saveGame(g *game.Game, name string) (string, error) {
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	if err := os.MkdirAll(a.cfg.SaveDir, 0o755); err != nil {
		return "", err
	}
	data, err := g.Snapshot()
	if err != nil {
		return "", err
	}
	path := filepath.Join(a.cfg.SaveDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// saveGamePrompt asks for a filename until the save succeeds or the
// player gives up.
func (a *App) saveGamePrompt(g *game.Game) {
	for {
		name, ok := a.prompt("Enter filename to save to (without .json): ")
		if !ok {
			return
		}
		if name == "" {
			a.printf("Please enter a valid filename.\n")
			continue
		}
		path, err := a.saveGame(g, name)
		if err != nil {
			a.printf("Error saving game: %v\n", err)
			if !a.askYesNo("Would you like to try again?") {
				return
			}
			continue
		}
		a.printf("Game saved to %s\n", path)
		a.printf("Game saved successfully!\n")
		return
	}
}

// saveHistory writes the formatted log to a timestamped file in the
// history dir.
func (a *App) saveHistory(g *game.Game) error {
	if err := os.MkdirAll(a.cfg.HistoryDir, 0o755); err != nil {
		return err
	}
	name := fmt.Sprintf("game_history_%s.txt", a.now().Format("20060102_150405"))
	path := filepath.Join(a.cfg.HistoryDir, name)
	if err := os.WriteFile(path, []byte(history.FormatAll(g.History.Entries())), 0o644); err != nil {
		return err
	}
	a.printf("Game history saved to %s\n", path)
	return nil
}

// --- Input primitives ---

// askYesNo keeps asking until it gets y/yes or n/no. Exhausted input
// counts as no.
func (a *App) askYesNo(question string) bool {
	for {
		a.printf("%s (y/n): ", question)
		line, ok := a.readLine()
		if !ok {
			return false
		}
		switch strings.ToLower(line) {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
		a.printf("Please enter 'y' or 'n'\n")
	}
}

// prompt prints the text and reads one line.
func (a *App) prompt(text string) (string, bool) {
	a.printf("%s", text)
	return a.readLine()
}

// readLine reads one trimmed input line. ok turns false once the input
// is exhausted, which callers treat as declining or quitting.
func (a *App) readLine() (string, bool) {
	line, err := a.in.ReadString('\n')
	line = strings.TrimSpace(line)
	if err != nil && line == "" {
		return "", false
	}
	return line, true
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
