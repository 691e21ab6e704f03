package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/cuttle/internal/game"
	"github.com/peterkuimelis/cuttle/internal/history"
	cuttleserver "github.com/peterkuimelis/cuttle/internal/server"
	"github.com/peterkuimelis/cuttle/internal/session"
)

// Service exposes a session store as MCP tools. One stdio process can run
// any number of concurrent games; tools address them by session id.
type Service struct {
	store *session.Store
}

// NewService creates a tool service over the given store.
func NewService(store *session.Store) *Service {
	return &Service{store: store}
}

// Register adds all Cuttle tools to the MCP server.
func (svc *Service) Register(s *server.MCPServer) {
	s.AddTool(startGameTool(), svc.handleStartGame)
	s.AddTool(getStateTool(), svc.handleGetState)
	s.AddTool(listActionsTool(), svc.handleListActions)
	s.AddTool(playActionTool(), svc.handlePlayAction)
	s.AddTool(getHistoryTool(), svc.handleGetHistory)
	s.AddTool(endGameTool(), svc.handleEndGame)
}

// toolResponse is the JSON envelope returned by the state-bearing tools.
type toolResponse struct {
	SessionID    string                    `json:"session_id"`
	State        *cuttleserver.StateView   `json:"state,omitempty"`
	LegalActions []cuttleserver.ActionView `json:"legal_actions"`
	LastActions  []cuttleserver.ActionView `json:"last_actions,omitempty"`
	StateVersion int                       `json:"state_version"`
	Status       string                    `json:"status"`
	GameOver     bool                      `json:"game_over"`
	Winner       int                       `json:"winner"` // -1 while undecided
}

// historyToolResponse is the envelope for cuttle_get_history.
type historyToolResponse struct {
	SessionID string   `json:"session_id"`
	Lines     []string `json:"lines"`
	Count     int      `json:"count"`
}

// --- Tool definitions ---

func startGameTool() mcp.Tool {
	return mcp.NewTool("cuttle_start_game",
		mcp.WithDescription("Start a new Cuttle game. Returns the session id, the dealt state, and the legal actions "+
			"for player 0 (you). With use_ai (the default) the server plays seat 1 and keeps that hand face down."),
		mcp.WithBoolean("use_ai", mcp.Description("Let the server play seat 1 automatically (default true)")),
		mcp.WithNumber("seed", mcp.Description("Shuffle seed for a reproducible deal; 0 or omitted draws one from the clock")),
	)
}

func getStateTool() mcp.Tool {
	return mcp.NewTool("cuttle_get_state",
		mcp.WithDescription("Get the current state of a game session without changing it. Read-only."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id from cuttle_start_game")),
	)
}

func listActionsTool() mcp.Tool {
	return mcp.NewTool("cuttle_list_actions",
		mcp.WithDescription("List the legal actions for whoever must act next, with the action ids and state version "+
			"that cuttle_play_action expects."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id from cuttle_start_game")),
	)
}

func playActionTool() mcp.Tool {
	return mcp.NewTool("cuttle_play_action",
		mcp.WithDescription("Play one legal action by id. The response carries the new state, the next legal actions, "+
			"and every action applied, including the automatic opponent's replies."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id from cuttle_start_game")),
		mcp.WithNumber("action_id", mcp.Required(), mcp.Description("0-based id from the most recent legal-action list")),
		mcp.WithNumber("state_version", mcp.Required(), mcp.Description("State version the action list was read at; a stale version is rejected")),
	)
}

func getHistoryTool() mcp.Tool {
	return mcp.NewTool("cuttle_get_history",
		mcp.WithDescription("Get the game's event log as formatted lines, oldest first. Read-only."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id from cuttle_start_game")),
		mcp.WithNumber("last", mcp.Description("Return only the most recent N entries (default all)")),
	)
}

func endGameTool() mcp.Tool {
	return mcp.NewTool("cuttle_end_game",
		mcp.WithDescription("End a game session and discard its state."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id from cuttle_start_game")),
	)
}

// --- Tool handlers ---

func (svc *Service) handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	useAI := request.GetBool("use_ai", true)
	seed := request.GetInt("seed", 0)

	sess, err := svc.store.Create(session.CreateOptions{UseAI: useAI, Seed: int64(seed)})
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start game: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(svc.render(sess, nil))), nil
}

func (svc *Service) handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := svc.lookup(request)
	if errResult != nil {
		return errResult, nil
	}
	return mcp.NewToolResultText(respondJSON(svc.render(sess, nil))), nil
}

func (svc *Service) handleListActions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := svc.lookup(request)
	if errResult != nil {
		return errResult, nil
	}
	resp := svc.render(sess, nil)
	resp.State = nil
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (svc *Service) handlePlayAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("session_id", "")
	actionID := request.GetInt("action_id", -1)
	stateVersion := request.GetInt("state_version", -1)

	res, err := svc.store.Submit(ctx, id, stateVersion, actionID)
	if err != nil {
		return playError(err, stateVersion, actionID), nil
	}
	return mcp.NewToolResultText(respondJSON(svc.render(res.Session, res.Applied))), nil
}

func (svc *Service) handleGetHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := svc.lookup(request)
	if errResult != nil {
		return errResult, nil
	}
	last := request.GetInt("last", 0)

	sess.Lock()
	entries := sess.Game.History.Entries()
	sess.Unlock()
	if last > 0 && last < len(entries) {
		entries = entries[len(entries)-last:]
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, history.FormatEntry(e))
	}
	return mcp.NewToolResultText(respondJSON(historyToolResponse{
		SessionID: sess.ID,
		Lines:     lines,
		Count:     len(lines),
	})), nil
}

func (svc *Service) handleEndGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("session_id", "")
	if id == "" {
		return mcp.NewToolResultError("session_id is required."), nil
	}
	if err := svc.store.Delete(id); err != nil {
		return mcp.NewToolResultErrorf("No session %q.", id), nil
	}
	return mcp.NewToolResultText(`{"deleted": true}`), nil
}

// lookup fetches the request's session, or builds the error result the
// handler should return as-is.
func (svc *Service) lookup(request mcp.CallToolRequest) (*session.Session, *mcp.CallToolResult) {
	id := request.GetString("session_id", "")
	if id == "" {
		return nil, mcp.NewToolResultError("session_id is required.")
	}
	sess, err := svc.store.Get(id)
	if err != nil {
		return nil, mcp.NewToolResultErrorf("No session %q. Use cuttle_start_game first.", id)
	}
	return sess, nil
}

// render builds the response envelope under the session lock. applied is
// the action trail from a submit, or nil for read-only tools.
func (svc *Service) render(sess *session.Session, applied []game.Action) *toolResponse {
	sess.Lock()
	defer sess.Unlock()

	hide := cuttleserver.HideNone
	if sess.UseAI {
		hide = 1
	}
	state := cuttleserver.NewStateView(sess.Game.State, sess.UseAI, hide)
	resp := &toolResponse{
		SessionID:    sess.ID,
		State:        &state,
		LegalActions: cuttleserver.NewActionViews(sess.LegalActions()),
		StateVersion: sess.StateVersion,
		Status:       sess.Status,
		GameOver:     sess.Status == session.StatusEnded,
		Winner:       sess.Game.State.Winner(),
	}
	if len(applied) > 0 {
		resp.LastActions = cuttleserver.AppliedActionViews(applied)
	}
	return resp
}

// playError translates store errors into messages that tell the caller what
// to do next.
func playError(err error, stateVersion, actionID int) *mcp.CallToolResult {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return mcp.NewToolResultError("No such session. Use cuttle_start_game first.")
	case errors.Is(err, session.ErrVersionConflict):
		return mcp.NewToolResultErrorf("Stale state_version %d. Call cuttle_list_actions and retry with the current version.", stateVersion)
	case errors.Is(err, session.ErrNoActions):
		return mcp.NewToolResultError("The game is over; no actions remain.")
	case errors.Is(err, session.ErrInvalidAction):
		return mcp.NewToolResultErrorf("Invalid action_id %d. Pick an id from cuttle_list_actions.", actionID)
	default:
		return mcp.NewToolResultErrorf("Play action: %v", err)
	}
}

// respondJSON marshals a tool response to a JSON string.
func respondJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
