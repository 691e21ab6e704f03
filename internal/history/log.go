package history

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Recorder receives applied-action entries from the resolver. The engine
// only ever writes; reading back is a driver and test concern.
type Recorder interface {
	Record(entry Entry)
	Entries() []Entry
}

// --- Log: stores entries in memory and serves queries ---

type Log struct {
	entries []Entry
}

func NewLog() *Log {
	return &Log{}
}

func (l *Log) Record(entry Entry) {
	l.entries = append(l.entries, entry)
}

func (l *Log) Entries() []Entry {
	return l.entries
}

func (l *Log) Len() int {
	return len(l.entries)
}

// Last returns the most recent entry, or a zero entry if none.
func (l *Log) Last() Entry {
	if len(l.entries) == 0 {
		return Entry{}
	}
	return l.entries[len(l.entries)-1]
}

// ByPlayer returns all entries recorded for the given player.
func (l *Log) ByPlayer(player int) []Entry {
	var result []Entry
	for _, e := range l.entries {
		if e.Player == player {
			result = append(result, e)
		}
	}
	return result
}

// ByType returns all entries with the given action type label.
func (l *Log) ByType(action string) []Entry {
	var result []Entry
	for _, e := range l.entries {
		if e.Action == action {
			result = append(result, e)
		}
	}
	return result
}

// ByTurnRange returns all entries whose turn lies in [start, end].
func (l *Log) ByTurnRange(start, end int) []Entry {
	var result []Entry
	for _, e := range l.entries {
		if e.Turn >= start && e.Turn <= end {
			result = append(result, e)
		}
	}
	return result
}

// Involving returns all entries where the card appears as card or target.
func (l *Log) Involving(cardID string) []Entry {
	var result []Entry
	for _, e := range l.entries {
		if (e.Card != nil && e.Card.ID == cardID) || (e.Target != nil && e.Target.ID == cardID) {
			result = append(result, e)
		}
	}
	return result
}

// LastN returns the most recent n entries in chronological order.
func (l *Log) LastN(n int) []Entry {
	if n >= len(l.entries) {
		return append([]Entry(nil), l.entries...)
	}
	return append([]Entry(nil), l.entries[len(l.entries)-n:]...)
}

type logJSON struct {
	Entries []Entry `json:"entries"`
}

func (l *Log) MarshalJSON() ([]byte, error) {
	return json.Marshal(logJSON{Entries: l.entries})
}

func (l *Log) UnmarshalJSON(data []byte) error {
	var lj logJSON
	if err := json.Unmarshal(data, &lj); err != nil {
		return err
	}
	l.entries = lj.Entries
	return nil
}

// --- TextLog: writes human-readable lines to an io.Writer ---

type TextLog struct {
	Log
	w io.Writer
}

func NewTextLog(w io.Writer) *TextLog {
	return &TextLog{w: w}
}

func (l *TextLog) Record(entry Entry) {
	l.Log.Record(entry)
	fmt.Fprintln(l.w, FormatEntry(entry))
}

// --- Formatting ---

// FormatEntry formats a single entry as a human-readable line.
func FormatEntry(e Entry) string {
	return fmt.Sprintf("T%-2d P%d | %s", e.Turn, e.Player, e.Description)
}

// FormatAll formats all entries as a multi-line string.
func FormatAll(entries []Entry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(FormatEntry(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}
