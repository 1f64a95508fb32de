// Package tui provides the Bubble Tea terminal UI for Hearthvale.
package tui

// History remembers recent commands for arrow-key recall. A cursor of
// -1 means the player is typing fresh input rather than browsing.
type History struct {
	entries []string
	max     int
	cursor  int
}

// NewHistory creates a history holding at most max commands.
func NewHistory(max int) *History {
	if max < 1 {
		max = 1
	}
	return &History{entries: make([]string, 0, max), max: max, cursor: -1}
}

// Push records a submitted command, dropping the oldest entry once the
// buffer is full. Repeating the previous command records nothing.
func (h *History) Push(cmd string) {
	if n := len(h.entries); n > 0 && h.entries[n-1] == cmd {
		return
	}
	if len(h.entries) == h.max {
		copy(h.entries, h.entries[1:])
		h.entries = h.entries[:h.max-1]
	}
	h.entries = append(h.entries, cmd)
}

// Prev steps toward older entries, stopping at the oldest. The first
// call from fresh input lands on the most recent command. Reports
// ("", false) only when nothing has been recorded.
func (h *History) Prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	switch {
	case h.cursor == -1:
		h.cursor = len(h.entries) - 1
	case h.cursor > 0:
		h.cursor--
	}
	return h.entries[h.cursor], true
}

// Next steps toward newer entries. Stepping past the most recent one
// returns ("", false) and leaves the player on fresh input.
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	if h.cursor++; h.cursor >= len(h.entries) {
		h.cursor = -1
		return "", false
	}
	return h.entries[h.cursor], true
}

// ResetCursor returns the cursor to fresh input.
func (h *History) ResetCursor() {
	h.cursor = -1
}
