package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// locationDisplayName derives a human-readable name from a location
// ID when the authored name is empty. "old_mill" -> "Old Mill".
func locationDisplayName(id string) string {
	words := strings.Split(id, "_")
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// renderStatusBar produces a full-width inverted status line showing
// the clock, location, vitals, purse, and carried weight.
func (m Model) renderStatusBar() string {
	t := m.session.Time()
	p := m.session.Player()
	inv := m.session.InventorySnapshot()
	purse := m.session.Purse()

	locName := p.Location
	if loc, err := m.session.Defs.Location(p.Location); err == nil && loc.Name != "" {
		locName = loc.Name
	} else {
		locName = locationDisplayName(p.Location)
	}

	left := fmt.Sprintf(" Day %d %02d:%02d %s/%s | %s",
		t.Day, t.Hour, t.Minute, m.session.Season(), m.session.Weather(), locName)

	long := fmt.Sprintf("E:%d/%d H:%d/%d | %dg %ds %dc | %.1f/%.1f ",
		p.Vitals.Energy, p.Vitals.MaxEnergy, p.Vitals.Health, p.Vitals.MaxHealth,
		purse.Gold, purse.Silver, purse.Copper, inv.Weight, inv.MaxWeight)
	short := fmt.Sprintf("E:%d H:%d | %dc ", p.Vitals.Energy, p.Vitals.Health, inv.Copper)

	right := long
	if lipgloss.Width(left)+lipgloss.Width(long)+2 >= m.width {
		right = short
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
