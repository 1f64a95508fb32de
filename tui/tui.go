package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nboyd/hearthvale/engine"
	"github.com/nboyd/hearthvale/engine/combat"
	"github.com/nboyd/hearthvale/engine/save"
	"github.com/nboyd/hearthvale/storage"
	"github.com/nboyd/hearthvale/types"
)

// Pacing delays. These model presentation rhythm only; all game-time
// accounting happens inside the session.
const (
	enemyTurnDelay = 600 * time.Millisecond
	progressDelay  = 900 * time.Millisecond
)

// rawLine stores an unstyled output line with its classification, so
// we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text    string
	kind    lineKind
	isInput bool // true for echoed player input
	system  bool // true for system messages
}

// Model is the Bubble Tea model for the Hearthvale TUI.
type Model struct {
	session *engine.Session
	slots   *storage.SlotRepo // nil disables /save and /load

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine // accumulated narrative (unstyled, for re-wrapping)

	width    int
	height   int
	ready    bool
	quitting bool

	combatLogSeen int  // log entries already printed
	working       bool // a confirmed timed action is animating
}

// tickMsg drives the ambient clock.
type tickMsg time.Time

// enemyActMsg fires after the combat pacing delay.
type enemyActMsg struct{}

// workDoneMsg fires when a timed action's progress pause ends.
type workDoneMsg struct{}

// outputMsg carries lines into the narrative.
type outputMsg struct {
	input  string // echoed player input (empty for none)
	lines  []string
	system bool
}

// New creates a TUI model wired to the given session.
func New(sess *engine.Session, slots *storage.SlotRepo) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	return Model{
		session: sess,
		slots:   slots,
		input:   ti,
		history: NewHistory(100),
	}
}

// Run starts the Bubble Tea program.
func Run(sess *engine.Session, slots *storage.SlotRepo) error {
	m := New(sess, slots)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init shows the intro and starts the ambient clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput(), m.ambientTick())
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		var lines []string
		g := m.session.Defs.Game
		title := g.Title
		if g.Version != "" {
			title += " v" + g.Version
		}
		if g.Author != "" {
			title += " by " + g.Author
		}
		lines = append(lines, title, "")
		if g.Intro != "" {
			lines = append(lines, g.Intro, "")
		}
		lines = append(lines, locationLines(m.session)...)
		return outputMsg{lines: lines}
	}
}

// ambientTick schedules the next ambient minute.
func (m Model) ambientTick() tea.Cmd {
	period := time.Duration(m.session.Cfg.TickPeriodMS) * time.Millisecond
	return tea.Tick(period, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update handles messages (key presses, window resize, clock ticks,
// pacing timers, output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2 // 1 status bar + 1 input line
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.refreshViewport()

	case tickMsg:
		// Suspension gating happens inside the session; a skipped
		// minute is skipped, not queued. The status bar redraws on
		// every frame, so nothing to append here.
		m.session.Tick()
		return m, m.ambientTick()

	case workDoneMsg:
		return m.finishWork()

	case enemyActMsg:
		return m.resolveEnemyTurn()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.ResetCursor()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case outputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if m.working {
		// Ignore input while a timed action animates.
		return m, nil
	}
	if input == "" {
		// Bare enter advances terminal combat and enemy turns.
		if snap, ok := m.session.CombatSnapshot(); ok && snap.Phase != combat.PhasePlayerTurn {
			return m.handleCombatInput("", snap)
		}
		return m, nil
	}

	m.history.Push(input)
	m.history.ResetCursor()

	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(outputMsg{input: input, lines: output, system: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	return m.dispatch(input)
}

// dispatch routes input by the session's current mode.
func (m Model) dispatch(input string) (tea.Model, tea.Cmd) {
	if snap, ok := m.session.CombatSnapshot(); ok {
		return m.handleCombatInput(input, snap)
	}
	if _, ok := m.session.DialoguePrompt(); ok {
		return m.handleDialogueInput(input)
	}
	if _, pending := m.session.PendingTimedAction(); pending {
		return m.handleTimedInput(input)
	}
	if _, ok := m.session.TradePartner(); ok {
		return m.handleTradeInput(input)
	}
	return m.handleLocationInput(input)
}

func (m Model) handleLocationInput(input string) (tea.Model, tea.Cmd) {
	view, err := m.session.CurrentLocation()
	if err != nil {
		m = m.appendOutput(outputMsg{input: input, lines: []string{fmt.Sprintf("Error: %v", err)}, system: true})
		return m, nil
	}
	n, convErr := strconv.Atoi(input)
	if convErr != nil || n < 1 || n > len(view.Actions) {
		m = m.appendOutput(outputMsg{input: input, lines: []string{"Pick an action by number."}, system: true})
		return m, nil
	}

	a := view.Actions[n-1]
	var actErr error
	switch a.Kind {
	case types.ActionNavigate:
		actErr = m.session.TravelTo(a.Target)
	case types.ActionDialogue:
		actErr = m.session.StartDialogue(a.Target)
	case types.ActionTrade:
		actErr = m.session.OpenTrade(a.Target)
	case types.ActionCombat:
		m.combatLogSeen = 0
		actErr = m.session.StartCombat(a.Target)
	case types.ActionLabor, types.ActionFish, types.ActionRest, types.ActionCraft:
		actErr = m.session.RequestTimedAction(a.Kind, a.Target)
	}
	if actErr != nil {
		m = m.appendOutput(outputMsg{input: input, lines: []string{fmt.Sprintf("Can't do that: %v", actErr)}, system: true})
		return m, nil
	}
	return m.showCurrent(input)
}

func (m Model) handleDialogueInput(input string) (tea.Model, tea.Cmd) {
	if strings.EqualFold(input, "leave") {
		m.session.EndDialogue()
		return m.showCurrent(input)
	}
	n, err := strconv.Atoi(input)
	if err != nil {
		m = m.appendOutput(outputMsg{input: input, lines: []string{"Pick a reply by number, or 'leave'."}, system: true})
		return m, nil
	}
	if err := m.session.SelectDialogueChoice(n - 1); err != nil {
		m = m.appendOutput(outputMsg{input: input, lines: []string{fmt.Sprintf("Can't say that: %v", err)}, system: true})
		return m, nil
	}
	return m.showCurrent(input)
}

// handleTimedInput reads the chosen duration, freezes the commit, and
// enters the progress pause. The frozen commit applies in finishWork.
func (m Model) handleTimedInput(input string) (tea.Model, tea.Cmd) {
	if strings.EqualFold(input, "cancel") {
		m.session.CancelTimedActionPreview()
		return m.showCurrent(input)
	}
	hours, err := strconv.Atoi(input)
	if err != nil {
		m = m.appendOutput(outputMsg{input: input, lines: []string{"Enter a number of hours, or 'cancel'."}, system: true})
		return m, nil
	}
	commit, err := m.session.ConfirmTimedActionDuration(hours)
	if err != nil {
		m.session.CancelTimedActionPreview()
		m = m.appendOutput(outputMsg{input: input, lines: []string{fmt.Sprintf("Can't: %v", err)}, system: true})
		return m, nil
	}
	m.working = true
	m = m.appendOutput(outputMsg{input: input, lines: []string{commit.Summary + "..."}})
	return m, tea.Tick(progressDelay, func(time.Time) tea.Msg { return workDoneMsg{} })
}

func (m Model) finishWork() (tea.Model, tea.Cmd) {
	m.working = false
	if err := m.session.CompleteTimedAction(); err != nil {
		m = m.appendOutput(outputMsg{lines: []string{fmt.Sprintf("Error: %v", err)}, system: true})
		return m, nil
	}
	return m.showCurrent("")
}

func (m Model) handleCombatInput(input string, snap combat.Snapshot) (tea.Model, tea.Cmd) {
	if snap.Phase == combat.PhaseEnemyTurn {
		// The pacing timer resolves the enemy turn; extra input waits.
		return m, nil
	}
	if snap.Phase != combat.PhasePlayerTurn {
		reward, err := m.session.CombatFinish()
		if err != nil {
			m = m.appendOutput(outputMsg{input: input, lines: []string{fmt.Sprintf("Error: %v", err)}, system: true})
			return m, nil
		}
		var lines []string
		if reward != nil {
			for _, st := range reward.Items {
				lines = append(lines, fmt.Sprintf("You take %d× %s.", st.Quantity, st.ItemID))
			}
			if reward.Copper > 0 {
				lines = append(lines, fmt.Sprintf("You pocket %d copper.", reward.Copper))
			}
		}
		m = m.appendOutput(outputMsg{input: input, lines: lines})
		m.combatLogSeen = 0
		return m.showCurrent("")
	}

	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		return m, nil
	}
	var err error
	switch fields[0] {
	case "attack", "a":
		if len(fields) > 1 {
			err = m.session.CombatSelectTarget(fields[1])
		} else if len(snap.Enemies) == 1 {
			err = m.session.CombatSelectTarget(snap.Enemies[0].ID)
		}
		if err == nil {
			err = m.session.CombatAttack()
		}
	case "defend", "d":
		err = m.session.CombatDefend()
	case "flee", "f":
		_, err = m.session.CombatFlee()
	default:
		m = m.appendOutput(outputMsg{input: input, lines: []string{"attack <enemy>, defend, or flee."}, system: true})
		return m, nil
	}
	if err != nil {
		m = m.appendOutput(outputMsg{input: input, lines: []string{fmt.Sprintf("Can't: %v", err)}, system: true})
		return m, nil
	}

	next, cmd := m.showCurrent(input)
	model := next.(Model)
	if snap, ok := model.session.CombatSnapshot(); ok && snap.Phase == combat.PhaseEnemyTurn {
		return model, tea.Batch(cmd, tea.Tick(enemyTurnDelay, func(time.Time) tea.Msg { return enemyActMsg{} }))
	}
	return model, cmd
}

func (m Model) resolveEnemyTurn() (tea.Model, tea.Cmd) {
	if snap, ok := m.session.CombatSnapshot(); !ok || snap.Phase != combat.PhaseEnemyTurn {
		return m, nil
	}
	if err := m.session.CombatResolveEnemyTurn(); err != nil {
		m = m.appendOutput(outputMsg{lines: []string{fmt.Sprintf("Error: %v", err)}, system: true})
		return m, nil
	}
	return m.showCurrent("")
}

func (m Model) handleTradeInput(input string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		return m, nil
	}
	if fields[0] == "done" || fields[0] == "leave" {
		m.session.CloseTrade()
		return m.showCurrent(input)
	}
	if len(fields) < 2 {
		m = m.appendOutput(outputMsg{input: input, lines: []string{"buy <item> [qty], sell <item> [qty], or done."}, system: true})
		return m, nil
	}
	qty := 1
	if len(fields) > 2 {
		if n, err := strconv.Atoi(fields[2]); err == nil && n > 0 {
			qty = n
		}
	}
	npcID, _ := m.session.TradePartner()
	var err error
	switch fields[0] {
	case "buy":
		err = m.session.BuyItem(npcID, fields[1], qty)
	case "sell":
		err = m.session.SellItem(npcID, fields[1], qty)
	default:
		m = m.appendOutput(outputMsg{input: input, lines: []string{"buy <item> [qty], sell <item> [qty], or done."}, system: true})
		return m, nil
	}
	if err != nil {
		m = m.appendOutput(outputMsg{input: input, lines: []string{fmt.Sprintf("No deal: %v", err)}, system: true})
		return m, nil
	}
	return m.showCurrent(input)
}

// showCurrent appends the screen for the session's current mode.
func (m Model) showCurrent(input string) (tea.Model, tea.Cmd) {
	var lines []string
	if snap, ok := m.session.CombatSnapshot(); ok {
		lines = combatLines(snap, m.combatLogSeen)
		m.combatLogSeen = len(snap.Log)
	} else if dl := dialogueLines(m.session); dl != nil {
		lines = dl
	} else if tl := timedLines(m.session); tl != nil {
		lines = tl
	} else if npcID, ok := m.session.TradePartner(); ok {
		lines = tradeLines(m.session, npcID)
	} else {
		lines = locationLines(m.session)
	}
	m = m.appendOutput(outputMsg{input: input, lines: lines})
	return m, nil
}

// appendOutput adds lines to the narrative and refreshes the viewport.
func (m Model) appendOutput(msg outputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{text: "> " + msg.input, isInput: true})
	}
	for _, line := range msg.lines {
		rl := rawLine{text: line, system: msg.system}
		if !msg.system {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}
	m.rawLines = append(m.rawLines, rawLine{})
	m.refreshViewport()
	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current
// width and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}
		wrapped := wordWrap(rl.text, width)
		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.system:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap wraps text at word boundaries to fit within width.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wLen := len(word)
		if i == 0 {
			result.WriteString(word)
			lineLen = wLen
			continue
		}
		if lineLen+1+wLen > width {
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wLen
		} else {
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}
	return result.String()
}

// View renders the full TUI layout: viewport + status bar + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}
	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/save":
		return m.cmdSave(arg), false

	case "/load":
		return m.cmdLoad(arg), false

	case "/slots":
		return m.cmdSlots(), false

	case "/time":
		t := m.session.Time()
		return []string{fmt.Sprintf("Day %d, %02d:%02d — %s, %s",
			t.Day, t.Hour, t.Minute, m.session.Season(), m.session.Weather())}, false

	case "/pause":
		m.session.SetClockPaused(true)
		return []string{"Clock paused."}, false

	case "/resume":
		m.session.SetClockPaused(false)
		return []string{"Clock resumed."}, false

	case "/status":
		return m.cmdStatus(), false

	case "/help":
		return m.cmdHelp(), false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdSave(name string) []string {
	if m.slots == nil {
		return []string{"Saving is disabled."}
	}
	if name == "" {
		name = "quicksave"
	}
	data, err := save.Marshal(m.session.SaveData())
	if err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	if err := m.slots.Put(context.Background(), name, m.session.Defs.Game.Title, data); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	return []string{fmt.Sprintf("Game saved to %s.", name)}
}

func (m *Model) cmdLoad(name string) []string {
	if m.slots == nil {
		return []string{"Saving is disabled."}
	}
	if name == "" {
		name = "quicksave"
	}
	slot, err := m.slots.Get(context.Background(), name)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}
	sd, err := save.Unmarshal(slot.Data)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}
	sess, err := engine.RestoreSession(m.session.Defs, m.session.Cfg, sd)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}
	m.session = sess
	m.combatLogSeen = 0

	output := []string{fmt.Sprintf("Game loaded from %s.", name)}
	output = append(output, locationLines(m.session)...)
	return output
}

func (m *Model) cmdSlots() []string {
	if m.slots == nil {
		return []string{"Saving is disabled."}
	}
	slots, err := m.slots.List(context.Background())
	if err != nil {
		return []string{fmt.Sprintf("Error: %v", err)}
	}
	if len(slots) == 0 {
		return []string{"No saves yet."}
	}
	var out []string
	for _, s := range slots {
		out = append(out, fmt.Sprintf("%s — %s (%s)", s.Name, s.Game, s.UpdatedAt.Format("2006-01-02 15:04")))
	}
	return out
}

func (m *Model) cmdStatus() []string {
	p := m.session.Player()
	inv := m.session.InventorySnapshot()
	purse := m.session.Purse()
	out := []string{
		fmt.Sprintf("Location: %s", p.Location),
		fmt.Sprintf("Energy %d/%d, Health %d/%d",
			p.Vitals.Energy, p.Vitals.MaxEnergy, p.Vitals.Health, p.Vitals.MaxHealth),
		fmt.Sprintf("Purse: %dg %ds %dc", purse.Gold, purse.Silver, purse.Copper),
		fmt.Sprintf("Carrying %.1f/%.1f", inv.Weight, inv.MaxWeight),
	}
	for _, st := range inv.Stacks {
		out = append(out, fmt.Sprintf("  %s × %d", st.ItemID, st.Quantity))
	}
	return out
}

func (m *Model) cmdHelp() []string {
	return []string{
		"System:",
		"  /save [name]    — Save game (default: quicksave)",
		"  /load [name]    — Load game (default: quicksave)",
		"  /slots          — List save slots",
		"  /time           — Show the world clock",
		"  /pause /resume  — Stop or restart ambient time",
		"  /status         — Vitals, purse, and inventory",
		"  /quit           — Exit game",
		"",
		"Play:",
		"  Pick menu entries by number. In dialogue, reply by number",
		"  or 'leave'. In combat: attack <enemy>, defend, flee.",
		"  Timed actions ask for a duration in hours.",
		"",
		"Navigation: PgUp/PgDn to scroll, Up/Down for command history",
	}
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
