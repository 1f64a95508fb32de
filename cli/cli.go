// Package cli provides a plain-terminal frontend: a numbered menu
// loop over the session's current state, plus slash meta-commands for
// saves and clock control. It exists for script playback and terminals
// where the TUI is unwanted.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/nboyd/hearthvale/engine"
	"github.com/nboyd/hearthvale/engine/save"
	"github.com/nboyd/hearthvale/storage"
	"github.com/nboyd/hearthvale/types"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Session   *engine.Session
	Slots     *storage.SlotRepo // nil disables /save and /load
	In        io.Reader
	Out       io.Writer
	EchoInput bool // echo each input line after the prompt (for script playback)
}

// New creates a CLI wired to the given session.
func New(sess *engine.Session, slots *storage.SlotRepo) *CLI {
	return &CLI{
		Session: sess,
		Slots:   slots,
		In:      os.Stdin,
		Out:     os.Stdout,
	}
}

// Run starts the menu loop: show the current screen, read a line,
// dispatch, repeat. Returns when the player quits or input ends.
func (c *CLI) Run() {
	if intro := c.Session.Defs.Game.Intro; intro != "" {
		c.printLine(intro)
		c.printLine("")
	}
	c.showScreen()

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return
			}
			continue
		}

		c.dispatch(input)
		c.showScreen()
	}
}

// dispatch routes input by the session's current mode: dialogue,
// combat, timed-action preview, trade, or the location menu.
func (c *CLI) dispatch(input string) {
	switch {
	case c.dialogueOpen():
		c.handleDialogue(input)
	case c.combatOpen():
		c.handleCombat(input)
	case c.timedOpen():
		c.handleTimed(input)
	case c.tradeOpen():
		c.handleTrade(input)
	default:
		c.handleLocation(input)
	}
}

func (c *CLI) dialogueOpen() bool {
	_, ok := c.Session.DialoguePrompt()
	return ok
}

func (c *CLI) combatOpen() bool {
	_, ok := c.Session.CombatSnapshot()
	return ok
}

func (c *CLI) timedOpen() bool {
	_, pending := c.Session.PendingTimedAction()
	return pending
}

func (c *CLI) tradeOpen() bool {
	_, ok := c.Session.TradePartner()
	return ok
}

// --- screens ---

func (c *CLI) showScreen() {
	switch {
	case c.dialogueOpen():
		c.showDialogue()
	case c.combatOpen():
		c.showCombat()
	case c.timedOpen():
		c.showTimed()
	case c.tradeOpen():
		c.showTrade()
	default:
		c.showLocation()
	}
}

func (c *CLI) showLocation() {
	view, err := c.Session.CurrentLocation()
	if err != nil {
		c.printSystem(fmt.Sprintf("Error: %v", err))
		return
	}
	t := c.Session.Time()
	c.printLine("")
	c.printLine(fmt.Sprintf("== %s — day %d, %02d:%02d, %s, %s ==",
		view.Name, t.Day, t.Hour, t.Minute, c.Session.Season(), c.Session.Weather()))
	c.printLine(view.Description)
	for i, a := range view.Actions {
		c.printLine(fmt.Sprintf("  %d. %s", i+1, a.Text))
	}
}

func (c *CLI) showDialogue() {
	p, ok := c.Session.DialoguePrompt()
	if !ok {
		return
	}
	c.printLine("")
	c.printLine(fmt.Sprintf("%s: %s", p.NPCName, p.NPCText))
	for i, ch := range p.Choices {
		line := fmt.Sprintf("  %d. %s", i+1, ch.Text)
		if !ch.Enabled && ch.Requires != nil {
			line += fmt.Sprintf(" (requires %s %d)", ch.Requires.Skill, ch.Requires.RequiredLevel)
		}
		c.printLine(line)
	}
	c.printLine("  (number to reply, 'leave' to walk away)")
}

func (c *CLI) showCombat() {
	snap, ok := c.Session.CombatSnapshot()
	if !ok {
		return
	}
	c.printLine("")
	for _, line := range snap.Log {
		c.printLine(line)
	}
	for _, e := range snap.Enemies {
		c.printLine(fmt.Sprintf("  %s: %d/%d HP", e.Name, e.HP, e.MaxHP))
	}
	for _, p := range snap.Party {
		c.printLine(fmt.Sprintf("  %s: %d/%d HP", p.Name, p.HP, p.MaxHP))
	}
	switch snap.Phase {
	case "player_turn":
		c.printLine("  (attack <enemy>, defend, flee)")
	case "enemy_turn":
		c.printLine("  (press enter... the enemy acts)")
	default:
		c.printLine("  (done — press enter to continue)")
	}
}

func (c *CLI) showTimed() {
	req, ok := c.Session.PendingTimedAction()
	if !ok {
		return
	}
	c.printLine("")
	c.printLine(fmt.Sprintf("%s — how long? (1..%d, or 'cancel')", req.Name, req.MaxHours))
}

func (c *CLI) showTrade() {
	npcID, _ := c.Session.TradePartner()
	npc, err := c.Session.Defs.NPC(npcID)
	if err != nil {
		c.Session.CloseTrade()
		return
	}
	purse := c.Session.InventorySnapshot()
	c.printLine("")
	c.printLine(fmt.Sprintf("%s's prices (you carry %d copper):", npc.Name, purse.Copper))
	for _, e := range npc.Trades {
		var parts []string
		if e.BuyPrice > 0 {
			parts = append(parts, fmt.Sprintf("buy %dc", e.BuyPrice))
		}
		if e.SellPrice > 0 {
			parts = append(parts, fmt.Sprintf("sell %dc", e.SellPrice))
		}
		c.printLine(fmt.Sprintf("  %s: %s", e.ItemID, strings.Join(parts, ", ")))
	}
	c.printLine("  (buy <item> [qty], sell <item> [qty], done)")
}

// --- input handlers ---

func (c *CLI) handleLocation(input string) {
	view, err := c.Session.CurrentLocation()
	if err != nil {
		c.printSystem(fmt.Sprintf("Error: %v", err))
		return
	}
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > len(view.Actions) {
		c.printSystem("Pick an action by number.")
		return
	}
	c.perform(view.Actions[n-1])
}

func (c *CLI) perform(a types.ActionDef) {
	var err error
	switch a.Kind {
	case types.ActionNavigate:
		err = c.Session.TravelTo(a.Target)
	case types.ActionDialogue:
		err = c.Session.StartDialogue(a.Target)
	case types.ActionTrade:
		err = c.Session.OpenTrade(a.Target)
	case types.ActionCombat:
		err = c.Session.StartCombat(a.Target)
	case types.ActionLabor, types.ActionFish, types.ActionRest, types.ActionCraft:
		err = c.Session.RequestTimedAction(a.Kind, a.Target)
	default:
		c.printSystem(fmt.Sprintf("Nothing happens. (%s)", a.Kind))
		return
	}
	if err != nil {
		c.printSystem(fmt.Sprintf("Can't do that: %v", err))
	}
}

func (c *CLI) handleDialogue(input string) {
	if strings.EqualFold(input, "leave") {
		c.Session.EndDialogue()
		return
	}
	n, err := strconv.Atoi(input)
	if err != nil {
		c.printSystem("Pick a reply by number, or 'leave'.")
		return
	}
	if err := c.Session.SelectDialogueChoice(n - 1); err != nil {
		c.printSystem(fmt.Sprintf("Can't say that: %v", err))
	}
}

func (c *CLI) handleCombat(input string) {
	snap, _ := c.Session.CombatSnapshot()

	if snap.Phase == "enemy_turn" {
		if err := c.Session.CombatResolveEnemyTurn(); err != nil {
			c.printSystem(fmt.Sprintf("Error: %v", err))
		}
		return
	}
	if snap.Phase != "player_turn" {
		reward, err := c.Session.CombatFinish()
		if err != nil {
			c.printSystem(fmt.Sprintf("Error: %v", err))
			return
		}
		if reward != nil {
			for _, st := range reward.Items {
				c.printLine(fmt.Sprintf("You take %d× %s.", st.Quantity, st.ItemID))
			}
			if reward.Copper > 0 {
				c.printLine(fmt.Sprintf("You pocket %d copper.", reward.Copper))
			}
		}
		return
	}

	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		return
	}
	var err error
	switch fields[0] {
	case "attack", "a":
		if len(fields) > 1 {
			if err = c.Session.CombatSelectTarget(fields[1]); err != nil {
				break
			}
		} else if len(snap.Enemies) == 1 {
			if err = c.Session.CombatSelectTarget(snap.Enemies[0].ID); err != nil {
				break
			}
		}
		err = c.Session.CombatAttack()
	case "defend", "d":
		err = c.Session.CombatDefend()
	case "flee", "f":
		_, err = c.Session.CombatFlee()
	default:
		c.printSystem("attack <enemy>, defend, or flee.")
		return
	}
	if err != nil {
		c.printSystem(fmt.Sprintf("Can't: %v", err))
	}
}

// handleTimed reads the chosen duration, shows the frozen preview, and
// completes immediately. The CLI has no progress animation; the pacing
// phase belongs to the TUI.
func (c *CLI) handleTimed(input string) {
	if strings.EqualFold(input, "cancel") {
		c.Session.CancelTimedActionPreview()
		return
	}
	hours, err := strconv.Atoi(input)
	if err != nil {
		c.printSystem("Enter a number of hours, or 'cancel'.")
		return
	}
	commit, err := c.Session.ConfirmTimedActionDuration(hours)
	if err != nil {
		c.printSystem(fmt.Sprintf("Can't: %v", err))
		c.Session.CancelTimedActionPreview()
		return
	}
	c.printLine(commit.Summary)
	if err := c.Session.CompleteTimedAction(); err != nil {
		c.printSystem(fmt.Sprintf("Error: %v", err))
	}
}

func (c *CLI) handleTrade(input string) {
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		return
	}
	if fields[0] == "done" || fields[0] == "leave" {
		c.Session.CloseTrade()
		return
	}
	if len(fields) < 2 {
		c.printSystem("buy <item> [qty], sell <item> [qty], or done.")
		return
	}
	qty := 1
	if len(fields) > 2 {
		if n, err := strconv.Atoi(fields[2]); err == nil && n > 0 {
			qty = n
		}
	}
	npcID, _ := c.Session.TradePartner()
	var err error
	switch fields[0] {
	case "buy":
		err = c.Session.BuyItem(npcID, fields[1], qty)
	case "sell":
		err = c.Session.SellItem(npcID, fields[1], qty)
	default:
		c.printSystem("buy <item> [qty], sell <item> [qty], or done.")
		return
	}
	if err != nil {
		c.printSystem(fmt.Sprintf("No deal: %v", err))
	}
}

// --- meta commands ---

// handleMeta dispatches slash commands. Returns true if the game
// should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/save":
		c.cmdSave(arg)

	case "/load":
		c.cmdLoad(arg)

	case "/slots":
		c.cmdSlots()

	case "/time":
		t := c.Session.Time()
		c.printSystem(fmt.Sprintf("Day %d, %02d:%02d — %s, %s",
			t.Day, t.Hour, t.Minute, c.Session.Season(), c.Session.Weather()))

	case "/status":
		c.cmdStatus()

	case "/help":
		c.cmdHelp()

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}
	return false
}

func (c *CLI) cmdSave(name string) {
	if c.Slots == nil {
		c.printSystem("Saving is disabled.")
		return
	}
	if name == "" {
		name = "quicksave"
	}
	data, err := save.Marshal(c.Session.SaveData())
	if err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	if err := c.Slots.Put(context.Background(), name, c.Session.Defs.Game.Title, data); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	c.printSystem(fmt.Sprintf("Game saved to %s.", name))
}

func (c *CLI) cmdLoad(name string) {
	if c.Slots == nil {
		c.printSystem("Saving is disabled.")
		return
	}
	if name == "" {
		name = "quicksave"
	}
	slot, err := c.Slots.Get(context.Background(), name)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}
	sd, err := save.Unmarshal(slot.Data)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}
	sess, err := engine.RestoreSession(c.Session.Defs, c.Session.Cfg, sd)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}
	c.Session = sess
	c.printSystem(fmt.Sprintf("Game loaded from %s.", name))
	c.showScreen()
}

func (c *CLI) cmdSlots() {
	if c.Slots == nil {
		c.printSystem("Saving is disabled.")
		return
	}
	slots, err := c.Slots.List(context.Background())
	if err != nil {
		c.printSystem(fmt.Sprintf("Error: %v", err))
		return
	}
	if len(slots) == 0 {
		c.printSystem("No saves yet.")
		return
	}
	for _, s := range slots {
		c.printSystem(fmt.Sprintf("%s — %s (%s)", s.Name, s.Game, s.UpdatedAt.Format("2006-01-02 15:04")))
	}
}

func (c *CLI) cmdStatus() {
	p := c.Session.Player()
	inv := c.Session.InventorySnapshot()
	purse := c.Session.Purse()
	c.printSystem(fmt.Sprintf("Location: %s", p.Location))
	c.printSystem(fmt.Sprintf("Energy %d/%d, Health %d/%d",
		p.Vitals.Energy, p.Vitals.MaxEnergy, p.Vitals.Health, p.Vitals.MaxHealth))
	c.printSystem(fmt.Sprintf("Purse: %dg %ds %dc", purse.Gold, purse.Silver, purse.Copper))
	c.printSystem(fmt.Sprintf("Carrying %.1f/%.1f", inv.Weight, inv.MaxWeight))
	for _, st := range inv.Stacks {
		c.printSystem(fmt.Sprintf("  %s × %d", st.ItemID, st.Quantity))
	}
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /save [name]  — Save game (default: quicksave)",
		"  /load [name]  — Load game (default: quicksave)",
		"  /slots        — List save slots",
		"  /time         — Show the world clock",
		"  /status       — Show vitals, purse, and inventory",
		"  /quit         — Exit game",
		"",
		"Play:",
		"  Pick menu entries by number. In dialogue, reply by number",
		"  or 'leave'. In combat: attack <enemy>, defend, flee.",
		"  Timed actions ask for a duration in hours.",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
