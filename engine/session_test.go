package engine

import (
	"errors"
	"testing"

	"github.com/nboyd/hearthvale/config"
	"github.com/nboyd/hearthvale/engine/inventory"
	"github.com/nboyd/hearthvale/engine/sched"
	"github.com/nboyd/hearthvale/engine/world"
	"github.com/nboyd/hearthvale/types"
)

// testDefs builds a small test world: a square, a river, a forest, a
// trading NPC with a two-node tree, a smelting recipe, and a wolf
// encounter.
func testDefs() *world.Defs {
	return &world.Defs{
		Game: types.GameDef{
			Title:   "Test Vale",
			Version: "1.0",
			Start:   "square",
			Hub:     "square",
		},
		Locations: map[string]types.LocationDef{
			"square": {
				ID: "square", Name: "Village Square",
				DayDescription:   "Stalls and noise.",
				NightDescription: "Quiet lamplight.",
				Actions: []types.ActionDef{
					{Text: "Talk to Maren", Kind: types.ActionDialogue, Target: "maren"},
					{Text: "Work the docks", Kind: types.ActionLabor},
					{Text: "Walk to the river", Kind: types.ActionNavigate, Target: "river"},
					{Text: "Ride to the forest", Kind: types.ActionNavigate, Target: "forest", TimeCostMinutes: 90},
				},
			},
			"river":  {ID: "river", Name: "Riverbank"},
			"forest": {ID: "forest", Name: "Darkwood"},
		},
		Items: map[string]types.ItemDef{
			"ore":   {ID: "ore", Name: "Ore", Weight: 6, Value: 15},
			"ingot": {ID: "ingot", Name: "Ingot", Weight: 4, Value: 60},
			"trout": {ID: "trout", Name: "Trout", Weight: 1.5, Value: 8},
			"pelt":  {ID: "pelt", Name: "Wolf Pelt", Weight: 2, Value: 30},
		},
		NPCs: map[string]types.NPCDef{
			"maren": {
				ID: "maren", Name: "Maren", DialogueTree: "maren_default",
				Trades: []types.TradeEntry{
					{ItemID: "ore", BuyPrice: 20, SellPrice: 10},
					{ItemID: "trout", SellPrice: 5},
				},
			},
		},
		Trees: map[string]types.DialogueTree{
			"maren_default": {
				ID: "maren_default",
				Nodes: map[string]types.DialogueNode{
					"0": {
						NPCText: "Morning.",
						Choices: []types.DialogueChoice{
							{Text: "What's new?", NextNodeID: "1"},
							{Text: "Bye.", ClosesDialogue: true},
						},
					},
					"1": {
						NPCText: "Wolves on the forest road.",
						Choices: []types.DialogueChoice{
							{Text: "Bye.", ClosesDialogue: true},
						},
					},
				},
			},
		},
		Recipes: map[string]types.RecipeDef{
			"smelt": {
				ID: "smelt", ResultItemID: "ingot", ResultQuantity: 1,
				Ingredients:     []types.Ingredient{{ItemID: "ore", Quantity: 2}},
				TimeCostMinutes: 60, EnergyCost: 10,
			},
		},
		Encounters: map[string]types.EncounterDef{
			"forest_wolf": {
				ID: "forest_wolf", Name: "Hungry Wolf",
				Enemies: []types.CombatantDef{{ID: "wolf", Name: "Wolf", MaxHP: 10}},
				Rewards: types.RewardTable{
					Items:     []types.LootEntry{{ItemID: "pelt", Chance: 100}},
					CopperMin: 5, CopperMax: 15,
				},
			},
		},
	}
}

func newSession() *Session {
	return New(testDefs(), config.Default(), 42)
}

func TestTravelTo_InstantEdge(t *testing.T) {
	s := newSession()
	if err := s.TravelTo("river"); err != nil {
		t.Fatal(err)
	}
	if s.Player().Location != "river" {
		t.Errorf("at %q", s.Player().Location)
	}
}

func TestTravelTo_NoRoute(t *testing.T) {
	s := newSession()
	s.TravelTo("river")
	err := s.TravelTo("forest") // no edge from river
	if !errors.Is(err, world.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestTravelTo_CostedEdgeRoutesThroughScheduler(t *testing.T) {
	s := newSession()
	if err := s.TravelTo("forest"); err != nil {
		t.Fatal(err)
	}
	// Not moved yet: a commit awaits confirmation then completion.
	if s.Player().Location != "square" {
		t.Fatal("timed travel moved the player immediately")
	}
	if _, err := s.ConfirmTimedActionDuration(1); err != nil {
		t.Fatal(err)
	}
	if s.Player().Location != "square" {
		t.Fatal("confirm moved the player before completion")
	}
	before := s.Time()
	if err := s.CompleteTimedAction(); err != nil {
		t.Fatal(err)
	}
	if s.Player().Location != "forest" {
		t.Errorf("at %q after completion", s.Player().Location)
	}
	if got := s.Time(); got.Hour != before.Hour+1 || got.Minute != before.Minute+30 {
		t.Errorf("clock moved from %+v to %+v, want +90m", before, got)
	}
}

func TestTick_SuspendedByOpenInteractions(t *testing.T) {
	s := newSession()
	if !s.Tick() {
		t.Fatal("baseline tick failed")
	}

	// Dialogue suspends the tick.
	if err := s.StartDialogue("maren"); err != nil {
		t.Fatal(err)
	}
	if s.Tick() {
		t.Error("tick fired during dialogue")
	}
	s.EndDialogue()
	if !s.Tick() {
		t.Error("tick still gated after dialogue ended")
	}

	// A pending timed action suspends the tick.
	s.RequestTimedAction(types.ActionLabor, "")
	if s.Tick() {
		t.Error("tick fired during timed-action preview")
	}
	s.CancelTimedActionPreview()
	if !s.Tick() {
		t.Error("tick still gated after cancel")
	}

	// Combat suspends the tick.
	s.StartCombat("forest_wolf")
	if s.Tick() {
		t.Error("tick fired during combat")
	}
}

func TestDialogue_ThroughSession(t *testing.T) {
	s := newSession()
	if err := s.StartDialogue("maren"); err != nil {
		t.Fatal(err)
	}
	p, ok := s.DialoguePrompt()
	if !ok || p.NPCText != "Morning." {
		t.Fatalf("prompt: %+v ok=%v", p, ok)
	}
	if err := s.SelectDialogueChoice(0); err != nil {
		t.Fatal(err)
	}
	p, _ = s.DialoguePrompt()
	if p.NodeID != "1" {
		t.Errorf("at node %q", p.NodeID)
	}
	// Closing choice ends the conversation and drops the prompt.
	if err := s.SelectDialogueChoice(0); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.DialoguePrompt(); ok {
		t.Error("prompt still open after closing choice")
	}
}

func TestCraft_EndToEnd(t *testing.T) {
	s := newSession()
	s.inv.AddItem("ore", 4)

	if err := s.Craft("smelt", 2); err != nil {
		t.Fatal(err)
	}
	if got := s.inv.Quantity("ingot"); got != 2 {
		t.Errorf("ingots %d, want 2", got)
	}
	if got := s.inv.Quantity("ore"); got != 0 {
		t.Errorf("ore %d, want 0", got)
	}
	if s.Player().Vitals.Energy != s.Cfg.MaxEnergy-20 {
		t.Errorf("energy %d", s.Player().Vitals.Energy)
	}
	// Two hours of smelting passed.
	if got := s.Time(); got.Hour != 8 {
		t.Errorf("clock %+v, want hour 8", got)
	}
}

func TestCraft_ShortIngredientsNoMutation(t *testing.T) {
	s := newSession()
	s.inv.AddItem("ore", 1)
	energy := s.Player().Vitals.Energy
	timeBefore := s.Time()

	err := s.Craft("smelt", 1)
	if !errors.Is(err, inventory.ErrInsufficientQuantity) {
		t.Fatalf("got %v, want ErrInsufficientQuantity", err)
	}
	if s.inv.Quantity("ore") != 1 || s.inv.Quantity("ingot") != 0 {
		t.Error("failed craft mutated inventory")
	}
	if s.Player().Vitals.Energy != energy || s.Time() != timeBefore {
		t.Error("failed craft touched vitals or clock")
	}
}

func TestCraft_InsufficientEnergy(t *testing.T) {
	s := newSession()
	s.inv.AddItem("ore", 2)
	s.player.Vitals.Energy = 5

	err := s.Craft("smelt", 1)
	if !errors.Is(err, sched.ErrInsufficientEnergy) {
		t.Fatalf("got %v, want ErrInsufficientEnergy", err)
	}
	if _, pending := s.PendingTimedAction(); pending {
		t.Error("failed craft left a pending request")
	}
}

func TestLabor_PaysCopper(t *testing.T) {
	s := newSession()
	start := s.inv.Balance()

	if err := s.RequestTimedAction(types.ActionLabor, ""); err != nil {
		t.Fatal(err)
	}
	p, err := s.PreviewTimedAction(3)
	if err != nil {
		t.Fatal(err)
	}
	if p.Copper != 3*s.Cfg.Labor.CopperPerHour {
		t.Errorf("preview copper %d", p.Copper)
	}
	if _, err := s.ConfirmTimedActionDuration(3); err != nil {
		t.Fatal(err)
	}
	if err := s.CompleteTimedAction(); err != nil {
		t.Fatal(err)
	}
	if got := s.inv.Balance(); got != start+p.Copper {
		t.Errorf("balance %d, want %d", got, start+p.Copper)
	}
}

func TestTrade_BuyAndSell(t *testing.T) {
	s := newSession() // starts with 150 copper

	if err := s.BuyItem("maren", "ore", 2); err != nil {
		t.Fatal(err)
	}
	if s.inv.Balance() != 110 || s.inv.Quantity("ore") != 2 {
		t.Errorf("after buy: %d copper, %d ore", s.inv.Balance(), s.inv.Quantity("ore"))
	}

	if err := s.SellItem("maren", "ore", 1); err != nil {
		t.Fatal(err)
	}
	if s.inv.Balance() != 120 || s.inv.Quantity("ore") != 1 {
		t.Errorf("after sell: %d copper, %d ore", s.inv.Balance(), s.inv.Quantity("ore"))
	}
}

func TestTrade_Failures(t *testing.T) {
	s := newSession()

	// Not enough copper for 8 ore.
	err := s.BuyItem("maren", "ore", 8)
	if !errors.Is(err, inventory.ErrInsufficientFunds) {
		t.Errorf("got %v, want ErrInsufficientFunds", err)
	}
	if s.inv.Balance() != 150 {
		t.Error("failed buy moved copper")
	}

	// Maren doesn't sell trout (sell-only entry).
	if err := s.BuyItem("maren", "trout", 1); !errors.Is(err, world.ErrNotFound) {
		t.Errorf("buy sell-only item: got %v", err)
	}
	// And doesn't trade pelts at all.
	if err := s.SellItem("maren", "pelt", 1); !errors.Is(err, world.ErrNotFound) {
		t.Errorf("sell untraded item: got %v", err)
	}
}

func TestTrade_OpenScreenSuspendsAmbientTime(t *testing.T) {
	s := newSession()
	if err := s.OpenTrade("maren"); err != nil {
		t.Fatal(err)
	}
	if npcID, ok := s.TradePartner(); !ok || npcID != "maren" {
		t.Fatalf("trade partner = %q, %v", npcID, ok)
	}
	if s.Tick() {
		t.Error("tick fired with the trade screen open")
	}
	s.CloseTrade()
	if !s.Tick() {
		t.Error("tick still gated after trade closed")
	}
}

func TestOpenTrade_UnknownNPC(t *testing.T) {
	s := newSession()
	if err := s.OpenTrade("stranger"); !errors.Is(err, world.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
	if s.Suspended() {
		t.Error("failed open left the session suspended")
	}
}

func TestCombat_VictoryDepositsRewardOnce(t *testing.T) {
	s := newSession()
	if err := s.StartCombat("forest_wolf"); err != nil {
		t.Fatal(err)
	}
	startCopper := s.inv.Balance()

	for {
		snap, _ := s.CombatSnapshot()
		if snap.Phase == "victory" {
			break
		}
		if snap.Phase == "enemy_turn" {
			if err := s.CombatResolveEnemyTurn(); err != nil {
				t.Fatal(err)
			}
			continue
		}
		s.CombatSelectTarget("wolf")
		if err := s.CombatAttack(); err != nil {
			t.Fatal(err)
		}
	}

	reward, err := s.CombatFinish()
	if err != nil {
		t.Fatal(err)
	}
	if reward == nil || len(reward.Items) != 1 {
		t.Fatalf("reward: %+v", reward)
	}
	if s.inv.Quantity("pelt") != 1 {
		t.Error("pelt not deposited")
	}
	gained := s.inv.Balance() - startCopper
	if gained < 5 || gained > 15 {
		t.Errorf("copper gained %d outside reward range", gained)
	}
	if _, open := s.CombatSnapshot(); open {
		t.Error("encounter survived CombatFinish")
	}
	// A second finish is an invalid command, not a second payout.
	if _, err := s.CombatFinish(); !errors.Is(err, ErrInvalidCommand) {
		t.Errorf("second finish: %v", err)
	}
}

func TestCombat_FleeSuccessDestroysEncounter(t *testing.T) {
	cfg := config.Default()
	cfg.Combat.FleeChance = 1.0
	s := New(testDefs(), cfg, 1)

	s.StartCombat("forest_wolf")
	fled, err := s.CombatFlee()
	if err != nil || !fled {
		t.Fatalf("fled=%v err=%v", fled, err)
	}
	if _, open := s.CombatSnapshot(); open {
		t.Error("encounter survived a successful flee")
	}
	if !s.Tick() {
		t.Error("tick still gated after flee")
	}
}

func TestCurrentLocation_DayNightAndHubSort(t *testing.T) {
	s := newSession()
	s.TravelTo("river")
	s.AdvanceClock(16 * 60) // 06:00 → 22:00

	view, err := s.CurrentLocation()
	if err != nil {
		t.Fatal(err)
	}
	if !view.Night {
		t.Error("22:00 not night")
	}

	// Back at the square the action list puts nothing after the hub
	// edge since the square is the hub; check ordering from there.
	s2 := newSession()
	s2.TravelTo("river")
	loc, _ := s2.Defs.Location("square")
	actions := s2.Defs.ResolveActions(loc, world.CondContext{Player: s2.player, HasItem: s2.inv.Has})
	if len(actions) != 4 {
		t.Fatalf("%d actions", len(actions))
	}
}
