// Package combat implements the turn-based encounter state machine.
// An encounter operates on deep copies of the authored combatant
// templates, so no fight ever mutates shared definitions, and is
// destroyed when it reaches a terminal phase.
package combat

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nboyd/hearthvale/engine/rng"
	"github.com/nboyd/hearthvale/types"
)

// Phase is the encounter state machine's current state.
type Phase string

const (
	PhasePlayerTurn Phase = "player_turn"
	PhaseEnemyTurn  Phase = "enemy_turn"
	PhaseVictory    Phase = "victory"
	PhaseDefeat     Phase = "defeat"
	PhaseFled       Phase = "fled"
)

// ErrInvalidTransition means a command was issued out of turn or
// against an invalid target.
var ErrInvalidTransition = errors.New("invalid combat transition")

// Tuning holds the balance knobs, injected from configuration.
type Tuning struct {
	DamageMin  int
	DamageMax  int
	FleeChance float64
}

// DefaultTuning is the reference balance.
var DefaultTuning = Tuning{DamageMin: 5, DamageMax: 14, FleeChance: 0.5}

// Combatant is one live participant. HP is mutable; the template it
// was cloned from is not.
type Combatant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	HP    int    `json:"hp"`
	MaxHP int    `json:"max_hp"`
}

// Reward is what a won encounter yields, computed once at victory.
type Reward struct {
	Items  []types.Stack `json:"items"`
	Copper int           `json:"copper"`
}

// EnemyAI decides the enemy side's action during its turn. The
// reference behavior is NoOpAI; a real AI slots in without touching
// the turn machine.
type EnemyAI interface {
	Act(e *Encounter) []string
}

// NoOpAI is the placeholder enemy: it takes no action and simply
// returns the turn.
type NoOpAI struct{}

// Act does nothing. The turn machine handles the "turn returns" log line.
func (NoOpAI) Act(*Encounter) []string { return nil }

// Encounter is one combat session from initiation to victory, defeat,
// or successful flee.
type Encounter struct {
	id      string
	defID   string
	name    string
	rewards types.RewardTable

	party   []Combatant
	enemies []Combatant

	activeID string
	targetID string
	phase    Phase
	log      []string

	rng    *rng.RNG
	ai     EnemyAI
	tuning Tuning

	reward      *Reward
	rewardTaken bool
}

// Start creates an encounter from cloned snapshots of the party and
// enemy templates. The player acts first.
func Start(def types.EncounterDef, party []types.CombatantDef, r *rng.RNG, ai EnemyAI, tuning Tuning) *Encounter {
	e := &Encounter{
		id:      uuid.NewString(),
		defID:   def.ID,
		name:    def.Name,
		rewards: def.Rewards,
		phase:   PhasePlayerTurn,
		rng:     r,
		ai:      ai,
		tuning:  tuning,
	}
	for _, c := range party {
		e.party = append(e.party, Combatant{ID: c.ID, Name: c.Name, HP: c.MaxHP, MaxHP: c.MaxHP})
	}
	for _, c := range def.Enemies {
		e.enemies = append(e.enemies, Combatant{ID: c.ID, Name: c.Name, HP: c.MaxHP, MaxHP: c.MaxHP})
	}
	if len(e.party) > 0 {
		e.activeID = e.party[0].ID
	}
	e.logf("%s! The enemy blocks your path.", def.Name)
	return e
}

// SelectTarget marks a living enemy as the attack target.
func (e *Encounter) SelectTarget(enemyID string) error {
	if e.phase != PhasePlayerTurn {
		return fmt.Errorf("select target during %s: %w", e.phase, ErrInvalidTransition)
	}
	for i := range e.enemies {
		if e.enemies[i].ID == enemyID {
			if e.enemies[i].HP <= 0 {
				return fmt.Errorf("target %s is down: %w", enemyID, ErrInvalidTransition)
			}
			e.targetID = enemyID
			return nil
		}
	}
	return fmt.Errorf("no such enemy %s: %w", enemyID, ErrInvalidTransition)
}

// Attack rolls damage against the selected target. If the last enemy
// falls the encounter transitions to Victory and rewards are computed
// exactly once; otherwise the turn passes to the enemy side.
func (e *Encounter) Attack() error {
	if e.phase != PhasePlayerTurn {
		return fmt.Errorf("attack during %s: %w", e.phase, ErrInvalidTransition)
	}
	target := e.enemy(e.targetID)
	if target == nil || target.HP <= 0 {
		return fmt.Errorf("no living target selected: %w", ErrInvalidTransition)
	}

	damage := e.rng.IntRange(e.tuning.DamageMin, e.tuning.DamageMax)
	target.HP -= damage
	if target.HP < 0 {
		target.HP = 0
	}
	e.logf("%s hits %s for %d damage.", e.activeName(), target.Name, damage)

	if target.HP == 0 {
		e.logf("%s is defeated!", target.Name)
		e.targetID = ""
	}

	if e.allEnemiesDown() {
		e.reward = e.rollReward()
		e.phase = PhaseVictory
		e.logf("Victory!")
		return nil
	}

	e.phase = PhaseEnemyTurn
	return nil
}

// Defend logs a defensive stance and passes the turn, mirroring
// Attack's cycling without damage.
func (e *Encounter) Defend() error {
	if e.phase != PhasePlayerTurn {
		return fmt.Errorf("defend during %s: %w", e.phase, ErrInvalidTransition)
	}
	e.logf("%s braces behind a guard.", e.activeName())
	e.phase = PhaseEnemyTurn
	return nil
}

// Flee attempts escape. Success destroys the encounter (terminal
// Fled); failure passes the turn.
func (e *Encounter) Flee() (bool, error) {
	if e.phase != PhasePlayerTurn {
		return false, fmt.Errorf("flee during %s: %w", e.phase, ErrInvalidTransition)
	}
	if e.rng.Chance(e.tuning.FleeChance) {
		e.phase = PhaseFled
		e.logf("%s slips away from the fight.", e.activeName())
		return true, nil
	}
	e.logf("%s tries to flee but can't break away!", e.activeName())
	e.phase = PhaseEnemyTurn
	return false, nil
}

// ResolveEnemyTurn runs the enemy side and returns the turn to the
// player. The driver calls this after a short presentational delay —
// the pause models pacing, not concurrency.
func (e *Encounter) ResolveEnemyTurn() error {
	if e.phase != PhaseEnemyTurn {
		return fmt.Errorf("enemy turn during %s: %w", e.phase, ErrInvalidTransition)
	}
	for _, line := range e.ai.Act(e) {
		e.log = append(e.log, line)
	}
	if e.allPartyDown() {
		e.phase = PhaseDefeat
		e.logf("The party falls...")
		return nil
	}
	e.phase = PhasePlayerTurn
	e.logf("The turn returns to you.")
	return nil
}

// Terminal reports whether the encounter has ended.
func (e *Encounter) Terminal() bool {
	return e.phase == PhaseVictory || e.phase == PhaseDefeat || e.phase == PhaseFled
}

// TakeReward hands out the victory reward exactly once. It returns nil
// before victory and on every call after the first.
func (e *Encounter) TakeReward() *Reward {
	if e.phase != PhaseVictory || e.rewardTaken {
		return nil
	}
	e.rewardTaken = true
	return e.reward
}

func (e *Encounter) rollReward() *Reward {
	r := &Reward{}
	for _, loot := range e.rewards.Items {
		if e.rng.Roll(100) <= loot.Chance {
			r.Items = append(r.Items, types.Stack{ItemID: loot.ItemID, Quantity: 1})
		}
	}
	if e.rewards.CopperMax > 0 {
		r.Copper = e.rng.IntRange(e.rewards.CopperMin, e.rewards.CopperMax)
	}
	return r
}

// Snapshot is the read-only view handed to the presentation layer.
type Snapshot struct {
	ID       string      `json:"id"`
	DefID    string      `json:"def_id"`
	Name     string      `json:"name"`
	Party    []Combatant `json:"party"`
	Enemies  []Combatant `json:"enemies"`
	ActiveID string      `json:"active_id"`
	TargetID string      `json:"target_id"`
	Phase    Phase       `json:"phase"`
	Log      []string    `json:"log"`
}

// Snapshot copies the current encounter state.
func (e *Encounter) Snapshot() Snapshot {
	s := Snapshot{
		ID:       e.id,
		DefID:    e.defID,
		Name:     e.name,
		ActiveID: e.activeID,
		TargetID: e.targetID,
		Phase:    e.phase,
	}
	s.Party = append(s.Party, e.party...)
	s.Enemies = append(s.Enemies, e.enemies...)
	s.Log = append(s.Log, e.log...)
	return s
}

// Restore rebuilds an encounter from a snapshot (save restore). The
// def supplies the reward table; live HP comes from the snapshot.
func Restore(snap Snapshot, def types.EncounterDef, r *rng.RNG, ai EnemyAI, tuning Tuning) *Encounter {
	e := &Encounter{
		id:       snap.ID,
		defID:    snap.DefID,
		name:     snap.Name,
		rewards:  def.Rewards,
		activeID: snap.ActiveID,
		targetID: snap.TargetID,
		phase:    snap.Phase,
		rng:      r,
		ai:       ai,
		tuning:   tuning,
	}
	e.party = append(e.party, snap.Party...)
	e.enemies = append(e.enemies, snap.Enemies...)
	e.log = append(e.log, snap.Log...)
	return e
}

func (e *Encounter) enemy(id string) *Combatant {
	for i := range e.enemies {
		if e.enemies[i].ID == id {
			return &e.enemies[i]
		}
	}
	return nil
}

func (e *Encounter) activeName() string {
	for i := range e.party {
		if e.party[i].ID == e.activeID {
			return e.party[i].Name
		}
	}
	return "You"
}

func (e *Encounter) allEnemiesDown() bool {
	for _, c := range e.enemies {
		if c.HP > 0 {
			return false
		}
	}
	return true
}

func (e *Encounter) allPartyDown() bool {
	for _, c := range e.party {
		if c.HP > 0 {
			return false
		}
	}
	return true
}

func (e *Encounter) logf(format string, args ...any) {
	e.log = append(e.log, fmt.Sprintf(format, args...))
}
