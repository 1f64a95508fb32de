package engine

import (
	"github.com/nboyd/hearthvale/engine/combat"
	"github.com/nboyd/hearthvale/types"
)

// partyTemplate is the player's combat stand-in. Encounters clone it,
// so fights never write through to session state.
func (s *Session) partyTemplate() []types.CombatantDef {
	return []types.CombatantDef{{
		ID:    "player",
		Name:  "You",
		MaxHP: s.player.Vitals.MaxHealth,
	}}
}

func (s *Session) combatTuning() combat.Tuning {
	return combat.Tuning{
		DamageMin:  s.Cfg.Combat.DamageMin,
		DamageMax:  s.Cfg.Combat.DamageMax,
		FleeChance: s.Cfg.Combat.FleeChance,
	}
}

// StartCombat begins an authored encounter. The player acts first.
func (s *Session) StartCombat(encounterID string) error {
	if s.Suspended() {
		return ErrInvalidCommand
	}
	def, err := s.Defs.Encounter(encounterID)
	if err != nil {
		return err
	}
	s.encounter = combat.Start(def, s.partyTemplate(), s.rng, combat.NoOpAI{}, s.combatTuning())
	return nil
}

// CombatSelectTarget marks a living enemy for attack.
func (s *Session) CombatSelectTarget(enemyID string) error {
	if s.encounter == nil {
		return ErrInvalidCommand
	}
	return s.encounter.SelectTarget(enemyID)
}

// CombatAttack attacks the selected target.
func (s *Session) CombatAttack() error {
	if s.encounter == nil {
		return ErrInvalidCommand
	}
	return s.encounter.Attack()
}

// CombatDefend takes a defensive stance and passes the turn.
func (s *Session) CombatDefend() error {
	if s.encounter == nil {
		return ErrInvalidCommand
	}
	return s.encounter.Defend()
}

// CombatFlee attempts escape. On success the encounter is finished
// immediately and control returns to the location screen.
func (s *Session) CombatFlee() (bool, error) {
	if s.encounter == nil {
		return false, ErrInvalidCommand
	}
	fled, err := s.encounter.Flee()
	if err != nil {
		return false, err
	}
	if fled {
		s.finishEncounter()
	}
	return fled, nil
}

// CombatResolveEnemyTurn runs the enemy side and returns the turn. The
// frontend calls this after its pacing delay.
func (s *Session) CombatResolveEnemyTurn() error {
	if s.encounter == nil {
		return ErrInvalidCommand
	}
	return s.encounter.ResolveEnemyTurn()
}

// CombatFinish acknowledges a terminal encounter: victory rewards are
// deposited exactly once, then the encounter is destroyed. Returns the
// reward granted, if any.
func (s *Session) CombatFinish() (*combat.Reward, error) {
	if s.encounter == nil {
		return nil, ErrInvalidCommand
	}
	if !s.encounter.Terminal() {
		return nil, combat.ErrInvalidTransition
	}
	reward := s.encounter.TakeReward()
	if reward != nil {
		// Items that no longer fit are left behind; coin always fits.
		for _, st := range reward.Items {
			_ = s.inv.AddItem(st.ItemID, st.Quantity)
		}
		s.inv.AddCopper(reward.Copper)
	}
	s.finishEncounter()
	return reward, nil
}

func (s *Session) finishEncounter() {
	s.encounter = nil
}
