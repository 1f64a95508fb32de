// Package dialogue traverses authored conversation graphs. A
// conversation holds a single current-node ID for its lifetime and is
// discarded on close; re-entering an NPC's tree always restarts at the
// root. Only the current node's immediate choices are ever
// materialized, so cyclic graphs are safe.
package dialogue

import (
	"errors"
	"fmt"

	"github.com/nboyd/hearthvale/types"
)

// RootNodeID is where every conversation begins.
const RootNodeID = "0"

var (
	// ErrInvalidChoice means the choice index is out of range or the
	// choice is disabled by an unmet skill check.
	ErrInvalidChoice = errors.New("invalid dialogue choice")
	// ErrClosed means the conversation has already reached a terminal state.
	ErrClosed = errors.New("conversation closed")
	// ErrBadNode means a node ID has no entry in the tree. Authored
	// trees are validated at load time, so this indicates a defect.
	ErrBadNode = errors.New("dialogue node not found")
)

// Choice is one reply option presented to the player. A choice whose
// skill check is unmet stays visible (so the player sees what is
// needed) but is not selectable.
type Choice struct {
	Text     string
	Enabled  bool
	Closes   bool
	Requires *types.SkillCheck // nil if ungated
}

// Prompt is everything the presentation layer needs to render the
// current node: the NPC's line and exactly one level of choices.
type Prompt struct {
	NodeID  string
	NPCName string
	NPCText string
	Choices []Choice
}

// Conversation is the traversal state for one dialogue session.
type Conversation struct {
	npcName string
	tree    types.DialogueTree
	current string
	skills  map[string]int
	closed  bool
}

// Start opens a conversation at the tree's root node.
func Start(npcName string, tree types.DialogueTree, skills map[string]int) (*Conversation, error) {
	if _, ok := tree.Nodes[RootNodeID]; !ok {
		return nil, fmt.Errorf("tree %q root: %w", tree.ID, ErrBadNode)
	}
	return &Conversation{
		npcName: npcName,
		tree:    tree,
		current: RootNodeID,
		skills:  skills,
	}, nil
}

// Prompt returns the current node rendered for presentation. Choices
// are the node's immediate children only; deeper branches are not
// expanded, which keeps cyclic trees finite to traverse.
func (c *Conversation) Prompt() (Prompt, error) {
	if c.closed {
		return Prompt{}, ErrClosed
	}
	node, ok := c.tree.Nodes[c.current]
	if !ok {
		return Prompt{}, fmt.Errorf("node %q: %w", c.current, ErrBadNode)
	}

	p := Prompt{NodeID: c.current, NPCName: c.npcName, NPCText: node.NPCText}
	for _, ch := range node.Choices {
		enabled := true
		if ch.SkillCheck != nil {
			enabled = c.skills[ch.SkillCheck.Skill] >= ch.SkillCheck.RequiredLevel
		}
		p.Choices = append(p.Choices, Choice{
			Text:     ch.Text,
			Enabled:  enabled,
			Closes:   ch.ClosesDialogue,
			Requires: ch.SkillCheck,
		})
	}
	return p, nil
}

// Choose selects a reply by index. A closing choice ends the
// conversation regardless of any next-node reference; otherwise the
// conversation moves to the choice's next node.
func (c *Conversation) Choose(index int) error {
	if c.closed {
		return ErrClosed
	}
	node, ok := c.tree.Nodes[c.current]
	if !ok {
		return fmt.Errorf("node %q: %w", c.current, ErrBadNode)
	}
	if index < 0 || index >= len(node.Choices) {
		return fmt.Errorf("choice %d of %d: %w", index, len(node.Choices), ErrInvalidChoice)
	}

	ch := node.Choices[index]
	if ch.SkillCheck != nil && c.skills[ch.SkillCheck.Skill] < ch.SkillCheck.RequiredLevel {
		return fmt.Errorf("requires %s %d: %w", ch.SkillCheck.Skill, ch.SkillCheck.RequiredLevel, ErrInvalidChoice)
	}

	if ch.ClosesDialogue {
		c.closed = true
		return nil
	}
	if ch.NextNodeID == "" {
		// A choice with no destination and no close marker keeps the
		// conversation on the current node.
		return nil
	}
	if _, ok := c.tree.Nodes[ch.NextNodeID]; !ok {
		return fmt.Errorf("next node %q: %w", ch.NextNodeID, ErrBadNode)
	}
	c.current = ch.NextNodeID
	return nil
}

// Closed reports whether the conversation reached a terminal state.
func (c *Conversation) Closed() bool { return c.closed }

// NodeID returns the current node, for serialization.
func (c *Conversation) NodeID() string { return c.current }

// TreeID returns the tree being traversed, for serialization.
func (c *Conversation) TreeID() string { return c.tree.ID }

// RestoreNode repositions the conversation (used by save restore).
func (c *Conversation) RestoreNode(id string) error {
	if _, ok := c.tree.Nodes[id]; !ok {
		return fmt.Errorf("node %q: %w", id, ErrBadNode)
	}
	c.current = id
	c.closed = false
	return nil
}
