package dialogue

import (
	"errors"
	"testing"

	"github.com/nboyd/hearthvale/types"
)

// testTree builds a small tree with a cycle (0 → 1 → 0), a skill-gated
// choice, and closing choices at both nodes.
func testTree() types.DialogueTree {
	return types.DialogueTree{
		ID: "elder_default",
		Nodes: map[string]types.DialogueNode{
			"0": {
				NPCText: "Welcome, traveler.",
				Choices: []types.DialogueChoice{
					{Text: "Tell me about the village.", NextNodeID: "1"},
					{
						Text:       "I hear you need a master angler.",
						NextNodeID: "2",
						SkillCheck: &types.SkillCheck{Skill: "fishing", RequiredLevel: 5},
					},
					{Text: "Farewell.", ClosesDialogue: true},
				},
			},
			"1": {
				NPCText: "Founded three generations back.",
				Choices: []types.DialogueChoice{
					{Text: "Anything else?", NextNodeID: "0"},
					{Text: "That's enough history.", ClosesDialogue: true, NextNodeID: "0"},
				},
			},
			"2": {
				NPCText: "So you're the one.",
				Choices: []types.DialogueChoice{
					{Text: "Goodbye.", ClosesDialogue: true},
				},
			},
		},
	}
}

func TestStart_RootRequired(t *testing.T) {
	_, err := Start("Elder", types.DialogueTree{ID: "bad", Nodes: map[string]types.DialogueNode{}}, nil)
	if !errors.Is(err, ErrBadNode) {
		t.Fatalf("got %v, want ErrBadNode", err)
	}
}

func TestPrompt_SkillGatedChoiceVisibleButDisabled(t *testing.T) {
	c, err := Start("Elder", testTree(), map[string]int{"fishing": 2})
	if err != nil {
		t.Fatal(err)
	}
	p, err := c.Prompt()
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Choices) != 3 {
		t.Fatalf("got %d choices, want 3 (gated choice stays visible)", len(p.Choices))
	}
	gated := p.Choices[1]
	if gated.Enabled {
		t.Error("unmet skill check left choice enabled")
	}
	if gated.Requires == nil || gated.Requires.RequiredLevel != 5 {
		t.Errorf("requirement not surfaced: %+v", gated.Requires)
	}

	if err := c.Choose(1); !errors.Is(err, ErrInvalidChoice) {
		t.Fatalf("choosing disabled choice: got %v, want ErrInvalidChoice", err)
	}
}

func TestChoose_SkillMetEnablesChoice(t *testing.T) {
	c, _ := Start("Elder", testTree(), map[string]int{"fishing": 5})
	if err := c.Choose(1); err != nil {
		t.Fatalf("met skill check rejected: %v", err)
	}
	if c.NodeID() != "2" {
		t.Errorf("at node %q, want 2", c.NodeID())
	}
}

func TestChoose_ClosingChoiceWinsOverNextNode(t *testing.T) {
	c, _ := Start("Elder", testTree(), nil)
	if err := c.Choose(0); err != nil { // → node 1
		t.Fatal(err)
	}
	// Node 1's second choice closes AND names a next node; close wins.
	if err := c.Choose(1); err != nil {
		t.Fatal(err)
	}
	if !c.Closed() {
		t.Fatal("conversation not closed")
	}
	if err := c.Choose(0); !errors.Is(err, ErrClosed) {
		t.Errorf("choose after close: got %v, want ErrClosed", err)
	}
}

func TestTraversal_CycleDoesNotRecurse(t *testing.T) {
	c, _ := Start("Elder", testTree(), nil)
	// Walk the 0 → 1 → 0 cycle many times; one-level expansion means
	// this is a flat loop, not recursion.
	for i := 0; i < 10000; i++ {
		if err := c.Choose(0); err != nil {
			t.Fatalf("iteration %d: %v", i, err)
		}
		if _, err := c.Prompt(); err != nil {
			t.Fatalf("iteration %d prompt: %v", i, err)
		}
	}
	if c.Closed() {
		t.Error("cycle walk closed the conversation")
	}
}

func TestRestart_AlwaysAtRoot(t *testing.T) {
	c, _ := Start("Elder", testTree(), nil)
	c.Choose(0)
	if c.NodeID() != "1" {
		t.Fatal("setup failed")
	}

	// No memory across sessions: a new conversation starts at root.
	c2, _ := Start("Elder", testTree(), nil)
	if c2.NodeID() != RootNodeID {
		t.Errorf("fresh conversation at %q, want root", c2.NodeID())
	}
}

func TestRestoreNode(t *testing.T) {
	c, _ := Start("Elder", testTree(), nil)
	if err := c.RestoreNode("1"); err != nil {
		t.Fatal(err)
	}
	p, _ := c.Prompt()
	if p.NodeID != "1" {
		t.Errorf("restored to %q", p.NodeID)
	}
	if err := c.RestoreNode("99"); !errors.Is(err, ErrBadNode) {
		t.Errorf("restore to missing node: got %v", err)
	}
}
