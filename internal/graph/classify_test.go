package graph

import (
	"errors"
	"testing"
)

func TestClassifyCommand_Leaf(t *testing.T) {
	for _, raw := range []string{
		"echo hello",
		"go test ./...",
		"weftish [a]",       // alias must match exactly
		"weft --version",    // flag, not a pattern group
		"weft build",        // bare argument, not a pattern group
		"weft",              // alias alone
		"node weft.js [a]",  // alias not in command position
	} {
		c, err := classifyCommand("t", raw)
		if err != nil {
			t.Fatalf("%q: expected no error, got %v", raw, err)
		}
		if !c.leaf {
			t.Errorf("%q: expected leaf classification", raw)
		}
		if c.command != raw {
			t.Errorf("%q: expected verbatim command, got %q", raw, c.command)
		}
	}
}

func TestClassifyCommand_Composite(t *testing.T) {
	tests := []struct {
		raw      string
		patterns []string
		command  string
	}{
		{"weft [a,b] -- echo done", []string{"[a,b]"}, "echo done"},
		{"weft [a, b] -- echo done", []string{"[a, b]"}, "echo done"},
		{"wf [build:*] -- echo ok", []string{"[build:*]"}, "echo ok"},
		{"weft [lint]->[build]", []string{"[lint]->[build]"}, ""},
		{"weft [a,b]", []string{"[a,b]"}, ""},
		{"weft [] -- echo only", []string{"[]"}, "echo only"},
		{"weft -- echo only", nil, "echo only"},
		{"./node_modules/.bin/wf [a]", []string{"[a]"}, ""},
		{"weft [a] --", []string{"[a]"}, ""},
	}

	for _, tt := range tests {
		c, err := classifyCommand("t", tt.raw)
		if err != nil {
			t.Fatalf("%q: expected no error, got %v", tt.raw, err)
		}
		if c.leaf {
			t.Errorf("%q: expected composite classification", tt.raw)
			continue
		}
		if len(c.patterns) != len(tt.patterns) {
			t.Errorf("%q: expected patterns %v, got %v", tt.raw, tt.patterns, c.patterns)
			continue
		}
		for i := range c.patterns {
			if c.patterns[i] != tt.patterns[i] {
				t.Errorf("%q: expected patterns %v, got %v", tt.raw, tt.patterns, c.patterns)
			}
		}
		if c.command != tt.command {
			t.Errorf("%q: expected command %q, got %q", tt.raw, tt.command, c.command)
		}
	}
}

func TestClassifyCommand_NestedOrchestrationRejected(t *testing.T) {
	_, err := classifyCommand("t", "weft [a] -- weft [b] -- echo x")
	var ne *UnsupportedNestingError
	if !errors.As(err, &ne) {
		t.Fatalf("expected UnsupportedNestingError, got %v", err)
	}
	if ne.Task != "t" {
		t.Errorf("expected task name in error, got %q", ne.Task)
	}
}

func TestIsOrchestration(t *testing.T) {
	if IsOrchestration("echo hi") {
		t.Error("plain command misclassified as orchestration")
	}
	if !IsOrchestration("weft [a] -- echo hi") {
		t.Error("orchestration invocation not recognized")
	}
	if !IsOrchestration("wf -- echo hi") {
		t.Error("bare trailing form not recognized")
	}
	if IsOrchestration("weft") {
		t.Error("bare alias misclassified as orchestration")
	}
}
