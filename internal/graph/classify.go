package graph

import (
	"path/filepath"
	"strings"
)

// Aliases under which a manifest command is recognized as an orchestration
// invocation, either bare or as the base of an executable path.
var orchestratorAliases = map[string]bool{
	"weft": true,
	"wf":   true,
}

// classified is the parse result for one manifest command: either a leaf
// shell command to run verbatim, or a nested orchestration carrying raw
// dependency patterns and an optional final command.
type classified struct {
	leaf     bool
	patterns []string
	command  string
}

// classifyCommand decides whether a command string is itself an
// orchestration invocation and, if so, splits it into dependency patterns
// and the trailing command.
//
// Recognized shapes:
//
//	weft [a,b] -- cmd
//	wf [lint]->[build]
//	./node_modules/.bin/wf [] -- cmd
//	weft -- cmd
//
// Anything else is a leaf and runs verbatim. A trailing command that is
// itself an orchestration invocation is an UnsupportedNestingError.
func classifyCommand(taskName, raw string) (classified, error) {
	head, trailing, hasTrailing := splitTrailing(raw)

	fields := strings.Fields(head)
	if len(fields) == 0 || !orchestratorAliases[filepath.Base(fields[0])] {
		return classified{leaf: true, command: raw}, nil
	}

	patterns, ok := patternGroups(fields[1:])
	if !ok {
		// A flag or free-form argument before "--" means this is not the
		// recognized invocation shape; the command runs verbatim.
		return classified{leaf: true, command: raw}, nil
	}
	if len(patterns) == 0 && !hasTrailing {
		// A bare alias with neither patterns nor a command is not an
		// orchestration invocation.
		return classified{leaf: true, command: raw}, nil
	}

	if IsOrchestration(trailing) {
		return classified{}, &UnsupportedNestingError{Task: taskName, Command: raw}
	}

	return classified{patterns: patterns, command: trailing}, nil
}

// IsOrchestration reports whether a command string has the recognized
// orchestration invocation shape.
func IsOrchestration(command string) bool {
	head, _, hasTrailing := splitTrailing(command)
	fields := strings.Fields(head)
	if len(fields) == 0 || !orchestratorAliases[filepath.Base(fields[0])] {
		return false
	}
	patterns, ok := patternGroups(fields[1:])
	if !ok {
		return false
	}
	return len(patterns) > 0 || hasTrailing
}

// patternGroups merges whitespace-split tokens back into bracketed pattern
// groups, tolerating spaces after commas ("[a, b]"). It reports false when
// any argument is not part of a bracketed group.
func patternGroups(tokens []string) ([]string, bool) {
	var patterns []string
	var current string
	depth := 0

	for _, tok := range tokens {
		if current == "" && !strings.HasPrefix(tok, "[") {
			return nil, false
		}
		if current != "" {
			current += " "
		}
		current += tok
		depth += strings.Count(tok, "[") - strings.Count(tok, "]")
		if depth <= 0 {
			patterns = append(patterns, current)
			current = ""
			depth = 0
		}
	}
	if current != "" {
		// Unbalanced brackets: not the recognized shape.
		return nil, false
	}
	return patterns, true
}

// splitTrailing cuts a command at the first "--" separator token.
func splitTrailing(raw string) (head, trailing string, found bool) {
	raw = strings.TrimSpace(raw)
	if i := strings.Index(raw, " -- "); i >= 0 {
		return raw[:i], strings.TrimSpace(raw[i+4:]), true
	}
	if strings.HasSuffix(raw, " --") {
		return strings.TrimSuffix(raw, " --"), "", true
	}
	return raw, "", false
}
