// Package cli turns command-line tokens into a run invocation.
package cli

import (
	"fmt"
	"strings"
)

// Invocation is the parsed command line.
type Invocation struct {
	// Subcommand is "init", "list", "version", or "help"; empty means a run.
	Subcommand string

	// Patterns are the target patterns before "--".
	Patterns []string

	// Trailing is the verbatim command after "--", empty when absent.
	Trailing string

	Quiet           bool
	ContinueOnError bool
	NoPrefix        bool
	Prefix          string
	Cwd             string
	Env             map[string]string
	ManifestPath    string
}

var subcommands = map[string]bool{
	"init":    true,
	"list":    true,
	"version": true,
	"help":    true,
}

// Parse processes args (without the program name). Flags and patterns may be
// interleaved; everything after "--" is the trailing command, verbatim. A
// leading subcommand still accepts flags but no patterns or trailing command.
func Parse(args []string) (*Invocation, error) {
	inv := &Invocation{Env: make(map[string]string)}

	if len(args) > 0 && subcommands[args[0]] {
		inv.Subcommand = args[0]
		args = args[1:]
	}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--":
			if inv.Subcommand != "" {
				return nil, fmt.Errorf("%s does not take a trailing command", inv.Subcommand)
			}
			inv.Trailing = strings.Join(args[i+1:], " ")
			return inv, nil
		case "-q", "--quiet":
			inv.Quiet = true
		case "-c", "--continue-on-error":
			inv.ContinueOnError = true
		case "--no-prefix":
			inv.NoPrefix = true
		case "--prefix":
			val, err := value(args, &i)
			if err != nil {
				return nil, err
			}
			inv.Prefix = val
		case "--cwd":
			val, err := value(args, &i)
			if err != nil {
				return nil, err
			}
			inv.Cwd = val
		case "--manifest":
			val, err := value(args, &i)
			if err != nil {
				return nil, err
			}
			inv.ManifestPath = val
		case "--env":
			val, err := value(args, &i)
			if err != nil {
				return nil, err
			}
			key, v, ok := strings.Cut(val, "=")
			if !ok || key == "" {
				return nil, fmt.Errorf("--env expects KEY=VALUE, got %q", val)
			}
			inv.Env[key] = v
		default:
			if strings.HasPrefix(args[i], "-") && args[i] != "-" {
				return nil, fmt.Errorf("unknown flag: %s", args[i])
			}
			if inv.Subcommand != "" {
				return nil, fmt.Errorf("unexpected argument to %s: %s", inv.Subcommand, args[i])
			}
			inv.Patterns = append(inv.Patterns, args[i])
		}
	}

	return inv, nil
}

func value(args []string, i *int) (string, error) {
	if *i+1 >= len(args) {
		return "", fmt.Errorf("%s requires a value", args[*i])
	}
	*i++
	return args[*i], nil
}
