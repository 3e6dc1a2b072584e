// Package pattern expands user-supplied task patterns into concrete manifest
// task names.
//
// A pattern is a bare name ("build"), a glob ("build:*"), an exclusion
// ("!build:slow"), or a sequential chain ("[lint,test]->[build]") whose
// positions become ordering constraints in the graph builder.
package pattern

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/weftlabs/weft/internal/model"
)

// Target is one resolved task name. Chain/Group identify the pattern's
// position in an "->" chain; both are -1 for untagged targets.
type Target struct {
	Name  string
	Chain int
	Group int
}

// ResolutionError reports a literal pattern that matches no manifest entry.
// It is fatal for explicit top-level targets only; nested discovery tolerates
// missing names.
type ResolutionError struct {
	Pattern string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("no task named %q in the manifest", e.Pattern)
}

// Resolver expands patterns against a loaded manifest.
type Resolver struct {
	manifest *model.Manifest
	warnf    func(format string, args ...any)
}

// New creates a Resolver. warnf receives lenient-mode skip notices; nil
// discards them.
func New(m *model.Manifest, warnf func(format string, args ...any)) *Resolver {
	if warnf == nil {
		warnf = func(string, ...any) {}
	}
	return &Resolver{manifest: m, warnf: warnf}
}

// Resolve expands patterns into an ordered, deduplicated target list.
//
// In strict mode a literal name absent from the manifest is a
// ResolutionError; in lenient mode (nested dependency plumbing) it is logged
// and skipped. Exclusions apply across the whole call. The first occurrence
// of a name wins, keeping its chain tag.
func (r *Resolver) Resolve(patterns []string, strict bool) ([]Target, error) {
	includes, excludes := splitExclusions(patterns)

	excluded, err := r.matcherFor(excludes)
	if err != nil {
		return nil, err
	}

	var targets []Target
	seen := make(map[string]bool)
	chainID := 0

	for _, p := range includes {
		segments := strings.Split(p, "->")
		chain := -1
		if len(segments) > 1 {
			chain = chainID
			chainID++
		}

		for group, seg := range segments {
			groupTag := -1
			if chain >= 0 {
				groupTag = group
			}
			for _, token := range splitGroup(seg) {
				names, err := r.expand(token, strict)
				if err != nil {
					return nil, err
				}
				for _, name := range names {
					if excluded(name) || seen[name] {
						continue
					}
					seen[name] = true
					targets = append(targets, Target{Name: name, Chain: chain, Group: groupTag})
				}
			}
		}
	}

	return targets, nil
}

// expand turns one token into concrete manifest names.
func (r *Resolver) expand(token string, strict bool) ([]string, error) {
	if !strings.Contains(token, "*") {
		if _, ok := r.manifest.Lookup(token); ok {
			return []string{token}, nil
		}
		if strict {
			return nil, &ResolutionError{Pattern: token}
		}
		r.warnf("dependency %q not found in manifest, skipping", token)
		return nil, nil
	}

	re, err := globRegexp(token)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(r.manifest.Entries))
	for name := range r.manifest.Entries {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []string
	for _, name := range names {
		if re.MatchString(name) {
			out = append(out, name)
		}
	}
	if len(out) == 0 && !strict {
		r.warnf("pattern %q matched no manifest tasks", token)
	}
	return out, nil
}

// matcherFor compiles exclusion tokens into a single predicate.
func (r *Resolver) matcherFor(excludes []string) (func(string) bool, error) {
	if len(excludes) == 0 {
		return func(string) bool { return false }, nil
	}
	res := make([]*regexp.Regexp, 0, len(excludes))
	for _, ex := range excludes {
		re, err := globRegexp(ex)
		if err != nil {
			return nil, err
		}
		res = append(res, re)
	}
	return func(name string) bool {
		for _, re := range res {
			if re.MatchString(name) {
				return true
			}
		}
		return false
	}, nil
}

// splitExclusions separates "!pat" tokens from include patterns. Exclusions
// written inline inside bracketed groups are lifted out as well; splitGroup
// later drops them from the include side.
func splitExclusions(patterns []string) (includes, excludes []string) {
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if strings.HasPrefix(p, "!") {
			excludes = append(excludes, strings.TrimPrefix(p, "!"))
			continue
		}
		for _, seg := range strings.Split(p, "->") {
			seg = strings.TrimSpace(seg)
			seg = strings.TrimPrefix(seg, "[")
			seg = strings.TrimSuffix(seg, "]")
			for _, tok := range strings.Split(seg, ",") {
				tok = strings.TrimSpace(tok)
				if strings.HasPrefix(tok, "!") {
					excludes = append(excludes, strings.TrimPrefix(tok, "!"))
				}
			}
		}
		includes = append(includes, p)
	}
	return includes, excludes
}

// splitGroup strips optional surrounding brackets and comma-splits. Empty
// tokens and inline exclusions (already lifted by splitExclusions) are
// dropped.
func splitGroup(seg string) []string {
	seg = strings.TrimSpace(seg)
	seg = strings.TrimPrefix(seg, "[")
	seg = strings.TrimSuffix(seg, "]")

	var out []string
	for _, tok := range strings.Split(seg, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" || strings.HasPrefix(tok, "!") {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// globRegexp compiles a "*" wildcard pattern into an anchored regexp.
func globRegexp(pattern string) (*regexp.Regexp, error) {
	var sb strings.Builder
	sb.WriteString("^")
	for i, part := range strings.Split(pattern, "*") {
		if i > 0 {
			sb.WriteString(".*")
		}
		sb.WriteString(regexp.QuoteMeta(part))
	}
	sb.WriteString("$")

	re, err := regexp.Compile(sb.String())
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return re, nil
}
