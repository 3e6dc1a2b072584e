package pattern

import (
	"errors"
	"testing"

	"github.com/weftlabs/weft/internal/model"
)

func testManifest() *model.Manifest {
	return &model.Manifest{Entries: map[string]string{
		"build":        "echo build",
		"build:client": "echo client",
		"build:server": "echo server",
		"test":         "echo test",
		"lint":         "echo lint",
	}}
}

func names(targets []Target) []string {
	out := make([]string, 0, len(targets))
	for _, t := range targets {
		out = append(out, t.Name)
	}
	return out
}

func TestResolve_LiteralNames(t *testing.T) {
	r := New(testManifest(), nil)

	targets, err := r.Resolve([]string{"build", "test"}, true)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	got := names(targets)
	if len(got) != 2 || got[0] != "build" || got[1] != "test" {
		t.Fatalf("expected [build test], got %v", got)
	}
	for _, tg := range targets {
		if tg.Chain != -1 || tg.Group != -1 {
			t.Errorf("expected untagged target, got %+v", tg)
		}
	}
}

func TestResolve_Glob(t *testing.T) {
	r := New(testManifest(), nil)

	targets, err := r.Resolve([]string{"build:*"}, true)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	got := names(targets)
	if len(got) != 2 || got[0] != "build:client" || got[1] != "build:server" {
		t.Fatalf("expected sorted glob matches, got %v", got)
	}
}

func TestResolve_Exclusion(t *testing.T) {
	r := New(testManifest(), nil)

	targets, err := r.Resolve([]string{"build:*", "!build:server"}, true)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	got := names(targets)
	if len(got) != 1 || got[0] != "build:client" {
		t.Fatalf("expected [build:client], got %v", got)
	}
}

func TestResolve_InlineExclusion(t *testing.T) {
	r := New(testManifest(), nil)

	targets, err := r.Resolve([]string{"[build:*,!build:server]"}, true)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	got := names(targets)
	if len(got) != 1 || got[0] != "build:client" {
		t.Fatalf("expected [build:client], got %v", got)
	}
}

func TestResolve_Chain(t *testing.T) {
	r := New(testManifest(), nil)

	targets, err := r.Resolve([]string{"[lint,test]->[build]"}, true)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(targets) != 3 {
		t.Fatalf("expected 3 targets, got %v", targets)
	}
	for _, tg := range targets[:2] {
		if tg.Chain != 0 || tg.Group != 0 {
			t.Errorf("expected chain 0 group 0, got %+v", tg)
		}
	}
	if targets[2].Name != "build" || targets[2].Group != 1 {
		t.Errorf("expected build in group 1, got %+v", targets[2])
	}
}

func TestResolve_SeparateChainsDoNotShareGroups(t *testing.T) {
	r := New(testManifest(), nil)

	targets, err := r.Resolve([]string{"[lint]->[test]", "[build:client]->[build:server]"}, true)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if targets[0].Chain == targets[2].Chain {
		t.Errorf("expected distinct chain ids, got %+v and %+v", targets[0], targets[2])
	}
}

func TestResolve_Dedup(t *testing.T) {
	r := New(testManifest(), nil)

	targets, err := r.Resolve([]string{"build", "build", "build:*", "build"}, true)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	seen := map[string]int{}
	for _, tg := range targets {
		seen[tg.Name]++
	}
	for name, n := range seen {
		if n != 1 {
			t.Errorf("expected %q once, got %d", name, n)
		}
	}
}

func TestResolve_StrictMissingLiteral(t *testing.T) {
	r := New(testManifest(), nil)

	_, err := r.Resolve([]string{"nope"}, true)
	var re *ResolutionError
	if !errors.As(err, &re) {
		t.Fatalf("expected ResolutionError, got %v", err)
	}
	if re.Pattern != "nope" {
		t.Errorf("expected pattern %q in error, got %q", "nope", re.Pattern)
	}
}

func TestResolve_LenientMissingLiteral(t *testing.T) {
	var warned bool
	r := New(testManifest(), func(string, ...any) { warned = true })

	targets, err := r.Resolve([]string{"nope", "build"}, false)
	if err != nil {
		t.Fatalf("expected no error in lenient mode, got %v", err)
	}
	if !warned {
		t.Error("expected a warning for the missing name")
	}
	got := names(targets)
	if len(got) != 1 || got[0] != "build" {
		t.Fatalf("expected [build], got %v", got)
	}
}

func TestResolve_GlobNoMatchesIsNotFatal(t *testing.T) {
	r := New(testManifest(), nil)

	targets, err := r.Resolve([]string{"deploy:*"}, true)
	if err != nil {
		t.Fatalf("expected no error for unmatched glob, got %v", err)
	}
	if len(targets) != 0 {
		t.Fatalf("expected no targets, got %v", targets)
	}
}
