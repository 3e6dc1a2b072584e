package graph

import (
	"errors"
	"strings"
	"testing"
)

func indexOf(xs []string, x string) int {
	for i, v := range xs {
		if v == x {
			return i
		}
	}
	return -1
}

func TestTopoSort_LinearChain(t *testing.T) {
	names := []string{"a", "b", "c"}
	dependsOn := map[string][]string{
		"b": {"a"},
		"c": {"b"},
	}

	sorted, err := topoSort(names, dependsOn)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if indexOf(sorted, "a") >= indexOf(sorted, "b") {
		t.Errorf("expected a before b, got %v", sorted)
	}
	if indexOf(sorted, "b") >= indexOf(sorted, "c") {
		t.Errorf("expected b before c, got %v", sorted)
	}
}

func TestTopoSort_Diamond(t *testing.T) {
	names := []string{"top", "left", "right", "bottom"}
	dependsOn := map[string][]string{
		"left":   {"top"},
		"right":  {"top"},
		"bottom": {"left", "right"},
	}

	sorted, err := topoSort(names, dependsOn)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(sorted) != 4 {
		t.Fatalf("expected 4 nodes, got %v", sorted)
	}
	if indexOf(sorted, "bottom") != 3 {
		t.Errorf("expected bottom last, got %v", sorted)
	}
	if indexOf(sorted, "top") != 0 {
		t.Errorf("expected top first, got %v", sorted)
	}
}

func TestTopoSort_Cycle(t *testing.T) {
	names := []string{"x", "y"}
	dependsOn := map[string][]string{
		"x": {"y"},
		"y": {"x"},
	}

	_, err := topoSort(names, dependsOn)
	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CycleError, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "x") || !strings.Contains(msg, "y") {
		t.Errorf("expected cycle members in message, got %q", msg)
	}
}

func TestTopoSort_SelfReference(t *testing.T) {
	names := []string{"loop"}
	dependsOn := map[string][]string{
		"loop": {"loop"},
	}

	_, err := topoSort(names, dependsOn)
	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CycleError, got %v", err)
	}
	if !strings.Contains(err.Error(), "loop") {
		t.Errorf("expected loop in message, got %q", err.Error())
	}
}

func TestTopoSort_UnknownDepsSkipped(t *testing.T) {
	names := []string{"a"}
	dependsOn := map[string][]string{
		"a": {"missing"},
	}

	sorted, err := topoSort(names, dependsOn)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(sorted) != 1 || sorted[0] != "a" {
		t.Fatalf("expected [a], got %v", sorted)
	}
}

func TestTopoSort_Empty(t *testing.T) {
	sorted, err := topoSort(nil, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(sorted) != 0 {
		t.Fatalf("expected empty order, got %v", sorted)
	}
}
