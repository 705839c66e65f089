package emotion

import (
	"strings"
	"testing"
)

func TestBuildInstructionSubstitutesAdjective(t *testing.T) {
	for _, spec := range All() {
		got := BuildInstruction(spec)
		if !strings.Contains(got, spec.Adjective) {
			t.Fatalf("instruction for %q missing adjective %q: %s", spec.Label, spec.Adjective, got)
		}
		if !strings.Contains(got, "instant-camera photograph") {
			t.Fatalf("instruction for %q missing style clause: %s", spec.Label, got)
		}
	}
}

func TestBuildInstructionTrimsAdjective(t *testing.T) {
	got := BuildInstruction(Spec{ID: "x", Label: "X", Adjective: "  mildly amused  "})
	if strings.Contains(got, "  mildly") {
		t.Fatalf("adjective not trimmed: %s", got)
	}
	if !strings.Contains(got, "looks mildly amused.") {
		t.Fatalf("unexpected instruction: %s", got)
	}
}

func TestEmotionSetIsStable(t *testing.T) {
	if len(All()) != 6 {
		t.Fatalf("emotion set size = %d, want 6", len(All()))
	}
	labels := Labels()
	seen := map[string]bool{}
	for _, l := range labels {
		if seen[l] {
			t.Fatalf("duplicate label %q", l)
		}
		seen[l] = true
		spec, ok := ByLabel(l)
		if !ok || spec.Label != l {
			t.Fatalf("ByLabel(%q) = %#v, %v", l, spec, ok)
		}
	}
	if _, ok := ByLabel("Nope"); ok {
		t.Fatal("ByLabel should miss unknown labels")
	}
	// All must hand out copies.
	mutated := All()
	mutated[0].Label = "changed"
	if All()[0].Label == "changed" {
		t.Fatal("All leaked internal slice")
	}
}
