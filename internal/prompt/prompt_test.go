package prompt

import (
	"strings"
	"testing"
)

func TestBuildSectionOrder(t *testing.T) {
	p := Build("Jane Doe\nSoftware Engineer\n")

	labels := []string{
		"Overall Rating (out of 10):",
		"Strengths:",
		"Weaknesses Areas for Improvement:",
		"Suggestions for Improvement:",
		"Now analyze this CV:",
		"Jane Doe\nSoftware Engineer\n",
	}
	last := -1
	for _, label := range labels {
		idx := strings.Index(p, label)
		if idx < 0 {
			t.Fatalf("prompt missing %q", label)
		}
		if idx <= last {
			t.Fatalf("expected %q after previous label", label)
		}
		last = idx
	}
	if !strings.Contains(p, `"`+NotCVReply+`"`) {
		t.Fatalf("prompt missing non-CV instruction")
	}
}

func TestBuildTerminatesWithNewline(t *testing.T) {
	if p := Build("no trailing newline"); !strings.HasSuffix(p, "no trailing newline\n") {
		t.Fatalf("expected trailing newline, got %q", p[len(p)-30:])
	}
}

func TestHashStable(t *testing.T) {
	a := Hash(Build("cv"))
	if a != Hash(Build("cv")) {
		t.Fatal("expected stable hash")
	}
	if a == Hash(Build("other cv")) {
		t.Fatal("expected different hash for different text")
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
}
