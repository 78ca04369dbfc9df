package reviews

import (
	"bytes"
	"strings"
	"testing"

	"cv-review/internal/shared/telemetry"
)

func TestStateTransitions(t *testing.T) {
	allowed := [][2]State{
		{StateIdle, StateFileSelected},
		{StateFileSelected, StateExtracting},
		{StateExtracting, StatePrompting},
		{StateExtracting, StateError},
		{StatePrompting, StateAwaitingAnalysis},
		{StateAwaitingAnalysis, StateRendered},
		{StateAwaitingAnalysis, StateError},
	}
	for _, tr := range allowed {
		if !tr[0].CanTransition(tr[1]) {
			t.Fatalf("%s->%s should be allowed", tr[0], tr[1])
		}
	}

	rejected := [][2]State{
		{StateIdle, StateExtracting},
		{StateFileSelected, StateRendered},
		{StatePrompting, StateError},
		{StateRendered, StateFileSelected},
		{StateError, StateExtracting},
		{StateError, StateFileSelected},
		{StateAwaitingAnalysis, StatePrompting},
	}
	for _, tr := range rejected {
		if tr[0].CanTransition(tr[1]) {
			t.Fatalf("%s->%s should be rejected", tr[0], tr[1])
		}
	}
}

func TestTerminalStates(t *testing.T) {
	for _, s := range []State{StateRendered, StateError} {
		if !s.Terminal() {
			t.Fatalf("%s should be terminal", s)
		}
	}
	if StateAwaitingAnalysis.Terminal() {
		t.Fatal("awaiting_analysis should not be terminal")
	}
}

func TestRunAdvanceRejectsIllegal(t *testing.T) {
	var buf bytes.Buffer
	restore := telemetry.SetOutput(&buf)
	defer restore()

	r := &run{reviewID: "rev", state: StateFileSelected}
	r.advance(StateRendered)
	if r.state != StateFileSelected {
		t.Fatalf("state changed to %s after rejected transition", r.state)
	}
	logged := buf.String()
	if !strings.Contains(logged, `"msg":"review.invalid_transition"`) || !strings.Contains(logged, "invalid review transition file_selected") {
		t.Fatalf("expected invalid transition log, got %s", logged)
	}

	r.advance(StateExtracting)
	if r.state != StateExtracting {
		t.Fatalf("state = %s, want extracting", r.state)
	}
}

func TestErrorKindMessages(t *testing.T) {
	cases := map[ErrorKind]string{
		KindNotPDF:          "Please drop a PDF file",
		KindExtraction:      "Error: Failed to read PDF. Please try another file.",
		KindAnalysis:        "Error: Failed to analyze CV. Please try again.",
		KindInvalidResponse: "Error: Invalid response from API",
		KindNone:            "",
	}
	for kind, want := range cases {
		if got := kind.Message(); got != want {
			t.Fatalf("%q.Message() = %q, want %q", kind, got, want)
		}
	}
}
