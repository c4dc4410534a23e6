package prompt

import (
	"strings"
	"testing"

	"github.com/bryanwahyu/scamlens/internal/domain/analysis"
)

func TestBuildFillsAllSlots(t *testing.T) {
	got := Build(analysis.Request{
		MessagesText: "send me $500 in gift cards",
		UserContext:  "met on a dating app",
		LinkURL:      "https://sketchy.example",
		ExtraNotes:   "asked twice",
	})

	for _, want := range []string{
		"send me $500 in gift cards",
		"met on a dating app",
		"https://sketchy.example",
		"asked twice",
		"Return ONLY valid JSON.",
		`"risk_level": "low" | "medium" | "high"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(got, "%s") {
		t.Error("unfilled slot in prompt")
	}
}

func TestBuildEmptyRequest(t *testing.T) {
	got := Build(analysis.Request{})
	if !strings.HasPrefix(got, "You are a digital safety") {
		t.Errorf("unexpected prefix: %q", got[:40])
	}
	if !strings.HasSuffix(got, "extra_notes:") {
		t.Errorf("trailing whitespace not trimmed: %q", got[len(got)-20:])
	}
}

func TestAnnotate(t *testing.T) {
	base := Build(analysis.Request{MessagesText: "hi"})

	note := "IMAGE_NOTE: Image too large to fetch (6000000 bytes)."
	got := Annotate(base, note)
	if !strings.HasSuffix(got, "\n\n"+note) {
		t.Errorf("note not appended: %q", got[len(got)-80:])
	}

	if Annotate(base, "") != base {
		t.Error("empty note must leave the prompt unchanged")
	}
}
