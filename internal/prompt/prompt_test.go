package prompt

import (
	"strings"
	"testing"
)

func TestLineages_EmbedsTopicAndCount(t *testing.T) {
	p := Lineages("fear of failure", 5)
	if !strings.Contains(p, "'fear of failure'") {
		t.Errorf("prompt should embed the topic verbatim: %q", p)
	}
	if !strings.Contains(p, "5 different spiritual lineages") {
		t.Errorf("prompt should request the configured count: %q", p)
	}
}

func TestLineages_Deterministic(t *testing.T) {
	a := Lineages("restlessness", 3)
	b := Lineages("restlessness", 3)
	if a != b {
		t.Error("same inputs must produce the same prompt")
	}
}

func TestLineagesFallback_BroaderThanPrimary(t *testing.T) {
	primary := Lineages("grief", 5)
	fallback := LineagesFallback("grief")
	if primary == fallback {
		t.Error("fallback prompt must differ in wording from the primary")
	}
	if !strings.Contains(fallback, "'grief'") {
		t.Errorf("fallback should still embed the topic: %q", fallback)
	}
}

func TestGuideSelection(t *testing.T) {
	p := GuideSelection("Buddhism", "fear of failure")
	if !strings.Contains(p, "'Buddhism'") || !strings.Contains(p, "'fear of failure'") {
		t.Errorf("guide prompt should embed lineage and topic: %q", p)
	}
	if !strings.Contains(p, "ONLY the master's name") {
		t.Errorf("guide prompt must demand a bare name: %q", p)
	}
}

func TestDialogueOpening(t *testing.T) {
	p := DialogueOpening("grief", "Stoicism", "Epictetus", "")
	for _, want := range []string{"'grief'", "'Stoicism'", "Epictetus", "first question"} {
		if !strings.Contains(p, want) {
			t.Errorf("opening prompt missing %q: %q", want, p)
		}
	}
	if strings.Contains(p, "temperament") {
		t.Errorf("opening prompt should omit temperament when empty: %q", p)
	}

	withTemp := DialogueOpening("grief", "Stoicism", "Epictetus", "slow to trust, quick to act")
	if !strings.Contains(withTemp, "slow to trust, quick to act") {
		t.Errorf("opening prompt should embed the temperament summary: %q", withTemp)
	}
}

func TestDiscoverMore_FixedHeadings(t *testing.T) {
	p := DiscoverMore("Rumi", "longing")
	books := strings.Index(p, "### Books")
	places := strings.Index(p, "### Places")
	music := strings.Index(p, "### Music")
	if books < 0 || places < 0 || music < 0 {
		t.Fatalf("discover prompt must name all three headings: %q", p)
	}
	if !(books < places && places < music) {
		t.Error("headings must be requested in books, places, music order")
	}
}

func TestSystemInstruction_Variants(t *testing.T) {
	guided := SystemInstruction("guided", "CONCLUSION:")
	if !strings.Contains(guided, `"CONCLUSION:"`) {
		t.Error("guided variant must carry the conclusion marker")
	}

	open := SystemInstruction("open", "CONCLUSION:")
	if strings.Contains(open, "CONCLUSION:") {
		t.Error("open variant must not mention the marker")
	}

	if SystemInstruction("bogus", "CONCLUSION:") != guided {
		t.Error("unknown variants fall back to guided")
	}
}
