package interview

import (
	"errors"
	"math"
	"testing"
)

func TestAnalyzeGapsNoDocument(t *testing.T) {
	g := NewGapAnalyzer(NewKeywordMatcher())

	gaps, err := g.AnalyzeGaps("", "artifact_5")
	if err != nil {
		t.Fatalf("AnalyzeGaps: %v", err)
	}
	if len(gaps) != 1 {
		t.Fatalf("got %d gaps, want 1", len(gaps))
	}
	gap := gaps[0]
	if gap.ArtifactID != "artifact_5" {
		t.Errorf("artifact = %s, want artifact_5", gap.ArtifactID)
	}
	if len(gap.Missing) != 1 || gap.Missing[0] != "all research information missing" {
		t.Errorf("missing = %v, want the all-missing label", gap.Missing)
	}
	if gap.Confidence != 0.1 {
		t.Errorf("confidence = %v, want 0.1", gap.Confidence)
	}
	if gap.Priority != PriorityHigh {
		t.Errorf("priority = %q, want high", gap.Priority)
	}
}

func TestAnalyzeGapsCompleteDocument(t *testing.T) {
	g := NewGapAnalyzer(NewKeywordMatcher())

	doc := `The company mission is clear, the vision ambitious, its purpose
well stated, and it was founded in 2019.`
	gaps, err := g.AnalyzeGaps(doc, "artifact_1")
	if err != nil {
		t.Fatalf("AnalyzeGaps: %v", err)
	}
	if len(gaps) != 0 {
		t.Errorf("got %d gaps for a complete document, want 0", len(gaps))
	}
}

func TestAnalyzeGapsPartialDocument(t *testing.T) {
	g := NewGapAnalyzer(NewKeywordMatcher())

	tests := []struct {
		name           string
		doc            string
		wantMissing    int
		wantPriority   GapPriority
		wantConfidence float64
	}{
		{
			name:           "one of four missing",
			doc:            "Their TAM is $4B, SAM around $600M, SOM perhaps $60M.",
			wantMissing:    1, // methodology
			wantPriority:   PriorityLow,
			wantConfidence: 0.75,
		},
		{
			name:           "two of four missing",
			doc:            "The TAM estimate and supporting market research look solid.",
			wantMissing:    2, // SAM, SOM
			wantPriority:   PriorityMedium,
			wantConfidence: 0.5,
		},
		{
			name:           "three of four missing",
			doc:            "Only a rough TAM figure is mentioned.",
			wantMissing:    3,
			wantPriority:   PriorityHigh,
			wantConfidence: 0.25,
		},
		{
			name:           "all four missing floors at 0.1",
			doc:            "The document talks about unrelated hiring plans.",
			wantMissing:    4,
			wantPriority:   PriorityHigh,
			wantConfidence: 0.1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gaps, err := g.AnalyzeGaps(tt.doc, "artifact_5")
			if err != nil {
				t.Fatalf("AnalyzeGaps: %v", err)
			}
			if len(gaps) != 1 {
				t.Fatalf("got %d gaps, want 1", len(gaps))
			}
			gap := gaps[0]
			if len(gap.Missing) != tt.wantMissing {
				t.Errorf("missing = %v (%d labels), want %d", gap.Missing, len(gap.Missing), tt.wantMissing)
			}
			if gap.Priority != tt.wantPriority {
				t.Errorf("priority = %q, want %q", gap.Priority, tt.wantPriority)
			}
			if math.Abs(gap.Confidence-tt.wantConfidence) > 1e-9 {
				t.Errorf("confidence = %v, want %v", gap.Confidence, tt.wantConfidence)
			}
		})
	}
}

func TestAnalyzeGapsConfidenceBounds(t *testing.T) {
	g := NewGapAnalyzer(NewKeywordMatcher())
	docs := []string{"", "nothing relevant", "mission only", "mission vision purpose founded"}

	for _, doc := range docs {
		gaps, err := g.AnalyzeGaps(doc, "artifact_1")
		if err != nil {
			t.Fatalf("AnalyzeGaps: %v", err)
		}
		for _, gap := range gaps {
			if gap.Confidence < 0.1 || gap.Confidence > 1.0 {
				t.Errorf("doc %q: confidence %v outside [0.1, 1.0]", doc, gap.Confidence)
			}
		}
	}
}

func TestAnalyzeGapsGenericChecklist(t *testing.T) {
	g := NewGapAnalyzer(NewKeywordMatcher())

	// artifact_15 has no detailed checklist.
	gaps, err := g.AnalyzeGaps("A document about engineering process.", "artifact_15")
	if err != nil {
		t.Fatalf("AnalyzeGaps: %v", err)
	}
	if len(gaps) != 1 {
		t.Fatalf("got %d gaps, want 1", len(gaps))
	}
	if gaps[0].Priority != PriorityHigh {
		t.Errorf("priority = %q, want high for a fully uncovered generic checklist", gaps[0].Priority)
	}

	gaps, err = g.AnalyzeGaps("Covers strategy, market, customer, growth in depth.", "artifact_15")
	if err != nil {
		t.Fatalf("AnalyzeGaps: %v", err)
	}
	if len(gaps) != 0 {
		t.Errorf("got %d gaps for a covered generic checklist, want 0", len(gaps))
	}
}

func TestAnalyzeGapsUnknownArtifact(t *testing.T) {
	g := NewGapAnalyzer(NewKeywordMatcher())
	if _, err := g.AnalyzeGaps("anything", "artifact_99"); !errors.Is(err, ErrUnknownArtifact) {
		t.Errorf("expected ErrUnknownArtifact, got %v", err)
	}
}

func TestChecklistFor(t *testing.T) {
	cl, err := checklistFor("artifact_3")
	if err != nil {
		t.Fatalf("checklistFor: %v", err)
	}
	if len(cl) != 4 || cl[0].Label != "revenue model" {
		t.Errorf("artifact_3 checklist = %v", cl)
	}

	generic, err := checklistFor("artifact_20")
	if err != nil {
		t.Fatalf("checklistFor: %v", err)
	}
	if len(generic) != len(genericChecklist) || generic[0].Label != "strategic context" {
		t.Errorf("artifact_20 checklist = %v, want generic", generic)
	}

	if _, err := checklistFor("bogus"); !errors.Is(err, ErrUnknownArtifact) {
		t.Errorf("expected ErrUnknownArtifact, got %v", err)
	}
}
