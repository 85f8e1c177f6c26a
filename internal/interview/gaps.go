package interview

// checklistTopic is one expected piece of research for an artifact: the
// keyword tested against the document and the label emitted when absent.
type checklistTopic struct {
	Keyword string
	Label   string
}

// artifactChecklists holds a distinct checklist per detailed artifact
// (the identity and market intelligence steps). Every checklist has a
// fixed denominator of 4 topics so the confidence arithmetic is uniform.
// The keyword sets are tuning configuration, not contract; the mechanism
// (membership test -> gap -> confidence -> priority) is the contract.
var artifactChecklists = map[string][]checklistTopic{
	"artifact_1": {
		{Keyword: "mission", Label: "mission statement"},
		{Keyword: "vision", Label: "long-term vision"},
		{Keyword: "purpose", Label: "core purpose"},
		{Keyword: "founded", Label: "founding story"},
	},
	"artifact_2": {
		{Keyword: "product", Label: "product portfolio"},
		{Keyword: "service", Label: "service offerings"},
		{Keyword: "feature", Label: "key features"},
		{Keyword: "customer", Label: "customer use cases"},
	},
	"artifact_3": {
		{Keyword: "revenue", Label: "revenue model"},
		{Keyword: "pricing", Label: "pricing structure"},
		{Keyword: "subscription", Label: "recurring revenue mix"},
		{Keyword: "business model", Label: "business model description"},
	},
	"artifact_4": {
		{Keyword: "values", Label: "core values"},
		{Keyword: "culture", Label: "company culture"},
		{Keyword: "team", Label: "team principles"},
		{Keyword: "leadership", Label: "leadership philosophy"},
	},
	"artifact_5": {
		{Keyword: "TAM", Label: "TAM estimate"},
		{Keyword: "SAM", Label: "SAM estimate"},
		{Keyword: "SOM", Label: "SOM estimate"},
		{Keyword: "market research", Label: "market sizing methodology"},
	},
	"artifact_6": {
		{Keyword: "target customer", Label: "target customer profile"},
		{Keyword: "segment", Label: "customer segments"},
		{Keyword: "buyer", Label: "buyer persona"},
		{Keyword: "demographic", Label: "customer demographics"},
	},
	"artifact_7": {
		{Keyword: "competitor", Label: "competitor analysis"},
		{Keyword: "competitive", Label: "competitive positioning"},
		{Keyword: "alternative", Label: "indirect alternatives"},
		{Keyword: "market share", Label: "market share comparison"},
	},
	"artifact_8": {
		{Keyword: "trend", Label: "industry trends"},
		{Keyword: "growth rate", Label: "market growth rate"},
		{Keyword: "regulation", Label: "regulatory environment"},
		{Keyword: "technology", Label: "technology shifts"},
	},
}

// genericChecklist is the fallback path for artifacts outside the
// detailed set. Same 4-topic denominator.
var genericChecklist = []checklistTopic{
	{Keyword: "strategy", Label: "strategic context"},
	{Keyword: "market", Label: "market context"},
	{Keyword: "customer", Label: "customer context"},
	{Keyword: "growth", Label: "growth context"},
}

// noResearchLabel marks the gap emitted when no research document exists.
const noResearchLabel = "all research information missing"

// minGapConfidence is the confidence floor for a gap.
const minGapConfidence = 0.1

// GapAnalyzer inspects a research document for information missing per
// artifact. It never fails on a missing document: research unavailability
// degrades to a single all-missing gap.
type GapAnalyzer struct {
	matcher Matcher
}

// NewGapAnalyzer creates a gap analyzer using the given matching strategy.
func NewGapAnalyzer(m Matcher) *GapAnalyzer {
	return &GapAnalyzer{matcher: m}
}

// AnalyzeGaps returns the missing-information gaps for an artifact given
// the raw research document text. An empty document means research is
// unavailable. The returned list is empty when nothing is missing, and
// contains at most one gap per artifact. Unknown artifacts fail fast.
func (g *GapAnalyzer) AnalyzeGaps(researchDoc, artifactID string) ([]ResearchGap, error) {
	if _, err := ArtifactByID(artifactID); err != nil {
		return nil, err
	}

	if researchDoc == "" {
		return []ResearchGap{{
			ArtifactID: artifactID,
			Missing:    []string{noResearchLabel},
			Confidence: minGapConfidence,
			Priority:   PriorityHigh,
		}}, nil
	}

	checklist, ok := artifactChecklists[artifactID]
	if !ok {
		checklist = genericChecklist
	}

	var missing []string
	for _, topic := range checklist {
		if !g.matcher.Contains(researchDoc, topic.Keyword) {
			missing = append(missing, topic.Label)
		}
	}

	if len(missing) == 0 {
		return nil, nil
	}

	confidence := 1.0 - float64(len(missing))/float64(len(checklist))
	if confidence < minGapConfidence {
		confidence = minGapConfidence
	}

	return []ResearchGap{{
		ArtifactID: artifactID,
		Missing:    missing,
		Confidence: confidence,
		Priority:   gapPriority(len(missing), len(checklist)),
	}}, nil
}

// gapPriority ranks a gap: high when more than half the checklist is
// missing, low when only a single topic is, medium otherwise.
func gapPriority(missing, total int) GapPriority {
	switch {
	case missing*2 > total:
		return PriorityHigh
	case missing == 1:
		return PriorityLow
	default:
		return PriorityMedium
	}
}

// checklistFor exposes the expected topics for an artifact, mainly so
// question context can mention what research was looked for.
func checklistFor(artifactID string) ([]checklistTopic, error) {
	if _, err := ArtifactByID(artifactID); err != nil {
		return nil, err
	}
	if cl, ok := artifactChecklists[artifactID]; ok {
		return cl, nil
	}
	return genericChecklist, nil
}
