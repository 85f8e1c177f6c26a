package interview

import "fmt"

// questionTemplate maps a recognizable substring of a gap label to a
// fixed question family. Generation is deterministic template lookup:
// the same gap label and question type always yield the same family.
type questionTemplate struct {
	Key       string
	Question  string
	FollowUps []string
	Hints     []string
}

var topicTemplates = []questionTemplate{
	{
		Key:      "mission",
		Question: "Could we spend a moment discussing your company's mission and core purpose?",
		FollowUps: []string{
			"What originally motivated that mission?",
			"How do you know when the mission is being fulfilled?",
		},
		Hints: []string{"mission statement", "core purpose"},
	},
	{
		Key:      "vision",
		Question: "Where is the company headed long term — what does the vision look like?",
		FollowUps: []string{
			"What changes between today and that future state?",
		},
		Hints: []string{"long-term direction"},
	},
	{
		Key:      "purpose",
		Question: "Beyond the product itself, what purpose does the company serve for its customers?",
		FollowUps: []string{
			"How does that purpose shape priorities?",
		},
		Hints: []string{"customer outcomes"},
	},
	{
		Key:      "product",
		Question: "Can you walk me through your main products and what each one does for customers?",
		FollowUps: []string{
			"Which offering is most important to the business today?",
		},
		Hints: []string{"product names", "customer problems solved"},
	},
	{
		Key:      "service",
		Question: "What services do you offer alongside the core product?",
		FollowUps: []string{
			"How do services and product revenue compare?",
		},
		Hints: []string{"service offerings"},
	},
	{
		Key:      "revenue",
		Question: "How does the business generate revenue, and how is that mix evolving?",
		FollowUps: []string{
			"Is the revenue recurring or transactional?",
		},
		Hints: []string{"revenue model", "revenue mix"},
	},
	{
		Key:      "pricing",
		Question: "How is your pricing structured, and how did you arrive at it?",
		FollowUps: []string{
			"How do customers react to the pricing?",
		},
		Hints: []string{"pricing tiers", "pricing rationale"},
	},
	{
		Key:      "values",
		Question: "What core values genuinely guide decisions inside the company?",
		FollowUps: []string{
			"Can you share a decision those values drove?",
		},
		Hints: []string{"named values", "example decision"},
	},
	{
		Key:      "culture",
		Question: "How would your team describe the company culture?",
		FollowUps: []string{
			"What behaviors get rewarded?",
		},
		Hints: []string{"culture description"},
	},
	{
		Key:      "TAM",
		Question: "Let's size the market: what are your TAM, SAM, and SOM estimates?",
		FollowUps: []string{
			"Were those estimates built top-down or bottom-up?",
			"How fast is the addressable market growing?",
		},
		Hints: []string{"TAM figure", "SAM figure", "SOM figure"},
	},
	{
		Key:      "SAM",
		Question: "Within the total market, what portion can you realistically serve — your SAM?",
		FollowUps: []string{
			"What limits the serviceable portion today?",
		},
		Hints: []string{"SAM figure"},
	},
	{
		Key:      "SOM",
		Question: "What share of the serviceable market do you expect to capture — your SOM?",
		FollowUps: []string{
			"Over what time horizon?",
		},
		Hints: []string{"SOM figure"},
	},
	{
		Key:      "market sizing",
		Question: "How did you build your market sizing — what methodology and sources sit behind the TAM, SAM, and SOM numbers?",
		FollowUps: []string{
			"How recently were those figures refreshed?",
		},
		Hints: []string{"methodology", "data sources"},
	},
	{
		Key:      "target customer",
		Question: "Who exactly is your target customer, and who makes the buying decision?",
		FollowUps: []string{
			"Which segments do you deliberately not serve?",
		},
		Hints: []string{"ideal customer profile", "buyer role"},
	},
	{
		Key:      "segment",
		Question: "How do you segment your customers, and which segment matters most?",
		FollowUps: []string{
			"How do the segments differ in willingness to pay?",
		},
		Hints: []string{"segment names"},
	},
	{
		Key:      "competitor",
		Question: "Who are your most serious competitors, and where do you win or lose against them?",
		FollowUps: []string{
			"What does your strongest competitor do better?",
		},
		Hints: []string{"competitor names", "win/loss reasons"},
	},
	{
		Key:      "trend",
		Question: "Which industry trends most affect your strategy right now?",
		FollowUps: []string{
			"Which trend worries you most?",
		},
		Hints: []string{"trend names", "company response"},
	},
	{
		Key:      "growth",
		Question: "What is driving growth today, and what would accelerate it?",
		FollowUps: []string{
			"Which growth lever is underexploited?",
		},
		Hints: []string{"growth drivers"},
	},
	{
		Key:      "customer",
		Question: "Tell me more about your customers — who they are and why they stay.",
		FollowUps: []string{
			"What does churn look like, and why does it happen?",
		},
		Hints: []string{"customer description"},
	},
	{
		Key:      "market",
		Question: "How would you characterize the market you operate in?",
		FollowUps: []string{
			"Is the market expanding, consolidating, or fragmenting?",
		},
		Hints: []string{"market characterization"},
	},
	{
		Key:      "strategy",
		Question: "What is the strategic thinking behind this part of the business?",
		FollowUps: []string{
			"What alternatives did you consider?",
		},
		Hints: []string{"strategic rationale"},
	},
}

// genericFallbackQuestion is used when no gap maps to a template.
const genericFallbackQuestion = "Can you provide more details about this aspect of your business?"

// QuestionContext carries everything the generator considers for a turn.
type QuestionContext struct {
	Gaps             []ResearchGap
	History          []ConversationEntry
	CompletionStatus CompletionStatus
	LastResponseType ResponseType
	ResearchContext  string
}

// QuestionGenerator builds the next targeted interview question from
// gap analysis, completion state, and the last response classification.
type QuestionGenerator struct {
	matcher Matcher
}

// NewQuestionGenerator creates a question generator.
func NewQuestionGenerator(m Matcher) *QuestionGenerator {
	return &QuestionGenerator{matcher: m}
}

// Generate produces the next question for an artifact. Question type is
// selected first (fixed priority order), then content is chosen from the
// highest-priority gap's template, falling back to a generic prompt.
func (q *QuestionGenerator) Generate(ctx QuestionContext, artifactID string) (Question, error) {
	artifact, err := ArtifactByID(artifactID)
	if err != nil {
		return Question{}, err
	}

	qType := selectQuestionType(ctx)

	// A pending artifact always opens with its canned prompt.
	if qType == QuestionOpening {
		return Question{
			Text:      artifact.KeyQuestions[0],
			Type:      QuestionOpening,
			Priority:  1,
			FollowUps: artifact.FollowUps,
			Hints:     artifact.CompletionIndicators,
			Context:   ctx.ResearchContext,
		}, nil
	}

	gap, tmpl := q.selectTemplate(ctx.Gaps)

	question := Question{
		Type:     qType,
		Priority: questionPriority(gap),
		Context:  ctx.ResearchContext,
	}

	if tmpl == nil {
		question.Text = frameForType(qType, genericFallbackQuestion, artifact.Name)
		question.FollowUps = artifact.FollowUps
		question.Hints = artifact.CompletionIndicators
		return question, nil
	}

	question.Text = frameForType(qType, tmpl.Question, artifact.Name)
	question.FollowUps = tmpl.FollowUps
	question.Hints = tmpl.Hints
	return question, nil
}

// selectQuestionType applies the fixed priority order: pending opens,
// confirmations get validated, corrections get clarified, completed
// artifacts get a wrap-up, everything else probes.
func selectQuestionType(ctx QuestionContext) QuestionType {
	switch {
	case ctx.CompletionStatus == StatusPending:
		return QuestionOpening
	case ctx.LastResponseType == ResponseConfirmation:
		return QuestionValidation
	case ctx.LastResponseType == ResponseCorrection:
		return QuestionClarification
	case ctx.CompletionStatus == StatusCompleted:
		return QuestionCompletion
	default:
		return QuestionProbing
	}
}

// selectTemplate picks the highest-priority gap (high before medium
// before low) and the first of its missing labels that keys a template.
func (q *QuestionGenerator) selectTemplate(gaps []ResearchGap) (*ResearchGap, *questionTemplate) {
	if len(gaps) == 0 {
		return nil, nil
	}

	best := &gaps[0]
	for i := range gaps[1:] {
		g := &gaps[i+1]
		if priorityRank(g.Priority) < priorityRank(best.Priority) {
			best = g
		}
	}

	for _, label := range best.Missing {
		for i := range topicTemplates {
			if q.matcher.Contains(label, topicTemplates[i].Key) {
				return best, &topicTemplates[i]
			}
		}
	}
	return best, nil
}

func priorityRank(p GapPriority) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

func questionPriority(gap *ResearchGap) int {
	if gap == nil {
		return 4
	}
	return priorityRank(gap.Priority) + 1
}

// frameForType wraps the base question in a lead-in appropriate to the
// question type. The mapping is fixed so output stays deterministic.
func frameForType(t QuestionType, base, artifactName string) string {
	switch t {
	case QuestionValidation:
		return fmt.Sprintf("Good — to make sure we have %s captured correctly: %s", artifactName, lowerFirst(base))
	case QuestionClarification:
		return fmt.Sprintf("Thanks for the correction. To get %s right: %s", artifactName, lowerFirst(base))
	case QuestionCompletion:
		return fmt.Sprintf("We've covered %s well. Before we move on, is there anything important we missed?", artifactName)
	default:
		return base
	}
}

// lowerFirst lowercases the first rune of a prompt so it reads naturally
// after a lead-in.
func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if r[0] >= 'A' && r[0] <= 'Z' {
		r[0] = r[0] + ('a' - 'A')
	}
	return string(r)
}
