package interview

import "fmt"

// The interview covers 23 fixed discovery artifacts grouped into 9 steps
// across 3 parts. The tables below are compiled-in configuration: nothing
// here mutates at runtime, and every other component operates generically
// over whichever artifact ID is current.

// Artifact is one fixed discovery topic.
type Artifact struct {
	ID                   string
	Name                 string
	Description          string
	KeyQuestions         []string
	FollowUps            []string
	ValidationCriteria   []string
	CompletionIndicators []string
}

// Step groups 1-4 artifacts under a thematic label.
type Step struct {
	ID          string
	Name        string
	Part        string
	ArtifactIDs []string
}

// Part labels, in order.
const (
	PartStrategicFoundation = "Strategic Foundation"
	PartStrategyPositioning = "Strategy & Positioning"
	PartExecutionOperations = "Execution & Operations"
)

// Steps is the fixed step order. Artifact order within a step defines
// the default progression sequence.
var Steps = []Step{
	{ID: "step_1", Name: "Core Identity & Business Model", Part: PartStrategicFoundation,
		ArtifactIDs: []string{"artifact_1", "artifact_2", "artifact_3", "artifact_4"}},
	{ID: "step_2", Name: "Market Intelligence", Part: PartStrategicFoundation,
		ArtifactIDs: []string{"artifact_5", "artifact_6", "artifact_7", "artifact_8"}},
	{ID: "step_3", Name: "Value Proposition & Differentiation", Part: PartStrategyPositioning,
		ArtifactIDs: []string{"artifact_9", "artifact_10", "artifact_11"}},
	{ID: "step_4", Name: "Positioning & Brand", Part: PartStrategyPositioning,
		ArtifactIDs: []string{"artifact_12", "artifact_13"}},
	{ID: "step_5", Name: "Growth Strategy", Part: PartStrategyPositioning,
		ArtifactIDs: []string{"artifact_14", "artifact_15", "artifact_16"}},
	{ID: "step_6", Name: "Go-to-Market Execution", Part: PartExecutionOperations,
		ArtifactIDs: []string{"artifact_17", "artifact_18"}},
	{ID: "step_7", Name: "Team & Operations", Part: PartExecutionOperations,
		ArtifactIDs: []string{"artifact_19", "artifact_20"}},
	{ID: "step_8", Name: "Financial Picture", Part: PartExecutionOperations,
		ArtifactIDs: []string{"artifact_21", "artifact_22"}},
	{ID: "step_9", Name: "Risks & Metrics", Part: PartExecutionOperations,
		ArtifactIDs: []string{"artifact_23"}},
}

// Artifacts defines all 23 discovery topics in progression order.
var Artifacts = []Artifact{
	{
		ID:          "artifact_1",
		Name:        "Company Mission & Vision",
		Description: "Why the company exists and where it is headed.",
		KeyQuestions: []string{
			"Let's start with the fundamentals. Can you describe your company's mission and the core purpose behind it?",
			"Where do you see the company in five years?",
		},
		FollowUps: []string{
			"What problem were you originally founded to solve?",
			"How does the vision differ from what you deliver today?",
		},
		ValidationCriteria: []string{
			"Mission statement is clearly articulated",
			"Long-term vision is described",
			"Core purpose connects to customer outcomes",
		},
		CompletionIndicators: []string{"mission stated", "vision stated"},
	},
	{
		ID:          "artifact_2",
		Name:        "Products & Services",
		Description: "What the company sells and to whom.",
		KeyQuestions: []string{
			"Walk me through your main products or services. What does each one do for the customer?",
		},
		FollowUps: []string{
			"Which offering drives the most revenue today?",
			"Is there anything in the portfolio you plan to retire?",
		},
		ValidationCriteria: []string{
			"Primary offerings are enumerated",
			"The customer problem each offering solves is described",
			"The flagship or highest-revenue offering is identified",
		},
		CompletionIndicators: []string{"offerings listed", "flagship identified"},
	},
	{
		ID:          "artifact_3",
		Name:        "Business Model",
		Description: "How the company captures value.",
		KeyQuestions: []string{
			"How does the business make money? Describe your pricing and revenue model.",
		},
		FollowUps: []string{
			"Is revenue recurring, transactional, or a mix?",
			"What share of revenue comes from your top customers?",
		},
		ValidationCriteria: []string{
			"Revenue model is described",
			"Pricing approach is explained",
			"Customer concentration or mix is addressed",
		},
		CompletionIndicators: []string{"revenue model stated", "pricing explained"},
	},
	{
		ID:          "artifact_4",
		Name:        "Core Values & Culture",
		Description: "The principles that guide decisions internally.",
		KeyQuestions: []string{
			"What values actually drive decision-making inside the company day to day?",
		},
		FollowUps: []string{
			"Can you give an example of a hard call those values decided?",
		},
		ValidationCriteria: []string{
			"Core values are named",
			"Values are connected to real behavior or decisions",
		},
		CompletionIndicators: []string{"values named"},
	},
	{
		ID:          "artifact_5",
		Name:        "Market Sizing",
		Description: "TAM, SAM, and SOM for the company's market.",
		KeyQuestions: []string{
			"Let's size the opportunity. What are your TAM, SAM, and SOM estimates, and how were they built?",
		},
		FollowUps: []string{
			"Were those figures built top-down or bottom-up?",
			"How fast is the addressable market growing?",
		},
		ValidationCriteria: []string{
			"Total addressable market is quantified",
			"Serviceable market is distinguished from total",
			"Methodology behind the estimates is explained",
		},
		CompletionIndicators: []string{"TAM quantified", "methodology given"},
	},
	{
		ID:          "artifact_6",
		Name:        "Target Customer Profile",
		Description: "Who the ideal customer is and how they buy.",
		KeyQuestions: []string{
			"Describe your ideal customer. Who are they, and who inside that organization makes the buying decision?",
		},
		FollowUps: []string{
			"What segments have you deliberately chosen not to serve?",
			"How long is a typical sales cycle with that buyer?",
		},
		ValidationCriteria: []string{
			"Ideal customer profile is described",
			"Buyer or decision-maker is identified",
			"Segmentation choices are explained",
		},
		CompletionIndicators: []string{"ICP described", "buyer identified"},
	},
	{
		ID:          "artifact_7",
		Name:        "Competitive Landscape",
		Description: "Direct and indirect competitors and their positioning.",
		KeyQuestions: []string{
			"Who do you lose deals to, and who do you consider your most serious competitor?",
		},
		FollowUps: []string{
			"What do competitors do better than you today?",
			"Are there indirect substitutes customers settle for?",
		},
		ValidationCriteria: []string{
			"Main competitors are named",
			"Competitive strengths and weaknesses are compared",
			"Indirect alternatives are acknowledged",
		},
		CompletionIndicators: []string{"competitors named", "comparison made"},
	},
	{
		ID:          "artifact_8",
		Name:        "Industry Trends",
		Description: "Market forces reshaping the company's industry.",
		KeyQuestions: []string{
			"What industry trends are you betting on, and which ones keep you up at night?",
		},
		FollowUps: []string{
			"How would a downturn in the sector change your plan?",
		},
		ValidationCriteria: []string{
			"Relevant trends are identified",
			"The company's response to those trends is described",
		},
		CompletionIndicators: []string{"trends identified"},
	},
	{
		ID:          "artifact_9",
		Name:        "Unique Value Proposition",
		Description: "The core promise that wins customers.",
		KeyQuestions: []string{
			"In one or two sentences, why do customers choose you over every alternative?",
		},
		FollowUps: []string{
			"Which part of that promise is hardest for a competitor to copy?",
		},
		ValidationCriteria: []string{
			"Value proposition is stated succinctly",
			"The benefit is framed from the customer's perspective",
		},
		CompletionIndicators: []string{"UVP stated"},
	},
	{
		ID:          "artifact_10",
		Name:        "Competitive Differentiation",
		Description: "Durable advantages over alternatives.",
		KeyQuestions: []string{
			"What can you do that competitors structurally cannot? What's your moat?",
		},
		FollowUps: []string{
			"How long would it take a well-funded entrant to replicate that?",
		},
		ValidationCriteria: []string{
			"Differentiators are named",
			"Durability of the advantage is assessed",
		},
		CompletionIndicators: []string{"moat described"},
	},
	{
		ID:          "artifact_11",
		Name:        "Customer Pain Points",
		Description: "The problems customers feel most acutely.",
		KeyQuestions: []string{
			"What pain does a customer feel the day before they find you?",
		},
		FollowUps: []string{
			"How do customers quantify the cost of that pain?",
		},
		ValidationCriteria: []string{
			"Primary pain points are articulated",
			"Pain is tied to a measurable cost or risk",
		},
		CompletionIndicators: []string{"pain articulated"},
	},
	{
		ID:          "artifact_12",
		Name:        "Market Positioning",
		Description: "Where the company sits in the buyer's mental map.",
		KeyQuestions: []string{
			"When a buyer compares options, what category do you want to own in their mind?",
		},
		FollowUps: []string{
			"Do customers describe you the same way you describe yourself?",
		},
		ValidationCriteria: []string{
			"Positioning statement or category is given",
			"Positioning is contrasted with competitors",
		},
		CompletionIndicators: []string{"position stated"},
	},
	{
		ID:          "artifact_13",
		Name:        "Brand Strategy",
		Description: "How the brand supports the business strategy.",
		KeyQuestions: []string{
			"What should your brand make people feel, and how consistently does it today?",
		},
		FollowUps: []string{
			"Where does the brand experience break down?",
		},
		ValidationCriteria: []string{
			"Brand promise or personality is described",
			"Brand consistency across touchpoints is assessed",
		},
		CompletionIndicators: []string{"brand described"},
	},
	{
		ID:          "artifact_14",
		Name:        "Growth Channels",
		Description: "The engines of new customer acquisition.",
		KeyQuestions: []string{
			"Which acquisition channels actually work for you, and what does a customer cost in each?",
		},
		FollowUps: []string{
			"Which channel would you double down on with extra budget?",
		},
		ValidationCriteria: []string{
			"Working channels are identified",
			"Acquisition cost or efficiency is discussed",
		},
		CompletionIndicators: []string{"channels identified"},
	},
	{
		ID:          "artifact_15",
		Name:        "Strategic Partnerships",
		Description: "Alliances that extend reach or capability.",
		KeyQuestions: []string{
			"What partnerships matter most to the business, and what does each side get?",
		},
		FollowUps: []string{
			"Is any partner also a potential competitor?",
		},
		ValidationCriteria: []string{
			"Key partners are named",
			"The value exchange in each partnership is explained",
		},
		CompletionIndicators: []string{"partners named"},
	},
	{
		ID:          "artifact_16",
		Name:        "Expansion Roadmap",
		Description: "Planned moves into new markets, segments, or products.",
		KeyQuestions: []string{
			"What's the next big expansion move — new market, new segment, or new product?",
		},
		FollowUps: []string{
			"What has to be true before you'd commit to that move?",
		},
		ValidationCriteria: []string{
			"Expansion direction is stated",
			"Preconditions or sequencing are described",
		},
		CompletionIndicators: []string{"expansion stated"},
	},
	{
		ID:          "artifact_17",
		Name:        "Sales Strategy",
		Description: "How deals are sourced, run, and closed.",
		KeyQuestions: []string{
			"Describe your sales motion. Who sells, how long does a deal take, and where do deals die?",
		},
		FollowUps: []string{
			"What's your win rate against your top competitor?",
		},
		ValidationCriteria: []string{
			"Sales motion is described",
			"Deal cycle and loss reasons are discussed",
		},
		CompletionIndicators: []string{"sales motion described"},
	},
	{
		ID:          "artifact_18",
		Name:        "Marketing & Demand Generation",
		Description: "How awareness and pipeline are created.",
		KeyQuestions: []string{
			"How do prospects first hear about you, and what share of pipeline does marketing source?",
		},
		FollowUps: []string{
			"Which campaign or content has outperformed everything else?",
		},
		ValidationCriteria: []string{
			"Main demand sources are identified",
			"Marketing's pipeline contribution is quantified or estimated",
		},
		CompletionIndicators: []string{"demand sources identified"},
	},
	{
		ID:          "artifact_19",
		Name:        "Team & Organization",
		Description: "The people and structure executing the strategy.",
		KeyQuestions: []string{
			"Tell me about the team. Where are you strongest, and what's the most important open seat?",
		},
		FollowUps: []string{
			"What would break first if headcount doubled?",
		},
		ValidationCriteria: []string{
			"Team composition and strengths are described",
			"Critical gaps or hires are identified",
		},
		CompletionIndicators: []string{"team described"},
	},
	{
		ID:          "artifact_20",
		Name:        "Operational Capabilities",
		Description: "The machinery that delivers the product reliably.",
		KeyQuestions: []string{
			"Which operational capabilities are you proud of, and which are held together with tape?",
		},
		FollowUps: []string{
			"What's the biggest single point of failure in operations?",
		},
		ValidationCriteria: []string{
			"Core operational strengths are described",
			"Operational risks or bottlenecks are acknowledged",
		},
		CompletionIndicators: []string{"capabilities described"},
	},
	{
		ID:          "artifact_21",
		Name:        "Revenue & Unit Economics",
		Description: "The financial shape of each unit sold.",
		KeyQuestions: []string{
			"Let's talk numbers. What are your revenue, margins, and unit economics like today?",
		},
		FollowUps: []string{
			"What's the payback period on a new customer?",
		},
		ValidationCriteria: []string{
			"Revenue scale or trajectory is discussed",
			"Margins or unit economics are described",
		},
		CompletionIndicators: []string{"economics discussed"},
	},
	{
		ID:          "artifact_22",
		Name:        "Funding & Runway",
		Description: "Capital position and financing plans.",
		KeyQuestions: []string{
			"What's your funding situation — runway, burn, and any plans to raise?",
		},
		FollowUps: []string{
			"What milestones would the next raise need to show?",
		},
		ValidationCriteria: []string{
			"Runway or capital position is stated",
			"Financing plans or independence are addressed",
		},
		CompletionIndicators: []string{"runway stated"},
	},
	{
		ID:          "artifact_23",
		Name:        "Key Risks & Success Metrics",
		Description: "What could kill the plan, and how progress is measured.",
		KeyQuestions: []string{
			"Last topic: what are the top risks to the business, and which metrics tell you the strategy is working?",
		},
		FollowUps: []string{
			"Which single metric do you check first every week?",
		},
		ValidationCriteria: []string{
			"Top risks are named",
			"Success metrics are identified",
			"Risks are paired with mitigations or monitoring",
		},
		CompletionIndicators: []string{"risks named", "metrics identified"},
	},
}

// TotalArtifacts is the size of the fixed artifact space.
const TotalArtifacts = 23

var (
	artifactIndex map[string]int    // artifact ID -> position in Artifacts
	stepIndex     map[string]int    // step ID -> position in Steps
	artifactStep  map[string]string // artifact ID -> owning step ID
)

func init() {
	artifactIndex = make(map[string]int, len(Artifacts))
	for i, a := range Artifacts {
		artifactIndex[a.ID] = i
	}
	stepIndex = make(map[string]int, len(Steps))
	artifactStep = make(map[string]string, len(Artifacts))
	for i, s := range Steps {
		stepIndex[s.ID] = i
		for _, aid := range s.ArtifactIDs {
			artifactStep[aid] = s.ID
		}
	}
}

// ArtifactByID returns the artifact definition for the given ID.
func ArtifactByID(artifactID string) (Artifact, error) {
	i, ok := artifactIndex[artifactID]
	if !ok {
		return Artifact{}, fmt.Errorf("%w: %s", ErrUnknownArtifact, artifactID)
	}
	return Artifacts[i], nil
}

// StepByID returns the step definition for the given ID.
func StepByID(stepID string) (Step, error) {
	i, ok := stepIndex[stepID]
	if !ok {
		return Step{}, fmt.Errorf("%w: %s", ErrUnknownStep, stepID)
	}
	return Steps[i], nil
}

// StepOf returns the step that owns the given artifact.
func StepOf(artifactID string) (string, error) {
	stepID, ok := artifactStep[artifactID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownArtifact, artifactID)
	}
	return stepID, nil
}

// ArtifactsOf returns the fixed ordered artifact list for a step.
func ArtifactsOf(stepID string) ([]string, error) {
	step, err := StepByID(stepID)
	if err != nil {
		return nil, err
	}
	return step.ArtifactIDs, nil
}

// NextArtifact returns the artifact following the given one within the
// same step, or ErrEndOfStep when the step is exhausted.
func NextArtifact(artifactID string) (string, error) {
	stepID, err := StepOf(artifactID)
	if err != nil {
		return "", err
	}
	step := Steps[stepIndex[stepID]]
	for i, aid := range step.ArtifactIDs {
		if aid == artifactID {
			if i+1 < len(step.ArtifactIDs) {
				return step.ArtifactIDs[i+1], nil
			}
			return "", ErrEndOfStep
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownArtifact, artifactID)
}

// NextStep returns the step following the given one in fixed part/step
// order, or ErrEndOfInterview when all 9 steps are exhausted.
func NextStep(stepID string) (string, error) {
	i, ok := stepIndex[stepID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownStep, stepID)
	}
	if i+1 < len(Steps) {
		return Steps[i+1].ID, nil
	}
	return "", ErrEndOfInterview
}

// FirstArtifact returns the starting point of the interview.
func FirstArtifact() (stepID, artifactID string) {
	return Steps[0].ID, Steps[0].ArtifactIDs[0]
}

// artifactOrdinal returns the global 0-based position of an artifact in
// the fixed 23-artifact order, or -1 if unknown.
func artifactOrdinal(artifactID string) int {
	i, ok := artifactIndex[artifactID]
	if !ok {
		return -1
	}
	return i
}
