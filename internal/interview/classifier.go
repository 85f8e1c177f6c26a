package interview

// Classifier assigns a ResponseType to each user utterance. It is a
// keyword heuristic, not NLU: ties are broken by the fixed priority
// order confirmation > correction > addition > discussion, and every
// input yields exactly one classification.
type Classifier struct {
	matcher Matcher
}

// NewClassifier creates a classifier using the given matching strategy.
func NewClassifier(m Matcher) *Classifier {
	return &Classifier{matcher: m}
}

var (
	confirmationKeywords = []string{"yes", "correct", "exactly", "right", "that's accurate", "accurate", "agreed", "precisely"}
	correctionKeywords   = []string{"actually", "not quite", "instead", "rather", "correction", "that's wrong", "incorrect"}
	additionKeywords     = []string{"also", "additionally", "furthermore", "plus", "and", "on top of that", "as well"}
)

// Classify returns the response type of the utterance. An empty or
// unmatched utterance is discussion.
func (c *Classifier) Classify(utterance string) ResponseType {
	switch {
	case c.matcher.MatchAny(utterance, confirmationKeywords):
		return ResponseConfirmation
	case c.matcher.MatchAny(utterance, correctionKeywords):
		return ResponseCorrection
	case c.matcher.MatchAny(utterance, additionKeywords):
		return ResponseAddition
	default:
		return ResponseDiscussion
	}
}
