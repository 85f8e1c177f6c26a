package interview

import "strings"

// Matcher is the strategy behind all fuzzy text decisions: response
// classification, gap detection, and completion scoring. Implementations
// answer "does this text satisfy this rule set". A future NLU-backed
// matcher can replace KeywordMatcher without touching any call site.
type Matcher interface {
	// MatchAny reports whether the text matches any of the given keywords.
	MatchAny(text string, keywords []string) bool
	// Contains reports whether the text contains the single keyword.
	Contains(text, keyword string) bool
}

// KeywordMatcher matches case-insensitively. Multi-word keywords use
// substring matching; single words must appear as whole tokens so that
// "and" does not fire inside "understand".
type KeywordMatcher struct{}

// NewKeywordMatcher returns the default keyword matching strategy.
func NewKeywordMatcher() *KeywordMatcher {
	return &KeywordMatcher{}
}

func (m *KeywordMatcher) MatchAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	var tokens []string
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if strings.ContainsRune(kw, ' ') {
			if strings.Contains(lower, kw) {
				return true
			}
			continue
		}
		if tokens == nil {
			tokens = tokenize(lower)
		}
		for _, tok := range tokens {
			if tok == kw {
				return true
			}
		}
	}
	return false
}

func (m *KeywordMatcher) Contains(text, keyword string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(keyword))
}

// tokenize splits lowercased text into alphanumeric words, keeping
// in-word apostrophes so "that's" survives as one token.
func tokenize(lower string) []string {
	return strings.FieldsFunc(lower, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z':
			return false
		case r >= '0' && r <= '9':
			return false
		case r == '\'':
			return false
		}
		return true
	})
}
