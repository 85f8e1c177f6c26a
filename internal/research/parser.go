package research

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// The analysis document is free text that usually carries three labeled
// sections ("PART 1 ..." through "PART 3 ...") broken into
// "**Artifact N: Title**" blocks. Gap analysis searches the raw text;
// this parse exists to attach per-artifact context to questions.

// ArtifactSection is one parsed artifact block.
type ArtifactSection struct {
	Number  int
	Title   string
	Content string
}

// Analysis is the structured view of a research document.
type Analysis struct {
	Parts     map[int]string          // part number -> section text
	Artifacts map[int]ArtifactSection // artifact number -> block
}

var (
	partPattern     = regexp.MustCompile(`(?m)^#*\s*PART\s+(\d)\b`)
	artifactPattern = regexp.MustCompile(`\*\*Artifact\s+(\d+):\s*([^*]+)\*\*`)
)

// ParseAnalysis extracts the PART sections and artifact blocks from raw
// analysis text. Unparseable documents yield an empty Analysis; the
// caller falls back to raw-text search.
func ParseAnalysis(content string) Analysis {
	a := Analysis{
		Parts:     map[int]string{},
		Artifacts: map[int]ArtifactSection{},
	}
	if content == "" {
		return a
	}

	partMatches := partPattern.FindAllStringSubmatchIndex(content, -1)
	for i, m := range partMatches {
		num, err := strconv.Atoi(content[m[2]:m[3]])
		if err != nil {
			continue
		}
		end := len(content)
		if i+1 < len(partMatches) {
			end = partMatches[i+1][0]
		}
		a.Parts[num] = strings.TrimSpace(content[m[0]:end])
	}

	artMatches := artifactPattern.FindAllStringSubmatchIndex(content, -1)
	for i, m := range artMatches {
		num, err := strconv.Atoi(content[m[2]:m[3]])
		if err != nil {
			continue
		}
		end := len(content)
		if i+1 < len(artMatches) {
			end = artMatches[i+1][0]
		}
		a.Artifacts[num] = ArtifactSection{
			Number:  num,
			Title:   strings.TrimSpace(content[m[4]:m[5]]),
			Content: strings.TrimSpace(content[m[1]:end]),
		}
	}

	return a
}

// ContextFor returns the parsed block content for an artifact ID of the
// form "artifact_N", or empty when absent.
func (a Analysis) ContextFor(artifactID string) string {
	numStr, ok := strings.CutPrefix(artifactID, "artifact_")
	if !ok {
		return ""
	}
	num, err := strconv.Atoi(numStr)
	if err != nil {
		return ""
	}
	section, ok := a.Artifacts[num]
	if !ok {
		return ""
	}
	if section.Title == "" {
		return section.Content
	}
	return fmt.Sprintf("%s: %s", section.Title, section.Content)
}
