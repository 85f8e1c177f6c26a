// Package report renders an interview session into a markdown
// assessment and an HTML page derived from it.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	ghtml "github.com/yuin/goldmark/renderer/html"

	"github.com/voxley/voxley/internal/interview"
)

// Generator produces assessment reports from session snapshots.
type Generator struct {
	md goldmark.Markdown
}

// NewGenerator initializes the markdown renderer.
func NewGenerator() *Generator {
	return &Generator{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(ghtml.WithUnsafe()),
		),
	}
}

// Markdown builds the assessment report in markdown form: overall
// progress, then every part, step, and artifact with status, confidence,
// captured contributions, and remaining open questions.
func (g *Generator) Markdown(state *interview.SessionState, progress interview.Progress) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Business Strategy Assessment\n\n")
	if state.CompanyURL != "" {
		fmt.Fprintf(&b, "**Company:** %s\n\n", state.CompanyURL)
	}
	fmt.Fprintf(&b, "**Session:** %s\n\n", state.SessionID)
	fmt.Fprintf(&b, "## Overall Progress\n\n")
	fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Artifacts completed | %d of %d |\n", progress.CompletedArtifacts, progress.TotalArtifacts)
	fmt.Fprintf(&b, "| Artifacts in progress | %d |\n", progress.InProgressArtifacts)
	fmt.Fprintf(&b, "| Progress | %d%% |\n", progress.ProgressPercentage)
	fmt.Fprintf(&b, "| Phase | %s |\n\n", progress.CurrentPhase)

	lastPart := ""
	for _, step := range interview.Steps {
		if step.Part != lastPart {
			fmt.Fprintf(&b, "## %s\n\n", step.Part)
			lastPart = step.Part
		}
		g.writeStep(&b, step, state.StepData[step.ID])
	}

	return b.String()
}

func (g *Generator) writeStep(b *strings.Builder, step interview.Step, rec *interview.StepRecord) {
	fmt.Fprintf(b, "### %s\n\n", step.Name)
	if rec == nil {
		fmt.Fprintf(b, "_Not yet covered._\n\n")
		return
	}

	fmt.Fprintf(b, "**Status:** %s · **Confidence:** %d/100\n\n", rec.Status, rec.Confidence)

	ids := make([]string, 0, len(rec.Artifacts))
	for id := range rec.Artifacts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		ap := rec.Artifacts[id]
		artifact, err := interview.ArtifactByID(id)
		name := id
		if err == nil {
			name = artifact.Name
		}
		fmt.Fprintf(b, "#### %s\n\n", name)
		fmt.Fprintf(b, "Status: %s (confidence %d/100)\n\n", ap.Status, ap.Confidence)
		for _, c := range ap.Contributions {
			fmt.Fprintf(b, "- %s\n", strings.TrimSpace(c.Content))
		}
		if len(ap.Contributions) > 0 {
			fmt.Fprintf(b, "\n")
		}
	}

	if len(rec.OpenQuestions) > 0 {
		fmt.Fprintf(b, "**Open questions**\n\n")
		for _, q := range rec.OpenQuestions {
			fmt.Fprintf(b, "- %s\n", q)
		}
		fmt.Fprintf(b, "\n")
	}
}

// pageData holds the data passed to the HTML report template.
type pageData struct {
	Title   string
	Content template.HTML
}

// HTML renders the markdown assessment into a standalone HTML page.
func (g *Generator) HTML(state *interview.SessionState, progress interview.Progress) (string, error) {
	source := g.Markdown(state, progress)

	var htmlBuf bytes.Buffer
	if err := g.md.Convert([]byte(source), &htmlBuf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}

	tmpl, err := template.New("report").Parse(reportTemplate)
	if err != nil {
		return "", fmt.Errorf("parsing report template: %w", err)
	}

	title := "Business Strategy Assessment"
	if state.CompanyURL != "" {
		title += " — " + state.CompanyURL
	}

	var out bytes.Buffer
	err = tmpl.Execute(&out, pageData{
		Title:   title,
		Content: template.HTML(htmlBuf.String()),
	})
	if err != nil {
		return "", fmt.Errorf("executing report template: %w", err)
	}
	return out.String(), nil
}

const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; max-width: 860px; margin: 2rem auto; padding: 0 1rem; color: #1f2328; line-height: 1.6; }
h1 { border-bottom: 2px solid #d0d7de; padding-bottom: .4rem; }
h2 { margin-top: 2rem; border-bottom: 1px solid #d0d7de; padding-bottom: .3rem; }
table { border-collapse: collapse; }
th, td { border: 1px solid #d0d7de; padding: .4rem .8rem; text-align: left; }
th { background: #f6f8fa; }
li { margin: .2rem 0; }
</style>
</head>
<body>
{{.Content}}
</body>
</html>
`
