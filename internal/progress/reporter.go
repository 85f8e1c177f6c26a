// Package progress renders interview advancement for the terminal
// client. The engine reports completed artifacts out of the fixed
// catalog total; how that is displayed depends on the environment.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Reporter receives interview progress updates. Update's message is the
// name of the artifact currently under discussion.
type Reporter interface {
	Start(total int)
	Update(completed int, message string)
	Finish()
}

// NewReporter picks a reporter for the current environment: plain log
// lines under CI, an interactive bar otherwise.
func NewReporter() Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return NewLogReporter(os.Stderr)
	}
	return &TerminalReporter{}
}

// TerminalReporter draws an in-place progress bar.
type TerminalReporter struct {
	bar *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Interview"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Update(completed int, message string) {
	if r.bar == nil {
		return
	}
	if message != "" {
		r.bar.Describe("Covering: " + message)
	}
	_ = r.bar.Set(completed)
}

func (r *TerminalReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// LogReporter emits one line per update, suitable for CI logs or any
// non-interactive stream.
type LogReporter struct {
	out   io.Writer
	total int
}

// NewLogReporter writes progress lines to out.
func NewLogReporter(out io.Writer) *LogReporter {
	return &LogReporter{out: out}
}

func (r *LogReporter) Start(total int) {
	r.total = total
	fmt.Fprintf(r.out, "Interview started: %d artifacts to cover\n", total)
}

func (r *LogReporter) Update(completed int, message string) {
	pct := 0
	if r.total > 0 {
		pct = completed * 100 / r.total
	}
	fmt.Fprintf(r.out, "[%d/%d %d%%] %s\n", completed, r.total, pct, message)
}

func (r *LogReporter) Finish() {
	fmt.Fprintln(r.out, "Interview complete")
}
