package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/utkarsh5026/gitpipe/pkg/progress"
)

var phaseTitles = map[progress.TransferPhase]string{
	progress.PhaseEnumerating: "Enumerating objects",
	progress.PhaseCounting:    "Counting objects",
	progress.PhaseCompressing: "Compressing objects",
	progress.PhaseReceiving:   "Receiving objects",
	progress.PhaseWriting:     "Writing objects",
	progress.PhaseResolving:   "Resolving deltas",
}

// TransferRenderer turns a streamed operation's events into terminal
// output: live bars per transfer phase when the writer is a terminal,
// one line per completed phase otherwise. Events arrive on the
// operation's consumer goroutine; one renderer serves one operation.
type TransferRenderer struct {
	out  io.Writer
	bars bool

	bar      *progressbar.ProgressBar
	barMax   int
	phase    string
	openLine bool
}

// NewTransferRenderer builds a renderer writing to w.
func NewTransferRenderer(w io.Writer) *TransferRenderer {
	bars := false
	if f, ok := w.(*os.File); ok {
		bars = term.IsTerminal(int(f.Fd()))
	}
	return &TransferRenderer{out: w, bars: bars}
}

// Callback adapts the renderer to the operation engine's consumer
// signature. It never requests cancellation.
func (t *TransferRenderer) Callback() progress.Callback {
	return func(ev progress.Event) bool {
		t.observe(ev)
		return true
	}
}

func (t *TransferRenderer) observe(ev progress.Event) {
	switch e := ev.(type) {
	case progress.TransferEvent:
		title := phaseTitles[e.Phase]
		if e.Sideband {
			title = "remote: " + title
		}
		t.counter(title, e.Current, e.Total, e.Percent, e.Done)
	case progress.CheckoutEvent:
		t.counter("Updating files", e.Current, e.Total, e.Percent, e.Done)
	case progress.RemoteEvent:
		t.line("remote: " + e.Text)
	case progress.WarningEvent:
		t.line(color.YellowString("warning: %s", e.Text))
	case progress.ErrorEvent:
		t.line(color.RedString("error: %s", e.Text))
	case progress.AutoMergingEvent:
		t.line("Auto-merging " + e.Path)
	case progress.ConflictEvent:
		t.line(color.RedString("%s", e.Text))
	case progress.MessageEvent:
		t.line(e.Text)
	}
}

// counter renders one progress tick. Percent below zero marks a bare
// tally, which has no fixed total and therefore no bar.
func (t *TransferRenderer) counter(title string, current, total, percent int, done bool) {
	if percent < 0 || total <= 0 {
		t.tally(title, total, done)
		return
	}

	if !t.bars {
		if done {
			fmt.Fprintf(t.out, "%s: 100%% (%d/%d), done.\n", title, total, total)
		}
		return
	}

	if t.bar == nil || t.phase != title {
		t.closeBar()
		t.endTransient()
		t.phase = title
		t.barMax = total
		t.bar = progressbar.NewOptions(total,
			progressbar.OptionSetDescription(title),
			progressbar.OptionSetWriter(t.out),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(30),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionThrottle(65*time.Millisecond),
		)
	}
	if total != t.barMax {
		t.bar.ChangeMax(total)
		t.barMax = total
	}
	_ = t.bar.Set(current)

	if done {
		t.closeBar()
		fmt.Fprintf(t.out, "%s: 100%% (%d/%d), done.\n", title, total, total)
	}
}

// tally renders a growing count with no known total.
func (t *TransferRenderer) tally(title string, count int, done bool) {
	if !t.bars {
		if done {
			fmt.Fprintf(t.out, "%s: %d, done.\n", title, count)
		}
		return
	}
	if done {
		fmt.Fprintf(t.out, "\r%s: %d, done.\x1b[K\n", title, count)
		t.openLine = false
		return
	}
	fmt.Fprintf(t.out, "\r%s: %d\x1b[K", title, count)
	t.openLine = true
}

// line prints one full output line without corrupting a live bar.
func (t *TransferRenderer) line(text string) {
	if t.bar != nil {
		_ = t.bar.Clear()
	}
	t.endTransient()
	fmt.Fprintln(t.out, text)
}

func (t *TransferRenderer) endTransient() {
	if t.openLine {
		fmt.Fprintln(t.out)
		t.openLine = false
	}
}

func (t *TransferRenderer) closeBar() {
	if t.bar == nil {
		return
	}
	_ = t.bar.Finish()
	t.bar = nil
	t.phase = ""
}

// Finish clears any live bar or unterminated tally line. Call once
// after the operation returns.
func (t *TransferRenderer) Finish() {
	t.closeBar()
	t.endTransient()
}
