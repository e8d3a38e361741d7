package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// Bar reports scoring progress on a terminal. A disabled Bar is inert, so it
// can always be handed to the scorer.
type Bar struct {
	out  io.Writer
	bar  *progressbar.ProgressBar
	done bool
}

// NewBar creates a bar over total steps writing to stderr.
func NewBar(enabled bool, total int, description string) *Bar {
	return newBar(os.Stderr, enabled, total, description)
}

func newBar(out io.Writer, enabled bool, total int, description string) *Bar {
	b := &Bar{out: out}
	if !enabled || total <= 0 {
		return b
	}
	b.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "#",
			SaucerHead:    ">",
			SaucerPadding: "-",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return b
}

func (b *Bar) Advance(n int) {
	if b.bar == nil {
		return
	}
	_ = b.bar.Add(n)
}

// Complete finishes the bar and prints message once.
func (b *Bar) Complete(message string) {
	if b.bar == nil || b.done {
		return
	}
	b.done = true
	_ = b.bar.Finish()
	if message != "" {
		fmt.Fprintln(b.out, color.GreenString(message))
	}
}

func DefaultEnabled() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// StartSpinner shows an indeterminate spinner on stderr. The returned stop
// function clears it and returns once the spinner has stopped drawing.
func StartSpinner(enabled bool, desc string) func() {
	if !enabled {
		return func() {}
	}
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSpinnerType(9),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSetWidth(10),
		progressbar.OptionClearOnFinish(),
	)

	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		ticker := time.NewTicker(120 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				_ = bar.Add(1)
			case <-done:
				_ = bar.Finish()
				return
			}
		}
	}()
	return func() {
		close(done)
		<-finished
	}
}
