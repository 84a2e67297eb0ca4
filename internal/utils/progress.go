package utils

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/term"
)

// Progress draws one bar per worldmap file on stderr using mpb
type Progress struct {
	container *mpb.Progress
	enabled   bool
}

// Bar is a single file's progress. A nil *Bar ignores updates.
type Bar struct {
	bar *mpb.Bar

	mu          sync.Mutex
	description string
}

const descLength = 24

// NewProgress creates the bar container. It is a no-op unless enabled is set
// and stderr is a terminal.
func NewProgress(enabled bool) *Progress {
	p := &Progress{enabled: enabled && isTerminal()}
	if !p.enabled {
		return p
	}

	// Add space before progress bars
	fmt.Fprintln(os.Stderr)

	p.container = mpb.New(
		mpb.WithOutput(os.Stderr),
		mpb.WithWidth(64),
		mpb.WithRefreshRate(100*time.Millisecond),
	)
	return p
}

// Enabled reports whether bars are drawn
func (p *Progress) Enabled() bool {
	return p.enabled
}

// AddBar adds a bar named after a file with the given step count
func (p *Progress) AddBar(name string, total int) *Bar {
	if !p.enabled || p.container == nil {
		return nil
	}

	b := &Bar{}
	b.bar = p.container.New(int64(total),
		mpb.BarStyle().Lbound("[").Filler("█").Tip("█").Padding("░").Rbound("]"),
		mpb.PrependDecorators(
			decor.Name(truncate(name), decor.WC{W: descLength, C: decor.DindentRight}),
			decor.Any(func(decor.Statistics) string {
				return truncate(b.current())
			}, decor.WC{W: descLength, C: decor.DindentRight}),
			decor.CountersNoUnit("%d/%d", decor.WC{C: decor.DindentRight}),
		),
		mpb.AppendDecorators(
			decor.Percentage(),
		),
	)
	return b
}

// Update sets the bar to current with a step description. Its signature
// matches export.ProgressCallback.
func (b *Bar) Update(current, total int, description string) {
	if b == nil {
		return
	}

	b.mu.Lock()
	b.description = description
	b.mu.Unlock()

	b.bar.SetTotal(int64(total), false)
	b.bar.SetCurrent(int64(current))
}

// Done completes the bar even if fewer steps were reported
func (b *Bar) Done() {
	if b == nil {
		return
	}
	b.bar.SetTotal(-1, true)
}

func (b *Bar) current() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.description
}

// Finish waits for every bar to render its final state. Calls after the
// first are no-ops.
func (p *Progress) Finish() {
	if !p.enabled || p.container == nil {
		return
	}

	p.container.Wait()
	p.container = nil

	// Add space after progress bars
	fmt.Fprintln(os.Stderr)
}

func truncate(s string) string {
	if len(s) > descLength {
		return s[:descLength-2] + ".."
	}
	return s
}

// isTerminal checks if stderr is a terminal (TTY)
func isTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}
