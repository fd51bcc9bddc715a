package cmd

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/olekukonko/ts"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/namevetter/namevetter/internal/core/engine"
)

// checkProgress draws one bar on stderr while a check is collecting.
type checkProgress struct {
	p   *mpb.Progress
	bar *mpb.Bar
}

// newCheckProgress attaches a bar to orch and chains its observer. It returns
// nil when w is not a terminal.
func newCheckProgress(w io.Writer, orch *engine.Orchestrator, label string) *checkProgress {
	if !isTerminal(w) {
		return nil
	}

	p := mpb.New(mpb.WithOutput(w), mpb.WithWidth(40))
	bar := p.AddBar(int64(orch.TaskCount()),
		mpb.BarRemoveOnComplete(),
		mpb.PrependDecorators(
			decor.Name(label, decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.CountersNoUnit("[%d / %d]", decor.WCSyncWidth),
			decor.Percentage(decor.WCSyncSpace),
		),
	)

	next := orch.Observe
	orch.Observe = func(event engine.Event) {
		if next != nil {
			next(event)
		}
		bar.Increment()
	}
	return &checkProgress{p: p, bar: bar}
}

// Done completes the bar and waits for the final render.
func (c *checkProgress) Done() {
	if c == nil {
		return
	}
	c.bar.SetTotal(-1, true)
	c.p.Wait()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// terminalWidth is the column count of the controlling terminal, or zero.
func terminalWidth() int {
	size, err := ts.GetSize()
	if err != nil {
		return 0
	}
	return size.Col()
}
