package main

import (
	"context"
	"io"
	"os"

	"github.com/rnapolis/rnative/internal/ensemble"
	"github.com/rnapolis/rnative/internal/models"
	"github.com/rnapolis/rnative/internal/spinner"
	"golang.org/x/term"
)

// progressAnnotator ticks a progress line after every annotation attempt.
type progressAnnotator struct {
	inner    ensemble.Annotator
	progress *spinner.Progress
}

func (p *progressAnnotator) Annotate(ctx context.Context, source string) (*models.Model, error) {
	defer p.progress.Increment()
	return p.inner.Annotate(ctx, source)
}

// withProgress wraps a when w is a terminal. The returned stop function must
// be called before anything else is written to w.
func withProgress(w io.Writer, a ensemble.Annotator, total int) (ensemble.Annotator, func()) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return a, func() {}
	}
	p := spinner.Start(w, "annotating models", total)
	return &progressAnnotator{inner: a, progress: p}, p.Stop
}
