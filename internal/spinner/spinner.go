// Package spinner draws a single-line progress indicator on a terminal.
package spinner

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const interval = 80 * time.Millisecond

// Progress animates "<frame> <label> done/total" on w until stopped.
type Progress struct {
	w     io.Writer
	label string
	total int
	done  atomic.Int64

	stop     chan struct{}
	cleared  chan struct{}
	stopOnce sync.Once
	width    int
}

// Start begins drawing a progress line for total items.
func Start(w io.Writer, label string, total int) *Progress {
	p := &Progress{
		w:       w,
		label:   label,
		total:   total,
		stop:    make(chan struct{}),
		cleared: make(chan struct{}),
	}
	go p.loop()
	return p
}

// Increment marks one item as finished. Safe for concurrent use.
func (p *Progress) Increment() {
	p.done.Add(1)
}

// Done returns the number of finished items.
func (p *Progress) Done() int {
	return int(p.done.Load())
}

// Stop halts the animation and clears the line. Calling it more than once is
// fine.
func (p *Progress) Stop() {
	p.stopOnce.Do(func() {
		close(p.stop)
	})
	<-p.cleared
}

func (p *Progress) loop() {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	i := 0
	for {
		select {
		case <-p.stop:
			fmt.Fprintf(p.w, "\r%*s\r", p.width, "") //nolint:errcheck
			close(p.cleared)
			return
		case <-ticker.C:
			line := p.line(frames[i%len(frames)])
			p.width = max(p.width, len(line))
			fmt.Fprintf(p.w, "\r%s", line) //nolint:errcheck
			i++
		}
	}
}

func (p *Progress) line(frame string) string {
	return fmt.Sprintf("%s %s %d/%d", frame, p.label, p.Done(), p.total)
}
