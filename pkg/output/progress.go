package output

import (
	"io"
	"os"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"
)

const progressTemplate pb.ProgressBarTemplate = `{{string . "prefix"}} {{counters . }} {{bar . }} {{percent . }} {{etime . }}`

// ProgressBar shows hashing progress on a terminal. A nil or disabled
// ProgressBar accepts every call and draws nothing.
type ProgressBar struct {
	mu      sync.Mutex
	writer  io.Writer
	bar     *pb.ProgressBar
	enabled bool
}

// IsTerminal reports whether w is a terminal
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// NewProgressBar creates a progress bar writing to w. It is only enabled when
// requested and w is a terminal, so redirected output stays clean.
func NewProgressBar(w io.Writer, enabled bool) *ProgressBar {
	return &ProgressBar{
		writer:  w,
		enabled: enabled && IsTerminal(w),
	}
}

// Enabled reports whether the bar draws anything
func (p *ProgressBar) Enabled() bool {
	return p != nil && p.enabled
}

// Update records done of total signatures (total 0 = unknown)
func (p *ProgressBar) Update(done, total int) {
	if !p.Enabled() {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil {
		p.bar = progressTemplate.New(total)
		p.bar.SetWriter(p.writer)
		p.bar.Set("prefix", "Hashing")
		if width, _, err := term.GetSize(int(p.writer.(*os.File).Fd())); err == nil && width > 0 {
			p.bar.SetWidth(width)
		}
		p.bar.Start()
	}
	if int64(total) != p.bar.Total() {
		p.bar.SetTotal(int64(total))
	}
	p.bar.SetCurrent(int64(done))
}

// Finish stops the bar and leaves the cursor on a fresh line
func (p *ProgressBar) Finish() {
	if !p.Enabled() {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		p.bar.Finish()
		p.bar = nil
	}
}
