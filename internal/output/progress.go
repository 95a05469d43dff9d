package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Progress shows which benchmark is running on an interactive terminal.
// It writes nothing while a benchmark is being measured and is silent when
// the writer is not a terminal.
type Progress struct {
	w       io.Writer
	width   int
	enabled bool
	active  bool
}

// NewProgress returns a Progress writing to f when f is a terminal.
func NewProgress(f *os.File) *Progress {
	if f == nil || !term.IsTerminal(int(f.Fd())) {
		return newProgress(io.Discard, 0, false)
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		width = 0
	}
	return newProgress(f, width, true)
}

func newProgress(w io.Writer, width int, enabled bool) *Progress {
	return &Progress{w: w, width: width, enabled: enabled}
}

// Start announces label. The line is replaced by the next Start or erased
// by Done.
func (p *Progress) Start(label string) {
	if !p.enabled {
		return
	}
	p.clear()
	line := fmt.Sprintf("Running %s…", label)
	if p.width > 0 {
		line = truncate(line, p.width-1)
	}
	fmt.Fprint(p.w, color.HiBlackString("%s", line))
	p.active = true
}

// Done erases the current line.
func (p *Progress) Done() {
	if !p.enabled || !p.active {
		return
	}
	p.clear()
	p.active = false
}

func (p *Progress) clear() {
	io.WriteString(p.w, "\r\033[K")
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
