package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

var (
	colorGreen  = lipgloss.Color("#a3be8c")
	colorCyan   = lipgloss.Color("#88c0d0")
	colorYellow = lipgloss.Color("#ebcb8b")
	colorRed    = lipgloss.Color("#bf616a")
	colorBlue   = lipgloss.Color("#81a1c1")
	colorGray   = lipgloss.Color("#4c566a")
)

// styles holds the lipgloss styles for one output stream. Each stream gets
// its own renderer so that piping stdout strips colors from the data while
// messages on a terminal stderr stay colored.
type styles struct {
	Success lipgloss.Style
	Warn    lipgloss.Style
	Faint   lipgloss.Style
	Header  lipgloss.Style
	Branch  lipgloss.Style
	Path    lipgloss.Style
	Current lipgloss.Style
	Clean   lipgloss.Style
	Dirty   lipgloss.Style
	Locked  lipgloss.Style
}

// colorDisabled reports whether --no-color or NO_COLOR is in effect.
func colorDisabled() bool {
	return noColor || os.Getenv("NO_COLOR") != ""
}

func newStyles(w io.Writer) *styles {
	r := lipgloss.NewRenderer(w)
	if colorDisabled() {
		r.SetColorProfile(termenv.Ascii)
	}

	return &styles{
		Success: r.NewStyle().Foreground(colorGreen),
		Warn:    r.NewStyle().Foreground(colorYellow).Bold(true),
		Faint:   r.NewStyle().Foreground(colorGray),
		Header:  r.NewStyle().Foreground(colorBlue).Bold(true),
		Branch:  r.NewStyle().Foreground(colorCyan),
		Path:    r.NewStyle().Foreground(colorYellow),
		Current: r.NewStyle().Foreground(colorGreen).Bold(true),
		Clean:   r.NewStyle().Foreground(colorGreen),
		Dirty:   r.NewStyle().Foreground(colorRed),
		Locked:  r.NewStyle().Foreground(colorRed),
	}
}

// newLogger returns the diagnostics logger: no timestamps, debug level
// with --verbose.
func newLogger(w io.Writer) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}

	logger := log.NewWithOptions(w, log.Options{Level: level})
	if colorDisabled() {
		logger.SetColorProfile(termenv.Ascii)
	}
	return logger
}

// statusStyle picks the style for a status summary cell.
func (st *styles) statusStyle(display string) lipgloss.Style {
	if display == "clean" {
		return st.Clean
	}
	return st.Dirty
}
