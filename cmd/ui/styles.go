// Package ui renders gitpipe's terminal output: styled text, status
// lines, listing tables, and transfer-progress bars. Styling keys off
// stdout: when it is not a terminal every wrapper returns its input
// unchanged, so piped output stays plain.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"golang.org/x/term"
)

var styled = term.IsTerminal(int(os.Stdout.Fd()))

// Styled reports whether decorated stdout output is active.
func Styled() bool { return styled }

// SetStyled forces styling on or off and keeps the color package's
// global switch in sync.
func SetStyled(on bool) {
	styled = on
	color.NoColor = !on
}

// Color palette
var (
	greenStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00D75F")).Bold(true)
	redStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")).Bold(true)
	yellowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true)
	blueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00BFFF")).Bold(true)
	cyanStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FFFF"))
	magentaStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF87FF"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

	// Status-specific styles
	stagedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00D75F")).Bold(true)
	modifiedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")).Bold(true)
	deletedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4444")).Bold(true)
	renamedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00BFFF"))
	untrackedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	conflictStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")).Bold(true).Underline(true)

	// Layout styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#5F5FFF")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Underline(true)

	commitBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5F5FFF")).
			Padding(0, 2)

	commitHashStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true)
	commitAuthorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00BFFF"))
	commitDateStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Italic(true)
)

// Icons
const (
	IconCheck     = "✓"
	IconModified  = "◉"
	IconDeleted   = "✗"
	IconAdded     = "+"
	IconRenamed   = "➜"
	IconUntracked = "?"
	IconConflict  = "⚡"
	IconBranch    = "⎇"
	IconCommit    = "⊚"
	IconTag       = "◈"
	IconStash     = "≡"
	IconSeparator = "│"
)

func render(st lipgloss.Style, s string) string {
	if !styled {
		return s
	}
	return st.Render(s)
}

// Color wrapper functions
func Green(s string) string   { return render(greenStyle, s) }
func Red(s string) string     { return render(redStyle, s) }
func Yellow(s string) string  { return render(yellowStyle, s) }
func Blue(s string) string    { return render(blueStyle, s) }
func Cyan(s string) string    { return render(cyanStyle, s) }
func Magenta(s string) string { return render(magentaStyle, s) }
func Dim(s string) string     { return render(dimStyle, s) }

// Layout rendering functions
func Header(text string) string {
	return render(headerStyle, text)
}

func Section(text string) string {
	return render(sectionStyle, text)
}

func CommitBox(text string) string {
	return render(commitBoxStyle, text)
}
