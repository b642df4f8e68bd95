package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Colours
// =============================================================================

var (
	colorIce   = lipgloss.Color("153") // lyric accent, close to #BFE3FF
	colorMint  = lipgloss.Color("114")
	colorAmber = lipgloss.Color("214")
	colorSnow  = lipgloss.Color("255")
	colorAsh   = lipgloss.Color("246")
	colorDim   = lipgloss.Color("240")
)

// =============================================================================
// Styles
// =============================================================================

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorIce)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorIce)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorSnow)
	StyleSuccess   = lipgloss.NewStyle().Foreground(colorMint)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorAmber)

	styleSpinner = lipgloss.NewStyle().Foreground(colorIce)
	styleKey     = lipgloss.NewStyle().Foreground(colorAsh).Width(12)
)

// A mark prefixes one line of status output.
type mark struct {
	glyph string
	style lipgloss.Style
}

var (
	markSuccess = mark{"✓", lipgloss.NewStyle().Foreground(colorMint)}
	markInfo    = mark{"›", lipgloss.NewStyle().Foreground(colorAsh)}
)

// =============================================================================
// Status Output
// =============================================================================

func (m mark) println(format string, args ...any) {
	fmt.Println(m.style.Render(m.glyph) + " " + fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { markSuccess.println(format, args...) }
func printInfo(format string, args ...any)    { markInfo.println(format, args...) }

// printDetail prints an indented, dimmed follow-up line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printKeyValue prints a label column and a value.
func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// lyricKind labels lyrics as synced (real timestamps) or plain.
func lyricKind(synced bool) string {
	if synced {
		return StyleSuccess.Render("synced")
	}
	return StyleDim.Render("plain")
}
