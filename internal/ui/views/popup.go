package views

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"mixdeck/internal/animation"
)

// PopupRenderer draws boxes on top of already rendered content
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderPopupOverlay greys out mainContent and centres the popup on it
func (pr *PopupRenderer) RenderPopupOverlay(mainContent, popupContent string, height, width int, popupStyle lipgloss.Style) string {
	styledPopup := popupStyle.Render(popupContent)

	modalW := min(lipgloss.Width(styledPopup), width)
	modalH := min(lipgloss.Height(styledPopup), height)
	x := max((width-modalW)/2, 0)
	y := max((height-modalH)/2, 0)

	return Overlay(desaturateANSI(mainContent), styledPopup, x, y)
}

// RenderFlight draws the travelling selection box. Lower opacity uses lighter shading.
func (pr *PopupRenderer) RenderFlight(mainContent string, frame animation.Frame) string {
	if frame.Done || frame.Rect.W <= 0 || frame.Rect.H <= 0 {
		return mainContent
	}
	row := pr.styles.Flight.Render(strings.Repeat(shade(frame.Opacity), frame.Rect.W))
	rows := make([]string, frame.Rect.H)
	for i := range rows {
		rows[i] = row
	}
	return Overlay(mainContent, strings.Join(rows, "\n"), frame.Rect.X, frame.Rect.Y)
}

func shade(opacity float64) string {
	switch {
	case opacity > 0.75:
		return "█"
	case opacity > 0.5:
		return "▓"
	case opacity > 0.25:
		return "▒"
	default:
		return "░"
	}
}

// ANSI escape sequence regex to strip styles/colors
var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// desaturateANSI strips ANSI color/style codes and recolors text dim gray
func desaturateANSI(s string) string {
	lines := strings.Split(s, "\n")
	grey := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	for i, line := range lines {
		lines[i] = grey.Render(ansiRE.ReplaceAllString(line, ""))
	}
	return strings.Join(lines, "\n")
}

// Overlay places block on base with its top-left corner at cell (x, y).
// Rows outside base are dropped.
func Overlay(base, block string, x, y int) string {
	baseLines := strings.Split(base, "\n")
	for i, line := range strings.Split(block, "\n") {
		row := y + i
		if row < 0 || row >= len(baseLines) {
			continue
		}
		baseLines[row] = spliceLine(baseLines[row], x, line)
	}
	return strings.Join(baseLines, "\n")
}

// spliceLine replaces the visible cells of line starting at x with seg.
// Escape sequences outside the replaced cells are kept.
func spliceLine(line string, x int, seg string) string {
	if x < 0 {
		x = 0
	}
	segW := lipgloss.Width(seg)
	end := x + segW

	var b strings.Builder
	var skipped strings.Builder // escapes inside the replaced span
	col := 0
	written := false
	resumed := false

	for i := 0; i < len(line); {
		if line[i] == '\x1b' {
			j := escapeEnd(line, i)
			if written && !resumed {
				skipped.WriteString(line[i:j])
			} else {
				b.WriteString(line[i:j])
			}
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		w := runewidth.RuneWidth(r)
		if !written && col+w > x {
			// Pad when a wide rune straddles x
			b.WriteString(strings.Repeat(" ", x-col))
			b.WriteString("\x1b[0m")
			b.WriteString(seg)
			written = true
		}
		switch {
		case !written:
			b.WriteString(line[i : i+size])
		case col >= end:
			if !resumed {
				b.WriteString(skipped.String())
				resumed = true
			}
			b.WriteString(line[i : i+size])
		case col+w > end:
			// Wide rune cut by the right edge
			b.WriteString(strings.Repeat(" ", col+w-end))
		}
		col += w
		i += size
	}

	if !written {
		b.WriteString(strings.Repeat(" ", x-col))
		b.WriteString(seg)
	}
	return b.String()
}

// escapeEnd returns the index just past the escape sequence starting at i
func escapeEnd(s string, i int) int {
	j := i + 1
	if j >= len(s) {
		return j
	}
	switch s[j] {
	case '[':
		// CSI: parameters then a final byte in @..~
		j++
		for j < len(s) && (s[j] < 0x40 || s[j] > 0x7e) {
			j++
		}
		return min(j+1, len(s))
	case ']':
		// OSC: terminated by BEL or ST
		j++
		for j < len(s) {
			if s[j] == '\a' {
				return j + 1
			}
			if s[j] == '\x1b' && j+1 < len(s) && s[j+1] == '\\' {
				return j + 2
			}
			j++
		}
		return j
	default:
		return j + 1
	}
}
