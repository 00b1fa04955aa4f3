package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HelpRenderer handles help content rendering
type HelpRenderer struct{}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer() *HelpRenderer {
	return &HelpRenderer{}
}

type helpEntry struct {
	keys string
	desc string
}

type helpSection struct {
	title   string
	entries []helpEntry
}

var helpSections = []helpSection{
	{"Panes", []helpEntry{
		{"Tab/Shift+Tab", "Move focus between Search, Player and Recent"},
		{"↑/↓, j/k", "Move the cursor"},
		{"←/→, h/l", "Move across tiles"},
		{"g/G", "Go to top/bottom"},
	}},
	{"Search", []helpEntry{
		{"/", "Edit the query"},
		{"Enter", "Run the query (while editing) or pick the result under the cursor"},
		{"Esc", "Stop editing"},
		{"n", "Next page"},
		{"r", "Retry after an error"},
		{"v", "Toggle list/tile view"},
	}},
	{"Player", []helpEntry{
		{"Enter, p", "Play the selected mix"},
		{"i", "Show mix details"},
	}},
	{"Recent", []helpEntry{
		{"Enter", "Search this query again"},
		{"c", "Clear recent searches"},
	}},
	{"Other", []helpEntry{
		{"?", "Show this help"},
		{"q", "Quit"},
	}},
}

// RenderHelpContent generates help content with colors for the pager
func (r *HelpRenderer) RenderHelpContent(title string) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")).
		Width(15)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var help strings.Builder
	help.WriteString(titleStyle.Render(title + " Help"))
	help.WriteString("\n")

	for i, section := range helpSections {
		help.WriteString(sectionStyle.Render(section.title))
		help.WriteString("\n")
		for _, e := range section.entries {
			help.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render(e.keys), descStyle.Render(e.desc)))
		}
		if i < len(helpSections)-1 {
			help.WriteString("\n")
		}
	}

	help.WriteString("\n")
	help.WriteString(lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241")).Render("  Press q to close this pager"))
	return help.String()
}
