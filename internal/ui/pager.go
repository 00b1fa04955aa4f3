package ui

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/noborus/ov/oviewer"

	"mixdeck/internal/domain"
	"mixdeck/internal/mixcloud"
)

var errNoProgram = errors.New("program not set")

// PagerOps shows long text in the ov pager
type PagerOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewPagerOps creates a new pager operations instance
func NewPagerOps() *PagerOps {
	return &PagerOps{}
}

// SetProgram sets the program reference for terminal management
func (p *PagerOps) SetProgram(program *tea.Program) {
	p.program = program
}

// Show hands the terminal to ov until the user closes it
func (p *PagerOps) Show(content string) error {
	if p.program == nil {
		return errNoProgram
	}

	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}
	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}

// trackDetails renders everything known about the selection for the pager
func trackDetails(img domain.SelectedImage, res *domain.SearchResult) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")).MarginBottom(1)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(12)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginTop(1)

	var b strings.Builder
	b.WriteString(titleStyle.Render(img.AltText))
	b.WriteString("\n")

	row := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render(label), value))
	}

	if res != nil {
		row("Key", res.ID)
		row("Plays", humanize.Comma(int64(res.PlayCount)))
		row("Favorites", humanize.Comma(int64(res.FavoriteCount)))
	}
	row("Track", img.TrackURL)
	if img.Playable() {
		row("Widget", mixcloud.EmbedURL(img.TrackURL))
	}
	row("Artwork", img.LargeSrc)
	row("Thumbnail", img.ThumbnailSrc)

	if res != nil && len(res.Images) > 0 {
		b.WriteString(sectionStyle.Render("Images"))
		b.WriteString("\n")
		tags := make([]string, 0, len(res.Images))
		for tag := range res.Images {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
		for _, tag := range tags {
			row(tag, res.Images[tag])
		}
	}
	return b.String()
}
