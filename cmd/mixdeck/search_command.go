package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"mixdeck/internal/domain"
	"mixdeck/internal/mixcloud"
	"mixdeck/internal/search"
)

type searchResultJSON struct {
	Key       string `json:"key"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	WidgetURL string `json:"widget_url,omitempty"`
	Plays     int    `json:"plays"`
	Favorites int    `json:"favorites"`
	Artwork   string `json:"artwork,omitempty"`
}

type searchPageJSON struct {
	Query       string             `json:"query"`
	Offset      int                `json:"offset"`
	HasNextPage bool               `json:"has_next_page"`
	NextOffset  int                `json:"next_offset,omitempty"`
	Results     []searchResultJSON `json:"results"`
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var offset int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Print one page of Mixcloud search results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return errors.New("query must not be blank")
			}
			if offset < 0 {
				return fmt.Errorf("offset must not be negative, got %d", offset)
			}

			svc, err := ctx.openServices(false)
			if err != nil {
				return err
			}
			defer svc.Close()

			ok := svc.engine.Search(cmd.Context(), query, offset)
			session := svc.engine.Snapshot()
			if !ok {
				return fmt.Errorf("search %q: %s", query, session.Error)
			}
			// Any successful reply counts as a submitted query, empty or not
			svc.history.Add(query)

			if asJSON {
				return writeJSON(cmd, pageJSON(session))
			}
			printSession(cmd, session)
			return nil
		},
	}

	cmd.Flags().IntVar(&offset, "offset", 0, "Result offset to start from")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func pageJSON(s search.Session) searchPageJSON {
	out := searchPageJSON{
		Query:       s.Query,
		Offset:      s.Offset,
		HasNextPage: s.HasNextPage,
		Results:     make([]searchResultJSON, 0, len(s.Results)),
	}
	if s.HasNextPage {
		out.NextOffset = s.NextOffset
	}
	for _, r := range s.Results {
		item := searchResultJSON{
			Key:       r.ID,
			Title:     r.Title,
			URL:       r.SourceURL,
			Plays:     r.PlayCount,
			Favorites: r.FavoriteCount,
			Artwork:   domain.NewSelectedImage(r).LargeSrc,
		}
		if r.SourceURL != "" {
			item.WidgetURL = mixcloud.EmbedURL(r.SourceURL)
		}
		out.Results = append(out.Results, item)
	}
	return out
}

func printSession(cmd *cobra.Command, s search.Session) {
	out := cmd.OutOrStdout()
	if s.NotFound {
		fmt.Fprintf(out, "No results found for %q\n", s.Query)
		return
	}

	rows := make([][]string, 0, len(s.Results))
	for i, r := range s.Results {
		rows = append(rows, []string{
			strconv.Itoa(s.Offset + i + 1),
			r.Title,
			humanize.Comma(int64(r.PlayCount)),
			humanize.Comma(int64(r.FavoriteCount)),
			r.SourceURL,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"#", "Title", "Plays", "Favorites", "URL"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft},
		shouldColorize(out),
	))

	if s.HasNextPage {
		fmt.Fprintf(out, "More results: mixdeck search %q --offset %d\n", s.Query, s.NextOffset)
	}
}
