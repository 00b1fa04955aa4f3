package domain

import "strings"

// Image size tags supplied by the Mixcloud API
const (
	ImageSmall        = "small"
	ImageThumbnail    = "thumbnail"
	ImageMediumMobile = "medium_mobile"
	ImageMedium       = "medium"
	ImageLarge        = "large"
	Image320          = "320wx320h"
	ImageExtraLarge   = "extra_large"
	Image640          = "640wx640h"
	Image768          = "768wx768h"
	Image1024         = "1024wx1024h"
)

// ImageSet maps a size tag to an image URL
type ImageSet map[string]string

// Pick returns the URL for the first tag present in the set
func (s ImageSet) Pick(tags ...string) string {
	for _, tag := range tags {
		if url := s[tag]; url != "" {
			return url
		}
	}
	return ""
}

// SearchResult represents a single cloudcast returned by a search
type SearchResult struct {
	ID            string // upstream key, e.g. "/user/mix-name/"
	SourceURL     string
	Title         string
	PlayCount     int
	FavoriteCount int
	Images        ImageSet
}

// SelectedImage is what the Player pane displays. It is passed by value.
type SelectedImage struct {
	ThumbnailSrc string
	AltText      string
	LargeSrc     string
	TrackURL     string // empty when the result has no playable URL
}

// NewSelectedImage builds the player selection for a search result
func NewSelectedImage(r SearchResult) SelectedImage {
	return SelectedImage{
		ThumbnailSrc: r.Images.Pick(ImageThumbnail),
		AltText:      r.Title,
		LargeSrc:     r.Images.Pick(ImageLarge, ImageExtraLarge, ImageMedium),
		TrackURL:     r.SourceURL,
	}
}

// Playable reports whether the selection can be embed-played
func (s SelectedImage) Playable() bool {
	return s.TrackURL != ""
}

// ViewMode is the persisted result layout preference
type ViewMode string

const (
	ViewModeList ViewMode = "list"
	ViewModeTile ViewMode = "tile"
)

// ParseViewMode converts a stored value to a ViewMode, defaulting to list
func ParseViewMode(s string) ViewMode {
	switch ViewMode(strings.ToLower(strings.TrimSpace(s))) {
	case ViewModeTile:
		return ViewModeTile
	default:
		return ViewModeList
	}
}

// Toggle flips between list and tile
func (v ViewMode) Toggle() ViewMode {
	if v == ViewModeTile {
		return ViewModeList
	}
	return ViewModeTile
}

// Rect is a screen rectangle in terminal cells
type Rect struct {
	X, Y, W, H int
}
