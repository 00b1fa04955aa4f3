package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSelectedImageFallbackChain(t *testing.T) {
	r := SearchResult{
		ID:        "/dj/set/",
		SourceURL: "https://www.mixcloud.com/dj/set/",
		Title:     "Set",
		Images: ImageSet{
			ImageThumbnail:  "thumb.jpg",
			ImageExtraLarge: "xl.jpg",
			ImageMedium:     "m.jpg",
		},
	}

	img := NewSelectedImage(r)
	assert.Equal(t, "thumb.jpg", img.ThumbnailSrc)
	assert.Equal(t, "xl.jpg", img.LargeSrc, "large missing, extra_large wins")
	assert.Equal(t, "Set", img.AltText)
	assert.True(t, img.Playable())

	r.Images[ImageLarge] = "l.jpg"
	assert.Equal(t, "l.jpg", NewSelectedImage(r).LargeSrc)

	r.SourceURL = ""
	assert.False(t, NewSelectedImage(r).Playable())
}

func TestParseViewMode(t *testing.T) {
	assert.Equal(t, ViewModeTile, ParseViewMode("tile"))
	assert.Equal(t, ViewModeTile, ParseViewMode(" TILE "))
	assert.Equal(t, ViewModeList, ParseViewMode("list"))
	assert.Equal(t, ViewModeList, ParseViewMode("grid"))
	assert.Equal(t, ViewModeList, ParseViewMode(""))
	assert.Equal(t, ViewModeTile, ViewModeList.Toggle())
	assert.Equal(t, ViewModeList, ViewModeTile.Toggle())
}
