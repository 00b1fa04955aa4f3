package mixcloud

import "net/url"

const embedBase = "https://www.mixcloud.com/widget/iframe/"

// EmbedURL returns the player widget address for a track page URL
func EmbedURL(trackURL string) string {
	if trackURL == "" {
		return ""
	}
	return embedBase + "?feed=" + url.QueryEscape(trackURL) + "&autoplay=1&light=1"
}
