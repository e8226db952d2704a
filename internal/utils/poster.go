package utils

import (
	"net/url"
	"strings"
)

// PosterPlaceholder is served when a movie has no usable poster.
const PosterPlaceholder = "/static/img/no-poster.png"

// PosterURL returns raw when it is an absolute http(s) URL with a host and a
// path, or a site-relative /media/ path.  Anything else, including
// javascript: and protocol-relative URLs, becomes PosterPlaceholder.
func PosterURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return PosterPlaceholder
	}
	if strings.HasPrefix(raw, "/media/") && len(raw) > len("/media/") {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return PosterPlaceholder
	}
	if (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" && u.Path != "" && u.Path != "/" {
		return raw
	}
	return PosterPlaceholder
}

// IsPosterURL reports whether PosterURL would keep raw.
func IsPosterURL(raw string) bool {
	return PosterURL(raw) != PosterPlaceholder
}
