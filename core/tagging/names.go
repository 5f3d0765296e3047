// ABOUTME: Content naming rules derive the tracking name of each kind of content block
// ABOUTME: Covers call-to-action, ad, post preview, tracker block and menu sources

package tagging

import (
	"fmt"
	"net/url"
	"strings"

	"mai-analytics-api/core/render"
)

// Source is the kind of content block being tagged
type Source string

const (
	SourceCTA         Source = "cca"
	SourceAd          Source = "ad"
	SourcePostPreview Source = "post-preview"
	SourceTracker     Source = "tracker"
	SourceMenu        Source = "menu"
	SourceCustom      Source = "custom"
)

const postPreviewPrefix = "Mai Post Preview | "

// PostPreviewName names a post preview block by the host and path of its URL.
// Returns "" when the URL has no host.
func PostPreviewName(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return ""
	}
	return postPreviewPrefix + u.Host + u.Path
}

// NameFor derives the tracking name of a block from its source value.
// Menu slugs are disambiguated within rc. Returns "" when no name applies,
// which makes Tag a no-op.
func NameFor(rc *render.Context, source Source, value string) (string, error) {
	switch source {
	case SourcePostPreview:
		return PostPreviewName(value), nil
	case SourceMenu:
		slug := strings.TrimSpace(value)
		if slug == "" {
			return "", nil
		}
		if rc == nil {
			return slug, nil
		}
		return rc.DisambiguateSlug(slug), nil
	case SourceCTA, SourceAd, SourceTracker, SourceCustom, "":
		return strings.TrimSpace(value), nil
	default:
		return "", fmt.Errorf("unknown content source %q", source)
	}
}
