// ABOUTME: Render context holds the state scoped to a single page render
// ABOUTME: Owns the menu slug counter and the per-request lookup caches

package render

import (
	"context"
	"strconv"

	"mai-analytics-api/core/domain"
	"mai-analytics-api/core/interfaces"
)

// Context is created at the start of a page render and discarded after output.
// It is not safe for concurrent use; a render is single-threaded.
type Context struct {
	page   domain.Page
	slugs  map[string]int
	groups map[uint64]string
}

// NewContext creates the state for rendering page
func NewContext(page domain.Page) *Context {
	return &Context{
		page:   page,
		slugs:  make(map[string]int),
		groups: make(map[uint64]string),
	}
}

// Page returns the page being rendered
func (c *Context) Page() domain.Page {
	return c.page
}

// DisambiguateSlug returns a tracking name for a menu slug that is unique enough
// within this render. The first and second occurrences of a slug are returned
// unchanged; the k-th occurrence for k >= 3 gets a "-(k-1)" suffix.
func (c *Context) DisambiguateSlug(slug string) string {
	c.slugs[slug]++
	n := c.slugs[slug]
	if n < 3 {
		return slug
	}
	return slug + "-" + strconv.Itoa(n-1)
}

// UserGroup resolves the group label of a user once per render
func (c *Context) UserGroup(ctx context.Context, provider interfaces.UserGroupingProvider, userID uint64) (string, error) {
	if label, ok := c.groups[userID]; ok {
		return label, nil
	}
	if provider == nil || userID == 0 {
		c.groups[userID] = ""
		return "", nil
	}

	label, err := provider(ctx, userID)
	if err != nil {
		return "", err
	}
	c.groups[userID] = label
	return label, nil
}
