// ABOUTME: Tracking domain models describe the page being rendered and the script bootstrap
// ABOUTME: The bootstrap object is embedded in the page for the client tracking script

package domain

// GroupDimension is the custom dimension slot carrying the user grouping label
const GroupDimension = 5

// Page describes the page being rendered
type Page struct {
	// Type is post or term for entity pages, empty for archives and search
	Type EntityType

	// Name is a human label for the page type (e.g. "Post", "Category", "Search")
	Name string

	// ID is the entity id, 0 when the page is not an entity
	ID uint64

	// URL is the canonical URL of the page
	URL string
}

// Ref returns the entity reference of the page and whether the page is an entity
func (p Page) Ref() (EntityRef, bool) {
	ref := EntityRef{Type: p.Type, ID: p.ID}
	if ref.Validate() != nil || p.URL == "" {
		return EntityRef{}, false
	}
	return ref, true
}

// User is the visitor of the page. A zero ID means anonymous.
type User struct {
	ID    uint64
	Email string
}

// TrackingVars is the configuration object embedded in the page for the tracking script
type TrackingVars struct {
	TrackerURL string         `json:"trackerUrl"`
	SiteID     int            `json:"siteId"`
	Token      string         `json:"token,omitempty"`
	UserID     string         `json:"userId,omitempty"`
	Dimensions map[int]string `json:"dimensions"`
	Views      *RefreshParams `json:"views,omitempty"`
}
