// ABOUTME: Request DTOs for the tagging, bootstrap and view display endpoints
// ABOUTME: Carries huma validation tags for the generated OpenAPI document

package requests

// TagItem is one fragment to tag. Name wins over Source and Value.
type TagItem struct {
	Fragment string `json:"fragment" doc:"HTML fragment to tag"`
	Name     string `json:"name,omitempty" doc:"Explicit tracking name"`
	Source   string `json:"source,omitempty" enum:"cca,ad,post-preview,tracker,menu,custom" doc:"Kind of content block the name is derived from"`
	Value    string `json:"value,omitempty" doc:"Title, slug or URL the name is derived from"`
}

// TagRequest tags fragments rendered on the same page. Menu slugs are
// disambiguated across the items in order.
type TagRequest struct {
	Items []TagItem `json:"items" minItems:"1" maxItems:"200" doc:"Fragments in render order"`
}

// TagInput wraps TagRequest for huma
type TagInput struct {
	Body TagRequest
}

// BootstrapInput describes the page and visitor a tracking bootstrap is built for
type BootstrapInput struct {
	Type      string `query:"type" doc:"Entity type of the page (post or term), empty for archives"`
	ID        uint64 `query:"id" doc:"Entity id of the page"`
	Name      string `query:"name" doc:"Human label of the page type"`
	URL       string `query:"url" doc:"Canonical URL of the page"`
	UserID    uint64 `query:"user_id" doc:"Logged in user id, 0 for visitors"`
	UserEmail string `query:"user_email" doc:"Logged in user email"`
	Group     string `query:"group" doc:"Membership or team label of the user"`
	Admin     bool   `query:"admin" doc:"Page is an admin screen"`
	Ajax      bool   `query:"ajax" doc:"Request is an ajax call"`
	JSON      bool   `query:"json" doc:"Request is a JSON API call"`
	CLI       bool   `query:"cli" doc:"Request comes from the command line"`
}

// ViewsInput selects the count of one entity to display
type ViewsInput struct {
	Type  string `path:"type" enum:"post,term" doc:"Entity type"`
	ID    uint64 `path:"id" minimum:"1" doc:"Entity id"`
	Kind  string `query:"kind" enum:"views,trending" default:"views" doc:"Count to display"`
	Min   int64  `query:"min" minimum:"0" default:"20" doc:"Smallest count that is displayed"`
	Short bool   `query:"short" default:"true" doc:"Format as 2K+ instead of 2,143"`
}

// TopInput selects a ranking of entities
type TopInput struct {
	Type  string `path:"type" enum:"post,term" doc:"Entity type"`
	Kind  string `path:"kind" enum:"views,trending" doc:"Count to rank by"`
	Limit int    `query:"limit" minimum:"1" maximum:"100" default:"10" doc:"Number of entities"`
}
