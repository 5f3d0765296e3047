// ABOUTME: Handler for tagging HTML fragments with content tracking attributes
// ABOUTME: Derives each fragment's name from its content source within one render

package handlers

import (
	"context"
	"net/http"

	"mai-analytics-api/api/dto/requests"
	"mai-analytics-api/api/dto/responses"
	"mai-analytics-api/core/domain"
	"mai-analytics-api/core/errors"
	"mai-analytics-api/core/interfaces"
	"mai-analytics-api/core/render"
	"mai-analytics-api/core/tagging"

	"github.com/danielgtaylor/huma/v2"
)

// FragmentTagger tags a fragment with a tracking name
type FragmentTagger interface {
	Tag(fragment, name string) string
}

// TagHandler handles fragment tagging
type TagHandler struct {
	tagger   FragmentTagger
	recorder interfaces.Recorder
}

// NewTagHandler creates a new tag handler. A nil recorder records nothing.
func NewTagHandler(tagger FragmentTagger, recorder interfaces.Recorder) *TagHandler {
	return &TagHandler{tagger: tagger, recorder: recorder}
}

// RegisterRoutes registers the tagging routes
func (h *TagHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "tag-fragments",
		Method:      http.MethodPost,
		Path:        "/tag",
		Summary:     "Tag HTML fragments",
		Description: "Marks the top-level elements of each fragment as a tracked content block and labels its links and buttons",
		Tags:        []string{"Tracking"},
	}, h.Tag)
}

// Tag tags every item in order. Items share one render, so repeated menu
// slugs are disambiguated across the batch.
func (h *TagHandler) Tag(ctx context.Context, input *requests.TagInput) (*responses.TagOutput, error) {
	rc := render.NewContext(domain.Page{})
	items := make([]responses.TaggedFragment, 0, len(input.Body.Items))

	for _, item := range input.Body.Items {
		name := item.Name
		if name == "" {
			derived, err := tagging.NameFor(rc, tagging.Source(item.Source), item.Value)
			if err != nil {
				return nil, toHumaError(&errors.ValidationError{Field: "items.source", Message: err.Error()})
			}
			name = derived
		}

		tagged := h.tagger.Tag(item.Fragment, name)
		if name != "" && h.recorder != nil {
			h.recorder.IncTagged(sourceLabel(item.Source))
		}
		items = append(items, responses.TaggedFragment{HTML: tagged, Name: name})
	}

	return &responses.TagOutput{Body: responses.TagResponse{Items: items}}, nil
}

func sourceLabel(source string) string {
	if source == "" {
		return string(tagging.SourceCustom)
	}
	return source
}
