package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"mai-analytics-api/api/dto/responses"
	"mai-analytics-api/core/tagging"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagHandler_RegisterRoutes(t *testing.T) {
	_, api := humatest.New(t)
	NewTagHandler(tagging.NewTagger(nil), nil).RegisterRoutes(api)

	path := api.OpenAPI().Paths["/tag"]
	require.NotNil(t, path)
	require.NotNil(t, path.Post)
	assert.Equal(t, "tag-fragments", path.Post.OperationID)
}

func TestTagHandler_Tag(t *testing.T) {
	recorder := &mockRecorder{}
	_, api := humatest.New(t)
	NewTagHandler(tagging.NewTagger(nil), recorder).RegisterRoutes(api)

	resp := api.Post("/tag", map[string]interface{}{
		"items": []map[string]string{
			{"fragment": `<div class="cta"><a href="/join">Join</a></div>`, "source": "cca", "value": " Join Today "},
			{"fragment": `<nav><a href="/">Home</a></nav>`, "source": "menu", "value": "primary"},
			{"fragment": `<nav><a href="/">Home</a></nav>`, "source": "menu", "value": "primary"},
			{"fragment": `<nav><a href="/">Home</a></nav>`, "source": "menu", "value": "primary"},
			{"fragment": `<p>Explicit</p>`, "name": "Hero"},
			{"fragment": `<p>Untagged</p>`},
		},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var body responses.TagResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Items, 6)

	assert.Equal(t, "Join Today", body.Items[0].Name)
	assert.Equal(t, `<div class="cta" data-track-content="" data-content-name="Join Today"><a href="/join" data-content-piece="Join">Join</a></div>`, body.Items[0].HTML)
	assert.Equal(t, "primary", body.Items[1].Name)
	assert.Equal(t, "primary", body.Items[2].Name)
	assert.Equal(t, "primary-2", body.Items[3].Name)
	assert.Equal(t, "Hero", body.Items[4].Name)
	assert.Equal(t, "", body.Items[5].Name)
	assert.Equal(t, `<p>Untagged</p>`, body.Items[5].HTML)

	assert.Equal(t, map[string]int{"cca": 1, "menu": 3, "custom": 1}, recorder.tagged)
}

func TestTagHandler_PostPreviewName(t *testing.T) {
	_, api := humatest.New(t)
	NewTagHandler(tagging.NewTagger(nil), nil).RegisterRoutes(api)

	resp := api.Post("/tag", map[string]interface{}{
		"items": []map[string]string{
			{"fragment": `<div>Preview</div>`, "source": "post-preview", "value": "https://other.example.com/story/?utm=x"},
		},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var body responses.TagResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "Mai Post Preview | other.example.com/story/", body.Items[0].Name)
}

func TestTagHandler_Validation(t *testing.T) {
	tests := []struct {
		name string
		body interface{}
	}{
		{"no items", map[string]interface{}{"items": []map[string]string{}}},
		{"unknown source", map[string]interface{}{"items": []map[string]string{{"fragment": "<p>x</p>", "source": "popup", "value": "x"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, api := humatest.New(t)
			NewTagHandler(tagging.NewTagger(nil), nil).RegisterRoutes(api)

			resp := api.Post("/tag", tt.body)
			assert.True(t, resp.Code == http.StatusBadRequest || resp.Code == http.StatusUnprocessableEntity, "got %d", resp.Code)
		})
	}
}
