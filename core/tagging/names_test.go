package tagging

import (
	"testing"

	"mai-analytics-api/core/domain"
	"mai-analytics-api/core/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostPreviewName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"https://example.com/blog/hello/?utm=1", "Mai Post Preview | example.com/blog/hello/"},
		{"http://example.com", "Mai Post Preview | example.com"},
		{"/relative/path", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PostPreviewName(tt.raw), "url %q", tt.raw)
	}
}

func TestNameFor(t *testing.T) {
	rc := render.NewContext(domain.Page{})

	name, err := NameFor(rc, SourceAd, "  Sidebar Ad  ")
	require.NoError(t, err)
	assert.Equal(t, "Sidebar Ad", name)

	name, err = NameFor(rc, SourcePostPreview, "https://example.com/a/")
	require.NoError(t, err)
	assert.Equal(t, "Mai Post Preview | example.com/a/", name)

	var menu []string
	for i := 0; i < 3; i++ {
		name, err = NameFor(rc, SourceMenu, "primary")
		require.NoError(t, err)
		menu = append(menu, name)
	}
	assert.Equal(t, []string{"primary", "primary", "primary-2"}, menu)

	_, err = NameFor(rc, "widget", "x")
	assert.Error(t, err)
}

func TestNameFor_MenuWithoutContext(t *testing.T) {
	name, err := NameFor(nil, SourceMenu, "primary")
	require.NoError(t, err)
	assert.Equal(t, "primary", name)
}
