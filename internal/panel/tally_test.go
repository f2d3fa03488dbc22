package panel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dev-console/netlog/internal/types"
)

func resourcesOf(typs ...string) []types.Resource {
	out := make([]types.Resource, 0, len(typs))
	for i, typ := range typs {
		out = append(out, types.Resource{URL: "https://app.test/" + string(rune('a'+i)), Type: typ})
	}
	return out
}

func TestTallyCountsPerType(t *testing.T) {
	t.Parallel()

	tally := Tally(resourcesOf("script", "script", "image"))
	assert.Equal(t, []types.TypeCount{
		{Type: "script", Count: 2},
		{Type: "image", Count: 1},
	}, tally.Rows())
}

func TestRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		types []string
		want  string
	}{
		{
			name:  "script and image",
			types: []string{"script", "script", "image"},
			want:  "Resources on this page:\n  script: 2\nimage: 1",
		},
		{
			name:  "first seen order",
			types: []string{"document", "stylesheet", "document", "font"},
			want:  "Resources on this page:\n  document: 2\nstylesheet: 1\nfont: 1",
		},
		{
			name: "empty page",
			want: "Resources on this page:\n  ",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Render(Tally(resourcesOf(tt.types...))))
		})
	}
}
