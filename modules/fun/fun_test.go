package fun

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickMeme(t *testing.T) {
	posts := []*redditPost{
		{Title: "pinned", URL: "https://i.redd.it/a.png", Stickied: true},
		{Title: "video", URL: "https://v.redd.it/clip"},
		{Title: "good", URL: "https://i.redd.it/b.jpg"},
	}

	post, err := pickMeme(posts)
	require.NoError(t, err)
	assert.Equal(t, "good", post.Title)
}

func TestPickMemeNothingUsable(t *testing.T) {
	posts := []*redditPost{
		{Title: "pinned", URL: "https://i.redd.it/a.png", Stickied: true},
		{Title: "text post", URL: "https://reddit.com/r/memes/comments/x"},
	}

	_, err := pickMeme(posts)
	assert.Error(t, err)
}

func TestIsImageURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://i.redd.it/a.png", true},
		{"https://i.redd.it/a.jpeg", true},
		{"https://i.redd.it/a.webp", true},
		{"https://v.redd.it/clip", false},
		{"https://example.com/page.html", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isImageURL(tt.url), tt.url)
	}
}
