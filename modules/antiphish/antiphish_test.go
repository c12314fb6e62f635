package antiphish

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcher(t *testing.T) {
	m := NewMatcher([]string{"discorcl.gift", " Steamcommunlty.com ", "", "# comment"})
	require.Equal(t, 2, m.Len())

	tests := []struct {
		name    string
		content string
		want    string
		wantOk  bool
	}{
		{
			name:    "plain link",
			content: "free nitro at discorcl.gift/abc",
			want:    "discorcl.gift",
			wantOk:  true,
		},
		{
			name:    "case insensitive",
			content: "check STEAMCOMMUNLTY.COM now",
			want:    "steamcommunlty.com",
			wantOk:  true,
		},
		{
			name:    "clean message",
			content: "see you on steamcommunity.com",
			wantOk:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.Match(tt.content)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadTerms(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scams.txt"), []byte("bad.example\nworse.example\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("ignored.example\n"), 0644))

	terms, err := loadTerms(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bad.example", "worse.example"}, terms)
}

func TestLoadTermsMissingDir(t *testing.T) {
	terms, err := loadTerms(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, terms)
}
