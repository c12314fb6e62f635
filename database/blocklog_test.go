package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockLogAppendAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocked.json")

	l, err := NewBlockLog(path)
	require.NoError(t, err)
	assert.Equal(t, 0, l.Len())

	require.NoError(t, l.Append(&BlockedMessage{
		Timestamp: time.Now().UTC(),
		UserID:    "1",
		GuildID:   "2",
		Content:   "free nitro at example.com",
		Matched:   "free nitro",
	}))
	require.NoError(t, l.Append(&BlockedMessage{
		Timestamp: time.Now().UTC(),
		UserID:    "3",
		GuildID:   "2",
		Content:   "discord.gg/spam",
		Matched:   "discord.gg",
	}))

	// reopen from disk, both entries survive in order
	l2, err := NewBlockLog(path)
	require.NoError(t, err)
	entries := l2.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "free nitro", entries[0].Matched)
	assert.Equal(t, "discord.gg", entries[1].Matched)
}
