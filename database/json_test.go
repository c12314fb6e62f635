package database

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *JSONStore {
	t.Helper()
	s, err := NewJSONStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestGetGuildMissingReturnsDefault(t *testing.T) {
	s := newTestStore(t)

	gc, err := s.GetGuild("123")
	require.NoError(t, err)
	assert.Equal(t, "123", gc.ID)
	assert.Empty(t, gc.DisabledModules)
	assert.NotNil(t, gc.LoggingChannels)
	assert.NotNil(t, gc.Levels)

	// reading must not create the document
	ok, err := s.HasGuild("123")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetGuildRoundTrip(t *testing.T) {
	s := newTestStore(t)

	gc := NewGuildConfig("123")
	gc.LoggingChannels[LogMod] = "456"
	gc.AutoRoleID = "789"
	gc.DailyReminders = append(gc.DailyReminders, &DailyReminder{
		ChannelID: "456", Hour: 9, Minute: 0, Title: "standup", Body: "time for standup",
	})
	require.NoError(t, s.SetGuild("123", gc))

	got, err := s.GetGuild("123")
	require.NoError(t, err)
	assert.Equal(t, "456", got.LogChannel(LogMod))
	assert.Equal(t, "789", got.AutoRoleID)
	require.Len(t, got.DailyReminders, 1)
	assert.Equal(t, 9, got.DailyReminders[0].Hour)

	ok, err := s.HasGuild("123")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGetGuildCorruptDocument(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(s.dir, "123.json"), []byte("{not json"), 0644))

	_, err := s.GetGuild("123")
	assert.Error(t, err)
}

func TestUpdateGuildSerializesWrites(t *testing.T) {
	s := newTestStore(t)

	// two concurrent updates touching disjoint fields must both survive
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = s.UpdateGuild("123", func(gc *GuildConfig) error {
			gc.AutoRoleID = "1"
			return nil
		})
	}()
	go func() {
		defer wg.Done()
		_ = s.UpdateGuild("123", func(gc *GuildConfig) error {
			gc.ConfigChannelID = "2"
			return nil
		})
	}()
	wg.Wait()

	gc, err := s.GetGuild("123")
	require.NoError(t, err)
	assert.Equal(t, "1", gc.AutoRoleID)
	assert.Equal(t, "2", gc.ConfigChannelID)
}

func TestUpdateGuildErrorDiscardsChanges(t *testing.T) {
	s := newTestStore(t)

	err := s.UpdateGuild("123", func(gc *GuildConfig) error {
		gc.AutoRoleID = "1"
		return assert.AnError
	})
	assert.Error(t, err)

	ok, err := s.HasGuild("123")
	require.NoError(t, err)
	assert.False(t, ok)
}
