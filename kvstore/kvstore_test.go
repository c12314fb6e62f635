package kvstore

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testMessage(gid, cid, mid, content string) *discordgo.Message {
	return &discordgo.Message{
		ID:        mid,
		ChannelID: cid,
		GuildID:   gid,
		Content:   content,
		Author:    &discordgo.User{ID: "42", Username: "tester"},
	}
}

func TestMessageRoundTrip(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SetMessage(testMessage("1", "2", "3", "hello")))

	msg, err := s.GetMessage("1", "2", "3")
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Content)
	assert.Equal(t, "42", msg.Author.ID)
}

func TestGetMessageMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetMessage("1", "2", "3")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetMessagesSkipsMissing(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SetMessage(testMessage("1", "2", "3", "first")))
	require.NoError(t, s.SetMessage(testMessage("1", "2", "5", "second")))

	msgs := s.GetMessages("1", "2", []string{"3", "4", "5"})
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Content)
	assert.Equal(t, "second", msgs[1].Content)
}
