package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commandInteraction(name, guildID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:    discordgo.InteractionApplicationCommand,
			GuildID: guildID,
			Data:    discordgo.ApplicationCommandInteractionData{Name: name},
		},
	}
}

func TestAddCommandsMarksGuildOnly(t *testing.T) {
	b := newTestBot(t)
	m := newFakeModule(b, "mod", false)
	b.AddCommands(m, &Command{
		Data: &discordgo.ApplicationCommand{Name: "ping"},
		Run:  func(cx *Context, i *discordgo.InteractionCreate) {},
	})

	cmd := b.commands["ping"]
	require.NotNil(t, cmd.Data.DMPermission)
	assert.False(t, *cmd.Data.DMPermission)
}

func TestHandleInteractionRejectsDMs(t *testing.T) {
	b := newTestBot(t)
	m := newFakeModule(b, "mod", false)
	b.RegisterModule(m)

	ran := false
	b.AddCommands(m, &Command{
		Data: &discordgo.ApplicationCommand{Name: "ping"},
		Run:  func(cx *Context, i *discordgo.InteractionCreate) { ran = true },
	})

	// a DM interaction carries no guild and must never reach the handler
	assert.NotPanics(t, func() {
		b.handleInteraction(commandInteraction("ping", ""))
	})
	assert.False(t, ran)

	b.handleInteraction(commandInteraction("ping", "1"))
	assert.True(t, ran)
}
