package logging

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/intrntsrfr/custodian/bot"
	"github.com/intrntsrfr/custodian/database"
)

func (m *Module) guildUpdate(cx *bot.Context, e *discordgo.GuildUpdate) {
	cx.SendLog(database.LogGuild, bot.NewEmbed().
		Title("Server updated").
		Field("Name", e.Name, true).
		Field("Owner", fmt.Sprintf("<@%v>", e.OwnerID), true).
		GuildFooter(e.Guild).
		Build())
}

func (m *Module) roleCreate(cx *bot.Context, e *discordgo.GuildRoleCreate) {
	g, _ := cx.Bot.Discord().Guild(e.GuildID)
	cx.SendLog(database.LogAudit, bot.NewEmbed().
		Title("Role created").
		Color(bot.ColorGreen).
		Field("Role", fmt.Sprintf("%v (%v)", e.Role.Name, e.Role.ID), false).
		GuildFooter(g).
		Build())
}

func (m *Module) roleUpdate(cx *bot.Context, e *discordgo.GuildRoleUpdate) {
	g, _ := cx.Bot.Discord().Guild(e.GuildID)
	cx.SendLog(database.LogAudit, bot.NewEmbed().
		Title("Role updated").
		Field("Role", fmt.Sprintf("%v (%v)", e.Role.Name, e.Role.ID), false).
		GuildFooter(g).
		Build())
}

func (m *Module) roleDelete(cx *bot.Context, e *discordgo.GuildRoleDelete) {
	g, _ := cx.Bot.Discord().Guild(e.GuildID)
	cx.SendLog(database.LogAudit, bot.NewEmbed().
		Title("Role deleted").
		Color(bot.ColorRed).
		Field("Role ID", e.RoleID, false).
		GuildFooter(g).
		Build())
}

func (m *Module) channelCreate(cx *bot.Context, e *discordgo.ChannelCreate) {
	g, _ := cx.Bot.Discord().Guild(e.GuildID)
	cx.SendLog(database.LogAudit, bot.NewEmbed().
		Title("Channel created").
		Color(bot.ColorGreen).
		Field("Channel", fmt.Sprintf("<#%v> (%v)", e.ID, e.ID), false).
		GuildFooter(g).
		Build())
}

func (m *Module) channelUpdate(cx *bot.Context, e *discordgo.ChannelUpdate) {
	g, _ := cx.Bot.Discord().Guild(e.GuildID)
	cx.SendLog(database.LogAudit, bot.NewEmbed().
		Title("Channel updated").
		Field("Channel", fmt.Sprintf("<#%v> (%v)", e.ID, e.ID), true).
		Field("Name", e.Name, true).
		GuildFooter(g).
		Build())
}

func (m *Module) channelDelete(cx *bot.Context, e *discordgo.ChannelDelete) {
	g, _ := cx.Bot.Discord().Guild(e.GuildID)
	cx.SendLog(database.LogAudit, bot.NewEmbed().
		Title("Channel deleted").
		Color(bot.ColorRed).
		Field("Channel", fmt.Sprintf("%v (%v)", e.Name, e.ID), false).
		GuildFooter(g).
		Build())
}

func (m *Module) voiceStateUpdate(cx *bot.Context, e *discordgo.VoiceStateUpdate) {
	g, _ := cx.Bot.Discord().Guild(e.GuildID)

	var title, desc string
	switch {
	case e.BeforeUpdate == nil && e.ChannelID != "":
		title = "Voice channel joined"
		desc = fmt.Sprintf("<@%v> joined <#%v>", e.UserID, e.ChannelID)
	case e.BeforeUpdate != nil && e.ChannelID == "":
		title = "Voice channel left"
		desc = fmt.Sprintf("<@%v> left <#%v>", e.UserID, e.BeforeUpdate.ChannelID)
	case e.BeforeUpdate != nil && e.ChannelID != e.BeforeUpdate.ChannelID:
		title = "Voice channel moved"
		desc = fmt.Sprintf("<@%v> moved from <#%v> to <#%v>", e.UserID, e.BeforeUpdate.ChannelID, e.ChannelID)
	default:
		// mute/deafen toggles are not worth a log line
		return
	}

	cx.SendLog(database.LogVoice, bot.NewEmbed().
		Title(title).
		Description(desc).
		GuildFooter(g).
		Build())
}
