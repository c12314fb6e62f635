// Package logging records server activity to the guild's configured log
// channels. It also feeds the message cache so delete logging can show
// content Discord no longer exposes.
package logging

import (
	"github.com/bwmarrin/discordgo"

	"github.com/intrntsrfr/custodian/bot"
)

type Module struct {
	*bot.ModuleBase
}

func New(b *bot.Bot) *Module {
	return &Module{
		ModuleBase: bot.NewModuleBase(b, "logging", true,
			bot.KindGuildUpdate,
			bot.KindMemberAdd, bot.KindMemberRemove, bot.KindMemberUpdate,
			bot.KindBanAdd, bot.KindBanRemove,
			bot.KindMessageCreate, bot.KindMessageUpdate, bot.KindMessageDelete, bot.KindMessageDeleteBulk,
			bot.KindRoleCreate, bot.KindRoleUpdate, bot.KindRoleDelete,
			bot.KindChannelCreate, bot.KindChannelUpdate, bot.KindChannelDelete,
			bot.KindVoiceStateUpdate,
		),
	}
}

func (m *Module) Hook() error {
	return nil
}

func (m *Module) Handle(cx *bot.Context, evt interface{}) {
	switch e := evt.(type) {
	case *discordgo.GuildUpdate:
		m.guildUpdate(cx, e)
	case *discordgo.GuildMemberAdd:
		m.memberAdd(cx, e)
	case *discordgo.GuildMemberRemove:
		m.memberRemove(cx, e)
	case *discordgo.GuildMemberUpdate:
		m.memberUpdate(cx, e)
	case *discordgo.GuildBanAdd:
		m.banAdd(cx, e)
	case *discordgo.GuildBanRemove:
		m.banRemove(cx, e)
	case *discordgo.MessageCreate:
		m.messageCreate(cx, e)
	case *discordgo.MessageUpdate:
		m.messageUpdate(cx, e)
	case *discordgo.MessageDelete:
		m.messageDelete(cx, e)
	case *discordgo.MessageDeleteBulk:
		m.messageDeleteBulk(cx, e)
	case *discordgo.GuildRoleCreate:
		m.roleCreate(cx, e)
	case *discordgo.GuildRoleUpdate:
		m.roleUpdate(cx, e)
	case *discordgo.GuildRoleDelete:
		m.roleDelete(cx, e)
	case *discordgo.ChannelCreate:
		m.channelCreate(cx, e)
	case *discordgo.ChannelUpdate:
		m.channelUpdate(cx, e)
	case *discordgo.ChannelDelete:
		m.channelDelete(cx, e)
	case *discordgo.VoiceStateUpdate:
		m.voiceStateUpdate(cx, e)
	}
}
