// Package moderation implements the ban, kick and softban commands.
package moderation

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/intrntsrfr/custodian/bot"
	"github.com/intrntsrfr/custodian/database"
)

type Module struct {
	*bot.ModuleBase
}

func New(b *bot.Bot) *Module {
	return &Module{
		ModuleBase: bot.NewModuleBase(b, "moderation", false),
	}
}

func (m *Module) Hook() error {
	m.Bot.AddCommands(m,
		m.banCommand(),
		m.kickCommand(),
		m.softbanCommand(),
	)
	return nil
}

func targetOptions() []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "Target user",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "reason",
			Description: "Reason",
		},
	}
}

func reasonOf(opts map[string]*discordgo.ApplicationCommandInteractionDataOption) string {
	if opt, ok := opts["reason"]; ok {
		return opt.StringValue()
	}
	return "No reason given"
}

func (m *Module) banCommand() *bot.Command {
	return &bot.Command{
		Data: &discordgo.ApplicationCommand{
			Name:                     "ban",
			Description:              "Bans a user and deletes their last day of messages",
			DefaultMemberPermissions: &banMembers,
			Options:                  targetOptions(),
		},
		Run: func(cx *bot.Context, i *discordgo.InteractionCreate) {
			opts := bot.Options(i)
			target := opts["user"].UserValue(cx.Sess)
			reason := reasonOf(opts)

			// act first, log after; a failed action must not produce a log entry
			err := cx.Sess.GuildBanCreateWithReason(i.GuildID, target.ID, reason, 1)
			if err != nil {
				cx.Log.Info("failed to ban user", zap.String("user", target.ID), zap.Error(err))
				cx.RespondEphemeral(i, "Could not ban that user. Check my role and permissions.")
				return
			}

			cx.Respond(i, fmt.Sprintf("Banned %v.", target.String()))
			m.sendModLog(cx, i, "User banned", bot.ColorRed, target, reason)
		},
	}
}

func (m *Module) kickCommand() *bot.Command {
	return &bot.Command{
		Data: &discordgo.ApplicationCommand{
			Name:                     "kick",
			Description:              "Kicks a user",
			DefaultMemberPermissions: &kickMembers,
			Options:                  targetOptions(),
		},
		Run: func(cx *bot.Context, i *discordgo.InteractionCreate) {
			opts := bot.Options(i)
			target := opts["user"].UserValue(cx.Sess)
			reason := reasonOf(opts)

			err := cx.Sess.GuildMemberDeleteWithReason(i.GuildID, target.ID, reason)
			if err != nil {
				cx.Log.Info("failed to kick user", zap.String("user", target.ID), zap.Error(err))
				cx.RespondEphemeral(i, "Could not kick that user. Check my role and permissions.")
				return
			}

			cx.Respond(i, fmt.Sprintf("Kicked %v.", target.String()))
			m.sendModLog(cx, i, "User kicked", bot.ColorOrange, target, reason)
		},
	}
}

// softbanCommand bans and immediately unbans, which only clears the target's
// recent messages.
func (m *Module) softbanCommand() *bot.Command {
	return &bot.Command{
		Data: &discordgo.ApplicationCommand{
			Name:                     "softban",
			Description:              "Kicks a user and deletes their last day of messages",
			DefaultMemberPermissions: &banMembers,
			Options:                  targetOptions(),
		},
		Run: func(cx *bot.Context, i *discordgo.InteractionCreate) {
			opts := bot.Options(i)
			target := opts["user"].UserValue(cx.Sess)
			reason := reasonOf(opts)

			err := cx.Sess.GuildBanCreateWithReason(i.GuildID, target.ID, reason, 1)
			if err != nil {
				cx.Log.Info("failed to softban user", zap.String("user", target.ID), zap.Error(err))
				cx.RespondEphemeral(i, "Could not softban that user. Check my role and permissions.")
				return
			}
			if err := cx.Sess.GuildBanDelete(i.GuildID, target.ID); err != nil {
				cx.Log.Error("failed to lift softban", zap.String("user", target.ID), zap.Error(err))
				cx.RespondEphemeral(i, fmt.Sprintf("Banned %v but could not lift the ban, do it manually.", target.String()))
				return
			}

			cx.Respond(i, fmt.Sprintf("Softbanned %v.", target.String()))
			m.sendModLog(cx, i, "User softbanned", bot.ColorOrange, target, reason)
		},
	}
}

func (m *Module) sendModLog(cx *bot.Context, i *discordgo.InteractionCreate, title string, color bot.Color, target *discordgo.User, reason string) {
	mod := "unknown"
	if i.Member != nil && i.Member.User != nil {
		mod = i.Member.User.String()
	}
	g, _ := cx.Bot.Discord().Guild(i.GuildID)

	cx.SendLog(database.LogMod, bot.NewEmbed().
		Title(title).
		Color(color).
		Thumbnail(target.AvatarURL("256")).
		Field("User", fmt.Sprintf("%v\n%v (%v)", target.Mention(), target.String(), target.ID), false).
		Field("Moderator", mod, true).
		Field("Reason", reason, true).
		GuildFooter(g).
		Build())
}

var (
	banMembers  = int64(discordgo.PermissionBanMembers)
	kickMembers = int64(discordgo.PermissionKickMembers)
)
