package logging

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/intrntsrfr/custodian/bot"
	"github.com/intrntsrfr/custodian/database"
)

func (m *Module) memberAdd(cx *bot.Context, e *discordgo.GuildMemberAdd) {
	g, _ := cx.Bot.Discord().Guild(e.GuildID)

	eb := bot.NewEmbed().
		Title("User joined").
		Color(bot.ColorBlue).
		Thumbnail(e.User.AvatarURL("256")).
		Field("User", fmt.Sprintf("%v\n%v (%v)", e.User.Mention(), e.User.String(), e.User.ID), false).
		GuildFooter(g)

	if created, err := bot.ParseSnowflake(e.User.ID); err == nil {
		days := int(time.Since(created).Hours() / 24)
		eb.Field("Creation date", fmt.Sprintf("%v\n%v days ago", created.Format(time.RFC1123), days), false)
	}
	cx.SendLog(database.LogJoin, eb.Build())

	// the join/leave channel gets a plain announcement, separate from the logs
	if chID := cx.Config().JoinLeaveChannelID; chID != "" {
		msg := fmt.Sprintf("Welcome, %v!", e.User.Mention())
		if _, err := cx.Sess.ChannelMessageSend(chID, msg); err != nil {
			cx.Log.Info("failed to send join announcement", zap.Error(err))
		}
	}
}

func (m *Module) memberRemove(cx *bot.Context, e *discordgo.GuildMemberRemove) {
	g, _ := cx.Bot.Discord().Guild(e.GuildID)

	cx.SendLog(database.LogJoin, bot.NewEmbed().
		Title("User left").
		Color(bot.ColorOrange).
		Thumbnail(e.User.AvatarURL("256")).
		Field("User", fmt.Sprintf("%v\n%v (%v)", e.User.Mention(), e.User.String(), e.User.ID), false).
		GuildFooter(g).
		Build())

	if chID := cx.Config().JoinLeaveChannelID; chID != "" {
		msg := fmt.Sprintf("Goodbye, %v.", e.User.String())
		if _, err := cx.Sess.ChannelMessageSend(chID, msg); err != nil {
			cx.Log.Info("failed to send leave announcement", zap.Error(err))
		}
	}
}

func (m *Module) memberUpdate(cx *bot.Context, e *discordgo.GuildMemberUpdate) {
	if e.BeforeUpdate == nil {
		return
	}

	g, _ := cx.Bot.Discord().Guild(e.GuildID)

	if e.Nick != e.BeforeUpdate.Nick {
		cx.SendLog(database.LogAudit, bot.NewEmbed().
			Title("Nickname changed").
			Field("User", fmt.Sprintf("%v (%v)", e.User.String(), e.User.ID), false).
			Field("Before", orNone(e.BeforeUpdate.Nick), true).
			Field("After", orNone(e.Nick), true).
			GuildFooter(g).
			Build())
	}

	added, removed := diffRoles(e.BeforeUpdate.Roles, e.Roles)
	for _, rid := range added {
		cx.SendLog(database.LogAudit, bot.NewEmbed().
			Title("Role added").
			Field("User", fmt.Sprintf("%v (%v)", e.User.String(), e.User.ID), false).
			Field("Role", fmt.Sprintf("<@&%v> (%v)", rid, rid), false).
			GuildFooter(g).
			Build())
	}
	for _, rid := range removed {
		cx.SendLog(database.LogAudit, bot.NewEmbed().
			Title("Role removed").
			Color(bot.ColorOrange).
			Field("User", fmt.Sprintf("%v (%v)", e.User.String(), e.User.ID), false).
			Field("Role", fmt.Sprintf("<@&%v> (%v)", rid, rid), false).
			GuildFooter(g).
			Build())
	}
}

func (m *Module) banAdd(cx *bot.Context, e *discordgo.GuildBanAdd) {
	g, _ := cx.Bot.Discord().Guild(e.GuildID)

	cx.SendLog(database.LogMod, bot.NewEmbed().
		Title("User banned").
		Color(bot.ColorRed).
		Thumbnail(e.User.AvatarURL("256")).
		Field("User", fmt.Sprintf("%v\n%v (%v)", e.User.Mention(), e.User.String(), e.User.ID), false).
		GuildFooter(g).
		Build())
}

func (m *Module) banRemove(cx *bot.Context, e *discordgo.GuildBanRemove) {
	g, _ := cx.Bot.Discord().Guild(e.GuildID)

	cx.SendLog(database.LogMod, bot.NewEmbed().
		Title("User unbanned").
		Color(bot.ColorGreen).
		Thumbnail(e.User.AvatarURL("256")).
		Field("User", fmt.Sprintf("%v\n%v (%v)", e.User.Mention(), e.User.String(), e.User.ID), false).
		GuildFooter(g).
		Build())
}

// diffRoles returns the role IDs present in after but not before, and vice
// versa.
func diffRoles(before, after []string) (added, removed []string) {
	old := make(map[string]bool, len(before))
	for _, r := range before {
		old[r] = true
	}
	cur := make(map[string]bool, len(after))
	for _, r := range after {
		cur[r] = true
		if !old[r] {
			added = append(added, r)
		}
	}
	for _, r := range before {
		if !cur[r] {
			removed = append(removed, r)
		}
	}
	return added, removed
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
