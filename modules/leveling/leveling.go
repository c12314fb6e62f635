// Package leveling awards XP for messages and announces level-ups.
package leveling

import (
	"fmt"
	"math/rand"
	"sort"

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
		ModuleBase: bot.NewModuleBase(b, "leveling", false, bot.KindMessageCreate),
	}
}

func (m *Module) Hook() error {
	m.Bot.AddCommands(m,
		m.levelCommand(),
		m.leaderboardCommand(),
		m.levelChannelCommand(),
	)
	return nil
}

func (m *Module) Handle(cx *bot.Context, evt interface{}) {
	e, ok := evt.(*discordgo.MessageCreate)
	if !ok || e.Author == nil || e.Author.Bot || e.GuildID == "" {
		return
	}

	gain := 5 + rand.Intn(11)

	var leveledUp bool
	var entry database.LevelEntry
	err := cx.Bot.DB().UpdateGuild(e.GuildID, func(gc *database.GuildConfig) error {
		le, ok := gc.Levels[e.Author.ID]
		if !ok {
			le = &database.LevelEntry{}
			gc.Levels[e.Author.ID] = le
		}
		le.XP += gain
		// the level only ever moves up
		if lvl := LevelForXP(le.XP); lvl > le.Level {
			le.Level = lvl
			leveledUp = true
		}
		entry = *le
		return nil
	})
	if err != nil {
		cx.Log.Error("failed to award xp", zap.String("user", e.Author.ID), zap.Error(err))
		return
	}

	if leveledUp {
		m.announce(cx, e, entry)
	}
}

func (m *Module) announce(cx *bot.Context, e *discordgo.MessageCreate, entry database.LevelEntry) {
	chID := cx.Config().LevelChannelID
	if chID == "" {
		chID = e.ChannelID
	}

	progress, needed := IntoLevel(entry.XP)
	embed := bot.NewEmbed().
		Title("Level up!").
		Description(fmt.Sprintf("%v reached level **%v**!\n\n%v\n%v / %v XP to next level",
			e.Author.Mention(), entry.Level, ProgressBar(progress, needed), progress, needed)).
		Color(bot.ColorGreen).
		Thumbnail(e.Author.AvatarURL("256")).
		Build()

	if _, err := cx.Sess.ChannelMessageSendEmbed(chID, embed); err != nil {
		cx.Log.Info("failed to announce level up", zap.Error(err))
	}
}

func (m *Module) levelCommand() *bot.Command {
	return &bot.Command{
		Data: &discordgo.ApplicationCommand{
			Name:        "level",
			Description: "Shows your level and progress",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Someone else's level",
				},
			},
		},
		Run: func(cx *bot.Context, i *discordgo.InteractionCreate) {
			target := i.Member.User
			if opt, ok := bot.Options(i)["user"]; ok {
				target = opt.UserValue(cx.Sess)
			}

			entry, ok := cx.Config().Levels[target.ID]
			if !ok {
				cx.RespondEphemeral(i, fmt.Sprintf("%v has not earned any XP yet.", target.String()))
				return
			}

			progress, needed := IntoLevel(entry.XP)
			cx.RespondEmbed(i, bot.NewEmbed().
				Title(fmt.Sprintf("%v — Level %v", target.String(), entry.Level)).
				Description(fmt.Sprintf("%v\n%v / %v XP to next level\nTotal XP: %v",
					ProgressBar(progress, needed), progress, needed, entry.XP)).
				Thumbnail(target.AvatarURL("256")).
				Build())
		},
	}
}

func (m *Module) leaderboardCommand() *bot.Command {
	return &bot.Command{
		Data: &discordgo.ApplicationCommand{
			Name:        "leaderboard",
			Description: "Shows the top 10 by XP",
		},
		Run: func(cx *bot.Context, i *discordgo.InteractionCreate) {
			levels := cx.Config().Levels
			if len(levels) == 0 {
				cx.RespondEphemeral(i, "Nobody has earned any XP yet.")
				return
			}

			type row struct {
				uid   string
				entry *database.LevelEntry
			}
			rows := make([]row, 0, len(levels))
			for uid, entry := range levels {
				rows = append(rows, row{uid, entry})
			}
			sort.Slice(rows, func(a, b int) bool { return rows[a].entry.XP > rows[b].entry.XP })
			if len(rows) > 10 {
				rows = rows[:10]
			}

			desc := ""
			for n, r := range rows {
				desc += fmt.Sprintf("**%v.** <@%v> — level %v (%v XP)\n", n+1, r.uid, r.entry.Level, r.entry.XP)
			}
			cx.RespondEmbed(i, bot.NewEmbed().
				Title("Leaderboard").
				Description(desc).
				Build())
		},
	}
}

func (m *Module) levelChannelCommand() *bot.Command {
	return &bot.Command{
		Data: &discordgo.ApplicationCommand{
			Name:                     "level-channel",
			Description:              "Sets the channel for level-up announcements",
			DefaultMemberPermissions: &manageServer,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionChannel,
					Name:        "channel",
					Description: "Destination channel",
					Required:    true,
					ChannelTypes: []discordgo.ChannelType{
						discordgo.ChannelTypeGuildText,
					},
				},
			},
		},
		Run: func(cx *bot.Context, i *discordgo.InteractionCreate) {
			channel := bot.Options(i)["channel"].ChannelValue(nil)
			err := cx.Bot.DB().UpdateGuild(i.GuildID, func(gc *database.GuildConfig) error {
				gc.LevelChannelID = channel.ID
				return nil
			})
			if err != nil {
				cx.Log.Error("failed to set level channel", zap.Error(err))
				cx.RespondEphemeral(i, "Something went wrong, try again later.")
				return
			}
			cx.Respond(i, fmt.Sprintf("Level-ups will be announced in <#%v>.", channel.ID))
		},
	}
}

var manageServer = int64(discordgo.PermissionManageServer)
