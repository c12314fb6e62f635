// Package reminders posts configured daily messages at a fixed wall-clock
// time.
package reminders

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/intrntsrfr/custodian/bot"
	"github.com/intrntsrfr/custodian/database"
)

const dateLayout = "2006-01-02"

type Module struct {
	*bot.ModuleBase
}

func New(b *bot.Bot) *Module {
	return &Module{
		ModuleBase: bot.NewModuleBase(b, "reminders", false),
	}
}

func (m *Module) Hook() error {
	m.Bot.AddCommands(m, m.remindDailyCommand(), m.remindListCommand())
	m.Bot.Schedule("reminder-poll", time.Second*30, m.poll)
	return nil
}

// poll walks every known guild and fires reminders that are due. The
// last_sent stamp keeps a reminder to once per UTC calendar day even though
// the poll lands on the same minute twice.
func (m *Module) poll() {
	now := time.Now().UTC()
	for _, g := range m.Bot.Discord().Guilds() {
		m.pollGuild(g.ID, now)
	}
}

func (m *Module) pollGuild(gid string, now time.Time) {
	gc, err := m.Bot.DB().GetGuild(gid)
	if err != nil {
		m.Log.Error("failed to poll reminders", zap.String("guild", gid), zap.Error(err))
		return
	}

	// send first, stamp after; a failed send gets retried by the next poll
	sent := make(map[int]bool)
	for n, rem := range gc.DailyReminders {
		if isDue(rem, now) && m.send(gid, rem) {
			sent[n] = true
		}
	}
	if len(sent) == 0 {
		return
	}

	err = m.Bot.DB().UpdateGuild(gid, func(gc *database.GuildConfig) error {
		for n := range sent {
			if n < len(gc.DailyReminders) {
				gc.DailyReminders[n].LastSent = now.Format(dateLayout)
			}
		}
		return nil
	})
	if err != nil {
		m.Log.Error("failed to stamp reminders", zap.String("guild", gid), zap.Error(err))
	}
}

func (m *Module) send(gid string, rem *database.DailyReminder) bool {
	embed := bot.NewEmbed().
		Title(rem.Title).
		Description(rem.Body).
		Build()
	if _, err := m.Bot.Sess().ChannelMessageSendEmbed(rem.ChannelID, embed); err != nil {
		m.Log.Info("failed to send reminder",
			zap.String("guild", gid), zap.String("channel", rem.ChannelID), zap.Error(err))
		return false
	}
	return true
}

// isDue reports whether a reminder should fire at now (UTC): the wall clock
// matches and it has not fired today.
func isDue(rem *database.DailyReminder, now time.Time) bool {
	if now.Hour() != rem.Hour || now.Minute() != rem.Minute {
		return false
	}
	return rem.LastSent != now.Format(dateLayout)
}

func (m *Module) remindDailyCommand() *bot.Command {
	var (
		minHour, maxHour     = float64(0), float64(23)
		minMinute, maxMinute = float64(0), float64(59)
	)
	return &bot.Command{
		Data: &discordgo.ApplicationCommand{
			Name:                     "remind-daily",
			Description:              "Adds a daily reminder at a fixed UTC time",
			DefaultMemberPermissions: &manageServer,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionChannel,
					Name:        "channel",
					Description: "Channel to post in",
					Required:    true,
					ChannelTypes: []discordgo.ChannelType{
						discordgo.ChannelTypeGuildText,
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "hour",
					Description: "Hour (0-23, UTC)",
					Required:    true,
					MinValue:    &minHour,
					MaxValue:    maxHour,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "minute",
					Description: "Minute (0-59)",
					Required:    true,
					MinValue:    &minMinute,
					MaxValue:    maxMinute,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "title",
					Description: "Reminder title",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "body",
					Description: "Reminder text",
					Required:    true,
				},
			},
		},
		Run: func(cx *bot.Context, i *discordgo.InteractionCreate) {
			opts := bot.Options(i)
			rem := &database.DailyReminder{
				ChannelID: opts["channel"].ChannelValue(nil).ID,
				Hour:      int(opts["hour"].IntValue()),
				Minute:    int(opts["minute"].IntValue()),
				Title:     opts["title"].StringValue(),
				Body:      opts["body"].StringValue(),
			}

			err := cx.Bot.DB().UpdateGuild(i.GuildID, func(gc *database.GuildConfig) error {
				gc.DailyReminders = append(gc.DailyReminders, rem)
				return nil
			})
			if err != nil {
				cx.Log.Error("failed to add reminder", zap.Error(err))
				cx.RespondEphemeral(i, "Something went wrong, try again later.")
				return
			}
			cx.Respond(i, fmt.Sprintf("Daily reminder **%v** set for %02d:%02d UTC in <#%v>.",
				rem.Title, rem.Hour, rem.Minute, rem.ChannelID))
		},
	}
}

func (m *Module) remindListCommand() *bot.Command {
	return &bot.Command{
		Data: &discordgo.ApplicationCommand{
			Name:                     "remind-list",
			Description:              "Lists this server's daily reminders",
			DefaultMemberPermissions: &manageServer,
		},
		Run: func(cx *bot.Context, i *discordgo.InteractionCreate) {
			rems := cx.Config().DailyReminders
			if len(rems) == 0 {
				cx.RespondEphemeral(i, "No daily reminders are set.")
				return
			}
			desc := ""
			for n, rem := range rems {
				desc += fmt.Sprintf("**%v.** %02d:%02d UTC — %v in <#%v>\n",
					n+1, rem.Hour, rem.Minute, rem.Title, rem.ChannelID)
			}
			cx.RespondEmbed(i, bot.NewEmbed().
				Title("Daily reminders").
				Description(desc).
				Build())
		},
	}
}

var manageServer = int64(discordgo.PermissionManageServer)
