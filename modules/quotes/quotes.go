// Package quotes posts quotes on demand and on a schedule, pulling from a few
// public APIs.
package quotes

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/intrntsrfr/custodian/bot"
	"github.com/intrntsrfr/custodian/database"
)

const apology = "I could not find a quote right now, try again later."

type Module struct {
	*bot.ModuleBase
	fetcher *fetcher
}

func New(b *bot.Bot) *Module {
	return &Module{
		ModuleBase: bot.NewModuleBase(b, "quotes", false),
		fetcher:    newFetcher(),
	}
}

func (m *Module) Hook() error {
	m.Bot.AddCommands(m, m.quoteCommand(), m.quoteChannelCommand())
	m.Bot.Schedule("quote-post", time.Hour*2, m.postScheduled)
	return nil
}

// postScheduled drops a quote into every guild that configured a quote
// channel.
func (m *Module) postScheduled() {
	q, src, err := m.fetcher.Fetch()
	if err != nil {
		m.Log.Info("failed to fetch scheduled quote", zap.Error(err))
		return
	}

	for _, g := range m.Bot.Discord().Guilds() {
		if !m.Bot.IsEnabled(g.ID, m.Name()) {
			continue
		}
		gc, err := m.Bot.DB().GetGuild(g.ID)
		if err != nil || gc.QuoteChannelID == "" {
			continue
		}
		if _, err := m.Bot.Sess().ChannelMessageSendEmbed(gc.QuoteChannelID, quoteEmbed(q, src)); err != nil {
			m.Log.Info("failed to post scheduled quote",
				zap.String("guild", g.ID), zap.Error(err))
		}
	}
}

func quoteEmbed(q *Quote, src string) *discordgo.MessageEmbed {
	return bot.NewEmbed().
		Description(fmt.Sprintf("*%v*\n\n— %v", q.Text, q.Author)).
		Field("Source", src, false).
		Build()
}

func (m *Module) quoteCommand() *bot.Command {
	return &bot.Command{
		Data: &discordgo.ApplicationCommand{
			Name:        "quote",
			Description: "Posts a random quote",
		},
		Run: func(cx *bot.Context, i *discordgo.InteractionCreate) {
			cx.Defer(i)
			q, src, err := m.fetcher.Fetch()
			if err != nil {
				cx.Log.Info("failed to fetch quote", zap.Error(err))
				cx.Followup(i, apology)
				return
			}
			cx.FollowupEmbed(i, quoteEmbed(q, src))
		},
	}
}

func (m *Module) quoteChannelCommand() *bot.Command {
	return &bot.Command{
		Data: &discordgo.ApplicationCommand{
			Name:                     "quote-channel",
			Description:              "Sets the channel for scheduled quotes",
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
				gc.QuoteChannelID = channel.ID
				return nil
			})
			if err != nil {
				cx.Log.Error("failed to set quote channel", zap.Error(err))
				cx.RespondEphemeral(i, "Something went wrong, try again later.")
				return
			}
			cx.Respond(i, fmt.Sprintf("Scheduled quotes will go to <#%v>.", channel.ID))
		},
	}
}

var manageServer = int64(discordgo.PermissionManageServer)
