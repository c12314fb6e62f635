// Package setup holds the commands that point the bot at the right channels.
package setup

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
		ModuleBase: bot.NewModuleBase(b, "setup", true),
	}
}

func (m *Module) Hook() error {
	m.Bot.AddCommands(m,
		m.logChannelCommand(),
		m.logAutoCommand(),
		m.configChannelCommand(),
		m.joinLeaveChannelCommand(),
	)
	return nil
}

func (m *Module) logChannelCommand() *bot.Command {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(database.LogCategories))
	for _, cat := range database.LogCategories {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: cat, Value: cat})
	}

	return &bot.Command{
		Data: &discordgo.ApplicationCommand{
			Name:                     "setup-log",
			Description:              "Sets the channel a log category is sent to",
			DefaultMemberPermissions: &manageServer,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "category",
					Description: "Log category",
					Required:    true,
					Choices:     choices,
				},
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
			opts := bot.Options(i)
			category := opts["category"].StringValue()
			channel := opts["channel"].ChannelValue(nil)

			if !database.ValidLogCategory(category) {
				cx.RespondEphemeral(i, fmt.Sprintf("`%v` is not a log category.", category))
				return
			}

			err := cx.Bot.DB().UpdateGuild(i.GuildID, func(gc *database.GuildConfig) error {
				gc.LoggingChannels[category] = channel.ID
				return nil
			})
			if err != nil {
				cx.Log.Error("failed to set log channel", zap.Error(err))
				cx.RespondEphemeral(i, "Something went wrong, try again later.")
				return
			}
			cx.Respond(i, fmt.Sprintf("Logs for `%v` now go to <#%v>.", category, channel.ID))
		},
	}
}

// logAutoCommand creates a log category with one channel per log category and
// wires everything up in one go.
func (m *Module) logAutoCommand() *bot.Command {
	return &bot.Command{
		Data: &discordgo.ApplicationCommand{
			Name:                     "setup-auto",
			Description:              "Creates a Server Logs category with a channel for every log category",
			DefaultMemberPermissions: &manageServer,
		},
		Run: func(cx *bot.Context, i *discordgo.InteractionCreate) {
			cx.Defer(i)

			parent, err := cx.Sess.GuildChannelCreateComplex(i.GuildID, discordgo.GuildChannelCreateData{
				Name: "Server Logs",
				Type: discordgo.ChannelTypeGuildCategory,
			})
			if err != nil {
				cx.Log.Error("failed to create log category", zap.Error(err))
				cx.Followup(i, "Could not create the log category. Do I have Manage Channels?")
				return
			}

			created := make(map[string]string, len(database.LogCategories))
			for _, cat := range database.LogCategories {
				ch, err := cx.Sess.GuildChannelCreateComplex(i.GuildID, discordgo.GuildChannelCreateData{
					Name:     cat + "-log",
					Type:     discordgo.ChannelTypeGuildText,
					ParentID: parent.ID,
				})
				if err != nil {
					cx.Log.Error("failed to create log channel", zap.String("category", cat), zap.Error(err))
					continue
				}
				created[cat] = ch.ID
			}

			err = cx.Bot.DB().UpdateGuild(i.GuildID, func(gc *database.GuildConfig) error {
				for cat, chID := range created {
					gc.LoggingChannels[cat] = chID
				}
				return nil
			})
			if err != nil {
				cx.Log.Error("failed to save log channels", zap.Error(err))
				cx.Followup(i, "Channels were created but saving the config failed.")
				return
			}
			cx.Followup(i, fmt.Sprintf("Created %v log channels under **Server Logs**.", len(created)))
		},
	}
}

func (m *Module) configChannelCommand() *bot.Command {
	return m.channelSetter("setup-config-channel", "Sets the channel for bot configuration notices",
		func(gc *database.GuildConfig, chID string) { gc.ConfigChannelID = chID })
}

func (m *Module) joinLeaveChannelCommand() *bot.Command {
	return m.channelSetter("setup-joinleave", "Sets the channel for join and leave announcements",
		func(gc *database.GuildConfig, chID string) { gc.JoinLeaveChannelID = chID })
}

func (m *Module) channelSetter(name, desc string, set func(*database.GuildConfig, string)) *bot.Command {
	return &bot.Command{
		Data: &discordgo.ApplicationCommand{
			Name:                     name,
			Description:              desc,
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
				set(gc, channel.ID)
				return nil
			})
			if err != nil {
				cx.Log.Error("failed to set channel", zap.String("command", name), zap.Error(err))
				cx.RespondEphemeral(i, "Something went wrong, try again later.")
				return
			}
			cx.Respond(i, fmt.Sprintf("Channel set to <#%v>.", channel.ID))
		},
	}
}

var manageServer = int64(discordgo.PermissionManageServer)
