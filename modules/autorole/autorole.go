// Package autorole assigns a configured role to every new member.
package autorole

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
		ModuleBase: bot.NewModuleBase(b, "autorole", false, bot.KindMemberAdd),
	}
}

func (m *Module) Hook() error {
	m.Bot.AddCommands(m, m.autoRoleCommand())
	return nil
}

func (m *Module) Handle(cx *bot.Context, evt interface{}) {
	e, ok := evt.(*discordgo.GuildMemberAdd)
	if !ok || e.User == nil || e.User.Bot {
		return
	}

	roleID := cx.Config().AutoRoleID
	if roleID == "" {
		return
	}

	if err := cx.Sess.GuildMemberRoleAdd(e.GuildID, e.User.ID, roleID); err != nil {
		// missing permissions or a deleted role; not worth more than a line
		cx.Log.Info("failed to assign auto role",
			zap.String("user", e.User.ID), zap.String("role", roleID), zap.Error(err))
		return
	}

	cx.SendLog(database.LogAudit, bot.NewEmbed().
		Title("Auto role assigned").
		Description(fmt.Sprintf("%v received <@&%v>", e.User.String(), roleID)).
		Color(bot.ColorGreen).
		Build())
}

func (m *Module) autoRoleCommand() *bot.Command {
	return &bot.Command{
		Data: &discordgo.ApplicationCommand{
			Name:                     "autorole",
			Description:              "Sets the role given to new members",
			DefaultMemberPermissions: &manageServer,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role",
					Description: "Role to assign",
					Required:    true,
				},
			},
		},
		Run: func(cx *bot.Context, i *discordgo.InteractionCreate) {
			role := bot.Options(i)["role"].RoleValue(cx.Sess, i.GuildID)
			err := cx.Bot.DB().UpdateGuild(i.GuildID, func(gc *database.GuildConfig) error {
				gc.AutoRoleID = role.ID
				return nil
			})
			if err != nil {
				cx.Log.Error("failed to set auto role", zap.Error(err))
				cx.RespondEphemeral(i, "Something went wrong, try again later.")
				return
			}
			cx.Respond(i, fmt.Sprintf("New members will now receive <@&%v>.", role.ID))
		},
	}
}

var manageServer = int64(discordgo.PermissionManageServer)
