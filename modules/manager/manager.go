// Package manager exposes the per-guild module toggle table as commands.
package manager

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/intrntsrfr/custodian/bot"
)

type Module struct {
	*bot.ModuleBase
}

func New(b *bot.Bot) *Module {
	return &Module{
		ModuleBase: bot.NewModuleBase(b, "manager", true),
	}
}

func (m *Module) Hook() error {
	m.Bot.AddCommands(m,
		m.moduleListCommand(),
		m.moduleEnableCommand(),
		m.moduleDisableCommand(),
	)
	return nil
}

func (m *Module) moduleListCommand() *bot.Command {
	return &bot.Command{
		Data: &discordgo.ApplicationCommand{
			Name:                     "module-list",
			Description:              "Shows all modules and whether they are enabled here",
			DefaultMemberPermissions: &manageServer,
		},
		Run: func(cx *bot.Context, i *discordgo.InteractionCreate) {
			sb := strings.Builder{}
			for _, mod := range cx.Bot.Modules() {
				switch {
				case mod.Protected():
					sb.WriteString(fmt.Sprintf("🔒 **%v** — always on\n", mod.Name()))
				case cx.Bot.IsEnabled(i.GuildID, mod.Name()):
					sb.WriteString(fmt.Sprintf("✅ **%v** — enabled\n", mod.Name()))
				default:
					sb.WriteString(fmt.Sprintf("❌ **%v** — disabled\n", mod.Name()))
				}
			}
			cx.RespondEmbed(i, bot.NewEmbed().
				Title("Modules").
				Description(sb.String()).
				Build())
		},
	}
}

func (m *Module) moduleEnableCommand() *bot.Command {
	return &bot.Command{
		Data: &discordgo.ApplicationCommand{
			Name:                     "module-enable",
			Description:              "Enables a module in this server",
			DefaultMemberPermissions: &manageServer,
			Options:                  []*discordgo.ApplicationCommandOption{moduleNameOption},
		},
		Run: func(cx *bot.Context, i *discordgo.InteractionCreate) {
			name := bot.Options(i)["module"].StringValue()
			err := cx.Bot.EnableModule(i.GuildID, name)
			m.respondToggle(cx, i, name, "enabled", err)
		},
	}
}

func (m *Module) moduleDisableCommand() *bot.Command {
	return &bot.Command{
		Data: &discordgo.ApplicationCommand{
			Name:                     "module-disable",
			Description:              "Disables a module in this server",
			DefaultMemberPermissions: &manageServer,
			Options:                  []*discordgo.ApplicationCommandOption{moduleNameOption},
		},
		Run: func(cx *bot.Context, i *discordgo.InteractionCreate) {
			name := bot.Options(i)["module"].StringValue()
			err := cx.Bot.DisableModule(i.GuildID, name)
			m.respondToggle(cx, i, name, "disabled", err)
		},
	}
}

func (m *Module) respondToggle(cx *bot.Context, i *discordgo.InteractionCreate, name, verb string, err error) {
	switch {
	case err == nil:
		cx.Respond(i, fmt.Sprintf("Module `%v` is now %v.", name, verb))
	case errors.Is(err, bot.ErrUnknownModule):
		cx.RespondEphemeral(i, fmt.Sprintf("There is no module called `%v`.", name))
	case errors.Is(err, bot.ErrProtectedModule):
		cx.RespondEphemeral(i, fmt.Sprintf("Module `%v` is protected and cannot be toggled.", name))
		m.notifyOwner(cx, i, name)
	default:
		cx.Log.Error("failed to toggle module", zap.String("module", name), zap.Error(err))
		cx.RespondEphemeral(i, "Something went wrong, try again later.")
	}
}

// notifyOwner DMs the guild owner when somebody tries to toggle a protected
// module.
func (m *Module) notifyOwner(cx *bot.Context, i *discordgo.InteractionCreate, name string) {
	g, err := cx.Bot.Discord().Guild(i.GuildID)
	if err != nil {
		return
	}
	ch, err := cx.Sess.UserChannelCreate(g.OwnerID)
	if err != nil {
		cx.Log.Info("failed to open owner dm", zap.Error(err))
		return
	}

	who := "someone"
	if i.Member != nil && i.Member.User != nil {
		who = i.Member.User.String()
	}
	msg := fmt.Sprintf("%v tried to toggle the protected module `%v` in %v.", who, name, g.Name)
	if _, err := cx.Sess.ChannelMessageSend(ch.ID, msg); err != nil {
		cx.Log.Info("failed to dm owner", zap.Error(err))
	}
}

var manageServer = int64(discordgo.PermissionManageServer)

var moduleNameOption = &discordgo.ApplicationCommandOption{
	Type:        discordgo.ApplicationCommandOptionString,
	Name:        "module",
	Description: "Module name",
	Required:    true,
}
