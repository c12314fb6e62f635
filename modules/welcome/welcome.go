// Package welcome greets a server the first time the bot sees it.
package welcome

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
		ModuleBase: bot.NewModuleBase(b, "welcome", true, bot.KindGuildCreate),
	}
}

func (m *Module) Hook() error {
	return nil
}

// Handle runs for every GuildCreate, which the gateway also fires for guilds
// the bot already knows on connect. Only a guild with no stored document is
// treated as new.
func (m *Module) Handle(cx *bot.Context, evt interface{}) {
	e, ok := evt.(*discordgo.GuildCreate)
	if !ok {
		return
	}

	seen, err := cx.Bot.DB().HasGuild(e.ID)
	if err != nil {
		cx.Log.Error("failed to check guild", zap.String("guild", e.ID), zap.Error(err))
		return
	}
	if seen {
		return
	}

	// writing the default document marks the guild as known
	err = cx.Bot.DB().UpdateGuild(e.ID, func(gc *database.GuildConfig) error { return nil })
	if err != nil {
		cx.Log.Error("failed to create guild config", zap.String("guild", e.ID), zap.Error(err))
		return
	}
	cx.Log.Info("joined new guild", zap.String("guild", e.ID), zap.String("name", e.Name))

	m.greetOwner(cx, e)
	m.announce(cx, e)
}

func (m *Module) greetOwner(cx *bot.Context, e *discordgo.GuildCreate) {
	ch, err := cx.Sess.UserChannelCreate(e.OwnerID)
	if err != nil {
		cx.Log.Info("failed to open owner dm", zap.Error(err))
		return
	}

	embed := bot.NewEmbed().
		Title("Thanks for adding me!").
		Description(fmt.Sprintf(
			"Hi! I just joined **%v**.\n\n"+
				"Run `/setup-auto` to set up logging channels, or `/setup-log` to pick them yourself. "+
				"`/module-list` shows everything I can do, and `/module-disable` turns off anything you don't want.",
			e.Name)).
		Color(bot.ColorGreen).
		Build()
	if _, err := cx.Sess.ChannelMessageSendEmbed(ch.ID, embed); err != nil {
		cx.Log.Info("failed to dm owner", zap.Error(err))
	}
}

func (m *Module) announce(cx *bot.Context, e *discordgo.GuildCreate) {
	if e.SystemChannelID == "" {
		return
	}
	msg := fmt.Sprintf("Hello, %v! Run `/module-list` to see what I can do.", e.Name)
	if _, err := cx.Sess.ChannelMessageSend(e.SystemChannelID, msg); err != nil {
		cx.Log.Info("failed to send greeting", zap.Error(err))
	}
}
