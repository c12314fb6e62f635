package bot

import (
	"go.uber.org/zap"

	"github.com/bwmarrin/discordgo"
)

// Command is one application command owned by a module. Invocations are
// toggle-checked against the owning module before Run fires.
type Command struct {
	owner string
	Data  *discordgo.ApplicationCommand
	Run   func(cx *Context, i *discordgo.InteractionCreate)
}

var guildOnly = false

// AddCommands registers application commands for a module. Called from a
// module's Hook; the commands are synced with Discord on Ready. Everything a
// module owns is per-guild state, so commands never run in DMs.
func (b *Bot) AddCommands(m Module, cmds ...*Command) {
	for _, cmd := range cmds {
		cmd.owner = m.Name()
		if cmd.Data.DMPermission == nil {
			cmd.Data.DMPermission = &guildOnly
		}
		b.commands[cmd.Data.Name] = cmd
	}
}

func (b *Bot) syncCommands() {
	var data []*discordgo.ApplicationCommand
	for _, cmd := range b.commands {
		data = append(data, cmd.Data)
	}
	if _, err := b.sess.ApplicationCommandBulkOverwrite(b.sess.State.User.ID, "", data); err != nil {
		b.log.Error("failed to sync application commands", zap.Error(err))
		return
	}
	b.log.Info("synced application commands", zap.Int("count", len(data)))
}

func (b *Bot) handleInteraction(i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		name := i.ApplicationCommandData().Name
		cmd, ok := b.commands[name]
		if !ok {
			return
		}
		cx := &Context{Bot: b, Sess: b.sess, Log: b.Logger(cmd.owner), GuildID: i.GuildID}
		defer func() {
			if r := recover(); r != nil {
				b.log.Error("command panicked", zap.String("command", name), zap.Any("recovered", r))
			}
		}()
		// DMPermission keeps commands out of DMs, but an interaction with no
		// guild never reaches a handler regardless
		if i.GuildID == "" {
			cx.RespondEphemeral(i, "This command only works in a server.")
			return
		}
		if !b.IsEnabled(i.GuildID, cmd.owner) {
			cx.RespondEphemeral(i, "This module is disabled in this server.")
			return
		}
		cmd.Run(cx, i)
	case discordgo.InteractionMessageComponent:
		// component interactions route like regular events
		go b.dispatch(KindInteractionCreate, i.GuildID, i)
	}
}

// Options flattens a command interaction's options into a name lookup.
func Options(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	opts := make(map[string]*discordgo.ApplicationCommandInteractionDataOption)
	for _, opt := range i.ApplicationCommandData().Options {
		opts[opt.Name] = opt
	}
	return opts
}
