package bot

import (
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// EventKind identifies the gateway events a module can subscribe to.
type EventKind int

const (
	KindNone EventKind = iota
	KindReady
	KindGuildCreate
	KindGuildUpdate
	KindMemberAdd
	KindMemberRemove
	KindMemberUpdate
	KindBanAdd
	KindBanRemove
	KindMessageCreate
	KindMessageUpdate
	KindMessageDelete
	KindMessageDeleteBulk
	KindRoleCreate
	KindRoleUpdate
	KindRoleDelete
	KindChannelCreate
	KindChannelUpdate
	KindChannelDelete
	KindVoiceStateUpdate
	KindInteractionCreate
)

// KindOf maps a gateway event to its kind. Events the dispatcher does not
// route return KindNone.
func KindOf(evt interface{}) EventKind {
	switch evt.(type) {
	case *discordgo.Ready:
		return KindReady
	case *discordgo.GuildCreate:
		return KindGuildCreate
	case *discordgo.GuildUpdate:
		return KindGuildUpdate
	case *discordgo.GuildMemberAdd:
		return KindMemberAdd
	case *discordgo.GuildMemberRemove:
		return KindMemberRemove
	case *discordgo.GuildMemberUpdate:
		return KindMemberUpdate
	case *discordgo.GuildBanAdd:
		return KindBanAdd
	case *discordgo.GuildBanRemove:
		return KindBanRemove
	case *discordgo.MessageCreate:
		return KindMessageCreate
	case *discordgo.MessageUpdate:
		return KindMessageUpdate
	case *discordgo.MessageDelete:
		return KindMessageDelete
	case *discordgo.MessageDeleteBulk:
		return KindMessageDeleteBulk
	case *discordgo.GuildRoleCreate:
		return KindRoleCreate
	case *discordgo.GuildRoleUpdate:
		return KindRoleUpdate
	case *discordgo.GuildRoleDelete:
		return KindRoleDelete
	case *discordgo.ChannelCreate:
		return KindChannelCreate
	case *discordgo.ChannelUpdate:
		return KindChannelUpdate
	case *discordgo.ChannelDelete:
		return KindChannelDelete
	case *discordgo.VoiceStateUpdate:
		return KindVoiceStateUpdate
	case *discordgo.InteractionCreate:
		return KindInteractionCreate
	}
	return KindNone
}

// GuildIDOf extracts the guild an event belongs to, or "" for global events.
func GuildIDOf(evt interface{}) string {
	switch e := evt.(type) {
	case *discordgo.GuildCreate:
		return e.ID
	case *discordgo.GuildUpdate:
		return e.ID
	case *discordgo.GuildMemberAdd:
		return e.GuildID
	case *discordgo.GuildMemberRemove:
		return e.GuildID
	case *discordgo.GuildMemberUpdate:
		return e.GuildID
	case *discordgo.GuildBanAdd:
		return e.GuildID
	case *discordgo.GuildBanRemove:
		return e.GuildID
	case *discordgo.MessageCreate:
		return e.GuildID
	case *discordgo.MessageUpdate:
		return e.GuildID
	case *discordgo.MessageDelete:
		return e.GuildID
	case *discordgo.MessageDeleteBulk:
		return e.GuildID
	case *discordgo.GuildRoleCreate:
		return e.GuildID
	case *discordgo.GuildRoleUpdate:
		return e.GuildID
	case *discordgo.GuildRoleDelete:
		return e.GuildID
	case *discordgo.ChannelCreate:
		return e.GuildID
	case *discordgo.ChannelUpdate:
		return e.GuildID
	case *discordgo.ChannelDelete:
		return e.GuildID
	case *discordgo.VoiceStateUpdate:
		return e.GuildID
	case *discordgo.InteractionCreate:
		return e.GuildID
	}
	return ""
}

// Module is an independently toggleable feature unit. Hook runs once at
// registration and may register commands and scheduled tasks; Handle is
// invoked for every event kind the module declared interest in, unless the
// guild has the module disabled.
type Module interface {
	Name() string
	Protected() bool
	Interests() []EventKind
	Hook() error
	Handle(cx *Context, evt interface{})
	Close() error
}

// ModuleBase carries the shared module plumbing so feature packages only
// implement Hook and Handle.
type ModuleBase struct {
	Bot *Bot
	Log *zap.Logger

	name      string
	protected bool
	interests []EventKind
}

func NewModuleBase(b *Bot, name string, protected bool, interests ...EventKind) *ModuleBase {
	return &ModuleBase{
		Bot:       b,
		Log:       b.log.Named(name),
		name:      name,
		protected: protected,
		interests: interests,
	}
}

func (m *ModuleBase) Name() string {
	return m.name
}

func (m *ModuleBase) Protected() bool {
	return m.protected
}

func (m *ModuleBase) Interests() []EventKind {
	return m.interests
}

func (m *ModuleBase) Handle(cx *Context, evt interface{}) {}

func (m *ModuleBase) Close() error {
	return nil
}
