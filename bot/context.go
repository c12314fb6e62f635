package bot

import (
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/intrntsrfr/custodian/database"
)

// Context carries everything a handler needs for one event.
type Context struct {
	Bot     *Bot
	Sess    *discordgo.Session
	Log     *zap.Logger
	GuildID string
}

// Config reads the guild document. A parse failure is logged and the
// default document returned so handlers degrade instead of crashing.
func (c *Context) Config() *database.GuildConfig {
	if c.GuildID == "" {
		return database.NewGuildConfig("")
	}
	gc, err := c.Bot.DB().GetGuild(c.GuildID)
	if err != nil {
		c.Log.Error("failed to read guild config", zap.Error(err))
		return database.NewGuildConfig(c.GuildID)
	}
	return gc
}

// SendLog sends an embed to the guild's configured channel for a log
// category. Unconfigured categories are a no-op.
func (c *Context) SendLog(category string, embed *discordgo.MessageEmbed) {
	chID := c.Config().LogChannel(category)
	if chID == "" {
		return
	}
	if _, err := c.Sess.ChannelMessageSendEmbed(chID, embed); err != nil {
		c.Log.Info("failed to send log message", zap.String("category", category), zap.Error(err))
	}
}

func (c *Context) Respond(i *discordgo.InteractionCreate, content string) {
	c.respond(i, &discordgo.InteractionResponseData{Content: content})
}

func (c *Context) RespondEphemeral(i *discordgo.InteractionCreate, content string) {
	c.respond(i, &discordgo.InteractionResponseData{Content: content, Flags: discordgo.MessageFlagsEphemeral})
}

func (c *Context) RespondEmbed(i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	c.respond(i, &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}})
}

func (c *Context) RespondEmbedEphemeral(i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	c.respond(i, &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{embed},
		Flags:  discordgo.MessageFlagsEphemeral,
	})
}

func (c *Context) respond(i *discordgo.InteractionCreate, data *discordgo.InteractionResponseData) {
	err := c.Sess.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		c.Log.Info("failed to respond to interaction", zap.Error(err))
	}
}

// Defer acknowledges an interaction so a slow handler can follow up later.
func (c *Context) Defer(i *discordgo.InteractionCreate) {
	err := c.Sess.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		c.Log.Info("failed to defer interaction", zap.Error(err))
	}
}

func (c *Context) Followup(i *discordgo.InteractionCreate, content string) {
	if _, err := c.Sess.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{Content: content}); err != nil {
		c.Log.Info("failed to send followup", zap.Error(err))
	}
}

func (c *Context) FollowupEmbed(i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	params := &discordgo.WebhookParams{Embeds: []*discordgo.MessageEmbed{embed}}
	if _, err := c.Sess.FollowupMessageCreate(i.Interaction, true, params); err != nil {
		c.Log.Info("failed to send followup", zap.Error(err))
	}
}

// HasPermission reports whether the invoking member holds a permission bit.
func HasPermission(i *discordgo.InteractionCreate, perm int64) bool {
	return i.Member != nil && i.Member.Permissions&(perm|discordgo.PermissionAdministrator) != 0
}
