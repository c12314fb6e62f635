package logging

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/intrntsrfr/custodian/bot"
	"github.com/intrntsrfr/custodian/database"
)

// messageCreate feeds the cache. Every non-bot guild message is stored so a
// later delete can be logged with its content.
func (m *Module) messageCreate(cx *bot.Context, e *discordgo.MessageCreate) {
	if e.Author == nil || e.Author.Bot || e.GuildID == "" {
		return
	}
	if err := cx.Bot.Cache().SetMessage(e.Message); err != nil {
		cx.Log.Info("failed to cache message", zap.String("message", e.ID), zap.Error(err))
	}
}

func (m *Module) messageUpdate(cx *bot.Context, e *discordgo.MessageUpdate) {
	if e.Author == nil || e.Author.Bot {
		return
	}

	old, err := cx.Bot.Cache().GetMessage(e.GuildID, e.ChannelID, e.ID)
	if err != nil {
		return
	}
	if old.Content == e.Content {
		return
	}

	g, _ := cx.Bot.Discord().Guild(e.GuildID)
	cx.SendLog(database.LogAudit, bot.NewEmbed().
		Title("Message edited").
		Color(bot.ColorWhite).
		Field("User", fmt.Sprintf("%v\n%v (%v)", e.Author.Mention(), e.Author.String(), e.Author.ID), true).
		Field("Channel", fmt.Sprintf("<#%v> (%v)", e.ChannelID, e.ChannelID), true).
		Field("Before", orNone(bot.Truncate(old.Content, 1024)), false).
		Field("After", orNone(bot.Truncate(e.Content, 1024)), false).
		GuildFooter(g).
		Build())

	// keep the newest revision around for the next edit or delete
	if err := cx.Bot.Cache().SetMessage(e.Message); err != nil {
		cx.Log.Info("failed to cache message", zap.String("message", e.ID), zap.Error(err))
	}
}

func (m *Module) messageDelete(cx *bot.Context, e *discordgo.MessageDelete) {
	msg, err := cx.Bot.Cache().GetMessage(e.GuildID, e.ChannelID, e.ID)
	if err != nil {
		return
	}

	g, _ := cx.Bot.Discord().Guild(e.GuildID)
	eb := bot.NewEmbed().
		Title("Message deleted").
		Color(bot.ColorWhite).
		Field("User", fmt.Sprintf("%v\n%v (%v)", msg.Author.Mention(), msg.Author.String(), msg.Author.ID), true).
		Field("Message ID", e.ID, true).
		Field("Channel", fmt.Sprintf("<#%v> (%v)", e.ChannelID, e.ChannelID), false).
		Field("Content", orNone(bot.Truncate(msg.Content, 1024)), false).
		GuildFooter(g)

	if len(msg.Attachments) > 0 {
		eb.Field("Total attachments", fmt.Sprint(len(msg.Attachments)), false)
	}
	cx.SendLog(database.LogAudit, eb.Build())
}

func (m *Module) messageDeleteBulk(cx *bot.Context, e *discordgo.MessageDeleteBulk) {
	chID := cx.Config().LogChannel(database.LogBulkDelete)
	if chID == "" {
		return
	}

	g, _ := cx.Bot.Discord().Guild(e.GuildID)
	embed := bot.NewEmbed().
		Title(fmt.Sprintf("Bulk message delete - (%v) messages deleted", len(e.Messages))).
		Color(bot.ColorWhite).
		Field("Channel", fmt.Sprintf("<#%v>", e.ChannelID), true).
		GuildFooter(g).
		Build()

	msgs := cx.Bot.Cache().GetMessages(e.GuildID, e.ChannelID, e.Messages)
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].ID < msgs[j].ID })

	text := strings.Builder{}
	text.WriteString(fmt.Sprintf("%v - %v\n\n", e.ChannelID, time.Now().Format(time.RFC1123)))
	for _, msg := range msgs {
		text.WriteString(fmt.Sprintf("\nUser: %v (%v)\nContent: %v\n", msg.Author.String(), msg.Author.ID, msg.Content))
		if len(msg.Attachments) > 0 {
			text.WriteString("Message had attachment\n")
		}
	}

	sent, err := cx.Sess.ChannelMessageSendEmbed(chID, embed)
	if err != nil {
		cx.Log.Info("failed to send bulk delete log", zap.Error(err))
		return
	}

	// the recovered contents go alongside as a text file
	body := bytes.NewBufferString(text.String())
	_, err = cx.Sess.ChannelFileSendWithMessage(chID,
		fmt.Sprintf("Log file for delete log message ID %v:", sent.ID),
		"deletelog_"+e.ChannelID+".txt", body)
	if err != nil {
		cx.Log.Info("failed to send bulk delete log file", zap.Error(err))
	}
}
