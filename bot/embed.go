package bot

import (
	"time"

	"github.com/bwmarrin/discordgo"
)

type Color = int

const (
	ColorRed     Color = 0xC80000
	ColorOrange  Color = 0xF08152
	ColorBlue    Color = 0x61D1ED
	ColorGreen   Color = 0x00C800
	ColorWhite   Color = 0xFFFFFF
	ColorBlurple Color = 0x5865F2
)

// EmbedBuilder assembles the consistent embed layout used across modules.
type EmbedBuilder struct {
	e *discordgo.MessageEmbed
}

func NewEmbed() *EmbedBuilder {
	return &EmbedBuilder{e: &discordgo.MessageEmbed{
		Color:     ColorBlurple,
		Timestamp: time.Now().Format(time.RFC3339),
	}}
}

func (b *EmbedBuilder) Title(title string) *EmbedBuilder {
	b.e.Title = title
	return b
}

func (b *EmbedBuilder) Description(desc string) *EmbedBuilder {
	b.e.Description = desc
	return b
}

func (b *EmbedBuilder) Color(c Color) *EmbedBuilder {
	b.e.Color = c
	return b
}

func (b *EmbedBuilder) Field(name, value string, inline bool) *EmbedBuilder {
	b.e.Fields = append(b.e.Fields, &discordgo.MessageEmbedField{Name: name, Value: value, Inline: inline})
	return b
}

func (b *EmbedBuilder) Thumbnail(url string) *EmbedBuilder {
	if url != "" {
		b.e.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: url}
	}
	return b
}

func (b *EmbedBuilder) Image(url string) *EmbedBuilder {
	if url != "" {
		b.e.Image = &discordgo.MessageEmbedImage{URL: url}
	}
	return b
}

func (b *EmbedBuilder) GuildFooter(g *discordgo.Guild) *EmbedBuilder {
	if g != nil {
		b.e.Footer = &discordgo.MessageEmbedFooter{
			IconURL: discordgo.EndpointGuildIcon(g.ID, g.Icon),
			Text:    g.Name,
		}
	}
	return b
}

func (b *EmbedBuilder) Build() *discordgo.MessageEmbed {
	return b.e
}
