// Package security watches joins and messages for raids, spam, young
// accounts, dangerous files and blacklisted terms.
package security

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/intrntsrfr/custodian/bot"
	"github.com/intrntsrfr/custodian/database"
)

var blockedFileSuffixes = []string{
	".exe", ".bat", ".cmd", ".dll", ".sh", ".js", ".scr", ".vbs",
	".jar", ".msi", ".com", ".pif", ".wsf", ".cpl",
}

var blacklistedWords = []string{
	"malware", "virus", "trojan", "hacktool", "keygen", "crack", "cheat", "phish", "discord.gg",
}

type Module struct {
	*bot.ModuleBase
	tracker *tracker

	raidWindow    time.Duration
	raidThreshold int
	spamWindow    time.Duration
	spamThreshold int
	minAccountAge time.Duration
	timeoutLength time.Duration
}

func New(b *bot.Bot) *Module {
	return &Module{
		ModuleBase:    bot.NewModuleBase(b, "security", false, bot.KindMemberAdd, bot.KindMessageCreate),
		tracker:       newTracker(),
		raidWindow:    time.Second * 10,
		raidThreshold: 5,
		spamWindow:    time.Second * 7,
		spamThreshold: 5,
		minAccountAge: time.Hour * 24 * 7,
		timeoutLength: time.Second * 60,
	}
}

func (m *Module) Hook() error {
	m.Bot.Schedule("security-sweep", time.Second*30, func() {
		m.tracker.Sweep(time.Now(), time.Hour)
	})
	return nil
}

func (m *Module) Handle(cx *bot.Context, evt interface{}) {
	switch e := evt.(type) {
	case *discordgo.GuildMemberAdd:
		m.memberAdd(cx, e)
	case *discordgo.MessageCreate:
		m.messageCreate(cx, e)
	}
}

func (m *Module) memberAdd(cx *bot.Context, e *discordgo.GuildMemberAdd) {
	now := time.Now()

	recent := m.tracker.RecordJoin(e.GuildID, now, m.raidWindow)
	if recent >= m.raidThreshold {
		cx.SendLog(database.LogSecurity, bot.NewEmbed().
			Title("Possible Raid Detected").
			Description(fmt.Sprintf("%v joins in %vs", recent, int(m.raidWindow.Seconds()))).
			Color(bot.ColorRed).
			Build())
	}

	created, err := bot.ParseSnowflake(e.User.ID)
	if err != nil {
		return
	}
	if age := now.Sub(created); age < m.minAccountAge {
		cx.SendLog(database.LogSecurity, bot.NewEmbed().
			Title("Alt Account Detected").
			Description(fmt.Sprintf("%v — account age: %v days", e.User.String(), int(age.Hours()/24))).
			Color(bot.ColorOrange).
			Build())
	}
}

func (m *Module) messageCreate(cx *bot.Context, e *discordgo.MessageCreate) {
	if e.Author == nil || e.Author.Bot || e.GuildID == "" {
		return
	}

	// spam: delete and alert, but keep running the remaining checks
	count := m.tracker.RecordMessage(e.GuildID, e.Author.ID, time.Now(), m.spamWindow)
	if count > m.spamThreshold {
		m.deleteMessage(cx, e)
		cx.SendLog(database.LogSecurity, bot.NewEmbed().
			Title("Spam Detected").
			Description(fmt.Sprintf("%v — %v messages in %vs", e.Author.String(), count, int(m.spamWindow.Seconds()))).
			Color(bot.ColorOrange).
			Build())
	}

	// file and word blocklists stop at the first match
	for _, att := range e.Attachments {
		if suffix, ok := blockedFile(att.Filename); ok {
			m.punish(cx, e, fmt.Sprintf("uploaded blocked file: %v", att.Filename),
				fmt.Sprintf("%v uploaded blocked file `%v` (matched `%v`) in <#%v>", e.Author.String(), att.Filename, suffix, e.ChannelID))
			return
		}
	}
	if word, ok := blacklistedWord(e.Content); ok {
		m.punish(cx, e, fmt.Sprintf("used blacklisted word: %v", word),
			fmt.Sprintf("%v used blacklisted word `%v` in <#%v>", e.Author.String(), word, e.ChannelID))
		return
	}
}

func (m *Module) punish(cx *bot.Context, e *discordgo.MessageCreate, reason, modNote string) {
	m.deleteMessage(cx, e)
	m.applyTimeout(cx, e.GuildID, e.Author, reason)
	cx.SendLog(database.LogAudit, bot.NewEmbed().
		Title("Blocked Content").
		Description(modNote).
		Color(bot.ColorRed).
		Build())
}

func (m *Module) deleteMessage(cx *bot.Context, e *discordgo.MessageCreate) {
	if err := cx.Sess.ChannelMessageDelete(e.ChannelID, e.ID); err != nil {
		cx.Log.Info("failed to delete message", zap.Error(err))
	}
}

func (m *Module) applyTimeout(cx *bot.Context, gid string, user *discordgo.User, reason string) {
	if ok, why := m.canModerate(cx, gid, user.ID); !ok {
		cx.Log.Info("skipping timeout",
			zap.String("user", user.ID), zap.String("reason", why))
		return
	}

	until := time.Now().Add(m.timeoutLength)
	if err := cx.Sess.GuildMemberTimeout(gid, user.ID, &until); err != nil {
		cx.Log.Info("failed to time out member", zap.String("user", user.ID), zap.Error(err))
		return
	}

	cx.SendLog(database.LogSecurity, bot.NewEmbed().
		Title("Member Timed Out").
		Description(fmt.Sprintf("%v — %vs\nReason: %v", user.String(), int(m.timeoutLength.Seconds()), reason)).
		Color(bot.ColorBlue).
		Build())
}

// canModerate checks the bot's permission and role position against the
// target before a timeout is attempted.
func (m *Module) canModerate(cx *bot.Context, gid, uid string) (bool, string) {
	g, err := cx.Bot.Discord().Guild(gid)
	if err != nil {
		return false, "guild not in state"
	}
	me, err := cx.Bot.Discord().Member(gid, cx.Sess.State.User.ID)
	if err != nil {
		return false, "own member not in state"
	}
	target, err := cx.Bot.Discord().Member(gid, uid)
	if err != nil {
		return false, "target member not in state"
	}

	positions := make(map[string]int, len(g.Roles))
	var perms int64
	for _, r := range g.Roles {
		positions[r.ID] = r.Position
		if r.ID == gid {
			perms |= r.Permissions
		}
	}
	for _, rid := range me.Roles {
		if r, err := cx.Bot.Discord().Role(gid, rid); err == nil {
			perms |= r.Permissions
		}
	}

	if perms&(discordgo.PermissionModerateMembers|discordgo.PermissionAdministrator) == 0 {
		return false, "missing moderate members permission"
	}
	if highestPosition(me.Roles, positions) <= highestPosition(target.Roles, positions) {
		return false, "target role too high"
	}
	return true, ""
}

func highestPosition(roleIDs []string, positions map[string]int) int {
	highest := 0
	for _, rid := range roleIDs {
		if p, ok := positions[rid]; ok && p > highest {
			highest = p
		}
	}
	return highest
}

func blockedFile(filename string) (string, bool) {
	lower := strings.ToLower(filename)
	for _, suffix := range blockedFileSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return suffix, true
		}
	}
	return "", false
}

func blacklistedWord(content string) (string, bool) {
	lower := strings.ToLower(content)
	for _, word := range blacklistedWords {
		if strings.Contains(lower, word) {
			return word, true
		}
	}
	return "", false
}
