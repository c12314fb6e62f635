// Package antiphish deletes messages containing known phishing domains and
// records them in the block log.
package antiphish

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/intrntsrfr/custodian/bot"
	"github.com/intrntsrfr/custodian/database"
)

type Module struct {
	*bot.ModuleBase
	matcher *Matcher
}

func New(b *bot.Bot) *Module {
	return &Module{
		ModuleBase: bot.NewModuleBase(b, "antiphish", false, bot.KindMessageCreate),
		matcher:    NewMatcher(nil),
	}
}

// Hook loads every blacklist file under DATA_DIR/blacklists. A missing
// directory just means an empty blacklist.
func (m *Module) Hook() error {
	dir := filepath.Join(m.Bot.DataDir(), "blacklists")
	terms, err := loadTerms(dir)
	if err != nil {
		return fmt.Errorf("load blacklists: %w", err)
	}
	m.matcher = NewMatcher(terms)
	m.Log.Info("loaded phishing blacklist", zap.Int("terms", m.matcher.Len()))
	return nil
}

func (m *Module) Handle(cx *bot.Context, evt interface{}) {
	e, ok := evt.(*discordgo.MessageCreate)
	if !ok || e.Author == nil || e.Author.Bot || e.GuildID == "" {
		return
	}

	term, ok := m.matcher.Match(e.Content)
	if !ok {
		return
	}

	if err := cx.Sess.ChannelMessageDelete(e.ChannelID, e.ID); err != nil {
		cx.Log.Info("failed to delete phishing message", zap.Error(err))
	}

	err := cx.Bot.BlockLog().Append(&database.BlockedMessage{
		Timestamp: time.Now().UTC(),
		UserID:    e.Author.ID,
		GuildID:   e.GuildID,
		Content:   e.Content,
		Matched:   term,
	})
	if err != nil {
		cx.Log.Error("failed to record blocked message", zap.Error(err))
	}

	cx.SendLog(database.LogSecurity, bot.NewEmbed().
		Title("Phishing Link Blocked").
		Description(fmt.Sprintf("%v posted a link matching `%v` in <#%v>", e.Author.String(), term, e.ChannelID)).
		Color(bot.ColorRed).
		Build())
}

// Matcher holds the lowercase blacklist terms and answers substring queries
// against message content.
type Matcher struct {
	terms []string
}

func NewMatcher(terms []string) *Matcher {
	clean := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || strings.HasPrefix(t, "#") {
			continue
		}
		clean = append(clean, t)
	}
	return &Matcher{terms: clean}
}

func (m *Matcher) Len() int {
	return len(m.terms)
}

// Match returns the first blacklisted term found in content.
func (m *Matcher) Match(content string) (string, bool) {
	lower := strings.ToLower(content)
	for _, t := range m.terms {
		if strings.Contains(lower, t) {
			return t, true
		}
	}
	return "", false
}

func loadTerms(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return nil, err
	}

	var terms []string
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			terms = append(terms, sc.Text())
		}
		err = sc.Err()
		f.Close()
		if err != nil {
			return nil, err
		}
	}
	return terms, nil
}
