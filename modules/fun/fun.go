// Package fun holds the prefix commands nobody needs and everybody uses.
package fun

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/intrntsrfr/custodian/bot"
)

type Module struct {
	*bot.ModuleBase
	client  *http.Client
	memeURL string
}

func New(b *bot.Bot) *Module {
	return &Module{
		ModuleBase: bot.NewModuleBase(b, "fun", false, bot.KindMessageCreate),
		client:     &http.Client{Timeout: time.Second * 5},
		memeURL:    "https://www.reddit.com/r/memes/hot.json?limit=50",
	}
}

func (m *Module) Hook() error {
	return nil
}

func (m *Module) Handle(cx *bot.Context, evt interface{}) {
	e, ok := evt.(*discordgo.MessageCreate)
	if !ok || e.Author == nil || e.Author.Bot || e.GuildID == "" {
		return
	}

	prefix := cx.Bot.Prefix()
	if !strings.HasPrefix(e.Content, prefix) {
		return
	}
	trimmed := strings.TrimPrefix(e.Content, prefix)

	switch {
	case trimmed == "meme":
		m.meme(cx, e)
	case strings.HasPrefix(trimmed, "say "):
		m.say(cx, e, strings.TrimPrefix(trimmed, "say "))
	}
}

func (m *Module) say(cx *bot.Context, e *discordgo.MessageCreate, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	if _, err := cx.Sess.ChannelMessageSend(e.ChannelID, text); err != nil {
		cx.Log.Info("failed to say", zap.Error(err))
	}
}

func (m *Module) meme(cx *bot.Context, e *discordgo.MessageCreate) {
	post, err := m.fetchMeme()
	if err != nil {
		cx.Log.Info("failed to fetch meme", zap.Error(err))
		if _, err := cx.Sess.ChannelMessageSend(e.ChannelID, "No memes today, sorry."); err != nil {
			cx.Log.Info("failed to send apology", zap.Error(err))
		}
		return
	}

	embed := bot.NewEmbed().
		Title(post.Title).
		Image(post.URL).
		Field("Source", fmt.Sprintf("r/memes — u/%v", post.Author), false).
		Build()
	if _, err := cx.Sess.ChannelMessageSendEmbed(e.ChannelID, embed); err != nil {
		cx.Log.Info("failed to send meme", zap.Error(err))
	}
}

type redditPost struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	URL      string `json:"url"`
	Stickied bool   `json:"stickied"`
}

func (m *Module) fetchMeme() (*redditPost, error) {
	req, err := http.NewRequest(http.MethodGet, m.memeURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "custodian")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %v", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var listing struct {
		Data struct {
			Children []struct {
				Data redditPost `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, err
	}

	posts := make([]*redditPost, 0, len(listing.Data.Children))
	for n := range listing.Data.Children {
		posts = append(posts, &listing.Data.Children[n].Data)
	}
	return pickMeme(posts)
}

// pickMeme picks a random post, skipping stickied posts and anything that is
// not a direct image link.
func pickMeme(posts []*redditPost) (*redditPost, error) {
	usable := make([]*redditPost, 0, len(posts))
	for _, post := range posts {
		if post.Stickied || !isImageURL(post.URL) {
			continue
		}
		usable = append(usable, post)
	}
	if len(usable) == 0 {
		return nil, fmt.Errorf("no usable posts")
	}
	return usable[rand.Intn(len(usable))], nil
}

func isImageURL(url string) bool {
	for _, suffix := range []string{".png", ".jpg", ".jpeg", ".gif", ".webp"} {
		if strings.HasSuffix(url, suffix) {
			return true
		}
	}
	return false
}
