package discord

import (
	"encoding/json"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Discord wraps one or more sharded gateway sessions and fans every event
// into a single channel for the dispatcher.
type Discord struct {
	token    string
	Sess     *discordgo.Session
	sessions []*discordgo.Session
	log      *zap.Logger

	Events chan interface{}
}

// NewDiscord creates the sharded sessions for a token. The shard count comes
// from the gateway bot endpoint.
func NewDiscord(token string, log *zap.Logger) (*Discord, error) {
	d := &Discord{
		token:  token,
		log:    log,
		Events: make(chan interface{}, 256),
	}

	shardCount, err := recommendedShards(d.token)
	if err != nil {
		return nil, err
	}

	for i := 0; i < shardCount; i++ {
		s, err := discordgo.New("Bot " + d.token)
		if err != nil {
			return nil, err
		}

		s.State.TrackPresences = false
		s.ShardCount = shardCount
		s.ShardID = i
		s.Identify.Intents = discordgo.MakeIntent(discordgo.IntentsAllWithoutPrivileged |
			discordgo.IntentsGuildMembers | discordgo.IntentMessageContent)
		s.AddHandler(onEvent(d.Events))

		d.sessions = append(d.sessions, s)
		log.Info("created session", zap.Int("shard", i))
	}
	d.Sess = d.sessions[0]

	return d, nil
}

func onEvent(e chan interface{}) func(s *discordgo.Session, i interface{}) {
	return func(s *discordgo.Session, i interface{}) {
		e <- i
	}
}

func (d *Discord) AddHandler(h interface{}) {
	for _, s := range d.sessions {
		s.AddHandler(h)
	}
}

// Open opens the Discord sessions.
func (d *Discord) Open() error {
	for _, sess := range d.sessions {
		if err := sess.Open(); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the Discord sessions.
func (d *Discord) Close() {
	for _, sess := range d.sessions {
		if err := sess.Close(); err != nil {
			d.log.Error("failed to close discord session", zap.Int("shard", sess.ShardID), zap.Error(err))
		}
	}
}

// recommendedShards asks discord for the recommended shard count for the bot
// given the token.
func recommendedShards(token string) (int, error) {
	req, _ := http.NewRequest("GET", "https://discord.com/api/v8/gateway/bot", nil)
	req.Header.Add("Authorization", "Bot "+token)
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return -1, err
	}
	defer res.Body.Close()

	resp := &discordgo.GatewayBotResponse{}
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return -1, err
	}

	return resp.Shards, nil
}
