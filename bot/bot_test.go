package bot

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/intrntsrfr/custodian/database"
)

type fakeModule struct {
	*ModuleBase
	hookErr error
	handled []interface{}
	panics  bool
}

func (m *fakeModule) Hook() error {
	return m.hookErr
}

func (m *fakeModule) Handle(cx *Context, evt interface{}) {
	if m.panics {
		panic("boom")
	}
	m.handled = append(m.handled, evt)
}

func newTestBot(t *testing.T) *Bot {
	t.Helper()
	db, err := database.NewJSONStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	return &Bot{
		db:       db,
		log:      zap.NewNop(),
		config:   &Config{Prefix: "?"},
		commands: make(map[string]*Command),
	}
}

func newFakeModule(b *Bot, name string, protected bool, interests ...EventKind) *fakeModule {
	return &fakeModule{ModuleBase: NewModuleBase(b, name, protected, interests...)}
}

func TestRegisterModuleSkipsFailedHook(t *testing.T) {
	b := newTestBot(t)
	bad := newFakeModule(b, "bad", false)
	bad.hookErr = assert.AnError

	b.RegisterModule(bad)
	b.RegisterModule(newFakeModule(b, "good", false))

	require.Len(t, b.Modules(), 1)
	assert.Equal(t, "good", b.Modules()[0].Name())
}

func TestDisableEnableModule(t *testing.T) {
	b := newTestBot(t)
	b.RegisterModule(newFakeModule(b, "leveling", false))

	assert.True(t, b.IsEnabled("1", "leveling"))
	require.NoError(t, b.DisableModule("1", "leveling"))
	assert.False(t, b.IsEnabled("1", "leveling"))

	// other guilds are unaffected
	assert.True(t, b.IsEnabled("2", "leveling"))

	require.NoError(t, b.EnableModule("1", "leveling"))
	assert.True(t, b.IsEnabled("1", "leveling"))
}

func TestDisableModuleRejections(t *testing.T) {
	b := newTestBot(t)
	b.RegisterModule(newFakeModule(b, "manager", true))

	// protected modules stay enabled no matter how often it is attempted
	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, b.DisableModule("1", "manager"), ErrProtectedModule)
		assert.True(t, b.IsEnabled("1", "manager"))
	}
	assert.ErrorIs(t, b.EnableModule("1", "manager"), ErrProtectedModule)
	assert.True(t, b.IsEnabled("1", "manager"))

	assert.ErrorIs(t, b.DisableModule("1", "nope"), ErrUnknownModule)
	assert.ErrorIs(t, b.EnableModule("1", "nope"), ErrUnknownModule)
}

// module hooks schedule tasks during registration, before Run has a context;
// those tasks must be held back, not started against a nil one
func TestScheduleBeforeRunIsDeferred(t *testing.T) {
	b := newTestBot(t)
	fired := make(chan struct{}, 1)

	assert.NotPanics(t, func() {
		b.Schedule("early", time.Millisecond*10, func() {
			select {
			case fired <- struct{}{}:
			default:
			}
		})
	})
	require.Len(t, b.tasks, 1)

	b.ctx, b.cancel = context.WithCancel(context.Background())
	defer b.cancel()
	for _, task := range b.tasks {
		b.startTask(task)
	}

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("scheduled task never ran")
	}
}

func TestDispatchFiltersByInterestAndToggle(t *testing.T) {
	b := newTestBot(t)
	msgMod := newFakeModule(b, "messages", false, KindMessageCreate)
	joinMod := newFakeModule(b, "joins", false, KindMemberAdd)
	offMod := newFakeModule(b, "off", false, KindMessageCreate)
	b.RegisterModule(msgMod)
	b.RegisterModule(joinMod)
	b.RegisterModule(offMod)
	require.NoError(t, b.DisableModule("1", "off"))

	evt := &discordgo.MessageCreate{Message: &discordgo.Message{GuildID: "1"}}
	b.dispatch(KindMessageCreate, "1", evt)

	assert.Len(t, msgMod.handled, 1)
	assert.Empty(t, joinMod.handled)
	assert.Empty(t, offMod.handled)
}

func TestDispatchIsolatesPanics(t *testing.T) {
	b := newTestBot(t)
	angry := newFakeModule(b, "angry", false, KindMessageCreate)
	angry.panics = true
	calm := newFakeModule(b, "calm", false, KindMessageCreate)
	b.RegisterModule(angry)
	b.RegisterModule(calm)

	evt := &discordgo.MessageCreate{Message: &discordgo.Message{GuildID: "1"}}
	assert.NotPanics(t, func() {
		b.dispatch(KindMessageCreate, "1", evt)
	})
	assert.Len(t, calm.handled, 1)
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		evt  interface{}
		want EventKind
	}{
		{"message create", &discordgo.MessageCreate{}, KindMessageCreate},
		{"member add", &discordgo.GuildMemberAdd{}, KindMemberAdd},
		{"ban add", &discordgo.GuildBanAdd{}, KindBanAdd},
		{"voice state", &discordgo.VoiceStateUpdate{}, KindVoiceStateUpdate},
		{"unrouted", &discordgo.TypingStart{}, KindNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.evt))
		})
	}
}

func TestGuildIDOf(t *testing.T) {
	evt := &discordgo.GuildMemberAdd{Member: &discordgo.Member{GuildID: "55"}}
	assert.Equal(t, "55", GuildIDOf(evt))
	assert.Equal(t, "", GuildIDOf(&discordgo.Ready{}))
}
