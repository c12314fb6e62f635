package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/intrntsrfr/custodian/database"
	"github.com/intrntsrfr/custodian/discord"
	"github.com/intrntsrfr/custodian/kvstore"
)

var (
	ErrUnknownModule   = errors.New("unknown module")
	ErrProtectedModule = errors.New("module is protected")
)

type Config struct {
	Token       string
	Prefix      string
	GitHubToken string
	DataDir     string
	HTTPAddr    string
}

type Bot struct {
	db       database.Store
	store    *kvstore.Store
	blockLog *database.BlockLog
	disc     *discord.Discord
	sess     *discordgo.Session
	log      *zap.Logger
	config   *Config

	modules  []Module
	commands map[string]*Command
	tasks    []scheduledTask

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	syncOnce  sync.Once
	startTime time.Time
}

func NewBot(cfg *Config, disc *discord.Discord, db database.Store, store *kvstore.Store, blockLog *database.BlockLog, log *zap.Logger) *Bot {
	return &Bot{
		db:        db,
		store:     store,
		blockLog:  blockLog,
		disc:      disc,
		sess:      disc.Sess,
		log:       log,
		config:    cfg,
		commands:  make(map[string]*Command),
		startTime: time.Now(),
	}
}

func (b *Bot) DB() database.Store { return b.db }

func (b *Bot) Cache() *kvstore.Store { return b.store }

func (b *Bot) BlockLog() *database.BlockLog { return b.blockLog }

func (b *Bot) Discord() *discord.Discord { return b.disc }

func (b *Bot) Sess() *discordgo.Session { return b.sess }

func (b *Bot) Logger(name string) *zap.Logger { return b.log.Named(name) }

func (b *Bot) Prefix() string { return b.config.Prefix }

func (b *Bot) GitHubToken() string { return b.config.GitHubToken }

func (b *Bot) DataDir() string { return b.config.DataDir }

func (b *Bot) StartTime() time.Time { return b.startTime }

func (b *Bot) Modules() []Module { return b.modules }

// RegisterModule hooks a module and adds it to the dispatch order. A module
// that fails to hook is skipped; the rest of the bot keeps going.
func (b *Bot) RegisterModule(m Module) {
	if err := m.Hook(); err != nil {
		b.log.Error("failed to hook module, skipping", zap.String("module", m.Name()), zap.Error(err))
		return
	}
	b.modules = append(b.modules, m)
	b.log.Info("registered module", zap.String("module", m.Name()), zap.Bool("protected", m.Protected()))
}

func (b *Bot) ModuleByName(name string) (Module, bool) {
	for _, m := range b.modules {
		if m.Name() == name {
			return m, true
		}
	}
	return nil, false
}

// IsEnabled reports whether a module runs for a guild. Global events
// (gid == "") and unreadable configs fail open.
func (b *Bot) IsEnabled(gid, name string) bool {
	if gid == "" {
		return true
	}
	gc, err := b.db.GetGuild(gid)
	if err != nil {
		b.log.Error("failed to read guild config", zap.String("guild", gid), zap.Error(err))
		return true
	}
	for _, n := range gc.DisabledModules {
		if n == name {
			return false
		}
	}
	return true
}

func (b *Bot) DisableModule(gid, name string) error {
	m, ok := b.ModuleByName(name)
	if !ok {
		return ErrUnknownModule
	}
	if m.Protected() {
		return ErrProtectedModule
	}
	return b.db.UpdateGuild(gid, func(gc *database.GuildConfig) error {
		for _, n := range gc.DisabledModules {
			if n == name {
				return nil
			}
		}
		gc.DisabledModules = append(gc.DisabledModules, name)
		return nil
	})
}

func (b *Bot) EnableModule(gid, name string) error {
	m, ok := b.ModuleByName(name)
	if !ok {
		return ErrUnknownModule
	}
	if m.Protected() {
		return ErrProtectedModule
	}
	return b.db.UpdateGuild(gid, func(gc *database.GuildConfig) error {
		kept := gc.DisabledModules[:0]
		for _, n := range gc.DisabledModules {
			if n != name {
				kept = append(kept, n)
			}
		}
		gc.DisabledModules = kept
		return nil
	})
}

type scheduledTask struct {
	name  string
	every time.Duration
	fn    func()
}

// Schedule runs fn on a fixed interval until shutdown. Module hooks run
// before the bot does, so tasks scheduled then are held back and started by
// Run.
func (b *Bot) Schedule(name string, every time.Duration, fn func()) {
	t := scheduledTask{name: name, every: every, fn: fn}
	if b.ctx == nil {
		b.tasks = append(b.tasks, t)
		return
	}
	b.startTask(t)
}

func (b *Bot) startTask(t scheduledTask) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		tick := time.NewTicker(t.every)
		defer tick.Stop()
		for {
			select {
			case <-b.ctx.Done():
				return
			case <-tick.C:
				b.safeRun(t.name, t.fn)
			}
		}
	}()
}

func (b *Bot) safeRun(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("scheduled task panicked", zap.String("task", name), zap.Any("recovered", r))
		}
	}()
	fn()
}

func (b *Bot) Run(ctx context.Context) error {
	b.ctx, b.cancel = context.WithCancel(ctx)

	go b.listen()
	for _, t := range b.tasks {
		b.startTask(t)
	}
	b.Schedule("presence", time.Second*30, b.updatePresence)
	b.Schedule("cache-gc", time.Hour, func() {
		if err := b.store.RunGC(); err != nil {
			b.log.Error("failed to run cache gc", zap.Error(err))
		}
	})

	return b.disc.Open()
}

func (b *Bot) Close() {
	if b.cancel != nil {
		b.cancel()
	}
	b.disc.Close()
	for _, m := range b.modules {
		if err := m.Close(); err != nil {
			b.log.Error("failed to close module", zap.String("module", m.Name()), zap.Error(err))
		}
	}
	b.wg.Wait()
}

func (b *Bot) listen() {
	for {
		select {
		case <-b.ctx.Done():
			return
		case evt := <-b.disc.Events:
			b.handleEvent(evt)
		}
	}
}

func (b *Bot) handleEvent(evt interface{}) {
	switch e := evt.(type) {
	case *discordgo.Ready:
		b.log.Info("logged in", zap.String("user", e.User.String()))
		b.syncOnce.Do(func() { go b.syncCommands() })
	case *discordgo.Disconnect:
		b.log.Warn("disconnected")
		return
	case *discordgo.InteractionCreate:
		go b.handleInteraction(e)
		return
	}

	kind := KindOf(evt)
	if kind == KindNone {
		return
	}
	go b.dispatch(kind, GuildIDOf(evt), evt)
}

// dispatch runs every interested, enabled module for an event in
// registration order. A panic in one handler never stops the others.
func (b *Bot) dispatch(kind EventKind, gid string, evt interface{}) {
	for _, m := range b.modules {
		if !interested(m, kind) {
			continue
		}
		if !b.IsEnabled(gid, m.Name()) {
			continue
		}
		b.invoke(m, &Context{Bot: b, Sess: b.sess, Log: b.Logger(m.Name()), GuildID: gid}, evt)
	}
}

func interested(m Module, kind EventKind) bool {
	for _, k := range m.Interests() {
		if k == kind {
			return true
		}
	}
	return false
}

func (b *Bot) invoke(m Module, cx *Context, evt interface{}) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("module handler panicked", zap.String("module", m.Name()), zap.Any("recovered", r))
		}
	}()
	m.Handle(cx, evt)
}

func (b *Bot) updatePresence() {
	total := 0
	for _, g := range b.disc.Guilds() {
		total += g.MemberCount
	}
	status := fmt.Sprintf("%v users | Uptime %v", total, FormatUptime(time.Since(b.startTime)))
	if err := b.sess.UpdateWatchStatus(0, status); err != nil {
		b.log.Debug("failed to update presence", zap.Error(err))
	}
}
