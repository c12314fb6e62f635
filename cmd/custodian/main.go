package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/intrntsrfr/custodian/api"
	"github.com/intrntsrfr/custodian/bot"
	"github.com/intrntsrfr/custodian/database"
	"github.com/intrntsrfr/custodian/discord"
	"github.com/intrntsrfr/custodian/kvstore"
	"github.com/intrntsrfr/custodian/modules/antiphish"
	"github.com/intrntsrfr/custodian/modules/autorole"
	"github.com/intrntsrfr/custodian/modules/fun"
	"github.com/intrntsrfr/custodian/modules/github"
	"github.com/intrntsrfr/custodian/modules/leveling"
	"github.com/intrntsrfr/custodian/modules/logging"
	"github.com/intrntsrfr/custodian/modules/manager"
	"github.com/intrntsrfr/custodian/modules/moderation"
	"github.com/intrntsrfr/custodian/modules/quotes"
	"github.com/intrntsrfr/custodian/modules/reminders"
	"github.com/intrntsrfr/custodian/modules/roleselect"
	"github.com/intrntsrfr/custodian/modules/security"
	"github.com/intrntsrfr/custodian/modules/setup"
	"github.com/intrntsrfr/custodian/modules/welcome"
)

func main() {
	root := &cobra.Command{
		Use:   "custodian",
		Short: "Community management Discord bot",
	}
	root.AddCommand(runCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Runs the bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}
}

func run() error {
	// a .env file is a convenience, not a requirement
	_ = godotenv.Load()

	log := bot.NewLogger("custodian")
	defer log.Sync()

	cfg, err := configFromEnv()
	if err != nil {
		return err
	}

	db, err := openStore(cfg, log)
	if err != nil {
		return fmt.Errorf("open settings store: %w", err)
	}
	defer db.Close()

	cache, err := kvstore.NewStore(filepath.Join(cfg.DataDir, "cache"), log.Named("kvstore"))
	if err != nil {
		return fmt.Errorf("open message cache: %w", err)
	}
	defer cache.Close()

	blockLog, err := database.NewBlockLog(filepath.Join(cfg.DataDir, "blocked.json"))
	if err != nil {
		return fmt.Errorf("open block log: %w", err)
	}

	disc, err := discord.NewDiscord(cfg.Token, log.Named("discord"))
	if err != nil {
		return fmt.Errorf("create discord sessions: %w", err)
	}

	b := bot.NewBot(cfg, disc, db, cache, blockLog, log.Named("bot"))
	registerModules(b)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := b.Run(ctx); err != nil {
		return fmt.Errorf("run bot: %w", err)
	}
	defer b.Close()

	var srv *api.Server
	if cfg.HTTPAddr != "" {
		srv = api.NewServer(b, cfg.HTTPAddr, log.Named("api"))
		go func() {
			if err := srv.Run(); err != nil {
				log.Error("ops server failed", zap.Error(err))
			}
		}()
	}

	log.Info("running, press ctrl+c to stop")
	<-ctx.Done()

	if srv != nil {
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("failed to shut down ops server", zap.Error(err))
		}
	}
	return nil
}

func configFromEnv() (*bot.Config, error) {
	token := os.Getenv("DISCORD_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN is required")
	}

	prefix := os.Getenv("BOT_PREFIX")
	if prefix == "" {
		prefix = "?"
	}
	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}

	return &bot.Config{
		Token:       token,
		Prefix:      prefix,
		GitHubToken: os.Getenv("GITHUB_TOKEN"),
		DataDir:     dataDir,
		HTTPAddr:    os.Getenv("HTTP_ADDR"),
	}, nil
}

// openStore picks Postgres when DATABASE_URL is set, the JSON store
// otherwise.
func openStore(cfg *bot.Config, log *zap.Logger) (database.Store, error) {
	if connStr := os.Getenv("DATABASE_URL"); connStr != "" {
		return database.NewPsqlStore(connStr, log.Named("database"))
	}
	return database.NewJSONStore(filepath.Join(cfg.DataDir, "guilds"), log.Named("database"))
}

// registerModules wires every feature module in dispatch order. The protected
// ones come first so their handlers see events before anything toggleable.
func registerModules(b *bot.Bot) {
	b.RegisterModule(manager.New(b))
	b.RegisterModule(setup.New(b))
	b.RegisterModule(logging.New(b))
	b.RegisterModule(welcome.New(b))
	b.RegisterModule(moderation.New(b))
	b.RegisterModule(security.New(b))
	b.RegisterModule(antiphish.New(b))
	b.RegisterModule(leveling.New(b))
	b.RegisterModule(autorole.New(b))
	b.RegisterModule(reminders.New(b))
	b.RegisterModule(roleselect.New(b))
	b.RegisterModule(quotes.New(b))
	b.RegisterModule(github.New(b))
	b.RegisterModule(fun.New(b))
}
