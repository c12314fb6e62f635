// Package github looks up repositories, users and commits through the GitHub
// API.
package github

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/go-github/v60/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/intrntsrfr/custodian/bot"
)

const failureReply = "I could not reach GitHub, try again later."

type Module struct {
	*bot.ModuleBase
	client *github.Client
}

func New(b *bot.Bot) *Module {
	return &Module{
		ModuleBase: bot.NewModuleBase(b, "github", false),
	}
}

// Hook builds the client; an API token raises the rate limit but is not
// required.
func (m *Module) Hook() error {
	httpClient := oauth2.NewClient(context.Background(), nil)
	if token := m.Bot.GitHubToken(); token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), src)
	}
	m.client = github.NewClient(httpClient)

	m.Bot.AddCommands(m,
		m.repoCommand(),
		m.searchCommand(),
		m.userCommand(),
		m.commitsCommand(),
	)
	return nil
}

func apiContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Second*5)
}

// splitRepo turns "owner/name" into its parts.
func splitRepo(full string) (owner, name string, ok bool) {
	parts := strings.SplitN(full, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func (m *Module) repoCommand() *bot.Command {
	return &bot.Command{
		Data: &discordgo.ApplicationCommand{
			Name:        "github-repo",
			Description: "Shows a repository",
			Options:     []*discordgo.ApplicationCommandOption{repoOption},
		},
		Run: func(cx *bot.Context, i *discordgo.InteractionCreate) {
			full := bot.Options(i)["repo"].StringValue()
			owner, name, ok := splitRepo(full)
			if !ok {
				cx.RespondEphemeral(i, "Give me a repository as `owner/name`.")
				return
			}

			cx.Defer(i)
			ctx, cancel := apiContext()
			defer cancel()

			repo, _, err := m.client.Repositories.Get(ctx, owner, name)
			if err != nil {
				cx.Log.Info("failed to fetch repo", zap.String("repo", full), zap.Error(err))
				cx.Followup(i, failureReply)
				return
			}

			cx.FollowupEmbed(i, bot.NewEmbed().
				Title(repo.GetFullName()).
				Description(repo.GetDescription()).
				Field("Stars", fmt.Sprint(repo.GetStargazersCount()), true).
				Field("Forks", fmt.Sprint(repo.GetForksCount()), true).
				Field("Language", orUnknown(repo.GetLanguage()), true).
				Field("Link", repo.GetHTMLURL(), false).
				Build())
		},
	}
}

func (m *Module) searchCommand() *bot.Command {
	return &bot.Command{
		Data: &discordgo.ApplicationCommand{
			Name:        "github-search",
			Description: "Searches repositories",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "query",
					Description: "Search terms",
					Required:    true,
				},
			},
		},
		Run: func(cx *bot.Context, i *discordgo.InteractionCreate) {
			query := bot.Options(i)["query"].StringValue()

			cx.Defer(i)
			ctx, cancel := apiContext()
			defer cancel()

			res, _, err := m.client.Search.Repositories(ctx, query, &github.SearchOptions{
				ListOptions: github.ListOptions{PerPage: 5},
			})
			if err != nil {
				cx.Log.Info("failed to search repos", zap.String("query", query), zap.Error(err))
				cx.Followup(i, failureReply)
				return
			}
			if len(res.Repositories) == 0 {
				cx.Followup(i, "No repositories matched.")
				return
			}

			sb := strings.Builder{}
			for _, repo := range res.Repositories {
				sb.WriteString(fmt.Sprintf("⭐ %v — [%v](%v)\n",
					repo.GetStargazersCount(), repo.GetFullName(), repo.GetHTMLURL()))
			}
			cx.FollowupEmbed(i, bot.NewEmbed().
				Title(fmt.Sprintf("Repositories matching %q", query)).
				Description(sb.String()).
				Build())
		},
	}
}

func (m *Module) userCommand() *bot.Command {
	return &bot.Command{
		Data: &discordgo.ApplicationCommand{
			Name:        "github-user",
			Description: "Shows a GitHub user",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "username",
					Description: "GitHub username",
					Required:    true,
				},
			},
		},
		Run: func(cx *bot.Context, i *discordgo.InteractionCreate) {
			username := bot.Options(i)["username"].StringValue()

			cx.Defer(i)
			ctx, cancel := apiContext()
			defer cancel()

			user, _, err := m.client.Users.Get(ctx, username)
			if err != nil {
				cx.Log.Info("failed to fetch user", zap.String("user", username), zap.Error(err))
				cx.Followup(i, failureReply)
				return
			}

			cx.FollowupEmbed(i, bot.NewEmbed().
				Title(user.GetLogin()).
				Description(user.GetBio()).
				Thumbnail(user.GetAvatarURL()).
				Field("Repositories", fmt.Sprint(user.GetPublicRepos()), true).
				Field("Followers", fmt.Sprint(user.GetFollowers()), true).
				Field("Link", user.GetHTMLURL(), false).
				Build())
		},
	}
}

func (m *Module) commitsCommand() *bot.Command {
	return &bot.Command{
		Data: &discordgo.ApplicationCommand{
			Name:        "github-commits",
			Description: "Shows the latest commits of a repository",
			Options:     []*discordgo.ApplicationCommandOption{repoOption},
		},
		Run: func(cx *bot.Context, i *discordgo.InteractionCreate) {
			full := bot.Options(i)["repo"].StringValue()
			owner, name, ok := splitRepo(full)
			if !ok {
				cx.RespondEphemeral(i, "Give me a repository as `owner/name`.")
				return
			}

			cx.Defer(i)
			ctx, cancel := apiContext()
			defer cancel()

			commits, _, err := m.client.Repositories.ListCommits(ctx, owner, name, &github.CommitsListOptions{
				ListOptions: github.ListOptions{PerPage: 5},
			})
			if err != nil {
				cx.Log.Info("failed to list commits", zap.String("repo", full), zap.Error(err))
				cx.Followup(i, failureReply)
				return
			}
			if len(commits) == 0 {
				cx.Followup(i, "That repository has no commits.")
				return
			}

			sb := strings.Builder{}
			for _, c := range commits {
				msg := c.GetCommit().GetMessage()
				if idx := strings.IndexByte(msg, '\n'); idx >= 0 {
					msg = msg[:idx]
				}
				sb.WriteString(fmt.Sprintf("[`%.7v`](%v) %v\n", c.GetSHA(), c.GetHTMLURL(), bot.Truncate(msg, 72)))
			}
			cx.FollowupEmbed(i, bot.NewEmbed().
				Title(fmt.Sprintf("Latest commits in %v", full)).
				Description(sb.String()).
				Build())
		},
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

var repoOption = &discordgo.ApplicationCommandOption{
	Type:        discordgo.ApplicationCommandOptionString,
	Name:        "repo",
	Description: "Repository as owner/name",
	Required:    true,
}
