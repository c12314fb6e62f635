// Package roleselect lets members pick their own roles from a select menu.
package roleselect

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/intrntsrfr/custodian/bot"
	"github.com/intrntsrfr/custodian/database"
)

const customIDPrefix = "roleselect:"

type Module struct {
	*bot.ModuleBase
}

func New(b *bot.Bot) *Module {
	return &Module{
		ModuleBase: bot.NewModuleBase(b, "roleselect", false, bot.KindInteractionCreate),
	}
}

func (m *Module) Hook() error {
	m.Bot.AddCommands(m,
		m.addCommand(),
		m.removeCommand(),
		m.panelCommand(),
	)
	return nil
}

// Handle receives component interactions and reacts to the role picker only.
func (m *Module) Handle(cx *bot.Context, evt interface{}) {
	i, ok := evt.(*discordgo.InteractionCreate)
	if !ok || i.Type != discordgo.InteractionMessageComponent {
		return
	}
	data := i.MessageComponentData()
	if !strings.HasPrefix(data.CustomID, customIDPrefix) {
		return
	}
	m.applySelection(cx, i, data.Values)
}

// applySelection reconciles the member's roles against the picked set: picked
// selectable roles are added, unpicked ones removed. Roles outside the
// selectable list are never touched.
func (m *Module) applySelection(cx *bot.Context, i *discordgo.InteractionCreate, picked []string) {
	selectable := cx.Config().SelectableRoleIDs
	pickedSet := make(map[string]bool, len(picked))
	for _, rid := range picked {
		pickedSet[rid] = true
	}
	memberSet := make(map[string]bool, len(i.Member.Roles))
	for _, rid := range i.Member.Roles {
		memberSet[rid] = true
	}

	var added, removed int
	for _, rid := range selectable {
		switch {
		case pickedSet[rid] && !memberSet[rid]:
			if err := cx.Sess.GuildMemberRoleAdd(i.GuildID, i.Member.User.ID, rid); err != nil {
				cx.Log.Info("failed to add role", zap.String("role", rid), zap.Error(err))
				continue
			}
			added++
		case !pickedSet[rid] && memberSet[rid]:
			if err := cx.Sess.GuildMemberRoleRemove(i.GuildID, i.Member.User.ID, rid); err != nil {
				cx.Log.Info("failed to remove role", zap.String("role", rid), zap.Error(err))
				continue
			}
			removed++
		}
	}

	cx.RespondEphemeral(i, fmt.Sprintf("Roles updated: %v added, %v removed.", added, removed))
}

func (m *Module) addCommand() *bot.Command {
	return &bot.Command{
		Data: &discordgo.ApplicationCommand{
			Name:                     "roleselect-add",
			Description:              "Adds a role to the self-select list",
			DefaultMemberPermissions: &manageRoles,
			Options:                  []*discordgo.ApplicationCommandOption{roleOption},
		},
		Run: func(cx *bot.Context, i *discordgo.InteractionCreate) {
			role := bot.Options(i)["role"].RoleValue(cx.Sess, i.GuildID)
			err := cx.Bot.DB().UpdateGuild(i.GuildID, func(gc *database.GuildConfig) error {
				for _, rid := range gc.SelectableRoleIDs {
					if rid == role.ID {
						return nil
					}
				}
				gc.SelectableRoleIDs = append(gc.SelectableRoleIDs, role.ID)
				return nil
			})
			if err != nil {
				cx.Log.Error("failed to add selectable role", zap.Error(err))
				cx.RespondEphemeral(i, "Something went wrong, try again later.")
				return
			}
			cx.Respond(i, fmt.Sprintf("<@&%v> is now self-selectable.", role.ID))
		},
	}
}

func (m *Module) removeCommand() *bot.Command {
	return &bot.Command{
		Data: &discordgo.ApplicationCommand{
			Name:                     "roleselect-remove",
			Description:              "Removes a role from the self-select list",
			DefaultMemberPermissions: &manageRoles,
			Options:                  []*discordgo.ApplicationCommandOption{roleOption},
		},
		Run: func(cx *bot.Context, i *discordgo.InteractionCreate) {
			role := bot.Options(i)["role"].RoleValue(cx.Sess, i.GuildID)
			err := cx.Bot.DB().UpdateGuild(i.GuildID, func(gc *database.GuildConfig) error {
				kept := gc.SelectableRoleIDs[:0]
				for _, rid := range gc.SelectableRoleIDs {
					if rid != role.ID {
						kept = append(kept, rid)
					}
				}
				gc.SelectableRoleIDs = kept
				return nil
			})
			if err != nil {
				cx.Log.Error("failed to remove selectable role", zap.Error(err))
				cx.RespondEphemeral(i, "Something went wrong, try again later.")
				return
			}
			cx.Respond(i, fmt.Sprintf("<@&%v> is no longer self-selectable.", role.ID))
		},
	}
}

func (m *Module) panelCommand() *bot.Command {
	return &bot.Command{
		Data: &discordgo.ApplicationCommand{
			Name:                     "roleselect-panel",
			Description:              "Posts the role picker in this channel",
			DefaultMemberPermissions: &manageRoles,
		},
		Run: func(cx *bot.Context, i *discordgo.InteractionCreate) {
			selectable := cx.Config().SelectableRoleIDs
			if len(selectable) == 0 {
				cx.RespondEphemeral(i, "No selectable roles are set. Add some with `/roleselect-add`.")
				return
			}

			options := make([]discordgo.SelectMenuOption, 0, len(selectable))
			for _, rid := range selectable {
				role, err := cx.Bot.Discord().Role(i.GuildID, rid)
				if err != nil {
					continue
				}
				options = append(options, discordgo.SelectMenuOption{
					Label: role.Name,
					Value: role.ID,
				})
			}
			if len(options) == 0 {
				cx.RespondEphemeral(i, "None of the configured roles exist anymore.")
				return
			}

			zero := 0
			maxPick := len(options)
			menu := discordgo.SelectMenu{
				CustomID:    customIDPrefix + i.GuildID,
				Placeholder: "Pick your roles",
				MinValues:   &zero,
				MaxValues:   maxPick,
				Options:     options,
			}
			_, err := cx.Sess.ChannelMessageSendComplex(i.ChannelID, &discordgo.MessageSend{
				Content: "Pick the roles you want:",
				Components: []discordgo.MessageComponent{
					discordgo.ActionsRow{Components: []discordgo.MessageComponent{menu}},
				},
			})
			if err != nil {
				cx.Log.Error("failed to post role panel", zap.Error(err))
				cx.RespondEphemeral(i, "Could not post the panel here.")
				return
			}
			cx.RespondEphemeral(i, "Panel posted.")
		},
	}
}

var manageRoles = int64(discordgo.PermissionManageRoles)

var roleOption = &discordgo.ApplicationCommandOption{
	Type:        discordgo.ApplicationCommandOptionRole,
	Name:        "role",
	Description: "Role",
	Required:    true,
}
