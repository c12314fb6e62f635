package database

import (
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrGuildNotFound = errors.New("guild not found")

// Store persists one GuildConfig document per guild. GetGuild never fails
// for a missing guild; it returns the default document instead. All writes
// to a guild document go through UpdateGuild, which serializes
// read-modify-write cycles so two modules touching the same guild cannot
// lose each other's changes.
type Store interface {
	GetConn() *sqlx.DB
	Close() error

	GetGuild(gid string) (*GuildConfig, error)
	SetGuild(gid string, gc *GuildConfig) error
	UpdateGuild(gid string, fn func(gc *GuildConfig) error) error
	HasGuild(gid string) (bool, error)
}

// Log channel categories a guild can configure.
const (
	LogMod        = "mod"
	LogAudit      = "audit"
	LogJoin       = "join"
	LogRaid       = "raid"
	LogSecurity   = "security"
	LogBulkDelete = "bulk-delete"
	LogSticker    = "sticker"
	LogGuild      = "guild"
	LogVoice      = "voice"
)

var LogCategories = []string{
	LogMod, LogAudit, LogJoin, LogRaid, LogSecurity,
	LogBulkDelete, LogSticker, LogGuild, LogVoice,
}

func ValidLogCategory(name string) bool {
	for _, c := range LogCategories {
		if c == name {
			return true
		}
	}
	return false
}

type GuildConfig struct {
	ID                 string                 `json:"id"`
	LoggingChannels    map[string]string      `json:"logging_channels,omitempty"`
	DisabledModules    []string               `json:"disabled_modules,omitempty"`
	DailyReminders     []*DailyReminder       `json:"daily_reminders,omitempty"`
	AutoRoleID         string                 `json:"auto_role_id,omitempty"`
	Levels             map[string]*LevelEntry `json:"levels,omitempty"`
	LevelChannelID     string                 `json:"level_channel_id,omitempty"`
	JoinLeaveChannelID string                 `json:"join_leave_channel_id,omitempty"`
	ConfigChannelID    string                 `json:"config_channel_id,omitempty"`
	QuoteChannelID     string                 `json:"quote_channel_id,omitempty"`
	SelectableRoleIDs  []string               `json:"selectable_role_ids,omitempty"`
}

type DailyReminder struct {
	ChannelID string `json:"channel_id"`
	Hour      int    `json:"hour"`
	Minute    int    `json:"minute"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	LastSent  string `json:"last_sent,omitempty"`
}

type LevelEntry struct {
	XP    int `json:"xp"`
	Level int `json:"level"`
}

// NewGuildConfig returns the default document for a guild that has never
// been written.
func NewGuildConfig(gid string) *GuildConfig {
	return &GuildConfig{
		ID:              gid,
		LoggingChannels: make(map[string]string),
		Levels:          make(map[string]*LevelEntry),
	}
}

// normalize fills in maps that json decoding may have left nil.
func (gc *GuildConfig) normalize() {
	if gc.LoggingChannels == nil {
		gc.LoggingChannels = make(map[string]string)
	}
	if gc.Levels == nil {
		gc.Levels = make(map[string]*LevelEntry)
	}
}

// LogChannel returns the configured channel for a category, or "".
func (gc *GuildConfig) LogChannel(category string) string {
	if gc.LoggingChannels == nil {
		return ""
	}
	return gc.LoggingChannels[category]
}
