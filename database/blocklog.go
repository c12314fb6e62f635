package database

import (
	"encoding/json"
	"os"
	"sync"
	"time"
)

// BlockedMessage is one entry in the global phishing-filter log.
type BlockedMessage struct {
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id"`
	GuildID   string    `json:"guild_id"`
	Content   string    `json:"content"`
	Matched   string    `json:"matched"`
}

// BlockLog is an append-only JSON array on disk. Entries are never mutated
// or pruned.
type BlockLog struct {
	mu      sync.Mutex
	path    string
	entries []*BlockedMessage
}

func NewBlockLog(path string) (*BlockLog, error) {
	l := &BlockLog{path: path}

	d, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(d, &l.entries); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *BlockLog) Append(e *BlockedMessage) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, e)
	d, err := json.MarshalIndent(l.entries, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(l.path, d, 0644)
}

// Entries returns a copy of the log.
func (l *BlockLog) Entries() []*BlockedMessage {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]*BlockedMessage, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *BlockLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
