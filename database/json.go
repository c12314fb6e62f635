package database

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// JSONStore keeps one indented JSON document per guild in a directory.
// Writes are serialized through a store-wide mutex; last successful write
// wins, there is no atomic rename or fsync.
type JSONStore struct {
	mu  sync.Mutex
	dir string
	log *zap.Logger
}

func NewJSONStore(dir string, log *zap.Logger) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create guild data dir: %w", err)
	}
	return &JSONStore{dir: dir, log: log}, nil
}

func (s *JSONStore) GetConn() *sqlx.DB {
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) path(gid string) string {
	return filepath.Join(s.dir, gid+".json")
}

func (s *JSONStore) GetGuild(gid string) (*GuildConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(gid)
}

func (s *JSONStore) SetGuild(gid string, gc *GuildConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(gid, gc)
}

func (s *JSONStore) UpdateGuild(gid string, fn func(gc *GuildConfig) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	gc, err := s.read(gid)
	if err != nil {
		return err
	}
	if err := fn(gc); err != nil {
		return err
	}
	return s.write(gid, gc)
}

func (s *JSONStore) HasGuild(gid string) (bool, error) {
	if _, err := os.Stat(s.path(gid)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *JSONStore) read(gid string) (*GuildConfig, error) {
	d, err := os.ReadFile(s.path(gid))
	if err != nil {
		if os.IsNotExist(err) {
			return NewGuildConfig(gid), nil
		}
		return nil, err
	}

	gc := &GuildConfig{}
	if err := json.Unmarshal(d, gc); err != nil {
		return nil, fmt.Errorf("parse guild %v: %w", gid, err)
	}
	gc.ID = gid
	gc.normalize()
	return gc, nil
}

func (s *JSONStore) write(gid string, gc *GuildConfig) error {
	gc.ID = gid
	d, err := json.MarshalIndent(gc, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(gid), d, 0644)
}
