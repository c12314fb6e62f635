package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const schemaGuildConfigs = `
CREATE TABLE IF NOT EXISTS guild_configs (
	id   TEXT PRIMARY KEY,
	data JSONB NOT NULL
);
`

// PsqlStore keeps the guild documents in a single JSONB table. It implements
// the same contract as JSONStore; documents stay whole, there is no
// per-field schema.
type PsqlStore struct {
	mu   sync.Mutex
	pool *sqlx.DB
	log  *zap.Logger
}

func NewPsqlStore(connStr string, log *zap.Logger) (*PsqlStore, error) {
	pool, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if _, err := pool.Exec(schemaGuildConfigs); err != nil {
		return nil, fmt.Errorf("create guild_configs table: %w", err)
	}
	return &PsqlStore{pool: pool, log: log}, nil
}

func (p *PsqlStore) GetConn() *sqlx.DB {
	return p.pool
}

func (p *PsqlStore) Close() error {
	return p.pool.Close()
}

func (p *PsqlStore) GetGuild(gid string) (*GuildConfig, error) {
	var raw []byte
	err := p.pool.Get(&raw, "SELECT data FROM guild_configs WHERE id=$1;", gid)
	if errors.Is(err, sql.ErrNoRows) {
		return NewGuildConfig(gid), nil
	}
	if err != nil {
		return nil, err
	}

	gc := &GuildConfig{}
	if err := json.Unmarshal(raw, gc); err != nil {
		return nil, fmt.Errorf("parse guild %v: %w", gid, err)
	}
	gc.ID = gid
	gc.normalize()
	return gc, nil
}

func (p *PsqlStore) SetGuild(gid string, gc *GuildConfig) error {
	gc.ID = gid
	d, err := json.Marshal(gc)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(`INSERT INTO guild_configs (id, data) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data;`, gid, d)
	return err
}

func (p *PsqlStore) UpdateGuild(gid string, fn func(gc *GuildConfig) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	gc, err := p.GetGuild(gid)
	if err != nil {
		return err
	}
	if err := fn(gc); err != nil {
		return err
	}
	return p.SetGuild(gid, gc)
}

func (p *PsqlStore) HasGuild(gid string) (bool, error) {
	var n int
	err := p.pool.Get(&n, "SELECT 1 FROM guild_configs WHERE id=$1;", gid)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
