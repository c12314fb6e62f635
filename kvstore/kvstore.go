package kvstore

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/dgraph-io/badger"
	"github.com/dgraph-io/badger/options"
	"go.uber.org/zap"
)

var ErrNotFound = badger.ErrKeyNotFound

// Store caches recent messages so delete and bulk-delete logging can show
// content Discord no longer exposes. Entries expire after a day; badger's
// value log is compacted by RunGC, driven by a scheduled task.
type Store struct {
	db  *badger.DB
	log *zap.Logger
}

func NewStore(dir string, log *zap.Logger) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Truncate = true
	opts.ValueLogLoadingMode = options.FileIO
	opts.NumVersionsToKeep = 1
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func messageKey(gid, cid, mid string) []byte {
	return []byte(fmt.Sprintf("message:%v:%v:%v", gid, cid, mid))
}

func (s *Store) SetMessage(msg *discordgo.Message) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(msg); err != nil {
		s.log.Error("failed to encode message", zap.Error(err))
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		e := &badger.Entry{
			Key:       messageKey(msg.GuildID, msg.ChannelID, msg.ID),
			Value:     buf.Bytes(),
			ExpiresAt: uint64(time.Now().Add(time.Hour * 24).Unix()),
		}
		return txn.SetEntry(e)
	})
}

func (s *Store) GetMessage(gid, cid, mid string) (*discordgo.Message, error) {
	var body []byte
	if err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(messageKey(gid, cid, mid))
		if err != nil {
			return err
		}
		body, err = item.ValueCopy(nil)
		return err
	}); err != nil {
		return nil, err
	}

	msg := &discordgo.Message{}
	if err := gob.NewDecoder(bytes.NewReader(body)).Decode(msg); err != nil {
		s.log.Error("failed to decode message", zap.Error(err))
		return nil, err
	}
	return msg, nil
}

// GetMessages returns the cached messages for a set of IDs in one channel,
// silently skipping IDs that were never cached or have expired.
func (s *Store) GetMessages(gid, cid string, mids []string) []*discordgo.Message {
	var msgs []*discordgo.Message
	for _, mid := range mids {
		msg, err := s.GetMessage(gid, cid, mid)
		if err != nil {
			continue
		}
		msgs = append(msgs, msg)
	}
	return msgs
}

func (s *Store) RunGC() error {
	err := s.db.RunValueLogGC(0.5)
	if err == badger.ErrNoRewrite {
		return nil
	}
	return err
}
