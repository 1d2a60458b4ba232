// Package store archives games in BadgerDB so they survive a server restart.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/dgraph-io/badger/v4"
)

const keyPrefix = "game/"

var ErrNotFound = errors.New("game record not found")

// GameRecord is everything needed to resume a game.
type GameRecord struct {
	ID        string          `json:"id"`
	FEN       string          `json:"fen"`
	History   []model.Ply     `json:"history"`
	Phase     model.GamePhase `json:"phase"`
	White     string          `json:"white"`
	Black     string          `json:"black"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Store wraps BadgerDB for persistent storage
type Store struct {
	db *badger.DB
}

// Open opens the archive in dir. An empty dir keeps everything in memory.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open game store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func gameKey(id string) []byte {
	return []byte(keyPrefix + id)
}

// SaveGame writes rec, replacing any earlier record of the same game.
func (s *Store) SaveGame(rec GameRecord) error {
	rec.UpdatedAt = time.Now()

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(gameKey(rec.ID), data)
	})
}

// LoadGame returns the record of game id, or ErrNotFound.
func (s *Store) LoadGame(id string) (GameRecord, error) {
	var rec GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gameKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})

	return rec, err
}

// ListGames returns the ids of all archived games in key order.
func (s *Store) ListGames() ([]string, error) {
	var ids []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().KeyCopy(nil)
			ids = append(ids, string(key[len(keyPrefix):]))
		}
		return nil
	})

	return ids, err
}

func (s *Store) DeleteGame(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(gameKey(id))
	})
}
