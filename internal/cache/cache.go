// Package cache memoizes pooled feature vectors so duplicate sequences and
// re-runs skip tokenization and embedding. It implements
// classify.FeatureCache: a small in-memory LRU in front of a SQLite table,
// keyed by digest of the normalized sequence and partitioned by model ID.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "modernc.org/sqlite"
)

const defaultRecentEntries = 1024

// Store persists pooled feature vectors. Lookups and writes never fail the
// pipeline: storage errors are logged and treated as misses.
type Store struct {
	db      *sql.DB
	recent  *lru.Cache[string, []float32]
	modelID string
}

// Open opens or creates the cache database at path. modelID partitions
// entries so vectors produced by one embedding model are never served for
// another.
func Open(path, modelID string) (*Store, error) {
	if modelID == "" {
		return nil, fmt.Errorf("model ID is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	recent, err := lru.New[string, []float32](defaultRecentEntries)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create lru: %w", err)
	}
	return &Store{db: db, recent: recent, modelID: modelID}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Lookup implements classify.FeatureCache.
func (s *Store) Lookup(sequence string) ([]float32, bool) {
	if s == nil || s.db == nil {
		return nil, false
	}
	key := digest(sequence)
	if vec, ok := s.recent.Get(key); ok {
		return vec, true
	}
	var blob []byte
	err := s.db.QueryRow("SELECT vector FROM features WHERE model_id=? AND seq_hash=?", s.modelID, key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		log.Printf("feature cache read failed: %v", err)
		return nil, false
	}
	vec, err := decodeVector(blob)
	if err != nil {
		log.Printf("feature cache entry corrupt: %v", err)
		return nil, false
	}
	s.recent.Add(key, vec)
	return vec, true
}

// Save implements classify.FeatureCache.
func (s *Store) Save(sequence string, features []float32) {
	if s == nil || s.db == nil || len(features) == 0 {
		return
	}
	key := digest(sequence)
	blob, err := encodeVector(features)
	if err != nil {
		log.Printf("feature cache encode failed: %v", err)
		return
	}
	if _, err := s.db.Exec(
		"INSERT OR REPLACE INTO features(model_id,seq_hash,dim,vector) VALUES(?,?,?,?)",
		s.modelID, key, len(features), blob,
	); err != nil {
		log.Printf("feature cache write failed: %v", err)
		return
	}
	s.recent.Add(key, features)
}

func digest(sequence string) string {
	sum := sha256.Sum256([]byte(sequence))
	return hex.EncodeToString(sum[:])
}

func initSchema(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS features (
	model_id TEXT NOT NULL,
	seq_hash TEXT NOT NULL,
	dim INTEGER NOT NULL,
	vector BLOB NOT NULL,
	PRIMARY KEY (model_id, seq_hash)
);
`); err != nil {
		return fmt.Errorf("failed to init schema: %w", err)
	}
	return nil
}

func encodeVector(vec []float32) ([]byte, error) {
	if len(vec) == 0 {
		return nil, fmt.Errorf("feature vector is empty")
	}
	data := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(v))
	}
	return data, nil
}

func decodeVector(data []byte) ([]float32, error) {
	if len(data) == 0 || len(data)%4 != 0 {
		return nil, fmt.Errorf("invalid feature blob of %d bytes", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := 0; i < len(vec); i++ {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}
