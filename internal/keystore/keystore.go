package keystore

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

const (
	keyLastSync = "last_sync"
	keyUsage    = "ai_usage"
)

// Store is the namespaced keyed store. Save never surfaces failures to the
// caller (a failed write is logged and dropped) and Load never fails (a
// missing or corrupt value yields the fallback). The UI stays responsive at
// the cost of in-memory state possibly running ahead of what is durable.
type Store struct {
	kv     KV
	prefix string
}

// New creates a keyed store over kv. Every key is stored as prefix+key;
// bumping the prefix abandons previously persisted state wholesale.
func New(kv KV, prefix string) *Store {
	return &Store{kv: kv, prefix: prefix}
}

func (s *Store) key(suffix string) string {
	return s.prefix + suffix
}

// Save serializes value under prefix+key and stamps last_sync. Serialization
// and storage failures are logged and swallowed; there is no retry.
func (s *Store) Save(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("keystore: marshal %s: %v", key, err)
		return
	}
	if err := s.kv.Set(ctx, s.key(key), string(data)); err != nil {
		log.Printf("keystore: save %s: %v", key, err)
		return
	}
	if err := s.kv.Set(ctx, s.key(keyLastSync), time.Now().Format(time.RFC3339)); err != nil {
		log.Printf("keystore: stamp last_sync: %v", err)
	}
}

// Load reads prefix+key and decodes it into T. A missing key or a value
// that fails to decode yields fallback unchanged; Load never writes.
func Load[T any](ctx context.Context, s *Store, key string, fallback T) T {
	raw, ok, err := s.kv.Get(ctx, s.key(key))
	if err != nil {
		log.Printf("keystore: load %s: %v", key, err)
		return fallback
	}
	if !ok {
		return fallback
	}
	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		log.Printf("keystore: decode %s: %v", key, err)
		return fallback
	}
	return value
}

// LastSync returns the stored sync stamp, or the current time when nothing
// has been written yet. A never-synced store is therefore indistinguishable
// from a just-synced one; callers that care must check for stored keys.
func (s *Store) LastSync(ctx context.Context) string {
	raw, ok, err := s.kv.Get(ctx, s.key(keyLastSync))
	if err != nil || !ok {
		return time.Now().Format(time.RFC3339)
	}
	return raw
}

// DefaultUsage is the zero counter map for the three model categories.
func DefaultUsage() map[string]int {
	return map[string]int{"flash": 0, "pro": 0, "veo": 0}
}

// TrackUsage bumps the invocation counter for a model category. The
// read-modify-write is not atomic; overlapping calls from separate
// processes can lose an increment.
func (s *Store) TrackUsage(ctx context.Context, category string) {
	usage := Load(ctx, s, keyUsage, DefaultUsage())
	usage[category]++
	s.Save(ctx, keyUsage, usage)
}

// Usage returns the current counter map.
func (s *Store) Usage(ctx context.Context) map[string]int {
	return Load(ctx, s, keyUsage, DefaultUsage())
}

// ClearAll deletes every key under the namespace prefix. Idempotent; an
// empty namespace clears without error. Callers gate this behind their own
// confirmation, none is built in.
func (s *Store) ClearAll(ctx context.Context) error {
	keys, err := s.kv.Keys(ctx, s.prefix)
	if err != nil {
		return err
	}
	return s.kv.Del(ctx, keys...)
}

// Ping reports whether the underlying storage is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}

// Close releases the underlying storage connection.
func (s *Store) Close() error {
	return s.kv.Close()
}
