package session

import (
	"sync"
	"time"

	"github.com/mgiraldo/almacen/pkg/cache"
	"github.com/mgiraldo/almacen/pkg/crypt"
)

// Store persists session data between requests. The token is whatever ends
// up in the cookie: a random ID for server-side stores, or the encrypted
// payload itself for the cookie store.
type Store interface {
	// Load resolves a cookie token into session data.
	Load(token string) (map[string]interface{}, bool)
	// Save persists data and returns the token to write into the cookie.
	// An empty token means "mint a new session".
	Save(token string, data map[string]interface{}, ttl time.Duration) (string, error)
	// Destroy drops any server-side state held for token.
	Destroy(token string)
}

// DefaultStore picks Redis when a connection is up, otherwise falls back to
// the encrypted-cookie store so the app works without any backing service.
func DefaultStore() Store {
	if cache.Available() {
		return RedisStore{}
	}
	return CookieStore{}
}

// ── Redis ────────────────────────────────────────────────────────────────────

// RedisStore keeps session data in Redis keyed by a random token.
type RedisStore struct{}

func redisKey(token string) string { return "almacen:session:" + token }

func (RedisStore) Load(token string) (map[string]interface{}, bool) {
	var data map[string]interface{}
	if token == "" || !cache.Get(redisKey(token), &data) {
		return nil, false
	}
	return data, true
}

func (RedisStore) Save(token string, data map[string]interface{}, ttl time.Duration) (string, error) {
	if token == "" {
		token = newToken()
	}
	if err := cache.Set(redisKey(token), data, ttl); err != nil {
		return "", err
	}
	return token, nil
}

func (RedisStore) Destroy(token string) {
	if token != "" {
		_ = cache.Del(redisKey(token))
	}
}

// ── Encrypted cookie ─────────────────────────────────────────────────────────

// CookieStore keeps the whole session payload inside the cookie, sealed with
// AES-GCM under APP_KEY. No server-side state; expiry rides on the cookie
// MaxAge.
type CookieStore struct{}

func (CookieStore) Load(token string) (map[string]interface{}, bool) {
	if token == "" {
		return nil, false
	}
	var data map[string]interface{}
	if err := crypt.DecryptJSON(token, &data); err != nil {
		return nil, false
	}
	return data, true
}

func (CookieStore) Save(_ string, data map[string]interface{}, _ time.Duration) (string, error) {
	return crypt.EncryptJSON(data)
}

func (CookieStore) Destroy(string) {}

// ── Memory ───────────────────────────────────────────────────────────────────

// MemoryStore is a process-local store used in tests and single-node dev.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]memoryEntry
}

type memoryEntry struct {
	data      map[string]interface{}
	expiresAt time.Time
}

// NewMemoryStore returns an empty in-process session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]memoryEntry{}}
}

func (m *MemoryStore) Load(token string) (map[string]interface{}, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.data[token]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.data, true
}

func (m *MemoryStore) Save(token string, data map[string]interface{}, ttl time.Duration) (string, error) {
	if token == "" {
		token = newToken()
	}

	m.mu.Lock()
	m.data[token] = memoryEntry{data: data, expiresAt: time.Now().Add(ttl)}
	m.mu.Unlock()

	return token, nil
}

func (m *MemoryStore) Destroy(token string) {
	m.mu.Lock()
	delete(m.data, token)
	m.mu.Unlock()
}
