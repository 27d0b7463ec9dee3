package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/bookdiary-api/internal/user"
)

var testSecret = []byte(strings.Repeat("s", 32))

// fastHasher keeps argon2 cheap enough for table tests.
func fastHasher() *Argon2Hasher {
	return NewArgon2Hasher(Argon2Params{Time: 1, MemoryKiB: 1024, Threads: 1})
}

func newTestJWT(t *testing.T) *JWTService {
	t.Helper()
	svc, err := NewJWTService(testSecret, 30*time.Minute)
	require.NoError(t, err)
	return svc
}

func newTestDenylist(t *testing.T) (*RedisDenylist, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisDenylist(client), mr
}

// memUsers is an in-memory user store.
type memUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*user.User
	err    error
}

func newMemUsers() *memUsers {
	return &memUsers{nextID: 1, byID: map[int64]*user.User{}}
}

func (m *memUsers) Create(_ context.Context, username, passwordHash string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.byID {
		if u.Username == username {
			return nil, user.ErrDuplicateUsername
		}
	}
	u := &user.User{ID: m.nextID, Username: username, PasswordHash: passwordHash}
	m.byID[u.ID] = u
	m.nextID++
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.byID {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.byID[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) delete(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
}

type edge struct{ from, to int64 }

type memFollows struct {
	mu    sync.Mutex
	edges map[edge]bool
	err   error
}

func newMemFollows() *memFollows {
	return &memFollows{edges: map[edge]bool{}}
}

func (m *memFollows) Exists(_ context.Context, followerID, followedID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	return m.edges[edge{followerID, followedID}], nil
}

func (m *memFollows) follow(from, to int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edges[edge{from, to}] = true
}

func (m *memFollows) unfollow(from, to int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.edges, edge{from, to})
}

// memDenylist records revocations without Redis.
type memDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	err     error
}

func newMemDenylist() *memDenylist {
	return &memDenylist{revoked: map[string]time.Time{}}
}

func (d *memDenylist) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.revoked[tokenID] = expiresAt
	return nil
}

func (d *memDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return false, d.err
	}
	_, ok := d.revoked[tokenID]
	return ok, nil
}

var errStoreDown = errors.New("connection refused")
