package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/octabyte/bm-talentportal/utils/logger"
)

var (
	ErrNotInitialized = errors.New("session: manager not initialized")
	ErrEmptySessionID = errors.New("session: empty session id")
)

const (
	defaultIdleTTL       = 30 * time.Minute
	defaultSweepInterval = time.Minute
)

// Manager is the application-scoped registry of per-client stores. It is
// created once at startup, started with Init and stopped with Dispose.
type Manager struct {
	tokens   TokenStorage
	identity Identity

	idleTTL       time.Duration
	sweepInterval time.Duration

	mu      sync.Mutex
	stores  map[string]*Store
	running bool
	stop    context.CancelFunc
	done    chan struct{}
}

type Option func(*Manager)

// WithIdleTTL evicts in-memory stores not used for d. Evicted stores keep
// their persisted token and rehydrate on the next request.
func WithIdleTTL(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.idleTTL = d
		}
	}
}

func WithSweepInterval(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.sweepInterval = d
		}
	}
}

func NewManager(tokens TokenStorage, identity Identity, opts ...Option) *Manager {
	m := &Manager{
		tokens:        tokens,
		identity:      identity,
		idleTTL:       defaultIdleTTL,
		sweepInterval: defaultSweepInterval,
		stores:        make(map[string]*Store),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init starts the manager. Calling it twice is a no-op.
func (m *Manager) Init(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	sweepCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	m.stop = cancel
	m.done = make(chan struct{})
	m.running = true

	go m.sweep(sweepCtx, m.done)

	logger.LogInfo("session manager started",
		zap.Duration("idle_ttl", m.idleTTL),
		zap.Duration("sweep_interval", m.sweepInterval),
	)
	return nil
}

// Dispose stops the sweeper and drops every in-memory store. Persisted
// tokens are left untouched.
func (m *Manager) Dispose(ctx context.Context) error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = false
	stop, done := m.stop, m.done
	m.stores = make(map[string]*Store)
	m.mu.Unlock()

	stop()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	logger.LogInfo("session manager stopped")
	return nil
}

// Get returns the store of sid, creating it in Loading on first use.
func (m *Manager) Get(sid string) (*Store, error) {
	if sid == "" {
		return nil, ErrEmptySessionID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return nil, ErrNotInitialized
	}

	store, ok := m.stores[sid]
	if !ok {
		store = NewStore(sid, m.tokens, m.identity)
		m.stores[sid] = store
	}
	store.touch()
	return store, nil
}

// Forget drops the in-memory store of sid.
func (m *Manager) Forget(sid string) {
	m.mu.Lock()
	delete(m.stores, sid)
	m.mu.Unlock()
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stores)
}

func (m *Manager) sweep(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := m.evictIdle(now); n > 0 {
				logger.LogDebug("evicted idle sessions", zap.Int("count", n))
			}
		}
	}
}

func (m *Manager) evictIdle(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for sid, store := range m.stores {
		if store.idleSince(now) > m.idleTTL {
			delete(m.stores, sid)
			evicted++
		}
	}
	return evicted
}
