package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/octabyte/bm-talentportal/enums"
	"github.com/octabyte/bm-talentportal/models"
	"github.com/octabyte/bm-talentportal/otel/logger"
	"github.com/octabyte/bm-talentportal/otel/metrics"
)

const (
	fetchKey = "whoami"
	// fetchTimeout bounds the shared whoami call, which outlives the caller
	// that started it.
	fetchTimeout = 10 * time.Second
)

// Identity resolves a bearer token to its user.
type Identity interface {
	WhoAmI(ctx context.Context, token string) (*models.User, error)
}

// Store holds the authentication state of one client. It starts in Loading
// and settles on Authenticated or Unauthenticated after FetchUser.
type Store struct {
	id       string
	tokens   TokenStorage
	identity Identity
	group    singleflight.Group
	timeout  time.Duration

	mu    sync.RWMutex
	state enums.SessionState
	user  *models.User
	token string
	// epoch changes on Login, Logout and Refresh so a fetch that started
	// before them cannot overwrite their result.
	epoch   uint64
	version uint64
	subs    map[int]chan struct{}
	nextSub int

	lastSeen atomic.Int64
}

func NewStore(id string, tokens TokenStorage, identity Identity) *Store {
	s := &Store{
		id:       id,
		tokens:   tokens,
		identity: identity,
		timeout:  fetchTimeout,
		state:    enums.SessionStateLoading,
		subs:     make(map[int]chan struct{}),
	}
	s.touch()
	return s
}

func (s *Store) ID() string {
	return s.id
}

func (s *Store) State() enums.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User returns a copy of the signed in user, or nil.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyUser(s.user)
}

// Token returns the bearer token of an authenticated session.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != enums.SessionStateAuthenticated {
		return ""
	}
	return s.token
}

func (s *Store) Snapshot() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.Session{ID: s.id, State: s.state, User: copyUser(s.user)}
}

// Version increases on every state change.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Subscribe returns a channel signalled after each state change. Signals
// coalesce; read Snapshot for the current value. Call cancel to unsubscribe.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

// FetchUser hydrates the session from the stored token. It is a no-op once
// authenticated. Without a token the store becomes Unauthenticated with no
// backend call. A rejected token or failed call logs the session out.
// Concurrent callers share one backend call, which is detached from any
// single caller's cancellation. A caller whose context ends stops waiting
// and gets its context error; the state is left to the shared call.
func (s *Store) FetchUser(ctx context.Context) (models.Session, error) {
	s.touch()

	if s.State() == enums.SessionStateAuthenticated {
		return s.Snapshot(), nil
	}
	if err := ctx.Err(); err != nil {
		return s.Snapshot(), err
	}

	result := s.group.DoChan(fetchKey, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		return nil, s.fetch(fetchCtx)
	})

	select {
	case res := <-result:
		return s.Snapshot(), res.Err
	case <-ctx.Done():
		return s.Snapshot(), ctx.Err()
	}
}

func (s *Store) fetch(ctx context.Context) error {
	s.mu.RLock()
	epoch, state := s.epoch, s.state
	s.mu.RUnlock()

	if state == enums.SessionStateAuthenticated {
		return nil
	}

	token, err := s.tokens.Get(ctx, s.id)
	if err != nil || token == "" {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil && !errors.Is(err, ErrTokenNotFound) {
			logger.ErrorCtx(ctx, "session: read token", err, zap.String("sid", s.id))
		}
		s.settle(ctx, epoch, enums.SessionStateUnauthenticated, nil, "")
		return nil
	}

	user, err := s.identity.WhoAmI(ctx, token)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		logger.WarnCtx(ctx, "session: whoami rejected, logging out", zap.String("sid", s.id), zap.Error(err))
		s.mu.RLock()
		stale := s.epoch != epoch
		s.mu.RUnlock()
		if !stale {
			s.Logout(ctx)
		}
		return nil
	}

	s.settle(ctx, epoch, enums.SessionStateAuthenticated, user, token)
	return nil
}

// Login stores a freshly issued token and resets the store to Loading so the
// next FetchUser hydrates it.
func (s *Store) Login(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("session: empty token")
	}
	if err := s.tokens.Set(ctx, s.id, token); err != nil {
		return fmt.Errorf("session: store token: %w", err)
	}

	s.mu.Lock()
	s.epoch++
	from := s.setLocked(enums.SessionStateLoading, nil, "")
	s.mu.Unlock()

	s.changed(ctx, from, enums.SessionStateLoading)
	return nil
}

// Logout clears the stored token and the in-memory session. It never fails;
// storage errors are logged.
func (s *Store) Logout(ctx context.Context) {
	storeCtx := context.WithoutCancel(ctx)
	if err := s.tokens.Delete(storeCtx, s.id); err != nil && !errors.Is(err, ErrTokenNotFound) {
		logger.ErrorCtx(ctx, "session: delete token", err, zap.String("sid", s.id))
	}

	s.mu.Lock()
	s.epoch++
	from := s.setLocked(enums.SessionStateUnauthenticated, nil, "")
	s.mu.Unlock()

	s.changed(ctx, from, enums.SessionStateUnauthenticated)
}

// Refresh discards the cached user and fetches it again. Views call it after
// mutating the profile so the session reflects the change.
func (s *Store) Refresh(ctx context.Context) (models.Session, error) {
	s.mu.Lock()
	if s.state != enums.SessionStateAuthenticated {
		s.mu.Unlock()
		return s.FetchUser(ctx)
	}
	s.epoch++
	from := s.setLocked(enums.SessionStateLoading, s.user, "")
	s.mu.Unlock()

	s.changed(ctx, from, enums.SessionStateLoading)
	return s.FetchUser(ctx)
}

func (s *Store) settle(ctx context.Context, epoch uint64, state enums.SessionState, user *models.User, token string) {
	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return
	}
	from := s.setLocked(state, user, token)
	s.mu.Unlock()

	s.changed(ctx, from, state)
}

// setLocked must be called with mu held.
func (s *Store) setLocked(state enums.SessionState, user *models.User, token string) enums.SessionState {
	from := s.state
	s.state = state
	s.user = copyUser(user)
	s.token = token
	s.version++
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return from
}

func (s *Store) changed(ctx context.Context, from, to enums.SessionState) {
	if from != to {
		metrics.RecordSessionTransition(ctx, string(from), string(to))
	}
}

func (s *Store) touch() {
	s.lastSeen.Store(time.Now().UnixNano())
}

func (s *Store) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastSeen.Load()))
}

func copyUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
