// Package session keeps per-shopper state in memory and issues the tokens
// clients use to find it again.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fjod/go_cart/fitstore/internal/address"
	"github.com/fjod/go_cart/fitstore/internal/cart"
	"github.com/fjod/go_cart/fitstore/internal/checkout"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultIdleTTL is how long an untouched session is kept.
	DefaultIdleTTL = 30 * time.Minute

	// CleanupInterval is how often idle sessions are expired.
	CleanupInterval = time.Minute
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidToken    = errors.New("invalid session token")
)

type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	secret    []byte
	ttl       time.Duration
	submitter checkout.Submitter
	flowOpts  []checkout.Option
	log       *zap.Logger
	now       func() time.Time

	stopCleanup chan struct{}
	wg          sync.WaitGroup
}

type Option func(*Registry)

// WithFlowOptions is applied to every session's checkout flow.
func WithFlowOptions(opts ...checkout.Option) Option {
	return func(r *Registry) { r.flowOpts = append(r.flowOpts, opts...) }
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) { r.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// NewRegistry starts the idle-session cleanup. Close stops it.
func NewRegistry(secret []byte, ttl time.Duration, submitter checkout.Submitter, opts ...Option) *Registry {
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}
	r := &Registry{
		sessions:    make(map[string]*Session),
		secret:      secret,
		ttl:         ttl,
		submitter:   submitter,
		log:         zap.NewNop(),
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	// one generator for the process keeps order IDs unique across sessions
	r.flowOpts = append([]checkout.Option{
		checkout.WithOrderIDs(checkout.NewOrderIDs(r.now)),
		checkout.WithLogger(r.log),
	}, r.flowOpts...)

	r.wg.Add(1)
	go r.cleanupLoop()

	return r
}

// Create starts a new session and returns it with its token.
func (r *Registry) Create() (*Session, string, error) {
	id := uuid.NewString()
	store := cart.NewStore()
	s := &Session{
		ID:        id,
		Cart:      store,
		Checkout:  checkout.NewFlow(store, r.submitter, r.flowOpts...),
		Addresses: address.NewSeededBook(),
		lastSeen:  r.now(),
	}

	token, err := r.sign(id)
	if err != nil {
		return nil, "", err
	}

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	r.log.Debug("session created", zap.String("session_id", id))
	return s, token, nil
}

// Resolve finds the session a token belongs to and marks it as used.
func (r *Registry) Resolve(token string) (*Session, error) {
	id, err := r.parse(token)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	s.touch(r.now())
	return s, nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) sign(id string) (string, error) {
	claims := jwt.MapClaims{
		"sid": id,
		"iat": r.now().Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (r *Registry) parse(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return r.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	id, _ := claims["sid"].(string)
	if id == "" {
		return "", ErrInvalidToken
	}
	return id, nil
}

func (r *Registry) cleanupLoop() {
	defer r.wg.Done()

	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.expireIdle()
		case <-r.stopCleanup:
			return
		}
	}
}

// expireIdle drops sessions idle for longer than the TTL. Sessions with an
// order in flight are kept.
func (r *Registry) expireIdle() int {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()

	expired := 0
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) && !s.Checkout.Processing() {
			delete(r.sessions, id)
			expired++
		}
	}
	if expired > 0 {
		r.log.Info("expired idle sessions", zap.Int("count", expired))
	}
	return expired
}

// Close stops the background cleanup and waits for it to finish.
func (r *Registry) Close() error {
	close(r.stopCleanup)
	r.wg.Wait()
	return nil
}
