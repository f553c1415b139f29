// Package memory implements the repository interfaces over process memory. It
// backs DB_DRIVER=memory and the service tests.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/workmatrix/workmatrix-backend-go/internal/domain/adminrequest"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/auth"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/user"
	"github.com/workmatrix/workmatrix-backend-go/internal/pkg/database"
)

type txKey struct{}

type refreshToken struct {
	identityID string
	expiresAt  time.Time
	revokedAt  *time.Time
	tracking   auth.SessionTrackingRequest
}

// TimeLog, Screenshot and Keystroke mirror the activity tables read by the dashboards.
type TimeLog struct {
	ProfileID       string
	StartTime       time.Time
	EndTime         *time.Time
	DurationMinutes int64
}

// Minutes is the recorded duration, or the span to EndTime when no duration was recorded.
func (l TimeLog) Minutes() float64 {
	if l.DurationMinutes > 0 {
		return float64(l.DurationMinutes)
	}
	if l.EndTime != nil {
		return l.EndTime.Sub(l.StartTime).Minutes()
	}
	return 0
}

type Screenshot struct {
	ProfileID   string
	CaptureTime time.Time
}

type Keystroke struct {
	ProfileID string
	Count     int64
	Timestamp time.Time
}

type tables struct {
	identities  map[string]auth.Identity
	profiles    map[string]user.Profile
	requests    map[string]adminrequest.Request
	tokens      map[string]refreshToken
	timeLogs    []TimeLog
	screenshots []Screenshot
	keystrokes  []Keystroke
}

func (t tables) clone() tables {
	return tables{
		identities:  maps.Clone(t.identities),
		profiles:    maps.Clone(t.profiles),
		requests:    maps.Clone(t.requests),
		tokens:      maps.Clone(t.tokens),
		timeLogs:    slices.Clone(t.timeLogs),
		screenshots: slices.Clone(t.screenshots),
		keystrokes:  slices.Clone(t.keystrokes),
	}
}

// Store holds every table. One mutex serializes access; a transaction holds it
// until commit or rollback.
type Store struct {
	mu   sync.Mutex
	data tables
	now  func() time.Time

	failMu   sync.Mutex
	failures map[string]error
}

func NewStore() *Store {
	return &Store{
		data: tables{
			identities: make(map[string]auth.Identity),
			profiles:   make(map[string]user.Profile),
			requests:   make(map[string]adminrequest.Request),
			tokens:     make(map[string]refreshToken),
		},
		now:      time.Now,
		failures: make(map[string]error),
	}
}

// SetClock replaces the clock used for server-side timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// FailNext makes the next call of op return err. Op names are "<table>.<Method>",
// e.g. "profiles.UpdateRole".
func (s *Store) FailNext(op string, err error) {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	s.failures[op] = err
}

func (s *Store) injected(op string) error {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	err, ok := s.failures[op]
	if ok {
		delete(s.failures, op)
	}
	return err
}

// lock acquires the store unless ctx belongs to a transaction that already holds it.
func (s *Store) lock(ctx context.Context) func() {
	if tx, ok := ctx.Value(txKey{}).(*Store); ok && tx == s {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// WithinTransaction implements database.Transactor. Any error from fn restores
// the tables to their state before the call.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx, ok := ctx.Value(txKey{}).(*Store); ok && tx == s {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	committed := false
	defer func() {
		if !committed {
			s.data = snapshot
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		return err
	}
	committed = true
	return nil
}

var _ database.Transactor = (*Store)(nil)

// AddTimeLog, AddScreenshot and AddKeystrokes seed activity data.
func (s *Store) AddTimeLog(l TimeLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.timeLogs = append(s.data.timeLogs, l)
}

func (s *Store) AddScreenshot(sc Screenshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.screenshots = append(s.data.screenshots, sc)
}

func (s *Store) AddKeystrokes(k Keystroke) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.keystrokes = append(s.data.keystrokes, k)
}
