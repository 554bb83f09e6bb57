// Package site hosts the marketing page and the fragment endpoints behind its
// interactive parts. Each full page load gets its own View holding the
// interaction state for that page.
package site

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/BerylCAtieno/carolina-grind/internal/assistant"
	"github.com/BerylCAtieno/carolina-grind/internal/catalog"
	"github.com/BerylCAtieno/carolina-grind/internal/clock"
	"github.com/BerylCAtieno/carolina-grind/internal/gallery"
	"github.com/BerylCAtieno/carolina-grind/internal/submission"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrViewNotFound is returned for unknown or expired views.
var ErrViewNotFound = errors.New("site: view not found")

// View is the state behind one page load.
type View struct {
	ID           string
	Navigator    *gallery.Navigator
	Grid         *gallery.Grid
	Keyboard     *gallery.Keyboard
	Panel        *submission.Panel
	Conversation *assistant.Conversation

	mu       sync.Mutex
	lastSeen time.Time
	release  func()
}

func (v *View) touch(now time.Time) {
	v.mu.Lock()
	v.lastSeen = now
	v.mu.Unlock()
}

func (v *View) idleSince() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastSeen
}

// teardown releases the keyboard listener and any pending submission timer.
func (v *View) teardown() {
	v.mu.Lock()
	release := v.release
	v.release = nil
	v.mu.Unlock()
	if release != nil {
		release()
	}
	v.Panel.Close()
}

// Store owns every live View.
type Store struct {
	mu      sync.Mutex
	views   map[string]*View
	catalog *catalog.Catalog
	clock   clock.Clock
	ttl     time.Duration
	logger  *zap.Logger
}

func NewStore(c *catalog.Catalog, clk clock.Clock, ttl time.Duration, logger *zap.Logger) *Store {
	if clk == nil {
		clk = clock.Real{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		views:   make(map[string]*View),
		catalog: c,
		clock:   clk,
		ttl:     ttl,
		logger:  logger,
	}
}

// Create builds a fresh View with the modal closed, all tiers idle and an
// unopened conversation, and registers its keyboard listener.
func (s *Store) Create() *View {
	id := uuid.NewString()
	nav := gallery.NewNavigator(s.catalog)
	logger := s.logger.With(zap.String("view_id", id))
	v := &View{
		ID:        id,
		Navigator: nav,
		Grid:      gallery.NewGrid(s.catalog, nav),
		Keyboard:  gallery.NewKeyboard(),
		Panel: submission.NewPanel(s.clock, s.catalog.Tiers(), submission.WithCompletionHook(func(i int) {
			logger.Info("submission completed", zap.Int("tier", i))
		})),
		Conversation: &assistant.Conversation{},
		lastSeen:     s.clock.Now(),
	}
	v.release = v.Keyboard.Register(nav.HandleKey)

	s.mu.Lock()
	s.views[id] = v
	s.mu.Unlock()
	return v
}

// Get returns the view and marks it active.
func (s *Store) Get(id string) (*View, error) {
	s.mu.Lock()
	v, ok := s.views[id]
	s.mu.Unlock()
	if !ok {
		return nil, ErrViewNotFound
	}
	v.touch(s.clock.Now())
	return v, nil
}

// Delete tears the view down. It reports whether the view existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	v, ok := s.views[id]
	delete(s.views, id)
	s.mu.Unlock()
	if ok {
		v.teardown()
	}
	return ok
}

// Len is the number of live views.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views)
}

// Sweep tears down views idle for longer than the TTL and returns how many.
func (s *Store) Sweep() int {
	cutoff := s.clock.Now().Add(-s.ttl)
	var expired []*View
	s.mu.Lock()
	for id, v := range s.views {
		if v.idleSince().Before(cutoff) {
			expired = append(expired, v)
			delete(s.views, id)
		}
	}
	s.mu.Unlock()

	for _, v := range expired {
		v.teardown()
	}
	if len(expired) > 0 {
		s.logger.Debug("views expired", zap.Int("count", len(expired)))
	}
	return len(expired)
}

// Run sweeps expired views every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Close tears down every view.
func (s *Store) Close() {
	s.mu.Lock()
	views := s.views
	s.views = make(map[string]*View)
	s.mu.Unlock()
	for _, v := range views {
		v.teardown()
	}
}
