// Package session holds the identity of the viewer and tells interested
// components when it changes.
package session

import (
	"sync"

	"github.com/julianstephens/weekslot/internal/logger"
	"github.com/julianstephens/weekslot/internal/models"
)

// Change is delivered to subscribers whenever the identity changes. User is
// nil when the viewer became unknown.
type Change struct {
	User *models.User
}

// Session is the current user context. The zero value is an empty session.
type Session struct {
	mu     sync.RWMutex
	user   *models.User
	subs   map[int]chan Change
	nextID int
}

// New returns an empty session.
func New() *Session {
	return &Session{}
}

// CurrentUserID returns the viewer's id, or false while it is unknown.
func (s *Session) CurrentUserID() (models.ID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil || s.user.ID.IsZero() {
		return "", false
	}
	return s.user.ID, true
}

// CurrentUser returns a copy of the viewer, or nil.
func (s *Session) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Set replaces the viewer and notifies subscribers.
func (s *Session) Set(u models.User) {
	s.mu.Lock()
	s.user = &u
	s.broadcastLocked()
	s.mu.Unlock()
	logger.Debug("session identity set", "user", u.ID, "username", u.Username)
}

// Clear forgets the viewer and notifies subscribers.
func (s *Session) Clear() {
	s.mu.Lock()
	s.user = nil
	s.broadcastLocked()
	s.mu.Unlock()
	logger.Debug("session identity cleared")
}

// Subscribe returns a channel that receives the latest identity after each
// change. Slow readers only see the most recent change. The returned function
// unsubscribes and closes the channel.
func (s *Session) Subscribe() (<-chan Change, func()) {
	ch := make(chan Change, 1)

	s.mu.Lock()
	if s.subs == nil {
		s.subs = make(map[int]chan Change)
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (s *Session) broadcastLocked() {
	var change Change
	if s.user != nil {
		u := *s.user
		change.User = &u
	}
	for _, ch := range s.subs {
		// Drop a change nobody consumed yet so the newest one is kept.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- change:
		default:
		}
	}
}
