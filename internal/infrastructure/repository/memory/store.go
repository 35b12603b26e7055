package memory

import (
	"sync"

	"github.com/riskibarqy/matchday-alerts/internal/domain/attendance"
	"github.com/riskibarqy/matchday-alerts/internal/domain/dispatch"
	"github.com/riskibarqy/matchday-alerts/internal/domain/match"
	"github.com/riskibarqy/matchday-alerts/internal/domain/preference"
	"github.com/riskibarqy/matchday-alerts/internal/domain/user"
)

// Store holds every collection behind one lock so batches apply atomically.
type Store struct {
	mu          sync.RWMutex
	matches     map[string]match.Match
	preferences map[string]preference.Preference
	users       map[string]user.User
	attendance  map[string]attendance.Record
	dispatches  map[string]dispatch.Event
}

func NewStore() *Store {
	return &Store{
		matches:     make(map[string]match.Match),
		preferences: make(map[string]preference.Preference),
		users:       make(map[string]user.User),
		attendance:  make(map[string]attendance.Record),
		dispatches:  make(map[string]dispatch.Event),
	}
}

func (s *Store) PutMatches(items ...match.Match) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		s.matches[item.ID] = cloneMatch(item)
	}
}

func (s *Store) PutPreferences(items ...preference.Preference) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		s.preferences[item.ID] = item
	}
}

func (s *Store) PutUsers(items ...user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		s.users[item.ID] = cloneUser(item)
	}
}

func (s *Store) PutAttendance(items ...attendance.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		s.attendance[item.ID] = cloneRecord(item)
	}
}

func cloneMatch(item match.Match) match.Match {
	item.HomeScore = cloneInt(item.HomeScore)
	item.AwayScore = cloneInt(item.AwayScore)
	return item
}

func cloneUser(item user.User) user.User {
	item.FavoriteTeamIDs = append([]string(nil), item.FavoriteTeamIDs...)
	return item
}

func cloneRecord(item attendance.Record) attendance.Record {
	item.HomeScore = cloneInt(item.HomeScore)
	item.AwayScore = cloneInt(item.AwayScore)
	return item
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	out := *value
	return &out
}
