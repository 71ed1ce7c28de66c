package alerts

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Match pairs a user with the alert a lottery satisfied.
type Match struct {
	UserID string
	Alert  Alert
}

// Manager owns every user's alerts. It is safe for concurrent use by the
// command handlers and the lottery monitor.
type Manager struct {
	mu    sync.RWMutex
	users map[string][]Alert
	store Store
	now   func() time.Time
}

// NewManager loads existing alerts from store. A nil store keeps alerts in memory.
func NewManager(store Store) (*Manager, error) {
	if store == nil {
		store = NewMemoryStore()
	}
	users, err := store.All()
	if err != nil {
		return nil, fmt.Errorf("alerts: load: %w", err)
	}
	if users == nil {
		users = map[string][]Alert{}
	}
	return &Manager{users: users, store: store, now: time.Now}, nil
}

// Add validates and stores an alert, assigning the next id.
func (m *Manager) Add(userID string, a Alert) (Alert, error) {
	if err := a.Validate(); err != nil {
		return Alert{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.users[userID]
	if len(current) >= MaxAlertsPerUser {
		return Alert{}, ErrMaxAlerts
	}

	a.ID = len(current) + 1
	a.CreatedAt = m.now().UTC()
	next := append(append([]Alert(nil), current...), a)
	if err := m.store.Save(userID, next); err != nil {
		return Alert{}, fmt.Errorf("alerts: save: %w", err)
	}
	m.users[userID] = next
	return a, nil
}

// List returns a copy of the user's alerts ordered by id.
func (m *Manager) List(userID string) []Alert {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Alert(nil), m.users[userID]...)
}

// Delete removes an alert and renumbers the rest from 1.
func (m *Manager) Delete(userID string, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.users[userID]
	if len(current) == 0 {
		return ErrNoAlerts
	}

	idx := -1
	for i, a := range current {
		if a.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: #%d", ErrAlertNotFound, id)
	}

	next := make([]Alert, 0, len(current)-1)
	next = append(next, current[:idx]...)
	next = append(next, current[idx+1:]...)
	for i := range next {
		next[i].ID = i + 1
	}

	if err := m.store.Save(userID, next); err != nil {
		return fmt.Errorf("alerts: save: %w", err)
	}
	if len(next) == 0 {
		delete(m.users, userID)
	} else {
		m.users[userID] = next
	}
	return nil
}

// MatchValues returns every (user, alert) pair satisfied by the lottery values,
// ordered by user id and alert id.
func (m *Manager) MatchValues(prize, ticket, rtp float64) []Match {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]string, 0, len(m.users))
	for u := range m.users {
		users = append(users, u)
	}
	sort.Strings(users)

	var out []Match
	for _, u := range users {
		for _, a := range m.users[u] {
			if a.Matches(prize, ticket, rtp) {
				out = append(out, Match{UserID: u, Alert: a})
			}
		}
	}
	return out
}

// Count returns the number of users with at least one alert and the total alerts.
func (m *Manager) Count() (users, total int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, list := range m.users {
		total += len(list)
	}
	return len(m.users), total
}
