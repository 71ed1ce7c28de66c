package alerts

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Store persists each user's alert list.
type Store interface {
	Save(userID string, alerts []Alert) error
	All() (map[string][]Alert, error)
}

// MemoryStore keeps alerts for the life of the process.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]Alert
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string][]Alert{}}
}

func (m *MemoryStore) Save(userID string, alerts []Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(alerts) == 0 {
		delete(m.data, userID)
		return nil
	}
	m.data[userID] = append([]Alert(nil), alerts...)
	return nil
}

func (m *MemoryStore) All() (map[string][]Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string][]Alert, len(m.data))
	for k, v := range m.data {
		out[k] = append([]Alert(nil), v...)
	}
	return out, nil
}

// rawStore is the byte-level alert storage provided by storage.DB.
type rawStore interface {
	PutAlerts(userID string, encoded []byte) error
	AllAlerts() (map[string][]byte, error)
}

// BoltStore keeps alerts in the bot's bbolt file so they survive restarts.
type BoltStore struct {
	db rawStore
}

func NewBoltStore(db rawStore) *BoltStore {
	return &BoltStore{db: db}
}

func (b *BoltStore) Save(userID string, alerts []Alert) error {
	if len(alerts) == 0 {
		return b.db.PutAlerts(userID, nil)
	}
	encoded, err := json.Marshal(alerts)
	if err != nil {
		return fmt.Errorf("alerts: encode: %w", err)
	}
	return b.db.PutAlerts(userID, encoded)
}

func (b *BoltStore) All() (map[string][]Alert, error) {
	raw, err := b.db.AllAlerts()
	if err != nil {
		return nil, err
	}
	out := make(map[string][]Alert, len(raw))
	for user, encoded := range raw {
		var list []Alert
		if err := json.Unmarshal(encoded, &list); err != nil {
			return nil, fmt.Errorf("alerts: decode user %s: %w", user, err)
		}
		out[user] = list
	}
	return out, nil
}
