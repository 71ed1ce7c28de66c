package monitor

const (
	maxSeen  = 10000
	keepSeen = 5000
)

// PostedStore persists the ids of lotteries that have been announced.
type PostedStore interface {
	AppendPosted(id string) error
	Posted() ([]string, error)
	TrimPosted(keep int) error
}

// seenSet remembers posted lottery ids in insertion order. When it grows past
// max it drops the oldest entries, keeping the newest keep.
type seenSet struct {
	order []string
	index map[string]struct{}
	max   int
	keep  int
}

func newSeenSet(max, keep int) *seenSet {
	return &seenSet{index: map[string]struct{}{}, max: max, keep: keep}
}

func (s *seenSet) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Add records id and reports whether the set was trimmed.
func (s *seenSet) Add(id string) bool {
	if s.Has(id) {
		return false
	}
	s.order = append(s.order, id)
	s.index[id] = struct{}{}
	if len(s.order) <= s.max {
		return false
	}

	drop := len(s.order) - s.keep
	for _, old := range s.order[:drop] {
		delete(s.index, old)
	}
	s.order = append([]string(nil), s.order[drop:]...)
	return true
}

func (s *seenSet) Len() int { return len(s.order) }
