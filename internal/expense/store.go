package expense

import "sync"

// Store is the authoritative in-memory view of the signed-in user's
// expenses, ordered by insertion. It never talks to the network; callers
// apply a mutation only after the remote API has confirmed it, so the
// collection never reflects an unconfirmed change.
//
// All operations are total: a missing ID on Update or Delete leaves the
// collection untouched and raises no error.
type Store struct {
	mu    sync.Mutex
	items []Expense
	subs  []chan struct{}
}

func NewStore() *Store {
	return &Store{}
}

// Subscribe returns a channel that receives a signal after every change
// to the collection. The channel is buffered; a slow consumer coalesces
// signals rather than blocking mutators.
func (s *Store) Subscribe() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan struct{}, 1)
	s.subs = append(s.subs, ch)
	return ch
}

// Add appends one expense. IDs come from the remote API and are unique
// by that collaborator's contract, so no duplicate check is made here.
func (s *Store) Add(e Expense) {
	s.mu.Lock()
	s.items = append(s.items, e)
	s.mu.Unlock()
	s.notify()
}

// Update patches the expense with the given ID in place. The ID itself
// is never changed. Unknown IDs are ignored.
func (s *Store) Update(id string, p Patch) {
	s.mu.Lock()
	changed := false
	for i := range s.items {
		if s.items[i].ID == id {
			p.apply(&s.items[i])
			changed = true
			break
		}
	}
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// Delete removes the expense with the given ID. Unknown IDs are ignored.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	changed := false
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			changed = true
			break
		}
	}
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// SetAll replaces the whole collection with the supplied sequence,
// discarding prior contents. Used to install the result of a bulk fetch.
func (s *Store) SetAll(list []Expense) {
	s.mu.Lock()
	s.items = make([]Expense, len(list))
	copy(s.items, list)
	s.mu.Unlock()
	s.notify()
}

// All returns a copy of the collection in insertion order.
func (s *Store) All() []Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Expense, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the expense with the given ID, if present.
func (s *Store) Get(id string) (Expense, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.items {
		if e.ID == id {
			return e, true
		}
	}
	return Expense{}, false
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) notify() {
	s.mu.Lock()
	subs := s.subs
	s.mu.Unlock()
	for _, ch := range subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
