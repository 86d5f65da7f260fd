package pwm

import "sync"

// State is the single shared record between the level generator (writer) and
// the player (reader). The mutex is held only for the copy itself, never
// across a sleep or a driver write, so neither task can starve the other.
type State struct {
	mu     sync.Mutex
	levels Levels
	table  Table
}

// NewState returns a State holding zero levels and the matching all-off table,
// so the player has a valid (dark) period to replay before the first tick.
func NewState() *State {
	s := &State{}
	s.table = Encode(s.levels)
	return s
}

// Write commits a new set of levels together with its encoded table in one
// critical section. The player can never observe levels from one tick mixed
// with a table from another.
func (s *State) Write(levels Levels, table Table) {
	s.mu.Lock()
	s.levels = levels
	s.table = table
	s.mu.Unlock()
}

// Snapshot returns a copy of the current table. Callers own the copy and may
// replay it without holding any lock.
func (s *State) Snapshot() Table {
	s.mu.Lock()
	t := s.table
	s.mu.Unlock()
	return t
}

// Levels returns a copy of the most recently written levels.
func (s *State) Levels() Levels {
	s.mu.Lock()
	l := s.levels
	s.mu.Unlock()
	return l
}
