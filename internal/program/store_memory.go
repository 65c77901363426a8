package program

import (
	"context"
	"sync"

	id "sajag/pkg/domain"
	"sajag/pkg/platform/sentinel"
)

// InMemoryStore keeps programs in creation order. Used by unit tests and
// local development without PostgreSQL.
type InMemoryStore struct {
	mu       sync.RWMutex
	programs map[id.ProgramID]*TrainingProgram
	order    []id.ProgramID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{programs: make(map[id.ProgramID]*TrainingProgram)}
}

func (s *InMemoryStore) List(_ context.Context) ([]TrainingProgram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]TrainingProgram, 0, len(s.order))
	for _, pid := range s.order {
		out = append(out, *s.programs[pid])
	}
	return out, nil
}

func (s *InMemoryStore) Get(_ context.Context, programID id.ProgramID) (*TrainingProgram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.programs[programID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *InMemoryStore) Create(_ context.Context, p *TrainingProgram) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.programs[p.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := *p
	s.programs[p.ID] = &cp
	s.order = append(s.order, p.ID)
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, p *TrainingProgram) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.programs[p.ID]; !exists {
		return sentinel.ErrNotFound
	}
	cp := *p
	s.programs[p.ID] = &cp
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, programID id.ProgramID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.programs[programID]; !exists {
		return sentinel.ErrNotFound
	}
	delete(s.programs, programID)
	s.removeFromOrder(programID)
	return nil
}

func (s *InMemoryStore) DeleteMany(_ context.Context, programIDs []id.ProgramID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for _, pid := range programIDs {
		if _, exists := s.programs[pid]; !exists {
			continue
		}
		delete(s.programs, pid)
		s.removeFromOrder(pid)
		deleted++
	}
	return deleted, nil
}

// CountByPartner reports how many programs reference the partner. The
// in-memory partner store uses it for program counts and delete guards,
// mirroring what the postgres backend gets from its subquery and FK.
func (s *InMemoryStore) CountByPartner(_ context.Context, partnerID id.PartnerID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, p := range s.programs {
		if p.PartnerID == partnerID {
			count++
		}
	}
	return count, nil
}

func (s *InMemoryStore) removeFromOrder(programID id.ProgramID) {
	for i, pid := range s.order {
		if pid == programID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
