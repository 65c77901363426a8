package partner

import (
	"context"
	"sort"
	"strings"
	"sync"

	id "sajag/pkg/domain"
	"sajag/pkg/platform/sentinel"
)

// ProgramCounter reports how many programs reference a partner. The postgres
// backend computes this with a subquery; the in-memory backend takes it as a
// hook so both report counts and block referenced deletes the same way.
type ProgramCounter func(ctx context.Context, partnerID id.PartnerID) (int, error)

// InMemoryStore keeps partners keyed by ID with a unique-name index.
type InMemoryStore struct {
	mu       sync.RWMutex
	partners map[id.PartnerID]*TrainingPartner
	byName   map[string]id.PartnerID
	counter  ProgramCounter
}

// InMemoryOption configures an InMemoryStore.
type InMemoryOption func(*InMemoryStore)

// WithProgramCounter wires the program-reference hook. Without it the store
// reports zero counts and never blocks a delete.
func WithProgramCounter(counter ProgramCounter) InMemoryOption {
	return func(s *InMemoryStore) { s.counter = counter }
}

func NewInMemoryStore(opts ...InMemoryOption) *InMemoryStore {
	s := &InMemoryStore{
		partners: make(map[id.PartnerID]*TrainingPartner),
		byName:   make(map[string]id.PartnerID),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) programCount(ctx context.Context, partnerID id.PartnerID) (int, error) {
	if s.counter == nil {
		return 0, nil
	}
	return s.counter(ctx, partnerID)
}

func (s *InMemoryStore) List(ctx context.Context, partnerType Type) ([]TrainingPartner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]TrainingPartner, 0, len(s.partners))
	for _, p := range s.partners {
		if partnerType != "" && p.Type != partnerType {
			continue
		}
		cp := *p
		if count, err := s.programCount(ctx, p.ID); err == nil {
			cp.ProgramsCount = count
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *InMemoryStore) Get(ctx context.Context, partnerID id.PartnerID) (*TrainingPartner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.partners[partnerID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *p
	if count, err := s.programCount(ctx, partnerID); err == nil {
		cp.ProgramsCount = count
	}
	return &cp, nil
}

func (s *InMemoryStore) Create(_ context.Context, p *TrainingPartner) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(p.Name)
	if _, exists := s.partners[p.ID]; exists {
		return sentinel.ErrConflict
	}
	if _, exists := s.byName[key]; exists {
		return sentinel.ErrConflict
	}
	cp := *p
	s.partners[p.ID] = &cp
	s.byName[key] = p.ID
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, p *TrainingPartner) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.partners[p.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	newKey := strings.ToLower(p.Name)
	oldKey := strings.ToLower(existing.Name)
	if newKey != oldKey {
		if _, taken := s.byName[newKey]; taken {
			return sentinel.ErrConflict
		}
		delete(s.byName, oldKey)
		s.byName[newKey] = p.ID
	}
	cp := *p
	s.partners[p.ID] = &cp
	return nil
}

func (s *InMemoryStore) Delete(ctx context.Context, partnerID id.PartnerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.partners[partnerID]
	if !ok {
		return sentinel.ErrNotFound
	}
	count, err := s.programCount(ctx, partnerID)
	if err != nil {
		return err
	}
	if count > 0 {
		return sentinel.ErrInvalidState
	}
	delete(s.byName, strings.ToLower(p.Name))
	delete(s.partners, partnerID)
	return nil
}
