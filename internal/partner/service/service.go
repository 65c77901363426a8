package service

import (
	"context"
	"errors"
	"fmt"

	"sajag/internal/audit"
	"sajag/internal/partner"
	"sajag/internal/visibility"
	id "sajag/pkg/domain"
	dErrors "sajag/pkg/domain-errors"
	"sajag/pkg/platform/sentinel"
	"sajag/pkg/requestcontext"
)

// Service orchestrates partner operations. Partners are reference data: every
// authenticated role may read them (the dashboard needs names for dropdowns
// and the leaderboard), but only admins may change them.
type Service struct {
	store   partner.Store
	auditor audit.Emitter
}

func New(store partner.Store, auditor audit.Emitter) *Service {
	return &Service{store: store, auditor: auditor}
}

func (s *Service) List(ctx context.Context, partnerType partner.Type) ([]partner.TrainingPartner, error) {
	if partnerType != "" {
		if _, err := partner.ParseType(string(partnerType)); err != nil {
			return nil, err
		}
	}
	partners, err := s.store.List(ctx, partnerType)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load partners", err)
	}
	return partners, nil
}

func (s *Service) Get(ctx context.Context, partnerID id.PartnerID) (*partner.TrainingPartner, error) {
	p, err := s.store.Get(ctx, partnerID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "partner not found")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load partner", err)
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, principal visibility.Principal, p *partner.TrainingPartner) (*partner.TrainingPartner, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	if p.ID == "" {
		p.ID = s.nextID(ctx)
	}
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.store.Create(ctx, p); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "partner name already exists")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to create partner", err)
	}
	s.emit(ctx, principal, audit.ActionPartnerCreated, p.ID.String(), p.Name)
	return p, nil
}

func (s *Service) Update(ctx context.Context, principal visibility.Principal, partnerID id.PartnerID, apply func(*partner.TrainingPartner)) (*partner.TrainingPartner, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	existing, err := s.Get(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	updated := *existing
	apply(&updated)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = requestcontext.Now(ctx)

	if err := updated.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, &updated); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "partner not found")
		case errors.Is(err, sentinel.ErrConflict):
			return nil, dErrors.New(dErrors.CodeConflict, "partner name already exists")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to update partner", err)
	}
	s.emit(ctx, principal, audit.ActionPartnerUpdated, updated.ID.String(), updated.Name)
	return &updated, nil
}

func (s *Service) Delete(ctx context.Context, principal visibility.Principal, partnerID id.PartnerID) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, partnerID); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return dErrors.New(dErrors.CodeNotFound, "partner not found")
		case errors.Is(err, sentinel.ErrInvalidState):
			return dErrors.New(dErrors.CodeConflict, "partner still has training programs")
		}
		return dErrors.Wrap(dErrors.CodeInternal, "failed to delete partner", err)
	}
	s.emit(ctx, principal, audit.ActionPartnerDeleted, partnerID.String(), "")
	return nil
}

func requireAdmin(principal visibility.Principal) error {
	if principal.Role() != visibility.RoleAdmin {
		return dErrors.New(dErrors.CodeForbidden, "admin role required")
	}
	return nil
}

// nextID mints the next sequential partner code ("P01", "P02", ...) so new
// partners match the seeded ID scheme the dashboard already shows. The next
// number comes from the highest existing suffix, not the partner count, so a
// deletion can never make the minted ID collide with a survivor.
func (s *Service) nextID(ctx context.Context) id.PartnerID {
	highest := 0
	if existing, err := s.store.List(ctx, ""); err == nil {
		for _, p := range existing {
			var n int
			if _, err := fmt.Sscanf(p.ID.String(), "P%d", &n); err == nil && n > highest {
				highest = n
			}
		}
	}
	return id.PartnerID(fmt.Sprintf("P%02d", highest+1))
}

func (s *Service) emit(ctx context.Context, principal visibility.Principal, action audit.Action, entityID, detail string) {
	if s.auditor == nil {
		return
	}
	_ = s.auditor.Emit(ctx, audit.Event{
		ActorID:   requestcontext.UserID(ctx).String(),
		Role:      string(principal.Role()),
		Action:    action,
		Entity:    "partner",
		EntityID:  entityID,
		Detail:    detail,
		RequestID: requestcontext.RequestID(ctx),
	})
}
