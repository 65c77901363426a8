package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"sajag/internal/audit"
	"sajag/internal/program"
	programmetrics "sajag/internal/program/metrics"
	"sajag/internal/visibility"
	id "sajag/pkg/domain"
	dErrors "sajag/pkg/domain-errors"
	"sajag/pkg/platform/sentinel"
	"sajag/pkg/requestcontext"
)

// Service orchestrates training-program operations. Every read goes through
// the visibility pipeline; every mutation is checked against the caller's
// scope before it touches the store.
type Service struct {
	store    program.Store
	selector *visibility.Selector
	auditor  audit.Emitter
	metrics  *programmetrics.Metrics
}

func New(store program.Store, selector *visibility.Selector, auditor audit.Emitter, metrics *programmetrics.Metrics) *Service {
	return &Service{
		store:    store,
		selector: selector,
		auditor:  auditor,
		metrics:  metrics,
	}
}

// Page is a pagination window. Zero values take the API defaults.
type Page struct {
	Number int
	Limit  int
}

func (p Page) normalized() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	return p
}

// ListResult is one page of the caller's visible record set.
type ListResult struct {
	Programs []program.TrainingProgram
	Page     int
	Limit    int
	Total    int
}

// List returns the page window over Apply(records, principal, criteria).
// Total counts the full visible set, not the page, so pagination reflects
// what the caller is allowed to see.
func (s *Service) List(ctx context.Context, principal visibility.Principal, criteria visibility.Criteria, page Page) (*ListResult, error) {
	start := time.Now()
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load programs", err)
	}

	vis := s.selector.Visible(records, principal, criteria)

	page = page.normalized()
	total := len(vis)
	lo := (page.Number - 1) * page.Limit
	if lo > total {
		lo = total
	}
	hi := lo + page.Limit
	if hi > total {
		hi = total
	}

	s.metrics.ObserveListLatency(time.Since(start).Seconds())
	return &ListResult{
		Programs: vis[lo:hi],
		Page:     page.Number,
		Limit:    page.Limit,
		Total:    total,
	}, nil
}

// VisibleAll returns the caller's entire visible record set, unpaginated.
// Export and analytics consume this so they can never disagree with the
// table rows.
func (s *Service) VisibleAll(ctx context.Context, principal visibility.Principal, criteria visibility.Criteria) ([]program.TrainingProgram, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load programs", err)
	}
	return s.selector.Visible(records, principal, criteria), nil
}

// Get returns a single program if it exists and is within the caller's scope.
// Out-of-scope records read as not found so their existence is not revealed.
func (s *Service) Get(ctx context.Context, principal visibility.Principal, programID id.ProgramID) (*program.TrainingProgram, error) {
	rec, err := s.store.Get(ctx, programID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "program not found")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load program", err)
	}
	if len(visibility.Authorize([]program.TrainingProgram{*rec}, principal)) == 0 {
		return nil, dErrors.New(dErrors.CodeNotFound, "program not found")
	}
	return rec, nil
}

// Create validates and persists a new program within the caller's scope.
func (s *Service) Create(ctx context.Context, principal visibility.Principal, p *program.TrainingProgram) (*program.TrainingProgram, error) {
	if err := s.requireMutableScope(principal, p); err != nil {
		return nil, err
	}
	if p.Status == "" {
		p.Status = program.StatusPlanned
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.ID == "" {
		p.ID = generateProgramID(requestcontext.Now(ctx))
	}
	now := requestcontext.Now(ctx)
	p.CreatedByID = requestcontext.UserID(ctx)
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.store.Create(ctx, p); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "program id already exists")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to create program", err)
	}
	s.selector.Invalidate()
	s.metrics.IncrementCreated()
	s.emit(ctx, principal, audit.ActionProgramCreated, p.ID.String(), p.Title)
	return p, nil
}

// Update applies a partial update to a program the caller can see and mutate.
// The update must not move the record outside the caller's scope.
func (s *Service) Update(ctx context.Context, principal visibility.Principal, programID id.ProgramID, apply func(*program.TrainingProgram)) (*program.TrainingProgram, error) {
	existing, err := s.Get(ctx, principal, programID)
	if err != nil {
		return nil, err
	}
	if !principal.CanMutate() {
		return nil, dErrors.New(dErrors.CodeForbidden, "role is read-only")
	}

	updated := *existing
	apply(&updated)
	updated.ID = existing.ID
	updated.CreatedByID = existing.CreatedByID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = requestcontext.Now(ctx)

	if err := s.requireMutableScope(principal, &updated); err != nil {
		return nil, err
	}
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, &updated); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "program not found")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to update program", err)
	}
	s.selector.Invalidate()
	s.emit(ctx, principal, audit.ActionProgramUpdated, updated.ID.String(), updated.Title)
	return &updated, nil
}

// Delete removes a program the caller can see and mutate.
func (s *Service) Delete(ctx context.Context, principal visibility.Principal, programID id.ProgramID) error {
	if _, err := s.Get(ctx, principal, programID); err != nil {
		return err
	}
	if !principal.CanMutate() {
		return dErrors.New(dErrors.CodeForbidden, "role is read-only")
	}
	if err := s.store.Delete(ctx, programID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "program not found")
		}
		return dErrors.Wrap(dErrors.CodeInternal, "failed to delete program", err)
	}
	s.selector.Invalidate()
	s.metrics.AddDeleted(1)
	s.emit(ctx, principal, audit.ActionProgramDeleted, programID.String(), "")
	return nil
}

// BulkDelete removes the requested programs, silently skipping any the caller
// cannot see. The visible set is the authority on what a bulk action may
// touch, same as every other consumer.
func (s *Service) BulkDelete(ctx context.Context, principal visibility.Principal, programIDs []id.ProgramID) (int, error) {
	if !principal.CanMutate() {
		return 0, dErrors.New(dErrors.CodeForbidden, "role is read-only")
	}
	if len(programIDs) == 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "ids must not be empty")
	}

	visible, err := s.VisibleAll(ctx, principal, visibility.Criteria{})
	if err != nil {
		return 0, err
	}
	allowed := make(map[id.ProgramID]struct{}, len(visible))
	for _, rec := range visible {
		allowed[rec.ID] = struct{}{}
	}
	toDelete := make([]id.ProgramID, 0, len(programIDs))
	for _, pid := range programIDs {
		if _, ok := allowed[pid]; ok {
			toDelete = append(toDelete, pid)
		}
	}
	if len(toDelete) == 0 {
		return 0, nil
	}

	deleted, err := s.store.DeleteMany(ctx, toDelete)
	if err != nil {
		return 0, dErrors.Wrap(dErrors.CodeInternal, "failed to delete programs", err)
	}
	s.selector.Invalidate()
	s.metrics.AddDeleted(deleted)
	s.emit(ctx, principal, audit.ActionProgramsBulkDel, "", fmt.Sprintf("%d programs", deleted))
	return deleted, nil
}

// requireMutableScope rejects writes from read-only roles and writes that
// fall outside a scoped role's states or partners.
func (s *Service) requireMutableScope(principal visibility.Principal, p *program.TrainingProgram) error {
	if !principal.CanMutate() {
		return dErrors.New(dErrors.CodeForbidden, "role is read-only")
	}
	if len(visibility.Authorize([]program.TrainingProgram{*p}, principal)) == 0 {
		return dErrors.New(dErrors.CodeForbidden, "record is outside your scope")
	}
	return nil
}

func (s *Service) emit(ctx context.Context, principal visibility.Principal, action audit.Action, entityID, detail string) {
	if s.auditor == nil {
		return
	}
	// Audit failures must not fail the business operation here; the event
	// sink is operational, not compliance-grade.
	_ = s.auditor.Emit(ctx, audit.Event{
		ActorID:   requestcontext.UserID(ctx).String(),
		Role:      string(principal.Role()),
		Action:    action,
		Entity:    "program",
		EntityID:  entityID,
		Detail:    detail,
		RequestID: requestcontext.RequestID(ctx),
	})
}

// generateProgramID mints a human-readable program code like the ones the
// dashboard displays, e.g. "NDMA-TR-25-A1B2C3D4".
func generateProgramID(now time.Time) id.ProgramID {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return id.ProgramID(fmt.Sprintf("NDMA-TR-%02d-%s", now.Year()%100, suffix))
}
