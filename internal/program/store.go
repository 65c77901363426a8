package program

import (
	"context"

	id "sajag/pkg/domain"
)

// Store persists training programs. Implementations return
// sentinel.ErrNotFound / sentinel.ErrConflict for infrastructure facts; the
// service translates them into domain errors.
//
// List returns the full record set in creation order. Scoping and filtering
// are deliberately NOT store concerns: the visibility pipeline is the single
// place authorization happens, so stores must not grow WHERE clauses that
// would let a consumer bypass it.
type Store interface {
	List(ctx context.Context) ([]TrainingProgram, error)
	Get(ctx context.Context, programID id.ProgramID) (*TrainingProgram, error)
	Create(ctx context.Context, p *TrainingProgram) error
	Update(ctx context.Context, p *TrainingProgram) error
	Delete(ctx context.Context, programID id.ProgramID) error
	// DeleteMany removes the given programs, returning how many existed.
	DeleteMany(ctx context.Context, programIDs []id.ProgramID) (int, error)
}
