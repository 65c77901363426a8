package partner

import (
	"context"

	id "sajag/pkg/domain"
)

// Store persists training partners. Implementations return sentinel errors
// for infrastructure facts; the service translates them into domain errors.
type Store interface {
	// List returns partners ordered by name, optionally narrowed by type.
	List(ctx context.Context, partnerType Type) ([]TrainingPartner, error)
	Get(ctx context.Context, partnerID id.PartnerID) (*TrainingPartner, error)
	Create(ctx context.Context, p *TrainingPartner) error
	Update(ctx context.Context, p *TrainingPartner) error
	Delete(ctx context.Context, partnerID id.PartnerID) error
}
