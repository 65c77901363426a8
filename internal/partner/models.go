package partner

import (
	"time"

	id "sajag/pkg/domain"
	dErrors "sajag/pkg/domain-errors"
)

// Type classifies a training partner organization.
type Type string

const (
	TypeNIDM     Type = "NIDM"
	TypeATI      Type = "ATI"
	TypeNGO      Type = "NGO"
	TypeMinistry Type = "GoI Ministry"
)

// ParseType validates an incoming partner type against the closed set.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeNIDM, TypeATI, TypeNGO, TypeMinistry:
		return Type(s), nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "partner type must be one of NIDM, ATI, NGO, GoI Ministry")
}

// TrainingPartner is an organization delivering training programs.
// Name is unique across partners; the store enforces it.
type TrainingPartner struct {
	ID            id.PartnerID `json:"id"`
	Name          string       `json:"name"`
	Type          Type         `json:"type"`
	ContactPerson string       `json:"contactPerson,omitempty"`
	ContactEmail  string       `json:"contactEmail,omitempty"`
	ContactPhone  string       `json:"contactPhone,omitempty"`
	Address       string       `json:"address,omitempty"`
	ProgramsCount int          `json:"programsCount"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// Validate checks the partner invariants before persistence.
func (p *TrainingPartner) Validate() error {
	if p.Name == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "partner name must not be empty")
	}
	if _, err := ParseType(string(p.Type)); err != nil {
		return err
	}
	return nil
}
