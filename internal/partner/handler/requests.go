package handler

import (
	"sajag/internal/partner"
	dErrors "sajag/pkg/domain-errors"
)

// CreatePartnerRequest is the POST /api/partners body.
type CreatePartnerRequest struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	ContactPerson string `json:"contactPerson"`
	ContactEmail  string `json:"contactEmail"`
	ContactPhone  string `json:"contactPhone"`
	Address       string `json:"address"`
}

func (r *CreatePartnerRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeBadRequest, "name is required")
	}
	if _, err := partner.ParseType(r.Type); err != nil {
		return err
	}
	return nil
}

// ToPartner converts the request into a domain record.
func (r *CreatePartnerRequest) ToPartner() *partner.TrainingPartner {
	return &partner.TrainingPartner{
		Name:          r.Name,
		Type:          partner.Type(r.Type),
		ContactPerson: r.ContactPerson,
		ContactEmail:  r.ContactEmail,
		ContactPhone:  r.ContactPhone,
		Address:       r.Address,
	}
}

// UpdatePartnerRequest is the PUT body. Absent fields leave the record
// untouched.
type UpdatePartnerRequest struct {
	Name          *string `json:"name"`
	Type          *string `json:"type"`
	ContactPerson *string `json:"contactPerson"`
	ContactEmail  *string `json:"contactEmail"`
	ContactPhone  *string `json:"contactPhone"`
	Address       *string `json:"address"`
}

func (r *UpdatePartnerRequest) Validate() error {
	if r.Type != nil {
		if _, err := partner.ParseType(*r.Type); err != nil {
			return err
		}
	}
	return nil
}

// Apply writes the present fields onto the record.
func (r *UpdatePartnerRequest) Apply(p *partner.TrainingPartner) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Type != nil {
		p.Type = partner.Type(*r.Type)
	}
	if r.ContactPerson != nil {
		p.ContactPerson = *r.ContactPerson
	}
	if r.ContactEmail != nil {
		p.ContactEmail = *r.ContactEmail
	}
	if r.ContactPhone != nil {
		p.ContactPhone = *r.ContactPhone
	}
	if r.Address != nil {
		p.Address = *r.Address
	}
}
