package program

import (
	"time"

	id "sajag/pkg/domain"
	dErrors "sajag/pkg/domain-errors"
)

// Status is the lifecycle state of a training program.
type Status string

const (
	StatusPlanned   Status = "Planned"
	StatusOngoing   Status = "Ongoing"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

// ParseStatus validates an incoming status string against the closed set.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPlanned, StatusOngoing, StatusCompleted, StatusCancelled:
		return Status(s), nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "status must be one of Planned, Ongoing, Completed, Cancelled")
}

// Location is an optional geo point for the map view.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// TrainingProgram is a single training record.
//
// Invariants:
//   - Participants >= 0
//   - FeedbackScore, when present, is in [0, 5]
//   - StartDate <= EndDate
//   - Status is a member of the closed Status set
//
// The visibility pipeline treats programs as immutable inputs; all mutation
// goes through the service and store.
type TrainingProgram struct {
	ID            id.ProgramID `json:"id"`
	Title         string       `json:"title"`
	Theme         string       `json:"theme"`
	Status        Status       `json:"status"`
	State         string       `json:"state"`
	District      string       `json:"district"`
	StartDate     time.Time    `json:"startDate"`
	EndDate       time.Time    `json:"endDate"`
	Participants  int          `json:"participants"`
	FeedbackScore *float64     `json:"feedbackScore"`
	Description   string       `json:"description,omitempty"`
	Address       string       `json:"address,omitempty"`
	PartnerID     id.PartnerID `json:"partnerId"`
	PartnerName   string       `json:"partnerName,omitempty"`
	Location      *Location    `json:"location"`
	CreatedByID   id.UserID    `json:"createdById"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// Validate checks the program invariants before persistence.
func (p *TrainingProgram) Validate() error {
	if p.Title == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "title must not be empty")
	}
	if p.Theme == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "theme must not be empty")
	}
	if _, err := ParseStatus(string(p.Status)); err != nil {
		return err
	}
	if p.Participants < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "participants must not be negative")
	}
	if p.FeedbackScore != nil && (*p.FeedbackScore < 0 || *p.FeedbackScore > 5) {
		return dErrors.New(dErrors.CodeInvalidInput, "feedback score must be between 0 and 5")
	}
	if !p.StartDate.IsZero() && !p.EndDate.IsZero() && p.EndDate.Before(p.StartDate) {
		return dErrors.New(dErrors.CodeInvalidInput, "end date must not be before start date")
	}
	return nil
}
