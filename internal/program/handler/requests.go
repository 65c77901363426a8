package handler

import (
	"net/http"
	"strconv"
	"time"

	"sajag/internal/program"
	"sajag/internal/program/service"
	"sajag/internal/visibility"
	id "sajag/pkg/domain"
	dErrors "sajag/pkg/domain-errors"
)

// CreateProgramRequest is the POST /api/programs body.
type CreateProgramRequest struct {
	Title         string            `json:"title"`
	Theme         string            `json:"theme"`
	Status        string            `json:"status"`
	State         string            `json:"state"`
	District      string            `json:"district"`
	StartDate     string            `json:"startDate"`
	EndDate       string            `json:"endDate"`
	Participants  int               `json:"participants"`
	FeedbackScore *float64          `json:"feedbackScore"`
	Description   string            `json:"description"`
	Address       string            `json:"address"`
	PartnerID     string            `json:"partnerId"`
	Location      *program.Location `json:"location"`
}

func (r *CreateProgramRequest) Validate() error {
	if r.Title == "" {
		return dErrors.New(dErrors.CodeBadRequest, "title is required")
	}
	if r.Theme == "" {
		return dErrors.New(dErrors.CodeBadRequest, "theme is required")
	}
	if r.StartDate == "" || r.EndDate == "" {
		return dErrors.New(dErrors.CodeBadRequest, "startDate and endDate are required")
	}
	return nil
}

// ToProgram converts the request into a domain record.
func (r *CreateProgramRequest) ToProgram() (*program.TrainingProgram, error) {
	start, err := parseDate(r.StartDate)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "startDate must be an ISO date")
	}
	end, err := parseDate(r.EndDate)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "endDate must be an ISO date")
	}
	p := &program.TrainingProgram{
		Title:         r.Title,
		Theme:         r.Theme,
		Status:        program.Status(r.Status),
		State:         r.State,
		District:      r.District,
		StartDate:     start,
		EndDate:       end,
		Participants:  r.Participants,
		FeedbackScore: r.FeedbackScore,
		Description:   r.Description,
		Address:       r.Address,
		Location:      r.Location,
	}
	if r.PartnerID != "" {
		p.PartnerID = id.PartnerID(r.PartnerID)
	}
	return p, nil
}

// UpdateProgramRequest is the PUT body. Absent fields leave the record
// untouched, matching the partial-update semantics of the dashboard form.
type UpdateProgramRequest struct {
	Title         *string           `json:"title"`
	Theme         *string           `json:"theme"`
	Status        *string           `json:"status"`
	State         *string           `json:"state"`
	District      *string           `json:"district"`
	StartDate     *string           `json:"startDate"`
	EndDate       *string           `json:"endDate"`
	Participants  *int              `json:"participants"`
	FeedbackScore *float64          `json:"feedbackScore"`
	Description   *string           `json:"description"`
	Address       *string           `json:"address"`
	PartnerID     *string           `json:"partnerId"`
	Location      *program.Location `json:"location"`
}

// Apply writes the present fields onto the record. Date parse failures are
// reported up front by Validate, so Apply itself cannot fail.
func (r *UpdateProgramRequest) Apply(p *program.TrainingProgram) {
	if r.Title != nil {
		p.Title = *r.Title
	}
	if r.Theme != nil {
		p.Theme = *r.Theme
	}
	if r.Status != nil {
		p.Status = program.Status(*r.Status)
	}
	if r.State != nil {
		p.State = *r.State
	}
	if r.District != nil {
		p.District = *r.District
	}
	if r.StartDate != nil {
		if t, err := parseDate(*r.StartDate); err == nil {
			p.StartDate = t
		}
	}
	if r.EndDate != nil {
		if t, err := parseDate(*r.EndDate); err == nil {
			p.EndDate = t
		}
	}
	if r.Participants != nil {
		p.Participants = *r.Participants
	}
	if r.FeedbackScore != nil {
		p.FeedbackScore = r.FeedbackScore
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.Address != nil {
		p.Address = *r.Address
	}
	if r.PartnerID != nil {
		p.PartnerID = id.PartnerID(*r.PartnerID)
	}
	if r.Location != nil {
		p.Location = r.Location
	}
}

func (r *UpdateProgramRequest) Validate() error {
	if r.StartDate != nil {
		if _, err := parseDate(*r.StartDate); err != nil {
			return dErrors.New(dErrors.CodeBadRequest, "startDate must be an ISO date")
		}
	}
	if r.EndDate != nil {
		if _, err := parseDate(*r.EndDate); err != nil {
			return dErrors.New(dErrors.CodeBadRequest, "endDate must be an ISO date")
		}
	}
	return nil
}

// BulkDeleteRequest is the POST /api/programs/bulk-delete body.
type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

func (r *BulkDeleteRequest) Validate() error {
	if len(r.IDs) == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "ids must not be empty")
	}
	return nil
}

// CriteriaFromQuery builds filter criteria from list/export query parameters.
// Unparseable dates are dropped rather than rejected; the pipeline already
// degrades malformed criteria per field.
func CriteriaFromQuery(r *http.Request) visibility.Criteria {
	q := r.URL.Query()
	c := visibility.Criteria{
		Search:    q.Get("search"),
		State:     q.Get("state"),
		District:  q.Get("district"),
		Theme:     q.Get("theme"),
		PartnerID: q.Get("partnerId"),
		Status:    q.Get("status"),
	}
	if start, err := parseDate(q.Get("startDate")); err == nil {
		if end, err := parseDate(q.Get("endDate")); err == nil {
			c.DateRange = visibility.DateRange{Start: start, End: end}
		}
	}
	return c
}

// PageFromQuery reads the pagination window, defaulting to page 1, limit 10.
func PageFromQuery(r *http.Request) service.Page {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return service.Page{Number: page, Limit: limit}
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, dErrors.New(dErrors.CodeBadRequest, "empty date")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
