// Package export renders the caller's visible record set as CSV. The export
// goes through the same pipeline as the table, so a download never contains a
// row the caller could not see on screen.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"sajag/internal/program"
	"sajag/internal/visibility"
)

const dateLayout = "2006-01-02"

// VisibleSource yields the filtered record set the principal may see.
type VisibleSource interface {
	VisibleAll(ctx context.Context, principal visibility.Principal, criteria visibility.Criteria) ([]program.TrainingProgram, error)
}

// Service streams program exports.
type Service struct {
	source VisibleSource
}

func New(source VisibleSource) *Service {
	return &Service{source: source}
}

var csvHeader = []string{
	"id", "title", "theme", "status", "state", "district",
	"start_date", "end_date", "participants", "feedback_score",
	"partner_id", "partner_name",
}

// WriteCSV streams the visible set as CSV rows. Rows follow the pipeline's
// output order, so the file matches the on-screen table.
func (s *Service) WriteCSV(ctx context.Context, w io.Writer, principal visibility.Principal, criteria visibility.Criteria) (int, error) {
	visible, err := s.source.VisibleAll(ctx, principal, criteria)
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return 0, fmt.Errorf("write csv header: %w", err)
	}
	for i, rec := range visible {
		if err := cw.Write(csvRow(rec)); err != nil {
			return i, fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return len(visible), fmt.Errorf("flush csv: %w", err)
	}
	return len(visible), nil
}

func csvRow(rec program.TrainingProgram) []string {
	feedback := ""
	if rec.FeedbackScore != nil {
		feedback = strconv.FormatFloat(*rec.FeedbackScore, 'f', 1, 64)
	}
	return []string{
		rec.ID.String(),
		rec.Title,
		rec.Theme,
		string(rec.Status),
		rec.State,
		rec.District,
		rec.StartDate.Format(dateLayout),
		rec.EndDate.Format(dateLayout),
		strconv.Itoa(rec.Participants),
		feedback,
		rec.PartnerID.String(),
		rec.PartnerName,
	}
}
