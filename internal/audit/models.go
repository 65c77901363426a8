package audit

import "time"

// Action names the operation an audit event records.
type Action string

const (
	ActionProgramCreated  Action = "program_created"
	ActionProgramUpdated  Action = "program_updated"
	ActionProgramDeleted  Action = "program_deleted"
	ActionProgramsBulkDel Action = "programs_bulk_deleted"
	ActionPartnerCreated  Action = "partner_created"
	ActionPartnerUpdated  Action = "partner_updated"
	ActionPartnerDeleted  Action = "partner_deleted"
	ActionUserLoggedIn    Action = "user_logged_in"
	ActionUserLoggedOut   Action = "user_logged_out"
	ActionExportGenerated Action = "export_generated"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time
	ActorID   string
	Role      string
	Action    Action
	Entity    string
	EntityID  string
	Detail    string
	RequestID string
}
