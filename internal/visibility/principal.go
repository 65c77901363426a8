package visibility

import (
	"sort"
	"strings"

	id "sajag/pkg/domain"
	dErrors "sajag/pkg/domain-errors"
)

// Role is the closed set of access roles. Scoping behavior is decided by an
// explicit switch on this set, never by whether a scope set happens to be
// empty.
type Role string

const (
	// RoleAdmin sees and manages everything. The bypass is unconditional:
	// whatever scope sets an admin carries are ignored.
	RoleAdmin Role = "admin"

	// RoleViewer sees everything but cannot mutate. This replaces the
	// ambiguous "non-admin with no scopes" case: unrestricted read access
	// must be requested by name.
	RoleViewer Role = "viewer"

	// RoleRegionManager sees records in its scoped states only.
	RoleRegionManager Role = "region_manager"

	// RolePartnerUser sees records belonging to its scoped partners only.
	RolePartnerUser Role = "partner_user"
)

// ParseRole validates an incoming role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleViewer, RoleRegionManager, RolePartnerUser:
		return Role(s), nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unknown role: "+s)
}

// Principal is the authenticated actor whose role and scopes determine the
// visible record set. It is derived once per request from token claims and is
// immutable afterwards; the pipeline only ever reads it.
//
// Principal is comparable, so it can key the selector cache directly. Scope
// sets are stored as sorted, unit-separator-joined strings to keep equality
// structural rather than positional.
type Principal struct {
	role     Role
	states   string
	partners string
}

const scopeSep = "\x1f"

func joinScopes(scopes []string) string {
	seen := make(map[string]struct{}, len(scopes))
	uniq := make([]string, 0, len(scopes))
	for _, s := range scopes {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		uniq = append(uniq, s)
	}
	sort.Strings(uniq)
	return strings.Join(uniq, scopeSep)
}

func splitScopes(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, scopeSep)
}

// Admin constructs the unrestricted admin principal.
func Admin() Principal { return Principal{role: RoleAdmin} }

// Viewer constructs the unrestricted read-only principal.
func Viewer() Principal { return Principal{role: RoleViewer} }

// RegionManager constructs a principal scoped to the given states. At least
// one non-empty state is required; a region manager with nothing to manage is
// a configuration error, not an unrestricted account.
func RegionManager(states ...string) (Principal, error) {
	joined := joinScopes(states)
	if joined == "" {
		return Principal{}, dErrors.New(dErrors.CodeInvalidInput, "region manager requires at least one state")
	}
	return Principal{role: RoleRegionManager, states: joined}, nil
}

// PartnerUser constructs a principal scoped to the given partner IDs.
func PartnerUser(partnerIDs ...id.PartnerID) (Principal, error) {
	raw := make([]string, len(partnerIDs))
	for i, p := range partnerIDs {
		raw[i] = p.String()
	}
	joined := joinScopes(raw)
	if joined == "" {
		return Principal{}, dErrors.New(dErrors.CodeInvalidInput, "partner user requires at least one partner")
	}
	return Principal{role: RolePartnerUser, partners: joined}, nil
}

// NewPrincipal builds a principal from raw claim values, enforcing the
// role/scope pairing rules in one place.
func NewPrincipal(role Role, states []string, partnerIDs []string) (Principal, error) {
	switch role {
	case RoleAdmin:
		return Admin(), nil
	case RoleViewer:
		return Viewer(), nil
	case RoleRegionManager:
		return RegionManager(states...)
	case RolePartnerUser:
		ids := make([]id.PartnerID, len(partnerIDs))
		for i, p := range partnerIDs {
			ids[i] = id.PartnerID(p)
		}
		return PartnerUser(ids...)
	}
	return Principal{}, dErrors.New(dErrors.CodeInvalidInput, "unknown role: "+string(role))
}

// Role returns the principal's role.
func (p Principal) Role() Role { return p.role }

// States returns the scoped states, nil for unscoped roles.
func (p Principal) States() []string { return splitScopes(p.states) }

// PartnerIDs returns the scoped partner IDs, nil for unscoped roles.
func (p Principal) PartnerIDs() []string { return splitScopes(p.partners) }

// Unrestricted reports whether the principal bypasses scoping entirely.
func (p Principal) Unrestricted() bool {
	return p.role == RoleAdmin || p.role == RoleViewer
}

// CanMutate reports whether the principal may create, update, or delete
// records. Viewers are read-only; scoped roles mutate within their scope.
func (p Principal) CanMutate() bool { return p.role != RoleViewer }

func (p Principal) allowsState(state string) bool {
	if p.states == "" {
		return true
	}
	for _, s := range splitScopes(p.states) {
		if s == state {
			return true
		}
	}
	return false
}

func (p Principal) allowsPartner(partnerID id.PartnerID) bool {
	if p.partners == "" {
		return true
	}
	for _, s := range splitScopes(p.partners) {
		if s == partnerID.String() {
			return true
		}
	}
	return false
}
