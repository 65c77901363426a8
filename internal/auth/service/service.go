package service

import (
	"context"
	"errors"
	"time"

	"sajag/internal/audit"
	"sajag/internal/auth"
	"sajag/internal/auth/revocation"
	jwttoken "sajag/internal/jwt_token"
	"sajag/internal/visibility"
	id "sajag/pkg/domain"
	dErrors "sajag/pkg/domain-errors"
	"sajag/pkg/platform/middleware/metadata"
	"sajag/pkg/platform/sentinel"
	"sajag/pkg/requestcontext"
)

// DefaultTokenTTL is how long an access token stays valid. Logout revokes the
// JTI for the same window, so the revocation entry outlives the token.
const DefaultTokenTTL = 12 * time.Hour

// Service implements login, logout, and identity lookup.
type Service struct {
	users    auth.UserStore
	tokens   *jwttoken.JWTService
	trl      revocation.TokenRevocationList
	auditor  audit.Emitter
	tokenTTL time.Duration
}

func New(users auth.UserStore, tokens *jwttoken.JWTService, trl revocation.TokenRevocationList, auditor audit.Emitter) *Service {
	return &Service{
		users:    users,
		tokens:   tokens,
		trl:      trl,
		auditor:  auditor,
		tokenTTL: DefaultTokenTTL,
	}
}

// Identity is the client-facing view of an account. The password hash never
// leaves the service.
type Identity struct {
	ID         string   `json:"id"`
	Email      string   `json:"email"`
	Name       string   `json:"name"`
	Role       string   `json:"role"`
	States     []string `json:"states,omitempty"`
	PartnerIDs []string `json:"partnerIds,omitempty"`
}

func identityOf(u *auth.User) Identity {
	return Identity{
		ID:         u.ID.String(),
		Email:      u.Email,
		Name:       u.Name,
		Role:       string(u.Role),
		States:     u.States,
		PartnerIDs: u.PartnerIDs,
	}
}

// LoginResult carries the minted token and the account it belongs to.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      Identity  `json:"user"`
}

// Login verifies credentials and mints an access token carrying the user's
// role and scopes. A bad email and a bad password produce the same error so
// account existence is not revealed.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load user", err)
	}
	if !user.CheckPassword(password) {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	// Reject accounts whose role/scope pairing is broken before minting a
	// token for them.
	if _, err := user.Principal(); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeForbidden, "account is misconfigured", err)
	}

	token, _, err := s.tokens.GenerateAccessToken(user.ID, user.Role, user.States, user.PartnerIDs, s.tokenTTL)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to mint token", err)
	}

	s.emit(ctx, user, audit.ActionUserLoggedIn)
	return &LoginResult{
		Token:     token,
		ExpiresAt: time.Now().Add(s.tokenTTL),
		User:      identityOf(user),
	}, nil
}

// Logout revokes the caller's current token by JTI. The entry lives exactly
// as long as the token still could, after which the token is dead on its own.
func (s *Service) Logout(ctx context.Context) error {
	jti := requestcontext.JTI(ctx)
	if jti == "" {
		return dErrors.New(dErrors.CodeUnauthorized, "no active token")
	}
	ttl := s.tokenTTL
	if exp := requestcontext.TokenExpiry(ctx); !exp.IsZero() {
		if remaining := time.Until(exp); remaining > 0 {
			ttl = remaining
		}
	}
	if err := s.trl.RevokeToken(ctx, jti, ttl); err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "failed to revoke token", err)
	}
	if user, err := s.users.FindByID(ctx, requestcontext.UserID(ctx)); err == nil {
		s.emit(ctx, user, audit.ActionUserLoggedOut)
	}
	return nil
}

// Me returns the authenticated account.
func (s *Service) Me(ctx context.Context) (*Identity, error) {
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "account no longer exists")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load user", err)
	}
	identity := identityOf(user)
	return &identity, nil
}

// CreateUser provisions an account. Only admins may call it; it backs the
// seed path and the user management endpoint.
func (s *Service) CreateUser(ctx context.Context, principal visibility.Principal, user *auth.User, password string) (*Identity, error) {
	if principal.Role() != visibility.RoleAdmin {
		return nil, dErrors.New(dErrors.CodeForbidden, "admin role required")
	}
	if user.Email == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "email must not be empty")
	}
	if _, err := visibility.NewPrincipal(user.Role, user.States, user.PartnerIDs); err != nil {
		return nil, err
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	if user.ID.IsNil() {
		user.ID = id.NewUserID()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := s.users.Save(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "email already registered")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to save user", err)
	}
	identity := identityOf(user)
	return &identity, nil
}

func (s *Service) emit(ctx context.Context, user *auth.User, action audit.Action) {
	if s.auditor == nil {
		return
	}
	_ = s.auditor.Emit(ctx, audit.Event{
		ActorID:   user.ID.String(),
		Role:      string(user.Role),
		Action:    action,
		Entity:    "user",
		EntityID:  user.ID.String(),
		Detail:    metadata.GetClientIP(ctx),
		RequestID: requestcontext.RequestID(ctx),
	})
}
