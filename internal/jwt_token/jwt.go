package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"sajag/internal/visibility"
	id "sajag/pkg/domain"
	dErrors "sajag/pkg/domain-errors"
)

// Claims represents the JWT claims for access tokens. Role and scopes ride in
// the token so a request can be authorized without a user lookup.
type Claims struct {
	UserID   string   `json:"user_id"`
	Role     string   `json:"role"`
	States   []string `json:"states,omitempty"`
	Partners []string `json:"partners,omitempty"`
	jwt.RegisteredClaims
}

// Principal rebuilds the access principal from the claims, re-validating the
// role/scope pairing so a malformed token cannot yield an unscoped principal.
func (c *Claims) Principal() (visibility.Principal, error) {
	return visibility.NewPrincipal(visibility.Role(c.Role), c.States, c.Partners)
}

// JWTService handles JWT creation and validation.
type JWTService struct {
	signingKey []byte
	issuer     string
	audience   string
}

func NewJWTService(signingKey string, issuer string, audience string) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
	}
}

// GenerateAccessToken mints a signed token carrying the user's role and
// scopes. The returned JTI identifies the token for revocation.
func (s *JWTService) GenerateAccessToken(
	userID id.UserID,
	role visibility.Role,
	states []string,
	partners []string,
	expiresIn time.Duration) (token string, jti string, err error) {
	jti = uuid.NewString()
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:   userID.String(),
		Role:     string(role),
		States:   states,
		Partners: partners,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        jti,
		},
	})

	token, err = newToken.SignedString(s.signingKey)
	if err != nil {
		return "", "", err
	}
	return token, jti, nil
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	return claims, nil
}

// ExtractUserIDFromToken validates the token and returns its subject user ID.
func (s *JWTService) ExtractUserIDFromToken(tokenString string) (id.UserID, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return id.UserID{}, err
	}
	return id.ParseUserID(claims.UserID)
}
