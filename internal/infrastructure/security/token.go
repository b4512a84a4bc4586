package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/99minutos/user-directory/internal/core/domain"
	"github.com/99minutos/user-directory/internal/core/ports"
)

const (
	defaultTokenTTL = 24 * time.Hour
	defaultIssuer   = "user-directory"
)

var ErrMissingSecret = errors.New("jwt: signing secret is empty")

// tokenClaims is the wire layout of the bearer token. There is deliberately
// no password field.
type tokenClaims struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	CreatedBy string `json:"created_by,omitempty"`
	jwt.RegisteredClaims
}

// JWTIssuer signs HS256 tokens and verifies them with a strict parser.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	issuer string
	parser *jwt.Parser
	now    func() time.Time
}

func NewJWTIssuer(secret string, ttl time.Duration, issuer string) (*JWTIssuer, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	if issuer == "" {
		issuer = defaultIssuer
	}

	return &JWTIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: issuer,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithIssuer(issuer),
		),
		now: time.Now,
	}, nil
}

// Issue signs claims with the configured expiry.
func (i *JWTIssuer) Issue(c ports.Claims) (string, error) {
	now := i.now()
	claims := tokenClaims{
		Name:      c.Name,
		Email:     c.Email,
		Role:      c.Role,
		Status:    c.Status,
		CreatedBy: c.CreatedBy,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.Subject,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm, issuer and expiry.
func (i *JWTIssuer) Verify(token string) (*ports.Claims, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", domain.ErrUnauthorized)
	}

	var claims tokenClaims
	parsed, err := i.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnauthorized, describe(err))
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}

	return &ports.Claims{
		Subject:   claims.Subject,
		Name:      claims.Name,
		Email:     claims.Email,
		Role:      claims.Role,
		Status:    claims.Status,
		CreatedBy: claims.CreatedBy,
	}, nil
}

func describe(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "token has expired"
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return "token not yet valid"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "token is malformed"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "signature is invalid"
	default:
		return "invalid token"
	}
}

var _ ports.TokenIssuer = (*JWTIssuer)(nil)
