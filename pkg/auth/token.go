package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Role string

const (
	RoleSuperadmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleStaff      Role = "staff"
	RoleUser       Role = "user"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
	ErrForbidden    = errors.New("access denied")
	ErrInvalidRole  = errors.New("invalid role")
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleSuperadmin, RoleAdmin, RoleStaff, RoleUser:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

// Principal is the authenticated caller. OwnerID is the admin user that owns
// the tenant the caller works for; it is the caller itself for admins.
type Principal struct {
	UserID       int64 `json:"user_id"`
	Role         Role  `json:"role"`
	RestaurantID int64 `json:"restaurant_id,omitempty"`
	OwnerID      int64 `json:"owner_id,omitempty"`
}

func (p Principal) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

type claims struct {
	Role         Role  `json:"role"`
	RestaurantID int64 `json:"rid,omitempty"`
	OwnerID      int64 `json:"oid,omitempty"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock overrides the time source, used by tests.
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	m.now = now
	return m
}

func (m *TokenManager) Issue(p Principal) (string, error) {
	now := m.now()
	c := claims{
		Role:         p.Role,
		RestaurantID: p.RestaurantID,
		OwnerID:      p.OwnerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(p.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (m *TokenManager) Parse(token string) (Principal, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return Principal{}, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	role, err := ParseRole(string(c.Role))
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return Principal{
		UserID:       userID,
		Role:         role,
		RestaurantID: c.RestaurantID,
		OwnerID:      c.OwnerID,
	}, nil
}
