// Package token mints and validates the signed bearer credentials used
// for request authorization. Tokens are stateless: validity is decided
// by signature and expiry alone, never by a registry lookup. A
// deactivated user therefore keeps passing verification until the token
// expires, which is why the access TTL is kept short.
package token

import (
	"time"

	"chatdesk-be/internal/entity"
	"chatdesk-be/internal/pkg/apperr"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Claims struct {
	UserId   uuid.UUID       `json:"user_id"`
	Email    string          `json:"email"`
	Username string          `json:"username"`
	Role     entity.UserRole `json:"role"`
	jwt.RegisteredClaims
}

type Pair struct {
	AccessToken  string
	RefreshToken string
}

type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (i *Issuer) sign(user *entity.User, ttl time.Duration) (string, error) {
	now := i.now()
	claims := Claims{
		UserId:   user.Id,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Issue mints an access/refresh pair for the user.
func (i *Issuer) Issue(user *entity.User) (*Pair, error) {
	access, err := i.sign(user, i.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := i.sign(user, i.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &Pair{AccessToken: access, RefreshToken: refresh}, nil
}

// Verify checks signature and expiry. Expired and tampered tokens yield
// the same generic error so the response never acts as an oracle.
func (i *Issuer) Verify(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, apperr.Authentication("invalid or expired token")
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, apperr.Authentication("invalid or expired token")
	}
	return claims, nil
}

// Refresh verifies a refresh token and mints a fresh access token for
// the same identity.
func (i *Issuer) Refresh(refreshToken string) (string, error) {
	claims, err := i.Verify(refreshToken)
	if err != nil {
		return "", err
	}
	user := &entity.User{
		Id:       claims.UserId,
		Email:    claims.Email,
		Username: claims.Username,
		Role:     claims.Role,
	}
	return i.sign(user, i.accessTTL)
}

func (i *Issuer) AccessTTL() time.Duration {
	return i.accessTTL
}
