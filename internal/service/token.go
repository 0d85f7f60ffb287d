package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"dealdesk/internal/domain"
)

// TokenIssuer signs and verifies the HS256 access and refresh tokens.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// Claims is the JWT payload carried by both token kinds.
type Claims struct {
	Email          string `json:"email"`
	Role           string `json:"role"`
	OrganizationID string `json:"organizationId"`
	TokenUse       string `json:"tokenUse"`
	jwt.RegisteredClaims
}

// TokenPair is the access and refresh token issued together at login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// Issue mints a fresh token pair for a user.
func (t *TokenIssuer) Issue(u *domain.User) (*TokenPair, error) {
	access, err := t.sign(u, "access", t.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := t.sign(u, "refresh", t.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(t.accessTTL.Seconds()),
	}, nil
}

func (t *TokenIssuer) sign(u *domain.User, use string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email:          u.Email,
		Role:           string(u.Role),
		OrganizationID: u.OrganizationID,
		TokenUse:       use,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses a token and checks its signature, expiry, and use.
func (t *TokenIssuer) Verify(raw, use string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrUnauthorized("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrUnauthorized("invalid or expired token")
	}
	if claims.TokenUse != use {
		return nil, domain.ErrUnauthorized("token is not a %s token", use)
	}
	return claims, nil
}
