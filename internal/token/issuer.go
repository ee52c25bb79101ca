package token

import (
	"context"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/onlygrow/identity/internal/account"
	apperrors "github.com/onlygrow/identity/internal/errors"
)

// Token types carried in the token_type claim. Each operation accepts
// exactly one type, so an access token can never be replayed as a refresh
// token or the other way around.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
	TypeVerify  = "verify"
)

// Claims is the claim set stamped on every token the issuer signs.
type Claims struct {
	gojwt.RegisteredClaims
	TokenType string `json:"token_type"`
}

// Pair is a matched access/refresh token pair for one account.
type Pair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Issuer mints and validates the service's tokens.
type Issuer struct {
	cfg      Config
	registry Registry
}

// NewIssuer creates an Issuer from config and a revocation registry.
func NewIssuer(cfg Config, registry Registry) (*Issuer, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Issuer{cfg: cfg, registry: registry}, nil
}

// Issue mints a fresh token pair for the account.
func (i *Issuer) Issue(a *account.Account) (*Pair, error) {
	access, err := i.sign(a.ID, TypeAccess, i.cfg.AccessTTL, "")
	if err != nil {
		return nil, err
	}
	refresh, err := i.sign(a.ID, TypeRefresh, i.cfg.RefreshTTL, uuid.NewString())
	if err != nil {
		return nil, err
	}
	return &Pair{Access: access, Refresh: refresh}, nil
}

// IssueVerification mints a single-purpose email-verification token.
func (i *Issuer) IssueVerification(a *account.Account) (string, error) {
	return i.sign(a.ID, TypeVerify, i.cfg.VerifyTTL, "")
}

// Refresh exchanges a live refresh token for a new access token. It fails
// with a TokenError when the token is malformed, expired, of the wrong
// type, or revoked.
func (i *Issuer) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := i.parse(refreshToken, TypeRefresh)
	if err != nil {
		return "", err
	}

	revoked, err := i.registry.Contains(ctx, claims.ID)
	if err != nil {
		return "", apperrors.Internal(err)
	}
	if revoked {
		return "", apperrors.TokenError("token is expired or invalid")
	}

	accountID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return "", apperrors.TokenError("token is expired or invalid")
	}
	return i.sign(accountID, TypeAccess, i.cfg.AccessTTL, "")
}

// Revoke records the refresh token in the registry so every later Refresh
// rejects it. Revoking an already-revoked token is a no-op.
func (i *Issuer) Revoke(ctx context.Context, refreshToken string) error {
	claims, err := i.parse(refreshToken, TypeRefresh)
	if err != nil {
		return err
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		// parse already rejects expired tokens; guard against clock skew
		remaining = time.Second
	}
	if err := i.registry.Add(ctx, claims.ID, remaining); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// ParseAccess validates an access token and returns the account ID it was
// issued to. Validation is stateless: signature, expiry, and type only.
func (i *Issuer) ParseAccess(tokenString string) (uuid.UUID, error) {
	return i.parseSubject(tokenString, TypeAccess)
}

// ParseVerification validates an email-verification token and returns the
// account ID it was issued to.
func (i *Issuer) ParseVerification(tokenString string) (uuid.UUID, error) {
	return i.parseSubject(tokenString, TypeVerify)
}

func (i *Issuer) parseSubject(tokenString, wantType string) (uuid.UUID, error) {
	claims, err := i.parse(tokenString, wantType)
	if err != nil {
		return uuid.Nil, err
	}
	accountID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, apperrors.TokenError("token is expired or invalid")
	}
	return accountID, nil
}

func (i *Issuer) sign(accountID uuid.UUID, tokenType string, ttl time.Duration, jti string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   accountID.String(),
			Issuer:    i.cfg.Issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(ttl)),
			ID:        jti,
		},
		TokenType: tokenType,
	}

	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(i.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("token: sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

func (i *Issuer) parse(tokenString, wantType string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := gojwt.ParseWithClaims(tokenString, claims, i.keyFunc,
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithIssuer(i.cfg.Issuer),
	)
	if err != nil || !parsed.Valid {
		return nil, apperrors.TokenError("token is expired or invalid").WithCause(err)
	}
	if claims.TokenType != wantType {
		return nil, apperrors.TokenError("token is expired or invalid")
	}
	if wantType == TypeRefresh && claims.ID == "" {
		return nil, apperrors.TokenError("token is expired or invalid")
	}
	return claims, nil
}

func (i *Issuer) keyFunc(t *gojwt.Token) (interface{}, error) {
	if t.Method.Alg() != gojwt.SigningMethodHS256.Alg() {
		return nil, fmt.Errorf("token: unexpected signing method: %s", t.Method.Alg())
	}
	return []byte(i.cfg.Secret), nil
}
