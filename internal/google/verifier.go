package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// ErrAudienceMismatch is returned when a token was minted for a different
// OAuth client. Callers treat it as an authentication failure rather than a
// malformed assertion.
var ErrAudienceMismatch = errors.New("google: token audience mismatch")

// Identity is the verified subset of a Google ID token the sign-in flow
// consumes.
type Identity struct {
	// Subject is Google's stable unique ID for the user.
	Subject string

	// Email is the user's Google account email.
	Email string

	// EmailVerified reports whether Google has verified the email.
	EmailVerified bool

	// Name is the user's display name, when present.
	Name string

	// Picture is the user's avatar URL, when present.
	Picture string
}

type identityClaims struct {
	gojwt.RegisteredClaims
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// Verifier validates Google ID tokens against Google's published JWKS.
type Verifier struct {
	cfg    Config
	issuer string
	jwks   *keyCache
}

// NewVerifier creates a verifier for the configured client ID. It performs
// OpenID discovery to locate the JWKS endpoint, so it needs network access
// at construction time.
func NewVerifier(ctx context.Context, cfg Config) (*Verifier, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	v := &Verifier{
		cfg:    cfg,
		issuer: strings.TrimRight(cfg.Issuer, "/"),
	}
	jwksURI, err := v.discover(ctx)
	if err != nil {
		return nil, fmt.Errorf("google: discovery failed for %s: %w", v.issuer, err)
	}
	v.jwks = newKeyCache(jwksURI, cfg.HTTPClient, cfg.JWKSCacheTTL)

	return v, nil
}

// Verify validates a raw ID token and returns the identity it asserts. It
// checks the RS256 signature against Google's current keys, the issuer, the
// audience, and the expiry.
func (v *Verifier) Verify(ctx context.Context, rawIDToken string) (*Identity, error) {
	claims := &identityClaims{}
	parsed, err := gojwt.ParseWithClaims(rawIDToken, claims,
		func(t *gojwt.Token) (interface{}, error) {
			kid, _ := t.Header["kid"].(string)
			if kid == "" {
				return nil, errors.New("token header missing kid")
			}
			return v.jwks.signingKey(ctx, kid)
		},
		gojwt.WithValidMethods([]string{gojwt.SigningMethodRS256.Alg()}),
		gojwt.WithAudience(v.cfg.ClientID),
	)
	if err != nil || !parsed.Valid {
		if errors.Is(err, gojwt.ErrTokenInvalidAudience) {
			return nil, ErrAudienceMismatch
		}
		return nil, fmt.Errorf("google: verify ID token: %w", err)
	}

	// Google issues tokens with and without the https:// scheme on iss.
	if iss := claims.Issuer; iss != v.issuer && iss != strings.TrimPrefix(v.issuer, "https://") {
		return nil, fmt.Errorf("google: issuer mismatch: got %q, expected %q", iss, v.issuer)
	}
	if claims.Subject == "" {
		return nil, errors.New("google: token missing sub claim")
	}
	if claims.Email == "" {
		return nil, errors.New("google: token missing email claim")
	}

	return &Identity{
		Subject:       claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Name:          claims.Name,
		Picture:       claims.Picture,
	}, nil
}

type discoveryDoc struct {
	Issuer  string `json:"issuer"`
	JWKSUri string `json:"jwks_uri"`
}

func (v *Verifier) discover(ctx context.Context) (string, error) {
	wellKnown := v.issuer + "/.well-known/openid-configuration"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, wellKnown, http.NoBody)
	if err != nil {
		return "", err
	}
	resp, err := v.cfg.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close() //nolint:errcheck // Error on close is safe to ignore for read operations

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("discovery returned %d: %s", resp.StatusCode, string(body))
	}

	var doc discoveryDoc
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return "", fmt.Errorf("decode discovery document: %w", err)
	}
	if doc.JWKSUri == "" {
		return "", errors.New("discovery document missing jwks_uri")
	}
	return doc.JWKSUri, nil
}
