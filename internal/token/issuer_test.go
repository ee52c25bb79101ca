package token

import (
	"context"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/onlygrow/identity/internal/account"
	apperrors "github.com/onlygrow/identity/internal/errors"
)

func testIssuer(t *testing.T, mutate func(*Config)) *Issuer {
	t.Helper()
	cfg := Config{Secret: "test-secret"}
	if mutate != nil {
		mutate(&cfg)
	}
	iss, err := NewIssuer(cfg, NewMemoryRegistry())
	if err != nil {
		t.Fatalf("NewIssuer() error = %v", err)
	}
	return iss
}

func testAccount() *account.Account {
	return &account.Account{ID: uuid.New(), Email: "user@example.com"}
}

func TestNewIssuerRequiresSecret(t *testing.T) {
	if _, err := NewIssuer(Config{}, NewMemoryRegistry()); err == nil {
		t.Error("NewIssuer() with empty secret should fail")
	}
}

func TestIssueAndParseAccess(t *testing.T) {
	iss := testIssuer(t, nil)
	a := testAccount()

	pair, err := iss.Issue(a)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if pair.Access == "" || pair.Refresh == "" {
		t.Fatal("Issue() returned empty token in pair")
	}
	if pair.Access == pair.Refresh {
		t.Error("access and refresh tokens should differ")
	}

	got, err := iss.ParseAccess(pair.Access)
	if err != nil {
		t.Fatalf("ParseAccess() error = %v", err)
	}
	if got != a.ID {
		t.Errorf("ParseAccess() subject = %s, want %s", got, a.ID)
	}
}

func TestParseAccessRejectsRefreshToken(t *testing.T) {
	iss := testIssuer(t, nil)
	pair, err := iss.Issue(testAccount())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	_, err = iss.ParseAccess(pair.Refresh)
	assertTokenError(t, err)
}

func TestRefreshReturnsNewAccessToken(t *testing.T) {
	iss := testIssuer(t, nil)
	a := testAccount()
	pair, err := iss.Issue(a)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	access, err := iss.Refresh(context.Background(), pair.Refresh)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	got, err := iss.ParseAccess(access)
	if err != nil {
		t.Fatalf("ParseAccess() on refreshed token error = %v", err)
	}
	if got != a.ID {
		t.Errorf("refreshed token subject = %s, want %s", got, a.ID)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	iss := testIssuer(t, nil)
	pair, err := iss.Issue(testAccount())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	_, err = iss.Refresh(context.Background(), pair.Access)
	assertTokenError(t, err)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	iss := testIssuer(t, nil)
	_, err := iss.Refresh(context.Background(), "not-a-token")
	assertTokenError(t, err)
}

func TestRefreshRejectsWrongSecret(t *testing.T) {
	iss := testIssuer(t, nil)
	other := testIssuer(t, func(c *Config) { c.Secret = "other-secret" })

	pair, err := other.Issue(testAccount())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	_, err = iss.Refresh(context.Background(), pair.Refresh)
	assertTokenError(t, err)
}

func TestRefreshRejectsExpiredToken(t *testing.T) {
	iss := testIssuer(t, func(c *Config) { c.RefreshTTL = -time.Minute })
	pair, err := iss.Issue(testAccount())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	_, err = iss.Refresh(context.Background(), pair.Refresh)
	assertTokenError(t, err)
}

func TestRefreshRejectsTokenWithoutJTI(t *testing.T) {
	iss := testIssuer(t, nil)

	// Hand-craft a refresh token missing its jti claim.
	now := time.Now()
	claims := Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			Issuer:    iss.cfg.Issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(time.Hour)),
		},
		TokenType: TypeRefresh,
	}
	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(iss.cfg.Secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = iss.Refresh(context.Background(), signed)
	assertTokenError(t, err)
}

func TestRevokeBlocksRefresh(t *testing.T) {
	iss := testIssuer(t, nil)
	pair, err := iss.Issue(testAccount())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := iss.Refresh(context.Background(), pair.Refresh); err != nil {
		t.Fatalf("Refresh() before revoke error = %v", err)
	}
	if err := iss.Revoke(context.Background(), pair.Refresh); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}

	_, err = iss.Refresh(context.Background(), pair.Refresh)
	assertTokenError(t, err)
}

func TestRevokeIsIdempotent(t *testing.T) {
	iss := testIssuer(t, nil)
	pair, err := iss.Issue(testAccount())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := iss.Revoke(context.Background(), pair.Refresh); err != nil {
			t.Fatalf("Revoke() call %d error = %v", i+1, err)
		}
	}
}

func TestRevokeOnlyAffectsOneToken(t *testing.T) {
	iss := testIssuer(t, nil)
	a := testAccount()

	first, err := iss.Issue(a)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	second, err := iss.Issue(a)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if err := iss.Revoke(context.Background(), first.Refresh); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}
	if _, err := iss.Refresh(context.Background(), second.Refresh); err != nil {
		t.Errorf("Refresh() of unrevoked sibling token error = %v", err)
	}
}

func TestVerificationTokenRoundTrip(t *testing.T) {
	iss := testIssuer(t, nil)
	a := testAccount()

	verify, err := iss.IssueVerification(a)
	if err != nil {
		t.Fatalf("IssueVerification() error = %v", err)
	}
	got, err := iss.ParseVerification(verify)
	if err != nil {
		t.Fatalf("ParseVerification() error = %v", err)
	}
	if got != a.ID {
		t.Errorf("ParseVerification() subject = %s, want %s", got, a.ID)
	}

	// A verification token must not open a session.
	if _, err := iss.ParseAccess(verify); err == nil {
		t.Error("ParseAccess() should reject verification tokens")
	}
}

func assertTokenError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	if appErr.Code != apperrors.ErrCodeTokenError {
		t.Errorf("error code = %s, want %s", appErr.Code, apperrors.ErrCodeTokenError)
	}
	if appErr.Message != "token is expired or invalid" {
		t.Errorf("error message = %q, want %q", appErr.Message, "token is expired or invalid")
	}
}
