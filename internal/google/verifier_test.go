package google

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

const testClientID = "test-client.apps.googleusercontent.com"

// fakeProvider serves an OpenID discovery document and a JWKS endpoint for
// keys registered with addKey.
type fakeProvider struct {
	server *httptest.Server

	mu   sync.Mutex
	keys map[string]*rsa.PrivateKey
}

func newFakeProvider(t *testing.T) *fakeProvider {
	t.Helper()
	p := &fakeProvider{keys: make(map[string]*rsa.PrivateKey)}

	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"issuer":   p.server.URL,
			"jwks_uri": p.server.URL + "/certs",
		})
	})
	mux.HandleFunc("/certs", func(w http.ResponseWriter, _ *http.Request) {
		p.mu.Lock()
		defer p.mu.Unlock()
		var doc jwksDoc
		for kid, key := range p.keys {
			doc.Keys = append(doc.Keys, jwk{
				Kty: "RSA",
				Kid: kid,
				Use: "sig",
				N:   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
				E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
			})
		}
		json.NewEncoder(w).Encode(doc)
	})

	p.server = httptest.NewServer(mux)
	t.Cleanup(p.server.Close)
	return p
}

func (p *fakeProvider) addKey(t *testing.T, kid string) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate RSA key: %v", err)
	}
	p.mu.Lock()
	p.keys[kid] = key
	p.mu.Unlock()
	return key
}

type tokenOpts struct {
	issuer   string
	audience string
	subject  string
	email    string
	expires  time.Time
}

func (p *fakeProvider) signToken(t *testing.T, kid string, key *rsa.PrivateKey, opts tokenOpts) string {
	t.Helper()
	if opts.issuer == "" {
		opts.issuer = p.server.URL
	}
	if opts.audience == "" {
		opts.audience = testClientID
	}
	if opts.subject == "" {
		opts.subject = "108012345678901234567"
	}
	if opts.email == "" {
		opts.email = "user@gmail.com"
	}
	if opts.expires.IsZero() {
		opts.expires = time.Now().Add(time.Hour)
	}

	claims := identityClaims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    opts.issuer,
			Subject:   opts.subject,
			Audience:  gojwt.ClaimStrings{opts.audience},
			IssuedAt:  gojwt.NewNumericDate(time.Now()),
			ExpiresAt: gojwt.NewNumericDate(opts.expires),
		},
		Email:         opts.email,
		EmailVerified: true,
		Name:          "Test User",
		Picture:       "https://lh3.googleusercontent.com/a/photo",
	}

	token := gojwt.NewWithClaims(gojwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func newTestVerifier(t *testing.T, p *fakeProvider) *Verifier {
	t.Helper()
	v, err := NewVerifier(context.Background(), Config{
		ClientID: testClientID,
		Issuer:   p.server.URL,
	})
	if err != nil {
		t.Fatalf("NewVerifier() error = %v", err)
	}
	return v
}

func TestNewVerifierRequiresClientID(t *testing.T) {
	if _, err := NewVerifier(context.Background(), Config{}); err == nil {
		t.Error("NewVerifier() without client ID should fail")
	}
}

func TestVerifyValidToken(t *testing.T) {
	p := newFakeProvider(t)
	key := p.addKey(t, "key-1")
	v := newTestVerifier(t, p)

	raw := p.signToken(t, "key-1", key, tokenOpts{email: "alice@gmail.com"})
	id, err := v.Verify(context.Background(), raw)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if id.Email != "alice@gmail.com" {
		t.Errorf("Email = %q, want %q", id.Email, "alice@gmail.com")
	}
	if id.Subject == "" {
		t.Error("Subject is empty")
	}
	if !id.EmailVerified {
		t.Error("EmailVerified = false, want true")
	}
	if id.Name != "Test User" {
		t.Errorf("Name = %q, want %q", id.Name, "Test User")
	}
}

func TestVerifyRejectsWrongAudience(t *testing.T) {
	p := newFakeProvider(t)
	key := p.addKey(t, "key-1")
	v := newTestVerifier(t, p)

	raw := p.signToken(t, "key-1", key, tokenOpts{audience: "someone-else.apps.googleusercontent.com"})
	_, err := v.Verify(context.Background(), raw)
	if err == nil {
		t.Fatal("Verify() should reject a token for another audience")
	}
	if !errors.Is(err, ErrAudienceMismatch) {
		t.Errorf("error = %v, want ErrAudienceMismatch", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	p := newFakeProvider(t)
	key := p.addKey(t, "key-1")
	v := newTestVerifier(t, p)

	raw := p.signToken(t, "key-1", key, tokenOpts{expires: time.Now().Add(-time.Minute)})
	if _, err := v.Verify(context.Background(), raw); err == nil {
		t.Error("Verify() should reject an expired token")
	}
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	p := newFakeProvider(t)
	key := p.addKey(t, "key-1")
	v := newTestVerifier(t, p)

	raw := p.signToken(t, "key-1", key, tokenOpts{issuer: "https://evil.example.com"})
	if _, err := v.Verify(context.Background(), raw); err == nil {
		t.Error("Verify() should reject a token from another issuer")
	}
}

func TestVerifyRejectsUnknownKey(t *testing.T) {
	p := newFakeProvider(t)
	p.addKey(t, "key-1")
	v := newTestVerifier(t, p)

	// Signed by a key the provider never published.
	rogue, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate RSA key: %v", err)
	}
	raw := p.signToken(t, "rogue-key", rogue, tokenOpts{})
	if _, err := v.Verify(context.Background(), raw); err == nil {
		t.Error("Verify() should reject a token signed by an unpublished key")
	}
}

func TestVerifyRejectsSymmetricAlg(t *testing.T) {
	p := newFakeProvider(t)
	p.addKey(t, "key-1")
	v := newTestVerifier(t, p)

	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.RegisteredClaims{
		Issuer:    p.server.URL,
		Subject:   "123",
		Audience:  gojwt.ClaimStrings{testClientID},
		ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token.Header["kid"] = "key-1"
	raw, err := token.SignedString([]byte("shared-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := v.Verify(context.Background(), raw); err == nil {
		t.Error("Verify() should reject HS256 tokens")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	p := newFakeProvider(t)
	p.addKey(t, "key-1")
	v := newTestVerifier(t, p)

	if _, err := v.Verify(context.Background(), "not-a-token"); err == nil {
		t.Error("Verify() should reject a malformed token")
	}
}

func TestVerifyRefreshesRotatedKeys(t *testing.T) {
	p := newFakeProvider(t)
	key1 := p.addKey(t, "key-1")
	v := newTestVerifier(t, p)

	// Warm the cache with the first key.
	if _, err := v.Verify(context.Background(), p.signToken(t, "key-1", key1, tokenOpts{})); err != nil {
		t.Fatalf("Verify() with key-1 error = %v", err)
	}

	// A token under a freshly rotated key forces a JWKS refetch.
	key2 := p.addKey(t, "key-2")
	if _, err := v.Verify(context.Background(), p.signToken(t, "key-2", key2, tokenOpts{})); err != nil {
		t.Errorf("Verify() after key rotation error = %v", err)
	}
}
