package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/onlygrow/identity/internal/account"
	apperrors "github.com/onlygrow/identity/internal/errors"
	"github.com/onlygrow/identity/internal/google"
	"github.com/onlygrow/identity/internal/logger"
	"github.com/onlygrow/identity/internal/password"
	"github.com/onlygrow/identity/internal/reset"
	"github.com/onlygrow/identity/internal/token"
)

// Failure messages surfaced to clients. The login ladder discloses the
// owning provider on purpose; reset confirmation discloses nothing.
const (
	msgInvalidCredentials = "invalid credentials!"
	msgInactive           = "user is not active!"
	msgUnverified         = "verify your email!"
	msgBadAssertion       = "token is expired or invalid"
	msgBadResetLink       = "the reset link is invalid"
	msgUserNotFound       = "not found any user!"
	msgPasswordTooShort   = "password must be at least 8 characters"
)

// placeholderBytes is the entropy of the unusable credential stored on
// federated accounts. Nobody ever learns it, so password login stays
// impossible for them.
const placeholderBytes = 32

// GoogleVerifier validates a federated sign-in assertion.
type GoogleVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*google.Identity, error)
}

// ResetLink is the UID/ticket pair delivered out of band to reset a
// password.
type ResetLink struct {
	UID    string `json:"uid"`
	Ticket string `json:"ticket"`
}

// Service is the registration and login gate.
type Service struct {
	store    account.Store
	hasher   password.Hasher
	issuer   *token.Issuer
	verifier GoogleVerifier
	tickets  *reset.Maker
	log      *logger.Logger
}

// NewService wires the gate from its collaborators.
func NewService(store account.Store, hasher password.Hasher, issuer *token.Issuer, verifier GoogleVerifier, tickets *reset.Maker, log *logger.Logger) *Service {
	return &Service{
		store:    store,
		hasher:   hasher,
		issuer:   issuer,
		verifier: verifier,
		tickets:  tickets,
		log:      log.WithComponent("identity"),
	}
}

// Register creates a password-based account. It starts unverified and must
// pass email verification before it can log in.
func (s *Service) Register(ctx context.Context, email, username, plaintext string) (*account.Account, error) {
	if email == "" {
		return nil, apperrors.MissingField("email")
	}
	if username == "" {
		return nil, apperrors.MissingField("username")
	}
	if plaintext == "" {
		return nil, apperrors.MissingField("password")
	}
	if len(plaintext) < password.MinLength {
		return nil, apperrors.Validation(msgPasswordTooShort)
	}

	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	a := &account.Account{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		AuthProvider: account.ProviderEmail,
		IsActive:     true,
	}
	if err := s.store.Create(ctx, a); err != nil {
		if errors.Is(err, account.ErrDuplicateEmail) {
			return nil, apperrors.AlreadyExists("account")
		}
		return nil, apperrors.Database(err)
	}

	s.log.Info("account registered", logger.Fields(
		logger.FieldAccountID, a.ID.String(),
		logger.FieldProvider, a.AuthProvider,
	))
	return a, nil
}

// Login authenticates an email/password pair and issues a token pair. The
// checks run in a fixed order and the first failure wins.
func (s *Service) Login(ctx context.Context, email, plaintext string) (*token.Pair, error) {
	if email == "" {
		return nil, apperrors.MissingField("email")
	}
	if plaintext == "" {
		return nil, apperrors.MissingField("password")
	}

	a, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, apperrors.AuthenticationFailed(msgInvalidCredentials)
		}
		return nil, apperrors.Database(err)
	}

	if a.AuthProvider != account.ProviderEmail {
		return nil, apperrors.ProviderMismatch(a.AuthProvider)
	}
	if err := s.hasher.Verify(plaintext, a.PasswordHash); err != nil {
		return nil, apperrors.AuthenticationFailed(msgInvalidCredentials)
	}

	return s.openSession(a)
}

// GoogleLogin authenticates a Google ID token, creating the account on
// first sign-in. Accounts created here are pre-verified and carry an
// unusable placeholder credential, so they can never log in by password.
func (s *Service) GoogleLogin(ctx context.Context, rawIDToken string) (*token.Pair, error) {
	if rawIDToken == "" {
		return nil, apperrors.MissingField("token")
	}

	id, err := s.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		if errors.Is(err, google.ErrAudienceMismatch) {
			return nil, apperrors.AuthenticationFailed("token audience mismatch")
		}
		return nil, apperrors.Validation(msgBadAssertion).WithCause(err)
	}

	a, err := s.store.FindByEmail(ctx, id.Email)
	switch {
	case err == nil:
		if a.AuthProvider != account.ProviderGoogle {
			return nil, apperrors.ProviderMismatch(a.AuthProvider)
		}
	case errors.Is(err, account.ErrNotFound):
		if a, err = s.createFederated(ctx, id); err != nil {
			return nil, err
		}
	default:
		return nil, apperrors.Database(err)
	}

	return s.openSession(a)
}

func (s *Service) createFederated(ctx context.Context, id *google.Identity) (*account.Account, error) {
	placeholder, err := password.GenerateToken(placeholderBytes)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	hash, err := s.hasher.Hash(placeholder)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	a := &account.Account{
		Email:        id.Email,
		Username:     id.Name,
		Image:        id.Picture,
		PasswordHash: hash,
		AuthProvider: account.ProviderGoogle,
		IsActive:     true,
		IsVerified:   true,
	}
	if err := s.store.Create(ctx, a); err != nil {
		if errors.Is(err, account.ErrDuplicateEmail) {
			// lost a race with a concurrent first sign-in
			return nil, apperrors.AlreadyExists("account")
		}
		return nil, apperrors.Database(err)
	}

	s.log.Info("federated account created", logger.Fields(
		logger.FieldAccountID, a.ID.String(),
		logger.FieldProvider, a.AuthProvider,
	))
	return a, nil
}

// openSession runs the account-state checks shared by every login path and
// mints the token pair. Federated logins reach here without a credential
// comparison; that is the only difference between the paths.
func (s *Service) openSession(a *account.Account) (*token.Pair, error) {
	if !a.IsActive {
		return nil, apperrors.AuthenticationFailed(msgInactive)
	}
	if !a.IsVerified {
		return nil, apperrors.AuthenticationFailed(msgUnverified)
	}

	pair, err := s.issuer.Issue(a)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return pair, nil
}

// Logout revokes the refresh token so it can never mint another access
// token. Revoking an already-revoked token succeeds.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return apperrors.MissingField("refresh")
	}
	return s.issuer.Revoke(ctx, refreshToken)
}

// Refresh exchanges a live refresh token for a new access token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", apperrors.MissingField("refresh")
	}
	return s.issuer.Refresh(ctx, refreshToken)
}

// VerifyEmail consumes an email-verification token and marks the account
// verified. Verifying an already-verified account succeeds.
func (s *Service) VerifyEmail(ctx context.Context, tokenString string) (*account.Account, error) {
	if tokenString == "" {
		return nil, apperrors.MissingField("token")
	}

	accountID, err := s.issuer.ParseVerification(tokenString)
	if err != nil {
		return nil, err
	}

	a, err := s.store.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, apperrors.TokenError(msgBadAssertion)
		}
		return nil, apperrors.Database(err)
	}
	if a.IsVerified {
		return a, nil
	}

	a.IsVerified = true
	if err := s.store.Save(ctx, a); err != nil {
		return nil, apperrors.Database(err)
	}

	s.log.Info("email verified", logger.Fields(logger.FieldAccountID, a.ID.String()))
	return a, nil
}

// Profile returns the account behind a validated access token.
func (s *Service) Profile(ctx context.Context, accountID uuid.UUID) (*account.Account, error) {
	a, err := s.store.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, apperrors.AuthenticationFailed(msgUserNotFound)
		}
		return nil, apperrors.Database(err)
	}
	return a, nil
}

// RequestReset mints a reset link for a password-based account. The link is
// returned to the caller for out-of-band delivery; nothing is persisted.
func (s *Service) RequestReset(ctx context.Context, email string) (*ResetLink, error) {
	if email == "" {
		return nil, apperrors.MissingField("email")
	}

	a, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, apperrors.AuthenticationFailed(fmt.Sprintf("%s is not registered!", email))
		}
		return nil, apperrors.Database(err)
	}
	if a.AuthProvider != account.ProviderEmail {
		return nil, apperrors.ProviderMismatch(a.AuthProvider)
	}

	return &ResetLink{
		UID:    reset.EncodeUID(a.ID),
		Ticket: s.tickets.Issue(a),
	}, nil
}

// ConfirmReset checks a reset link and sets the new password. Every link
// failure collapses to one generic message; saving the new password voids
// all outstanding tickets for the account.
func (s *Service) ConfirmReset(ctx context.Context, uid, ticket, plaintext string) error {
	if plaintext == "" {
		return apperrors.MissingField("password")
	}
	if len(plaintext) < password.MinLength {
		return apperrors.Validation(msgPasswordTooShort)
	}

	accountID, err := reset.DecodeUID(uid)
	if err != nil {
		return apperrors.AuthenticationFailed(msgBadResetLink)
	}
	a, err := s.store.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return apperrors.AuthenticationFailed(msgBadResetLink)
		}
		return apperrors.Database(err)
	}
	if err := s.tickets.Check(a, ticket); err != nil {
		return apperrors.AuthenticationFailed(msgBadResetLink)
	}

	if err := s.store.SetPassword(ctx, a, plaintext); err != nil {
		return apperrors.Database(err)
	}

	s.log.Info("password reset", logger.Fields(logger.FieldAccountID, a.ID.String()))
	return nil
}
