package reset

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/onlygrow/identity/internal/account"
)

// ErrInvalid is returned for every ticket that fails verification, whatever
// the underlying reason. Callers must not distinguish further.
var ErrInvalid = errors.New("reset: ticket is invalid")

// Maker mints and checks reset tickets.
type Maker struct {
	cfg Config
	now func() time.Time
}

// NewMaker creates a ticket maker from config.
func NewMaker(cfg Config) (*Maker, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Maker{cfg: cfg, now: time.Now}, nil
}

// Issue mints a ticket bound to the account's current password hash.
func (m *Maker) Issue(a *account.Account) string {
	ts := m.now().Unix()
	return encodeTimestamp(ts) + "-" + m.signature(a, ts)
}

// Check verifies a ticket against the account's current state. It reports
// only pass/fail: a tampered signature, an expired timestamp, and a ticket
// voided by a password change are all ErrInvalid.
func (m *Maker) Check(a *account.Account, ticket string) error {
	tsPart, sig, ok := strings.Cut(ticket, "-")
	if !ok {
		return ErrInvalid
	}
	ts, err := decodeTimestamp(tsPart)
	if err != nil {
		return ErrInvalid
	}

	if !hmac.Equal([]byte(sig), []byte(m.signature(a, ts))) {
		return ErrInvalid
	}
	if m.now().Sub(time.Unix(ts, 0)) > m.cfg.TTL {
		return ErrInvalid
	}
	return nil
}

// signature binds the ticket to the account and its current password hash,
// so changing the password invalidates every outstanding ticket.
func (m *Maker) signature(a *account.Account, ts int64) string {
	mac := hmac.New(sha256.New, []byte(m.cfg.Secret))
	mac.Write([]byte(a.ID.String()))
	mac.Write([]byte{0})
	mac.Write([]byte(a.PasswordHash))
	mac.Write([]byte{0})
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

func encodeTimestamp(ts int64) string {
	return strconv.FormatInt(ts, 36)
}

func decodeTimestamp(s string) (int64, error) {
	return strconv.ParseInt(s, 36, 64)
}

// EncodeUID encodes an account ID for use in a reset link.
func EncodeUID(id uuid.UUID) string {
	return base64.RawURLEncoding.EncodeToString([]byte(id.String()))
}

// DecodeUID decodes a reset-link UID back to an account ID.
func DecodeUID(uid string) (uuid.UUID, error) {
	raw, err := base64.RawURLEncoding.DecodeString(uid)
	if err != nil {
		return uuid.Nil, ErrInvalid
	}
	id, err := uuid.Parse(string(raw))
	if err != nil {
		return uuid.Nil, ErrInvalid
	}
	return id, nil
}
