// Package reset mints and checks one-time password-reset tickets.
//
// A ticket is an HMAC-SHA256 signature over the account ID, the account's
// current password hash, and the issue timestamp, keyed with the service
// secret. Because the current password hash is part of the signed input,
// every outstanding ticket stops verifying the moment the password changes:
// tickets are single-use without any server-side state.
//
// Tickets are encoded as "<base36 timestamp>-<hex signature>" and paired
// with a base64url encoding of the account ID for the reset link.
package reset
