// Package identity is the registration and login gate of the service. It
// orchestrates the credential store, the password hasher, the token issuer,
// the Google verifier, and the reset-ticket maker behind one Service.
//
// The gate owns the failure order and the exact failure messages of every
// sign-in path. Login walks a fixed ladder: provider mismatch (which
// deliberately discloses the owning provider), bad credentials, inactive
// account, unverified email. Password-reset confirmation is the opposite:
// every failure collapses to one generic message so the endpoint cannot be
// used as an account oracle.
package identity
