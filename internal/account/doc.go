// Package account is the credential store: user records keyed by email and
// id, each tagged with the provider that owns the email.
//
// The Store interface is the only thing the rest of the service sees; the
// GORM implementation backs it with postgres in production and sqlite in
// development and tests. The unique index on email enforces the
// one-provider-per-email invariant at the store, so concurrent
// registrations race safely.
package account
