// Package token mints and validates the session tokens of the identity
// service.
//
// Issue returns a matched pair: a short-lived access token whose validation
// is stateless (signature and expiry only) and a longer-lived refresh token
// carrying a unique jti so it can be individually revoked. Refresh exchanges
// a live refresh token for a fresh access token, consulting the revocation
// Registry on every call.
//
// The Registry is backed by Redis; entries expire together with the token
// they revoke, so the set never needs garbage collection.
package token
