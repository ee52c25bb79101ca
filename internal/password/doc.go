// Package password provides password hashing and verification for the
// credential store.
//
// The Hasher interface hides the algorithm from callers; the bcrypt
// implementation is the one the platform ships with. The algorithm choice
// is a platform concern, so nothing above this package depends on it.
//
// Usage:
//
//	hasher := password.NewBcryptHasher()
//	hash, err := hasher.Hash("my-password")
//	err = hasher.Verify("my-password", hash)
package password
