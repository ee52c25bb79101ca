// Package redis provides the Redis client used by the token revocation
// registry. It wraps go-redis with service logging and the usual Config
// conventions.
//
// Redis is the single authority for revocation state: there is no cache in
// front of it, so a revocation that has returned is visible to every
// validation that starts afterwards.
package redis
