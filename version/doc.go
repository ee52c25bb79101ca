// Package version exposes the build version of the identity service.
//
// Version, git commit, and build time are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/onlygrow/identity/version.Version=1.2.0"
package version
