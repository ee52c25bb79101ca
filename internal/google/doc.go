// Package google verifies Google ID tokens for federated sign-in.
//
// The Verifier discovers Google's OpenID configuration once at startup and
// caches the JWKS signing keys, refreshing them when a token references an
// unknown key ID. Verify checks the signature, issuer, audience, and expiry
// and returns the identity claims the sign-in flow needs.
//
// Usage:
//
//	verifier, err := google.NewVerifier(ctx, google.Config{
//	    ClientID: "my-app.apps.googleusercontent.com",
//	})
//	if err != nil {
//	    return err
//	}
//
//	id, err := verifier.Verify(ctx, rawIDToken)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(id.Email)
package google
