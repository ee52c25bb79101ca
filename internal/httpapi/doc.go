// Package httpapi is the HTTP transport of the identity service: a Gin
// engine behind an h2c-enabled http.Server, the middleware stack (recovery,
// request ID, request logging, telemetry, bearer auth), and the handlers
// mapping routes onto the identity gate.
//
// Every failure leaves through one responder that turns an AppError into
// its HTTP status and JSON error body, so the error taxonomy is identical
// on every route.
package httpapi
