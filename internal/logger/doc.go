// Package logger provides structured logging for the identity service built
// on zerolog.
//
// Usage:
//
//	logger.Init(cfg.Logging)
//	log := logger.WithComponent("identity")
//	log.Info("account created", logger.Fields("email", email))
package logger
