// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON lines on stderr for machine parsing
//   - Development: colored console output for human readability
//
// Example Usage:
//
//	logger, err := logging.New("info", false)
//	logger.Info("attached", zap.String("tab_id", id))
//	logger.Error("parse failed", zap.Error(err))
package logging
