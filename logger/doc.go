// Package logger provides structured logging for regexprobe using zerolog.
//
// Logs go to stderr by default so that stdout stays reserved for the result
// document a run emits.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.New(&cfg, "regexprobe").WithComponent("evaluator")
//	log.Info("run complete", logger.Fields(logger.FieldRunID, id))
package logger
