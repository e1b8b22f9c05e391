// Package logger provides structured logging built on zerolog.
//
// The SDK logs through a process-wide logger that defaults to warnings on
// stderr, so embedding applications stay quiet unless they opt in:
//
//	logger.Init(logger.Config{Level: "debug", Format: "console"})
//	log := logger.WithComponent("stream")
//	log.Debug("chunk received", logger.Fields(logger.FieldChunkCount, 3))
//
// A Logger may also be passed explicitly to the client, in which case the
// global one is never consulted.
package logger
