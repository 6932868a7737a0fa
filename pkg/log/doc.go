// Package log provides structured protocol logging for OpenSRS exchanges.
//
// Protocol capture is separate from operational logging (slog). It records a
// machine-readable trace of every request and response at three layers:
//   - Transport: HTTP exchanges (ExchangeEvent)
//   - Envelope: rendered requests and parsed responses (MessageEvent)
//   - Client: operation outcomes and errors (ErrorEventData)
//
// # Basic Usage
//
//	// For development: log to console via slog
//	cfg.ProtocolLogger = log.NewSlogAdapter(slog.Default())
//
//	// For production: append to a binary file
//	cfg.ProtocolLogger, _ = log.NewFileLogger("/var/log/opensrs/client.olog")
//
//	// Both
//	cfg.ProtocolLogger = log.NewMultiLogger(console, file)
//
// # File Format
//
// Log files are a stream of CBOR-encoded events with integer keys, usually
// with the .olog extension. The opensrs-log tool views, filters and exports
// them.
package log
