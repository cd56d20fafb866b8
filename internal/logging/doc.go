// Package logging builds the slog loggers used by the server and CLI.
//
// Two formats are supported: a human-oriented console layout and JSON for
// log shippers. Context helpers attach the request correlation ID, the
// acquisition state, and the video under processing so every line emitted
// for a request can be grepped together.
package logging
