// Package services defines shared utilities consumed by the acquisition
// pipeline and its external tool adapters.
//
// Key responsibilities:
//   - Context helpers that stamp request IDs, acquisition states, and the
//     video under processing for logging.
//   - Structured error markers plus the Wrap helper. The orchestrator decides
//     whether a failure is absorbed (fast path) or surfaced (slow path) by
//     inspecting the marker, and the API layer maps markers to status codes.
package services
