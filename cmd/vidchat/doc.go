// Package main hosts the vidchat CLI entrypoint and command graph.
//
// The Cobra command tree runs the HTTP service (serve), drives one-off
// acquisitions from the terminal (transcribe, polish, chat), reports host
// readiness (status), and scaffolds configuration (config init|validate).
// Configuration resolution and logger setup live here; the pipeline itself
// lives in the internal packages.
package main
