// Package staging owns the scratch directories used while acquiring a
// transcript: one Workspace per attempt, removed on every exit path, plus a
// startup sweep for directories orphaned by a crash.
package staging
