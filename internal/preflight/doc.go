// Package preflight provides readiness checks for the host resources and
// external services vidchat depends on.
//
// These checks run in two contexts:
//   - The acquisition pipeline consults AvailableMemory before admitting each
//     request and rejects work when the host is below the configured floor.
//   - The CLI "vidchat status" command runs RunAll and CheckSystemDeps to
//     display binaries, directories, memory and LLM reachability.
package preflight
