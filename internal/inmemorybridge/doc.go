// Package inmemorybridge provides an ephemeral, thread-safe, in-memory
// implementation of the bridge.Bridge interface.
//
// # Purpose
//
// It backs the "memory" storage mode and is the fake used by session and
// application tests. Nothing survives the process.
//
// # Characteristics
//
//   - **Ephemeral:** Created fresh for each session, not persistent
//   - **Isolated:** Snapshots are deep-copied on the way in and out, so callers
//     can never alias stored lines
//   - **Observable:** Save counts and the last snapshot are exposed for tests
//   - **Fault Injection:** Load and Save failures can be configured to exercise
//     the fallback and warn-only paths
package inmemorybridge
