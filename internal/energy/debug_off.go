//go:build !debug

package energy

// DebugChecks enables runtime contract checking across the engine.
const DebugChecks = false
