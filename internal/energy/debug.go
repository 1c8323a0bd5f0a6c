package energy

// debugAssert panics on contract violations when the debug build tag is on.
// Release builds assume the algorithm's preconditions and compile the checks
// away.
func debugAssert(cond bool, msg string) {
	if DebugChecks && !cond {
		panic("energy: invariant violation: " + msg)
	}
}
