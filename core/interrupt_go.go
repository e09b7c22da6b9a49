//go:build !tinygo

package core

import "sync"

// State is a placeholder for interrupt state on regular Go
type State uintptr

// On regular Go the receive context is an ordinary goroutine, so critical
// sections are a process-wide mutex. Critical sections must not nest.
var criticalMu sync.Mutex

// disableInterrupts enters a critical section
func disableInterrupts() State {
	criticalMu.Lock()
	return 0
}

// restoreInterrupts leaves the critical section entered by disableInterrupts
func restoreInterrupts(state State) {
	criticalMu.Unlock()
}
