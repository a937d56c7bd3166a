package gameapi

import "time"

// Sleep blocks the calling goroutine for d. It cannot be cancelled and
// always returns; zero or negative durations return immediately. Callers
// use it between polls of GetGame.
func Sleep(d time.Duration) {
	time.Sleep(d)
}
