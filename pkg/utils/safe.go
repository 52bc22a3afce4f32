package utils

import (
	"log"
	"runtime/debug"
)

// GoSafe runs fn in a new goroutine and recovers any panic so a single bad
// branch cannot take the process down.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("recovered from panic: %v\n%s", r, debug.Stack())
			}
		}()
		fn()
	}()
}
