// Package goroutine starts background work that must not take the process down.
package goroutine

import (
	"runtime/debug"

	"genesiscode/internal/shared/logger"
)

// SafeGo runs fn on its own goroutine. A panic is logged with its stack under name
// and then swallowed.
func SafeGo(log logger.Interface, name string, fn func()) {
	go func() {
		defer Recover(log, name)
		fn()
	}()
}

// Recover is deferred by long-running loops that want SafeGo's panic handling without
// starting a new goroutine.
func Recover(log logger.Interface, name string) {
	if r := recover(); r != nil {
		log.Errorw("goroutine panicked",
			"goroutine", name,
			"panic", r,
			"stack", string(debug.Stack()),
		)
	}
}
