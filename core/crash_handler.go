package core

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync/atomic"
)

// CrashHandler receives the recovered panic value of a core.Go goroutine
type CrashHandler func(r any)

var crashHandler atomic.Pointer[CrashHandler]

// SetCrashHandler replaces the process crash handler
// Commands install one that restores the terminal before printing
func SetCrashHandler(h CrashHandler) {
	if h == nil {
		crashHandler.Store(nil)
		return
	}
	crashHandler.Store(&h)
}

// HandleCrash routes a recovered panic to the installed handler
// Without a handler the stack trace goes to stderr and the process exits
func HandleCrash(r any) {
	if r == nil {
		return
	}

	if h := crashHandler.Load(); h != nil {
		(*h)(r)
		return
	}

	fmt.Fprintf(os.Stderr, "\r\nCRASH DETECTED: %v\r\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
	os.Exit(1)
}

// Go runs a function in a new goroutine with panic recovery
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
