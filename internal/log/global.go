package log

import (
	"sync/atomic"
)

// installed is the logger of the running command. The process entry point
// reports the final error through it once the command has returned.
var installed atomic.Pointer[Logger]

// SetDefaultLogger installs l as the process logger. nil uninstalls it.
func SetDefaultLogger(l *Logger) {
	installed.Store(l)
}

// DefaultLogger returns the installed logger. Without one it installs and
// returns a stderr logger built from DefaultConfig.
func DefaultLogger() *Logger {
	if l := installed.Load(); l != nil {
		return l
	}
	l := Default()
	if installed.CompareAndSwap(nil, l) {
		return l
	}
	return installed.Load()
}
