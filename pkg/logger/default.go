package logger

import (
	"sync"
)

var (
	defaultLogger Logger = NewLogger()
	defaultMux    sync.RWMutex
)

func Default() Logger {
	defaultMux.RLock()
	defer defaultMux.RUnlock()
	return defaultLogger
}

func SetDefault(logger Logger) {
	defaultMux.Lock()
	defer defaultMux.Unlock()
	if logger == nil {
		logger = Nop()
	}
	defaultLogger = logger
}
