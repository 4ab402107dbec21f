//
// Copyright (c) 2025-2026 Markku Rossi
//
// All rights reserved.
//

// Package env implements global environment for the code builders
// and encoders.
package env

import (
	"crypto/rand"
	"io"
	"os"
	"runtime"
)

// Config defines the global system configuration. It configures
// matrix construction and encoding for all modules. Config must not
// be modified after being passed to any module.  It is safe for
// concurrent use by multiple modules as they do not modify it.
type Config struct {
	Rand io.Reader

	// Verbose enables debug messages to Log.
	Verbose bool

	// Diagnostics enables timing samples for matrix construction.
	Diagnostics bool

	// Parallel enables the parallel encoder operators. Matrix
	// construction always uses Workers.
	Parallel bool

	// Workers limits the number of goroutines of parallel
	// operations. Zero means runtime.NumCPU.
	Workers int

	// Log receives the debug messages.
	Log io.Writer
}

// GetRandom returns the source of entropy.
func (config *Config) GetRandom() io.Reader {
	if config != nil && config.Rand != nil {
		return config.Rand
	}
	return rand.Reader
}

// GetWorkers returns the number of parallel workers.
func (config *Config) GetWorkers() int {
	if config != nil && config.Workers > 0 {
		return config.Workers
	}
	return runtime.NumCPU()
}

// GetEncodeWorkers returns the number of workers for the encoder
// operators. It returns 1 unless Parallel is set.
func (config *Config) GetEncodeWorkers() int {
	if config == nil || !config.Parallel {
		return 1
	}
	return config.GetWorkers()
}

// GetLog returns the debug message output.
func (config *Config) GetLog() io.Writer {
	if config != nil && config.Log != nil {
		return config.Log
	}
	return os.Stdout
}
