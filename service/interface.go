// Package service defines the lifecycle of long-lived subsystems and the hub
// that starts and stops them in dependency order
package service

// Service is a long-lived subsystem: terminal, audio, config watcher, inspector
//
// Lifecycle:
//  1. Construction
//  2. Init(args...) - configuration from parsed flags and config
//  3. Start() - launch background goroutines
//  4. [runtime operation]
//  5. Stop() - halt goroutines, release resources
type Service interface {
	// Name returns the unique identifier for this service
	Name() string

	// Dependencies returns names of services that must Init before this one
	Dependencies() []string

	// Init configures the service from optional args
	Init(args ...any) error

	// Start begins service operation
	// Called after all services have initialized
	Start() error

	// Stop halts service operation and releases resources
	// Must be idempotent
	Stop() error
}
