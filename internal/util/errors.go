package util

import "errors"

// Sentinel errors for common failure modes
var (
	// ErrUnknownDialect indicates an unrecognized SQL dialect name
	ErrUnknownDialect = errors.New("unknown dialect")

	// ErrUnknownVersion indicates an unrecognized schema version name
	ErrUnknownVersion = errors.New("unknown schema version")

	// ErrInvalidConfig indicates invalid database configuration
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrVerifyFailed indicates the live schema diverges from the declared one
	ErrVerifyFailed = errors.New("schema verification failed")
)
