package config

import "errors"

// Sentinel error kinds for this package, usable with errors.Is from callers.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadTables    = errors.New("load calibration tables failed")
)
