package config

import (
	"errors"
)

// Sentinel error kinds returned by Load and Validate; match with errors.Is.
var (
	// ErrInvalidConfig marks values that were read but are unusable.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig marks failures reading or decoding a source.
	ErrLoadConfig = errors.New("load config failed")
)
