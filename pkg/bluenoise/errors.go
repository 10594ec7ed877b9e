package bluenoise

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is wrapped by every *ConfigError.
	ErrInvalidConfig = errors.New("invalid blue noise config")
	// ErrAlreadyGenerated is returned when Generate is called twice on the
	// same Generator.
	ErrAlreadyGenerated = errors.New("generator already used")
	// ErrOnesMismatch reports that the cached ones count drifted from the
	// bitmap. It indicates a bug and aborts the run.
	ErrOnesMismatch = errors.New("cached ones count does not match bitmap")
	// ErrInvalidMap is returned for threshold maps whose data length does not
	// match their dimensions.
	ErrInvalidMap = errors.New("invalid threshold map")
)

// ConfigError describes a single rejected configuration field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidConfig.
func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }
