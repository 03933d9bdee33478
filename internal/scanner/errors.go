package scanner

import "fmt"

// SetupError is returned when a scanner cannot determine its block range.
// It stops the affected network only.
type SetupError struct {
	Network string
	Stage   string
	Err     error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("scanner %s: failed to %s: %v", e.Network, e.Stage, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}
