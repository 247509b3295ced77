package miiabit

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrClosed is returned by operations attempted after Close and before a
// successful Reopen.
var ErrClosed = errors.New("robot connection closed")

// ErrMalformedTelemetry is wrapped into the transport error returned when a
// telemetry frame arrives without its expected marker bytes.
var ErrMalformedTelemetry = errors.New("malformed telemetry frame")

// ValidationError is returned when a user supplied value falls outside what
// the hardware accepts. Nothing is written to the robot.
type ValidationError struct {
	Parameter string
	Value     int
	Allowed   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %d, acceptable values are %s", e.Parameter, e.Value, e.Allowed)
}

// OverflowError is returned when a calibrated value no longer fits in the
// single byte the wire format allows for it. Nothing is written to the robot.
type OverflowError struct {
	Parameter string
	Value     int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("calibrated %s %d does not fit on the wire, must be 0 to 255", e.Parameter, e.Value)
}

// TransportError is returned when the serial link itself fails, or when the
// robot sends back something undecodable.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func newTransportError(op string, err error) error {
	return &TransportError{Op: op, Err: err}
}
