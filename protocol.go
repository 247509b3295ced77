package miiabit

import (
	"fmt"

	"github.com/pkg/errors"
)

// opCode is the single byte tag the firmware dispatches a command frame on.
type opCode byte

const (
	opBuzzer   opCode = 201
	opMotorA   opCode = 202
	opMotorB   opCode = 203
	opLEDRed   opCode = 204
	opLEDGreen opCode = 205
	opLEDBlue  opCode = 206
	opServo    opCode = 208
)

// Hardware ranges for user supplied values. Everything on the wire is a
// single unsigned byte, so anything outside these ranges never leaves the
// host.
const (
	maxSpeed         = 100
	maxServoPosition = 100
	maxLEDIntensity  = 100
	minCalibration   = -50
	maxCalibration   = 50
	maxWireValue     = 255
)

// Motor identifies one of the two drive motors.
type Motor int

// The motors a MiiA.bit has.
const (
	MotorA Motor = iota
	MotorB
)

func (m Motor) String() string {
	switch m {
	case MotorA:
		return "motor_a"
	case MotorB:
		return "motor_b"
	default:
		return fmt.Sprintf("motor(%d)", int(m))
	}
}

// Direction is the spin direction of a drive motor, encoded on the wire as
// the byte following the motor opcode.
type Direction byte

// The directions the firmware understands.
const (
	Forward Direction = 0
	Reverse Direction = 1
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// The telemetry frame is a fixed six bytes: the button state bracketed by
// 99s followed by the distance reading bracketed by 122s.
const (
	telemetryLength      = 6
	buttonMarker    byte = 99
	distanceMarker  byte = 122
)

// telemetry is one decoded sensor frame.
type telemetry struct {
	Button   byte
	Distance byte
}

func motorOpcode(m Motor) (opCode, error) {
	switch m {
	case MotorA:
		return opMotorA, nil
	case MotorB:
		return opMotorB, nil
	default:
		return 0, &ValidationError{Parameter: "motor", Value: int(m), Allowed: "motor_a and motor_b"}
	}
}

func validateSpeed(speed int) error {
	if speed < 0 || speed > maxSpeed {
		return &ValidationError{Parameter: "speed", Value: speed, Allowed: "0 to 100"}
	}
	return nil
}

func validateDirection(direction Direction) error {
	if direction != Forward && direction != Reverse {
		return &ValidationError{
			Parameter: "direction",
			Value:     int(direction),
			Allowed:   "0 (forward) and 1 (reverse)",
		}
	}
	return nil
}

func validateCalibration(factor int) error {
	if factor < minCalibration || factor > maxCalibration {
		return &ValidationError{Parameter: "calibration factor", Value: factor, Allowed: "-50 to 50"}
	}
	return nil
}

func validateLEDIntensity(channel string, intensity int) error {
	if intensity < 0 || intensity > maxLEDIntensity {
		return &ValidationError{Parameter: channel, Value: intensity, Allowed: "0 to 100"}
	}
	return nil
}

func validateServoPosition(position int) error {
	if position < 0 || position > maxServoPosition {
		return &ValidationError{Parameter: "position", Value: position, Allowed: "0 to 100"}
	}
	return nil
}

// readyCommand is the single zero byte the firmware waits on before it will
// act on anything else.
func readyCommand() []byte {
	return []byte{0}
}

func newBuzzerCommand(on bool) []byte {
	state := byte(0)
	if on {
		state = 1
	}
	return []byte{byte(opBuzzer), state}
}

func newLEDCommand(red, green, blue int) ([]byte, error) {
	if err := validateLEDIntensity("red", red); err != nil {
		return nil, err
	}
	if err := validateLEDIntensity("green", green); err != nil {
		return nil, err
	}
	if err := validateLEDIntensity("blue", blue); err != nil {
		return nil, err
	}
	return []byte{
		byte(opLEDRed), byte(red),
		byte(opLEDGreen), byte(green),
		byte(opLEDBlue), byte(blue),
	}, nil
}

// newMotorCommand validates the requested speed against the documented range
// and the calibrated speed against what fits on the wire. The calibrated
// speed is transmitted as is, without clamping back to 100.
func newMotorCommand(motor Motor, direction Direction, speed, calibration int) ([]byte, error) {
	op, err := motorOpcode(motor)
	if err != nil {
		return nil, err
	}
	if err := validateDirection(direction); err != nil {
		return nil, err
	}
	if err := validateSpeed(speed); err != nil {
		return nil, err
	}
	effective := speed + calibration
	if effective < 0 || effective > maxWireValue {
		return nil, &OverflowError{Parameter: "speed", Value: effective}
	}
	return []byte{byte(op), byte(direction), byte(effective)}, nil
}

func newServoCommand(position int) ([]byte, error) {
	if err := validateServoPosition(position); err != nil {
		return nil, err
	}
	return []byte{byte(opServo), byte(position)}, nil
}

func decodeTelemetry(frame []byte) (telemetry, error) {
	if len(frame) != telemetryLength {
		return telemetry{}, errors.Wrapf(ErrMalformedTelemetry, "expected %d bytes, got %d", telemetryLength, len(frame))
	}
	if frame[0] != buttonMarker || frame[2] != buttonMarker ||
		frame[3] != distanceMarker || frame[5] != distanceMarker {
		return telemetry{}, errors.Wrapf(ErrMalformedTelemetry, "unexpected marker bytes in % x", frame)
	}
	return telemetry{Button: frame[1], Distance: frame[4]}, nil
}
