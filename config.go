package miiabit

import (
	"go.viam.com/utils"
)

// Serial link defaults matching the adapter the robot ships with.
const (
	DefaultBaudRate      = 57600
	DefaultReadTimeoutMs = 100
)

// Config describes how to find and talk to a robot.
type Config struct {
	// path to the /dev/ttyXXXX file the robot's serial adapter shows up as
	SerialPath string `json:"serial_path"`

	// the baud rate of the serial link, DefaultBaudRate if unset
	BaudRate int `json:"serial_baud_rate,omitempty"`

	// how long a telemetry read may stall before it fails, DefaultReadTimeoutMs if unset
	ReadTimeoutMs int `json:"read_timeout_ms,omitempty"`

	// speed adjustments applied to the motors from the start, for robots
	// that drift to one side. SetMotorCalibration changes them later.
	MotorACalibration int `json:"motor_a_calibration,omitempty"`
	MotorBCalibration int `json:"motor_b_calibration,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	if cfg.SerialPath == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "serial_path")
	}
	if cfg.BaudRate < 0 {
		return &ValidationError{Parameter: "serial_baud_rate", Value: cfg.BaudRate, Allowed: "0 (default) or greater"}
	}
	if cfg.ReadTimeoutMs != 0 && cfg.ReadTimeoutMs < 100 {
		return &ValidationError{Parameter: "read_timeout_ms", Value: cfg.ReadTimeoutMs, Allowed: "0 (default) or 100 or greater"}
	}
	if cfg.MotorACalibration < minCalibration || cfg.MotorACalibration > maxCalibration {
		return &ValidationError{Parameter: "motor_a_calibration", Value: cfg.MotorACalibration, Allowed: "-50 to 50"}
	}
	if cfg.MotorBCalibration < minCalibration || cfg.MotorBCalibration > maxCalibration {
		return &ValidationError{Parameter: "motor_b_calibration", Value: cfg.MotorBCalibration, Allowed: "-50 to 50"}
	}
	return nil
}

func (cfg *Config) populateDefaults() {
	if cfg.BaudRate == 0 {
		cfg.BaudRate = DefaultBaudRate
	}
	if cfg.ReadTimeoutMs == 0 {
		cfg.ReadTimeoutMs = DefaultReadTimeoutMs
	}
}
