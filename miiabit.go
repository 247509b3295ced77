// Package miiabit implements a driver for the MiiA.bit educational robot,
// which is commanded over a serial link with single byte opcodes.
package miiabit

import (
	"context"
	"io"
	"sync"

	"go.uber.org/multierr"
	"go.viam.com/utils"

	"go.viam.com/miiabit/serial"
)

// Robot is a single connected MiiA.bit.
type Robot struct {
	mu     sync.Mutex
	port   io.ReadWriteCloser
	logger utils.ZapCompatibleLogger
	closed bool

	serialPath    string
	baudRate      int
	readTimeoutMs int

	calibration map[Motor]int

	button       byte
	distance     byte
	haveReadings bool
}

// Connect opens the serial link described by conf and sends the readiness
// handshake the firmware waits on before acting on commands. The returned
// robot is ready to drive.
func Connect(ctx context.Context, conf *Config, logger utils.ZapCompatibleLogger) (*Robot, error) {
	if err := conf.Validate(""); err != nil {
		return nil, err
	}
	conf.populateDefaults()

	r := &Robot{
		logger:        logger,
		serialPath:    conf.SerialPath,
		baudRate:      conf.BaudRate,
		readTimeoutMs: conf.ReadTimeoutMs,
		calibration: map[Motor]int{
			MotorA: conf.MotorACalibration,
			MotorB: conf.MotorBCalibration,
		},
	}

	logger.Debug("opening serial connection")
	port, err := r.openPort()
	if err != nil {
		return nil, err
	}
	r.port = port

	if err := r.handshake(); err != nil {
		return nil, multierr.Combine(err, port.Close())
	}
	logger.Debugw("connected to robot", "path", r.serialPath)
	return r, nil
}

func (r *Robot) openPort() (io.ReadWriteCloser, error) {
	return serial.Open(r.serialPath, serial.Options{
		BaudRate:    r.baudRate,
		DataBits:    8,
		StopBits:    1,
		ReadTimeout: r.readTimeoutMs,
	})
}

// The firmware ignores everything until it has seen the zero byte.
func (r *Robot) handshake() error {
	if _, err := r.port.Write(readyCommand()); err != nil {
		return newTransportError("readiness handshake", err)
	}
	return nil
}

// sendFrame must be run inside the lock. The firmware consumes its input a
// byte at a time, so each byte goes out as its own write.
func (r *Robot) sendFrame(op string, frame []byte) error {
	if r.closed {
		return newTransportError(op, ErrClosed)
	}
	for _, b := range frame {
		if _, err := r.port.Write([]byte{b}); err != nil {
			return newTransportError(op, err)
		}
	}
	return nil
}

// SetMotorCalibration stores a speed adjustment for one motor, added to the
// requested speed of every later SetMotorSpeed call on it. Nothing is sent
// to the robot.
func (r *Robot) SetMotorCalibration(motor Motor, factor int) error {
	if _, err := motorOpcode(motor); err != nil {
		return err
	}
	if err := validateCalibration(factor); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calibration[motor] = factor
	return nil
}

// MotorCalibration returns the current speed adjustment for one motor.
func (r *Robot) MotorCalibration(motor Motor) (int, error) {
	if _, err := motorOpcode(motor); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calibration[motor], nil
}

// SetLED sets the chest LED color. Each channel runs 0 to 100; all zeros
// turns the LED off.
func (r *Robot) SetLED(ctx context.Context, red, green, blue int) error {
	frame, err := newLEDCommand(red, green, blue)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sendFrame("set led", frame)
}

// SetBuzzer turns the buzzer on or off.
func (r *Robot) SetBuzzer(ctx context.Context, on bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sendFrame("set buzzer", newBuzzerCommand(on))
}

// SetMotorSpeed spins one motor in the given direction at a speed from 0 to
// 100. The motor's calibration factor is added to the speed before encoding,
// and the sum is what goes on the wire.
func (r *Robot) SetMotorSpeed(ctx context.Context, motor Motor, direction Direction, speed int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	frame, err := newMotorCommand(motor, direction, speed, r.calibration[motor])
	if err != nil {
		return err
	}
	return r.sendFrame("set motor speed", frame)
}

// SetServoPosition moves the servo to a position from 0 to 100; the firmware
// spreads that over the servo's 0 to 180 degree throw.
func (r *Robot) SetServoPosition(ctx context.Context, position int) error {
	frame, err := newServoCommand(position)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sendFrame("set servo position", frame)
}

// ReadSensorData pulls one telemetry frame off the link and refreshes the
// cached button and distance readings. On failure the previous readings are
// left as they were.
func (r *Robot) ReadSensorData(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return newTransportError("read telemetry", ErrClosed)
	}
	var frame [telemetryLength]byte
	if _, err := io.ReadFull(r.port, frame[:]); err != nil {
		return newTransportError("read telemetry", err)
	}
	data, err := decodeTelemetry(frame[:])
	if err != nil {
		return newTransportError("read telemetry", err)
	}
	r.button = data.Button
	r.distance = data.Distance
	r.haveReadings = true
	return nil
}

// InputButtonState returns the last read state of the robot's push button,
// and false until telemetry has been read at least once.
func (r *Robot) InputButtonState() (byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.button, r.haveReadings
}

// DistanceSensor returns the last read value of the robot's distance sensor,
// and false until telemetry has been read at least once.
func (r *Robot) DistanceSensor() (byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.distance, r.haveReadings
}

// Readings reads fresh telemetry and returns it as one readings map.
func (r *Robot) Readings(ctx context.Context) (map[string]interface{}, error) {
	if err := r.ReadSensorData(ctx); err != nil {
		return nil, err
	}
	button, _ := r.InputButtonState()
	distance, _ := r.DistanceSensor()
	return map[string]interface{}{
		"button":   button,
		"distance": distance,
	}, nil
}

// Close releases the serial link. Commands fail until Reopen brings the
// robot back.
func (r *Robot) Close(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.port.Close()
}

// Reopen reestablishes the serial link after a Close and redoes the
// readiness handshake. Calibration factors and cached readings carry over.
// Reopening an open robot does nothing.
func (r *Robot) Reopen(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.closed {
		return nil
	}
	r.logger.Debug("reopening serial connection")
	port, err := r.openPort()
	if err != nil {
		return err
	}
	r.port = port
	if err := r.handshake(); err != nil {
		return multierr.Combine(err, port.Close())
	}
	r.closed = false
	return nil
}
