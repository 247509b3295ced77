package miiabit

import (
	"sync"

	"github.com/pkg/errors"
)

// RawRobot is a fake MiiA.bit for use as the far end of the serial link in
// tests and demos. It records every byte written to it and serves telemetry
// frames built from the values handed to SetInputButton and SetDistance.
type RawRobot struct {
	mu        sync.Mutex
	written   [][]byte
	pending   []byte
	button    byte
	distance  byte
	failAfter int
	ops       int
	closed    bool
}

// NewRawRobot returns a fake robot that never fails on its own.
func NewRawRobot() *RawRobot {
	return &RawRobot{failAfter: -1}
}

// SetInputButton sets the button state served in later telemetry frames.
func (rr *RawRobot) SetInputButton(state byte) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	rr.button = state
}

// SetDistance sets the distance reading served in later telemetry frames.
func (rr *RawRobot) SetDistance(value byte) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	rr.distance = value
}

// SetFailAfter makes reads and writes start failing once the given number of
// further calls have gone through. Negative means never fail.
func (rr *RawRobot) SetFailAfter(count int) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	rr.failAfter = count
	rr.ops = 0
}

// Writes returns the payload of every Write call so far, one entry per call.
func (rr *RawRobot) Writes() [][]byte {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	out := make([][]byte, len(rr.written))
	copy(out, rr.written)
	return out
}

// Bytes returns every byte written so far, in order.
func (rr *RawRobot) Bytes() []byte {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	var out []byte
	for _, w := range rr.written {
		out = append(out, w...)
	}
	return out
}

// Must be run inside the lock.
func (rr *RawRobot) failNow() bool {
	if rr.failAfter < 0 {
		return false
	}
	rr.ops++
	return rr.ops > rr.failAfter
}

func (rr *RawRobot) Read(p []byte) (int, error) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	if rr.closed {
		return 0, errors.New("read on closed raw robot")
	}
	if rr.failNow() {
		return 0, errors.New("read failed")
	}
	if len(rr.pending) == 0 {
		rr.pending = []byte{
			buttonMarker, rr.button, buttonMarker,
			distanceMarker, rr.distance, distanceMarker,
		}
	}
	n := copy(p, rr.pending)
	rr.pending = rr.pending[n:]
	return n, nil
}

func (rr *RawRobot) Write(p []byte) (int, error) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	if rr.closed {
		return 0, errors.New("write on closed raw robot")
	}
	if rr.failNow() {
		return 0, errors.New("write failed")
	}
	buf := make([]byte, len(p))
	copy(buf, p)
	rr.written = append(rr.written, buf)
	return len(p), nil
}

func (rr *RawRobot) Close() error {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	rr.closed = true
	return nil
}
