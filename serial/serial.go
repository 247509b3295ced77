// Package serial provides utilities for working with serial based devices.
package serial

import (
	"io"

	goserial "github.com/jacobsa/go-serial/serial"
)

// Options to be passed to Open(), closely mirrors goserial.OpenOptions.
type Options struct {
	BaudRate int
	DataBits int
	StopBits int

	// ReadTimeout is how many milliseconds a read waits for data before
	// giving up with io.EOF. Zero makes reads block until at least one
	// byte arrives. The underlying library needs at least 100 when set.
	ReadTimeout int
}

// Open attempts to open a serial device on the given path. It's a variable
// in case you need to override it during tests.
var Open = func(devicePath string, options Options) (io.ReadWriteCloser, error) {
	opts := goserial.OpenOptions{
		PortName: devicePath,
		BaudRate: uint(options.BaudRate),
		DataBits: uint(options.DataBits),
		StopBits: uint(options.StopBits),
	}
	if options.ReadTimeout == 0 {
		opts.MinimumReadSize = 1
	} else {
		opts.InterCharacterTimeout = uint(options.ReadTimeout)
	}

	device, err := goserial.Open(opts)
	if err != nil {
		return nil, err
	}

	return device, nil
}
