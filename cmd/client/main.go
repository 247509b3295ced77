// Package main contains a command to drive a MiiA.bit robot.
package main

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/edaniels/golog"

	"go.viam.com/utils"

	"go.viam.com/miiabit"

	"go.uber.org/multierr"
)

var logger utils.ZapCompatibleLogger = golog.NewDevelopmentLogger("miiabit_client")

func main() {
	utils.ContextualMainQuit(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	DevicePath string `flag:"device,usage=serial device path"`
	Baud       int    `flag:"baud,usage=serial baud rate"`
	Buzz       bool   `flag:"buzz,usage=sound the buzzer until signaled"`
	Demo       bool   `flag:"demo,usage=run a short movement demo first"`
}

func mainWithArgs(ctx context.Context, args []string, logger utils.ZapCompatibleLogger) error {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}

	if argsParsed.DevicePath == "" {
		return errors.New("no device path provided")
	}

	conf := &miiabit.Config{
		SerialPath: argsParsed.DevicePath,
		BaudRate:   argsParsed.Baud,
	}
	return runRobot(ctx, conf, argsParsed.Buzz, argsParsed.Demo)
}

func runRobot(ctx context.Context, conf *miiabit.Config, buzz, demo bool) (err error) {
	robot, err := miiabit.Connect(ctx, conf, logger)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, robot.Close(ctx))
	}()

	if buzz {
		utils.ContextMainReadyFunc(ctx)()
		if err := robot.SetBuzzer(ctx, true); err != nil {
			return err
		}
		quitSignaler := utils.ContextMainQuitSignal(ctx)
		<-quitSignaler
		if err := robot.SetBuzzer(ctx, false); err != nil {
			return err
		}
	}

	if demo {
		if err := runDemo(ctx, robot); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	var once bool
	for {
		err := func() error {
			defer utils.ContextMainIterFunc(ctx)()
			if !once {
				once = true
				defer utils.ContextMainReadyFunc(ctx)()
			}
			if !utils.SelectContextOrWaitChan(ctx, ticker.C) {
				return ctx.Err()
			}

			readings, err := robot.Readings(ctx)
			if err != nil {
				logger.Errorw("failed to read telemetry", "error", err)
			} else {
				logger.Infow("readings", "data", readings)
			}
			return nil
		}()
		if err != nil {
			return err
		}
	}
}

// runDemo drives around for a bit with the LED on and sweeps the servo.
func runDemo(ctx context.Context, robot *miiabit.Robot) error {
	if err := robot.SetLED(ctx, 0, 100, 0); err != nil {
		return err
	}
	if err := robot.SetMotorSpeed(ctx, miiabit.MotorA, miiabit.Forward, 50); err != nil {
		return err
	}
	if err := robot.SetMotorSpeed(ctx, miiabit.MotorB, miiabit.Forward, 50); err != nil {
		return err
	}
	if !utils.SelectContextOrWait(ctx, 500*time.Millisecond) {
		return ctx.Err()
	}
	if err := robot.SetMotorSpeed(ctx, miiabit.MotorA, miiabit.Reverse, 50); err != nil {
		return err
	}
	if err := robot.SetMotorSpeed(ctx, miiabit.MotorB, miiabit.Reverse, 50); err != nil {
		return err
	}
	if !utils.SelectContextOrWait(ctx, 500*time.Millisecond) {
		return ctx.Err()
	}
	if err := robot.SetMotorSpeed(ctx, miiabit.MotorA, miiabit.Forward, 0); err != nil {
		return err
	}
	if err := robot.SetMotorSpeed(ctx, miiabit.MotorB, miiabit.Forward, 0); err != nil {
		return err
	}
	for _, position := range []int{100, 0, 50} {
		if err := robot.SetServoPosition(ctx, position); err != nil {
			return err
		}
		if !utils.SelectContextOrWait(ctx, 500*time.Millisecond) {
			return ctx.Err()
		}
	}
	return robot.SetLED(ctx, 0, 0, 0)
}
