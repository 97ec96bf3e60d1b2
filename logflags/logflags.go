// Package logflags configures the per-subsystem loggers used across the
// gdbstub server: which components log, and at what level, is controlled by
// a single comma-separated flag rather than a global verbosity knob.
package logflags

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var (
	wire       bool
	dispatch   bool
	controller bool

	wireLogger       = makeLogger(false, logrus.Fields{"layer": "wire"})
	dispatchLogger   = makeLogger(false, logrus.Fields{"layer": "dispatch"})
	controllerLogger = makeLogger(false, logrus.Fields{"layer": "controller"})
)

// Setup parses logstr, a comma-separated list of component names ("wire",
// "dispatch", "controller", or "all"), and enables the matching loggers.
// logFlag is the boolean form of the same switch (e.g. -v from the CLI);
// when true with an empty logstr it behaves as "all".
func Setup(logFlag bool, logstr string) error {
	if !logFlag && logstr == "" {
		return nil
	}
	if logstr == "" {
		logstr = "all"
	}

	for _, component := range strings.Split(logstr, ",") {
		switch strings.TrimSpace(component) {
		case "wire":
			wire = true
		case "dispatch":
			dispatch = true
		case "controller":
			controller = true
		case "all":
			wire, dispatch, controller = true, true, true
		default:
			return fmt.Errorf("logflags: unknown component %q", component)
		}
	}

	wireLogger = makeLogger(wire, logrus.Fields{"layer": "wire"})
	dispatchLogger = makeLogger(dispatch, logrus.Fields{"layer": "dispatch"})
	controllerLogger = makeLogger(controller, logrus.Fields{"layer": "controller"})
	return nil
}

// makeLogger builds a logrus.Entry that logs at Debug level when enabled is
// true and at Warn level otherwise, so warnings and errors are emitted
// either way. Output goes to stderr, through a colored writer when stderr
// is a terminal.
func makeLogger(enabled bool, fields logrus.Fields) *logrus.Entry {
	logger := logrus.New()
	logger.Formatter = &logrus.TextFormatter{
		TimestampFormat: "15:04:05.000",
	}

	var out io.Writer = os.Stderr
	if isatty.IsTerminal(os.Stderr.Fd()) {
		out = colorable.NewColorableStderr()
		logger.Formatter.(*logrus.TextFormatter).ForceColors = true
	}
	logger.Out = out

	if enabled {
		logger.Level = logrus.DebugLevel
	} else {
		logger.Level = logrus.WarnLevel
	}

	return logger.WithFields(fields)
}

// WireLogger returns the logger for packet framing and transport traffic.
func WireLogger() *logrus.Entry { return wireLogger }

// DispatchLogger returns the logger for command dispatch decisions.
func DispatchLogger() *logrus.Entry { return dispatchLogger }

// ControllerLogger returns the logger for execution-controller phase
// transitions (vCont continue/step).
func ControllerLogger() *logrus.Entry { return controllerLogger }
