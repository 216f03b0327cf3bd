// Package logging configures the loggo loggers used across brewcart.
package logging

import (
	"github.com/juju/errors"
	"github.com/juju/loggo"
)

// Root is the name every package logger hangs off.
const Root = "brewcart"

// GetLogger returns the logger for a brewcart subsystem, e.g. "storage".
func GetLogger(name string) loggo.Logger {
	return loggo.GetLogger(Root + "." + name)
}

// Configure applies a loggo specification string. An empty spec leaves the
// current configuration alone.
func Configure(spec string) error {
	if spec == "" {
		return nil
	}
	if err := loggo.ConfigureLoggers(spec); err != nil {
		return errors.Annotatef(err, "configuring loggers %q", spec)
	}
	return nil
}
