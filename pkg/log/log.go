// Package log defines the logging interface used throughout the
// firmware. The bus emulation hot path never logs; only the loader,
// the file cache and the command line tools do.
package log

import "fmt"

// Logger is satisfied by *logrus.Logger, which the command line tools
// wire in. Library code only ever sees this interface.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

type logger struct {
}

// New returns a plain stdout logger.
func New() Logger {
	return &logger{}
}

func (l *logger) Infof(format string, args ...interface{}) {
	fmt.Printf("[INFO]\t"+format+"\n", args...)
}

func (l *logger) Errorf(format string, args ...interface{}) {
	fmt.Printf("[ERROR]\t"+format+"\n", args...)
}

func (l *logger) Debugf(format string, args ...interface{}) {
	fmt.Printf("[DEBUG]\t"+format+"\n", args...)
}
