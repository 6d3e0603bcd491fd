package logsvc

import (
	"log"

	"github.com/kicentre/madrasa/core"
)

// StdLogger logs to a standard logger only; used in DEV and TEST modes.
type StdLogger struct {
	std     *log.Logger
	enabled bool
}

var _ core.Logger = (*StdLogger)(nil)

func NewStdLogger(std *log.Logger) *StdLogger {
	return &StdLogger{std: std, enabled: true}
}

func (l *StdLogger) Enable(enabled bool) { l.enabled = enabled }

func (l *StdLogger) print(level, msg string, args []interface{}) {
	if !l.enabled {
		return
	}
	l.std.Printf("%s: %s", level, msg)
	for _, arg := range args {
		l.std.Printf("%+v", arg)
	}
}

func (l *StdLogger) Info(msg string, args ...interface{})     { l.print("INFO", msg, args) }
func (l *StdLogger) Warn(msg string, args ...interface{})     { l.print("WARN", msg, args) }
func (l *StdLogger) Error(msg string, args ...interface{})    { l.print("ERROR", msg, args) }
func (l *StdLogger) Critical(msg string, args ...interface{}) { l.print("CRITICAL", msg, args) }
