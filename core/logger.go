package core

// Logger is the app-wide diagnostic channel. Implementations may forward
// errors to an external monitoring service.
type Logger interface {
	Enable(enabled bool)
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Critical(msg string, args ...interface{})
}
