package core

// Logger is implemented by the app loggers.
// args are free-form: errors, context maps or the authenticated account (see services/logger).
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Identity is the authenticated caller attached to logged errors.
type Identity struct {
	ID    string // register number for students
	Name  string
	Email string
	Role  string
}
