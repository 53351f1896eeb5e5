package logsvc

import (
	"fmt"
	"log"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/edugrade/portal/core"
)

// RollbarLogger writes to a std logger and reports the same entries to Rollbar.
// Args may mix errors, map[string]interface{} extras and at most one core.Identity (the caller).
type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{std: std}
}

// Enable turns Rollbar reporting on or off; the std logger always writes.
func (l *RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

func (l *RollbarLogger) Debug(msg string, args ...interface{}) { l.log(rollbar.DEBUG, msg, args) }
func (l *RollbarLogger) Info(msg string, args ...interface{})  { l.log(rollbar.INFO, msg, args) }
func (l *RollbarLogger) Warn(msg string, args ...interface{})  { l.log(rollbar.WARN, msg, args) }
func (l *RollbarLogger) Error(msg string, args ...interface{}) { l.log(rollbar.ERR, msg, args) }

func (l *RollbarLogger) Fatal(msg string, args ...interface{}) {
	l.log(rollbar.CRIT, msg, args)
	rollbar.Wait()
	l.std.Fatal(msg)
}

func (l *RollbarLogger) log(level, msg string, args []interface{}) {
	report := make([]interface{}, 0, len(args)+1)
	report = append(report, msg)

	var person *core.Identity
	for _, arg := range args {
		if id, ok := arg.(core.Identity); ok {
			if person == nil {
				person = &id
			}
			continue
		}
		report = append(report, arg)
	}
	if person != nil && person.ID != "" {
		rollbar.SetPerson(person.ID, person.Name, person.Email)
	} else {
		rollbar.ClearPerson()
	}
	rollbar.Log(level, report...)

	// depth 3: caller of Debug/Info/...
	_ = l.std.Output(3, fmt.Sprintf("[%s] %s", level, msg))
	for _, arg := range report[1:] {
		_ = l.std.Output(3, fmt.Sprintf("%+v", arg))
	}
}
