package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/edugrade/portal/core"
	"github.com/edugrade/portal/core/account"
)

// NewValidator returns a validator with the app validators & english translations registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	enLocale := en.New()
	translator, _ := ut.New(enLocale, enLocale).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	account.InitValidators(validate, translator)
	return validate, translator
}

// NopLogger discards everything.
type NopLogger struct{}

var _ core.Logger = NopLogger{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
func (NopLogger) Fatal(string, ...interface{}) {}

func CreateStudent(t *testing.T, repo account.Repository, regNo, email, pwd string, createdAt ...time.Time) account.Student {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	std := account.Student{
		ID:        uuid.NewString(),
		RegNo:     regNo,
		Email:     email,
		CreatedAt: tstamp,
	}
	if err := std.SetPassword(pwd); err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	std, err := repo.CreateStudent(context.Background(), std)
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return std
}

func CreateTeacher(t *testing.T, repo account.Repository, name, email, pwd string, createdAt ...time.Time) account.Teacher {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	tch := account.Teacher{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		CreatedAt: tstamp,
	}
	if err := tch.SetPassword(pwd); err != nil {
		t.Fatalf("CreateTeacher() failed: %v", err)
	}
	tch, err := repo.CreateTeacher(context.Background(), tch)
	if err != nil {
		t.Fatalf("CreateTeacher() failed: %v", err)
	}
	return tch
}
