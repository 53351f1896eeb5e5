package main

import (
	"context"
	"fmt"
	"strconv"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edugrade/portal/core"
	"github.com/edugrade/portal/core/account"
	emailsvc "github.com/edugrade/portal/services/email"
	dummydb "github.com/edugrade/portal/storage/database/dummy"
	testutil "github.com/edugrade/portal/tests"
)

const pwd = "Tr0ub4dor&3"

func setup(t *testing.T) (*commandLine, account.Repository) {
	db, err := dummydb.Open()
	require.NoError(t, err)
	accRepo := dummydb.NewAccountRepository(db)
	validate, _ := testutil.NewValidator()

	// start CLI
	return &commandLine{
		accountSvc: account.NewService(accRepo, emailsvc.NewConsoleServiceMock(core.NewTestConfig()), validate),
	}, accRepo
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func mockPassword(pwd string) {
	readPasswordFunc = func(int) ([]byte, error) { return []byte(pwd), nil }
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _ := setup(t)

	var ran []string
	gooseRunFunc = func(_ *sqlx.DB, command string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		ran = append(ran, command)
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.wantErrStr != "":
				assert.EqualError(t, err, tt.wantErrStr)
			default:
				assert.NoError(t, err)
			}
		})
	}
	assert.Len(t, ran, 10)
}

func Test_commandLine_addTeacher(t *testing.T) {
	cli, accRepo := setup(t)
	ctx := context.Background()

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no email", args: []string{"addteacher", "-name", "Ravi"}, extra: pwd, wantErr: errHelp},
		{name: "no password", args: []string{"addteacher", "-email", "ravi@school.edu"}, wantErr: errHelp},
		{name: "create", args: []string{"addteacher", "-email", "Ravi@School.edu", "-name", "Ravi Kumar"}, extra: pwd},
		{name: "update", args: []string{"addteacher", "-email", "ravi@school.edu", "-name", "Ravi K"}, extra: "n3w-Passw0rd"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		p, _ := tt.extra.(string)
		mockPassword(p)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)

			tch, err := accRepo.GetTeacherByEmail(ctx, "ravi@school.edu")
			require.NoError(t, err)
			assert.Equal(t, tt.args[4], tch.Name)
			assert.NoError(t, tch.CheckPassword(p))
		})
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli, accRepo := setup(t)
	ctx := context.Background()

	testutil.CreateStudent(t, accRepo, "21CS001", "asha@school.edu", pwd)
	testutil.CreateTeacher(t, accRepo, "Ravi", "ravi@school.edu", pwd)

	tests := []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "both accounts", args: []string{"resetpassword", "-student", "21CS001", "-teacher", "ravi@school.edu"}, extra: "lol", wantErr: errHelp},
		{name: "student but no password", args: []string{"resetpassword", "-student", "21CS001"}, wantErr: errHelp},
		{name: "student not found", args: []string{"resetpassword", "-student", "21CS999"}, extra: "lol", wantErr: account.ErrStudentNotFound},
		{name: "teacher not found", args: []string{"resetpassword", "-teacher", "nope@school.edu"}, extra: "lol", wantErr: account.ErrTeacherNotFound},
		{name: "student", args: []string{"resetpassword", "-student", "21CS001"}, extra: "lmao"},
		{name: "teacher", args: []string{"resetpassword", "-teacher", "Ravi@school.edu"}, extra: "mdr"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		p, _ := tt.extra.(string)
		mockPassword(p)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)

			if tt.args[1] == "-student" {
				std, err := accRepo.GetStudentByRegNo(ctx, tt.args[2])
				require.NoError(t, err)
				assert.NoError(t, std.CheckPassword(p))
			} else {
				tch, err := accRepo.GetTeacherByEmail(ctx, "ravi@school.edu")
				require.NoError(t, err)
				assert.NoError(t, tch.CheckPassword(p))
			}
		})
	}
}
