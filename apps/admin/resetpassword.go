package main

import (
	"context"
)

func (cli *commandLine) resetStudentPassword(regNo, pwd string) error {
	return cli.accountSvc.SetStudentPassword(context.Background(), regNo, pwd)
}

func (cli *commandLine) resetTeacherPassword(email, pwd string) error {
	return cli.accountSvc.SetTeacherPassword(context.Background(), email, pwd)
}
