package main

import (
	"context"
	"fmt"
)

// addTeacher creates the teacher account of email, or resets its name and password.
func (cli *commandLine) addTeacher(name, email, pwd string) error {
	tch, err := cli.accountSvc.UpsertTeacher(context.Background(), name, email, pwd)
	if err != nil {
		return err
	}
	fmt.Printf("teacher %s <%s> saved\n", tch.Name, tch.Email)
	return nil
}
