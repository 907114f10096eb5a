package main

import (
	"context"

	"github.com/trezcool/shule/core/user"
)

func (cli *commandLine) addFaculty(uname, email, name, title, dept, pwd string, isAdmin bool) error {
	ctx := context.Background()

	nu := user.NewUser{
		Username:   uname,
		Email:      email,
		Password:   pwd,
		Name:       name,
		Title:      title,
		Department: dept,
		Role:       user.RoleFaculty,
		IsAdmin:    isAdmin,
	}
	if isAdmin {
		nu.Role = user.RoleAdmin
	}
	if err := nu.Validate(cli.usrSvc); err != nil {
		return err
	}
	_, err := cli.usrSvc.Create(ctx, nu)
	return err
}
