package main

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/kicentre/madrasa/core"
	"github.com/kicentre/madrasa/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(uname, email, pwd string, isAdmin bool) error {
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	now := time.Now().UTC()
	usr, err := cli.usrRepo.GetUserByUsernameOrEmail(uname)
	create := false
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		create = true
		usr = user.User{
			ID:        uuid.NewString(),
			Username:  uname,
			Email:     email,
			CreatedAt: now,
		}
	}
	if isAdmin {
		usr.Roles = user.AllRoles
	}
	usr.IsActive = true
	usr.UpdatedAt = now
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}

	if create {
		_, err = cli.usrRepo.CreateUser(usr)
	} else {
		_, err = cli.usrRepo.UpdateUser(usr, nil)
	}
	return err
}
