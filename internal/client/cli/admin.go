package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/lostfound/internal/client/forms"
	"github.com/dmitrijs2005/lostfound/internal/client/models"
)

func (a *App) ListUsers(ctx context.Context, args []string) error {
	a.println("Loading...")
	users, err := a.admin.ListUsers(ctx, models.ListQuery{Search: strings.Join(args, " ")})
	if err != nil {
		return err
	}
	if len(users) == 0 {
		a.println("No users found.")
		return nil
	}
	for _, u := range users {
		state := "active"
		if !u.IsActive {
			state = "inactive"
		}
		a.printf("%s  %s  %s\n", u.ID, describeUser(&u), state)
	}
	return nil
}

func (a *App) SetActive(ctx context.Context, args []string) error {
	active, err := strconv.ParseBool(args[1])
	if err != nil {
		return fmt.Errorf("expected true or false, got %q", args[1])
	}
	u, err := a.admin.SetActive(ctx, args[0], active)
	if err != nil {
		return err
	}
	if u.IsActive {
		a.println("Activated", describeUser(u))
	} else {
		a.println("Deactivated", describeUser(u))
	}
	return nil
}

func (a *App) SetRole(ctx context.Context, args []string) error {
	u, err := a.admin.SetRole(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	a.println("Updated", describeUser(u))
	return nil
}

func (a *App) AddStaff(ctx context.Context, _ []string) error {
	var f forms.StaffForm
	var err error
	if f.FullName, err = a.ask("Full name"); err != nil {
		return err
	}
	if f.Email, err = a.ask("Email"); err != nil {
		return err
	}
	if f.Phone, err = a.ask("Phone (optional)"); err != nil {
		return err
	}
	if f.Password, err = a.askPassword("Initial password"); err != nil {
		return err
	}
	u, err := a.admin.CreateStaff(ctx, f)
	if err != nil {
		return err
	}
	a.println("Created", describeUser(u))
	return nil
}
