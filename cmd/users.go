package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"

	"ytcorpus/internal/models"
	"ytcorpus/internal/shared"
)

// UsersList lists backend accounts. Admin-only on the backend side.
func (r *Runner) UsersList(ctx context.Context, cmd *cli.Command) error {
	if err := r.restoreSession(); err != nil {
		return err
	}
	if err := r.requireCapability(models.CapManageUsers); err != nil {
		return err
	}

	page, err := r.client.ListUsers(ctx, 1, 100)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(page, true)
	}

	rows := make([][]string, 0, len(page.Users))
	for _, user := range page.Users {
		rows = append(rows, []string{
			strconv.Itoa(user.ID),
			user.Username,
			string(user.Role),
		})
	}

	r.writePlain("%s\n", renderTable(
		[]string{"ID", "Username", "Role"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft},
	))
	return r.writePlain("%d accounts\n", page.Total)
}

// UsersDelete deletes a backend account.
func (r *Runner) UsersDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := parseIDArg(cmd)
	if err != nil {
		return err
	}

	if err := r.restoreSession(); err != nil {
		return err
	}
	if err := r.requireCapability(models.CapManageUsers); err != nil {
		return err
	}

	page, err := r.client.ListUsers(ctx, 1, 100)
	if err == nil {
		for _, user := range page.Users {
			if user.ID == id && user.Username == r.username {
				return fmt.Errorf("%w: cannot delete the signed-in account", shared.ErrInvalidArgument)
			}
		}
	}

	resp, err := r.client.DeleteUser(ctx, id)
	if err != nil {
		return err
	}

	return r.writePlain("✓ %s\n", resp.Message)
}
