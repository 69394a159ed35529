package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"ytcorpus/internal/shared"
)

// SetupDatabase initializes the local database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	if err := r.openDatabase(); err != nil {
		return err
	}

	r.logger.Info("database ready", "path", r.config.Database.Path)
	return r.writePlain("✓ Database initialized at %s\n", r.config.Database.Path)
}

// SetupConfig writes a starter config file from the embedded example.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("output")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	return r.writePlain("✓ Config written to %s, edit the backend section before logging in\n", path)
}
