package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"ytcorpus/internal/progress"
	"ytcorpus/internal/shared"
	"ytcorpus/internal/tasks"
	"ytcorpus/internal/ui"
)

// TUI launches the interactive terminal UI for dataset review.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.openDatabase(); err != nil {
		return err
	}

	// A stored session pre-fills the client so the TUI can skip the
	// login form; a missing one just lands on it.
	if err := r.restoreSession(); err != nil {
		r.logger.Debug("no stored session, starting at login", "err", err)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/ytcorpus-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	manager := progress.NewManager(r.dial, fileLogger)
	defer manager.Teardown()

	review := tasks.NewReviewEngine(r.client, r.journal, r.username, fileLogger)
	ingest := tasks.NewIngestEngine(r.client, r.dial, r.journal, r.username, fileLogger)

	model := ui.NewModel(ctx, r.client, review, ingest, manager, r.config, fileLogger)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
