// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles local setup operations.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize local database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write a starter config.toml",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path for the config file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// authCommand handles backend authentication.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage backend authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authenticate and store the session cookie locally",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Usage:    "Account username",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Account password (prompted when omitted)",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Invalidate the backend session and drop the stored cookie",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show the current principal and stored session",
				Action: r.AuthStatus,
			},
			{
				Name:  "import-curl",
				Usage: "Import a session cookie from a browser cURL command",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command from browser DevTools (Copy as cURL)",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to .sh file containing the cURL command",
					},
				},
				Action: r.AuthImportCurl,
			},
			{
				Name:  "register",
				Usage: "Create a new account (admin only)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Usage:    "New account username",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "New account password",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "role",
						Usage: "Account role (admin, annotator, viewer)",
						Value: "annotator",
					},
				},
				Action: r.AuthRegister,
			},
		},
	}
}

// datasetsCommand handles dataset directory operations.
func datasetsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "datasets",
		Aliases: []string{"ds"},
		Usage:   "Dataset directory operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List datasets",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "status",
						Usage: "Filter by status (e.g. REVIEW, READY)",
					},
					&cli.StringFlag{
						Name:  "search",
						Usage: "Filter by name substring",
					},
					&cli.IntFlag{
						Name:  "page",
						Usage: "Page number",
						Value: 1,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Page size",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print JSON output",
					},
				},
				Action: r.DatasetsList,
			},
			{
				Name:  "show",
				Usage: "Show one dataset record",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.DatasetsShow,
			},
			{
				Name:  "create",
				Usage: "Ingest a video URL as a new dataset",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "url",
						Usage:    "Video URL to ingest",
						Required: true,
					},
					&cli.FloatFlag{
						Name:  "min-duration",
						Usage: "Minimum segment duration in seconds",
					},
					&cli.FloatFlag{
						Name:  "max-duration",
						Usage: "Maximum segment duration in seconds",
					},
					&cli.BoolFlag{
						Name:  "watch",
						Usage: "Follow processing progress until the dataset settles",
					},
				},
				Action: r.DatasetsCreate,
			},
			{
				Name:  "delete",
				Usage: "Delete a dataset and its samples",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.DatasetsDelete,
			},
			{
				Name:  "transcribe",
				Usage: "Start transcription for a sampled dataset",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "model",
						Usage: "Transcription model name (defaults from config)",
					},
					&cli.BoolFlag{
						Name:  "watch",
						Usage: "Follow transcription progress until the dataset settles",
					},
				},
				Action: r.DatasetsTranscribe,
			},
			{
				Name:  "watch",
				Usage: "Follow a dataset's processing progress until it settles",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.DatasetsWatch,
			},
		},
	}
}

// samplesCommand handles sample review operations.
func samplesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "samples",
		Usage: "Sample review operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List samples belonging to a dataset",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "dataset",
						Aliases:  []string{"d"},
						Usage:    "Dataset ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "status",
						Usage: "Filter by review status (e.g. NEW, REVIEWED)",
					},
					&cli.StringFlag{
						Name:  "search",
						Usage: "Filter by transcription text substring",
					},
					&cli.IntFlag{
						Name:  "page",
						Usage: "Page number",
						Value: 1,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Page size",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SamplesList,
			},
			{
				Name:  "edit",
				Usage: "Replace a sample's transcription text",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "text",
						Usage:    "Corrected transcription text",
						Required: true,
					},
				},
				Action: r.SamplesEdit,
			},
			{
				Name:  "approve",
				Usage: "Approve a sample, optionally saving corrected text first",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "text",
						Usage: "Corrected transcription text to save before approval",
					},
				},
				Action: r.SamplesApprove,
			},
			{
				Name:  "reject",
				Usage: "Reject a sample, returning it to the review queue",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.SamplesReject,
			},
		},
	}
}

// usersCommand handles account management (admin only).
func usersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "Account management (admin only)",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List accounts",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.UsersList,
			},
			{
				Name:  "delete",
				Usage: "Delete an account",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.UsersDelete,
			},
		},
	}
}

// statsCommand reports directory-wide statistics.
func statsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Directory-wide dataset statistics",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
				Value: true,
			},
		},
		Action: r.Stats,
	}
}

// exportCommand writes a dataset and its samples to local files.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export a dataset's samples to local files",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format (csv, markdown, transcript, json)",
				Value:   "csv",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output path (file base or directory depending on format)",
			},
		},
		Action: r.Export,
	}
}

// journalCommand inspects the local review journal.
func journalCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "journal",
		Usage: "Inspect the local review journal",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recorded review actions",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "dataset",
						Aliases: []string{"d"},
						Usage:   "Filter by dataset ID",
					},
					&cli.StringFlag{
						Name:  "action",
						Usage: "Filter by action (approve, reject, edit, ...)",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of entries",
					},
				},
				Action: r.JournalList,
			},
			{
				Name:  "summary",
				Usage: "Count recorded actions per type",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "dataset",
						Aliases: []string{"d"},
						Usage:   "Restrict to one dataset ID",
					},
				},
				Action: r.JournalSummary,
			},
		},
	}
}

// serveCommand runs the local audio handoff proxy.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the local audio playback proxy",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "exclusive",
				Usage: "Stop the previous stream when a new one begins",
				Value: true,
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command for interactive review.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive review TUI",
		Action:  r.TUI,
	}
}
