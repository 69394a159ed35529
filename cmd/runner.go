package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"ytcorpus/internal/api"
	"ytcorpus/internal/models"
	"ytcorpus/internal/progress"
	"ytcorpus/internal/repositories"
	"ytcorpus/internal/shared"
	"ytcorpus/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config   *shared.Config
	client   *api.Client
	dial     progress.Dialer
	logger   *log.Logger
	output   io.Writer
	username string
	role     string

	db       *sql.DB
	sessions *repositories.SessionRepository
	journal  *repositories.JournalRepository
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Client *api.Client
	Dial   progress.Dialer
	DB     *sql.DB
	Logger *log.Logger
	Output io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Client == nil {
		// Zero timeout_seconds leaves requests unbounded so a slow
		// backend holds the view in its loading state instead of failing.
		opts.Client = api.NewClient(api.Options{
			BaseURL:    opts.Config.Backend.BaseURL,
			CookieName: opts.Config.Backend.CookieName,
			HTTPClient: &http.Client{Timeout: opts.Config.Backend.Timeout()},
			Logger:     opts.Logger,
		})
	}
	if opts.Dial == nil {
		opts.Dial = progress.WebsocketDialer(opts.Config.Backend.WSURL)
	}

	r := &Runner{
		config: opts.Config,
		client: opts.Client,
		dial:   opts.Dial,
		logger: opts.Logger,
		output: opts.Output,
		db:     opts.DB,
	}
	if opts.DB != nil {
		r.sessions = repositories.NewSessionRepository(opts.DB)
		r.journal = repositories.NewJournalRepository(opts.DB)
	}
	return r
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, datasetsCommand, samplesCommand, usersCommand, statsCommand, exportCommand, journalCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// openDatabase lazily opens the local database and runs migrations. Safe
// to call from every command action.
func (r *Runner) openDatabase() error {
	if r.db != nil {
		return nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return err
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return err
	}

	r.db = db
	r.sessions = repositories.NewSessionRepository(db)
	r.journal = repositories.NewJournalRepository(db)
	return nil
}

// restoreSession installs the saved backend session cookie on the API
// client. Commands that talk to the backend call this first so a fresh
// shell does not require logging in again.
func (r *Runner) restoreSession() error {
	if err := r.openDatabase(); err != nil {
		return err
	}

	record, err := r.sessions.Load(r.config.Backend.BaseURL)
	if err != nil {
		return err
	}

	r.client.SetSessionCookie(record.CookieValue)
	r.username = record.Username
	r.role = record.Role
	return nil
}

func (r *Runner) reviewEngine() *tasks.ReviewEngine {
	return tasks.NewReviewEngine(r.client, r.journal, r.username, r.logger)
}

func (r *Runner) ingestEngine() *tasks.IngestEngine {
	return tasks.NewIngestEngine(r.client, r.dial, r.journal, r.username, r.logger)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// drainProgress prints engine progress updates to the output writer
// until the channel closes.
func (r *Runner) drainProgress(updates <-chan tasks.ProgressUpdate, done chan<- struct{}) {
	for update := range updates {
		r.writePlain("%s\n", update.Message)
	}
	close(done)
}

// requireCapability refuses gated commands client-side before any
// backend call. An unrecognized stored role defers to the backend.
func (r *Runner) requireCapability(c models.Capability) error {
	role, err := models.ParseRole(r.role)
	if err != nil {
		return nil
	}
	if !role.Can(c) {
		return fmt.Errorf("%w: not permitted for role %s", shared.ErrForbidden, r.role)
	}
	return nil
}

// parseIDArg reads the positional "id" argument as a positive integer.
func parseIDArg(cmd *cli.Command) (int, error) {
	raw := cmd.StringArg("id")
	if raw == "" {
		return 0, fmt.Errorf("%w: id", shared.ErrMissingArgument)
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id %q", shared.ErrInvalidArgument, raw)
	}
	return id, nil
}
