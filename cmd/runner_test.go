package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v3"

	"ytcorpus/internal/api"
	"ytcorpus/internal/repositories"
	"ytcorpus/internal/shared"
	tu "ytcorpus/internal/testing"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			client := api.NewClient(api.Options{})
			db := setupTestDB(t)

			runner := NewRunner(RunnerOpts{
				Config: config,
				Logger: logger,
				Output: output,
				Client: client,
				DB:     db,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.client != client {
				t.Error("expected client to be set")
			}
			if runner.sessions == nil || runner.journal == nil {
				t.Error("expected repositories to be initialized from the provided database")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil client builds one from config", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Client: nil})

			if runner.client == nil {
				t.Error("expected a default API client")
			}
			if runner.dial == nil {
				t.Error("expected a default websocket dialer")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			expected := `{"key":"value"}` + "\n"
			if result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			// channels cannot be marshaled to JSON
			data := make(chan int)
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			data := map[string]string{"key": "value"}
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writePlain("hello %s", "world")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			err := runner.writePlain("test")

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("openDatabase", func(t *testing.T) {
		t.Run("applies connection pool settings from config", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Database.Path = ":memory:"
			config.Database.MaxOpenConns = 3
			config.Database.MaxIdleConns = 2

			runner := NewRunner(RunnerOpts{Config: config, Output: &bytes.Buffer{}})
			if err := runner.openDatabase(); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			defer runner.db.Close()

			if got := runner.db.Stats().MaxOpenConnections; got != 3 {
				t.Errorf("expected max open connections 3, got %d", got)
			}
			if runner.sessions == nil || runner.journal == nil {
				t.Error("expected repositories to be initialized")
			}
		})
	})

	t.Run("applies the configured backend timeout", func(t *testing.T) {
		release := make(chan struct{})
		backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-release
		}))
		defer backend.Close()
		defer close(release)

		config := shared.DefaultConfig()
		config.Backend.BaseURL = backend.URL
		config.Backend.TimeoutSeconds = 1

		runner := NewRunner(RunnerOpts{Config: config, Output: &bytes.Buffer{}})

		start := time.Now()
		_, err := runner.client.ListDatasets(context.Background(), api.DatasetFilters{})
		if err == nil {
			t.Fatal("expected a timeout error from a hanging backend")
		}
		if elapsed := time.Since(start); elapsed > 5*time.Second {
			t.Errorf("expected the request to give up near 1s, took %v", elapsed)
		}
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
			}
		}
	})
}

func TestRestoreSession(t *testing.T) {
	t.Run("restores a saved cookie onto the client", func(t *testing.T) {
		config := shared.DefaultConfig()
		db := setupTestDB(t)
		client := api.NewClient(api.Options{BaseURL: config.Backend.BaseURL})

		sessions := repositories.NewSessionRepository(db)
		record := &repositories.SessionRecord{
			BackendURL:  config.Backend.BaseURL,
			CookieName:  config.Backend.CookieName,
			CookieValue: "stored-cookie",
			Username:    "reviewer",
			Role:        "annotator",
		}
		if err := sessions.Save(record); err != nil {
			t.Fatalf("failed to seed session: %v", err)
		}

		runner := NewRunner(RunnerOpts{Config: config, Client: client, DB: db})

		if err := runner.restoreSession(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		cookie, ok := client.SessionCookie()
		if !ok || cookie != "stored-cookie" {
			t.Errorf("expected stored cookie on client, got %q", cookie)
		}
		if runner.username != "reviewer" {
			t.Errorf("expected username reviewer, got %q", runner.username)
		}
		if runner.role != "annotator" {
			t.Errorf("expected role annotator, got %q", runner.role)
		}
	})

	t.Run("reports no stored session", func(t *testing.T) {
		config := shared.DefaultConfig()
		runner := NewRunner(RunnerOpts{Config: config, DB: setupTestDB(t)})

		err := runner.restoreSession()
		if err == nil {
			t.Fatal("expected an error with no stored session")
		}
		if !strings.Contains(err.Error(), "no stored session") {
			t.Errorf("expected no-session error, got %v", err)
		}
	})
}

func TestDatasetsListCommand(t *testing.T) {
	t.Run("prints the dataset directory as JSON", func(t *testing.T) {
		backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/datasets/" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"items": []map[string]any{
					{"id": 3, "name": "Morning News", "status": "REVIEW", "count_of_samples": 42},
				},
				"total": 1,
				"page":  1,
				"limit": 20,
			})
		}))
		defer backend.Close()

		config := shared.DefaultConfig()
		config.Backend.BaseURL = backend.URL

		db := setupTestDB(t)
		sessions := repositories.NewSessionRepository(db)
		if err := sessions.Save(&repositories.SessionRecord{
			BackendURL:  backend.URL,
			CookieName:  config.Backend.CookieName,
			CookieValue: "cookie",
			Username:    "admin",
			Role:        "admin",
		}); err != nil {
			t.Fatalf("failed to seed session: %v", err)
		}

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{
			Config: config,
			Client: api.NewClient(api.Options{BaseURL: backend.URL}),
			DB:     db,
			Output: output,
		})

		cmd := datasetsCommand(runner)
		if err := cmd.Run(context.Background(), []string{"datasets", "list", "--json"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		result := output.String()
		if !strings.Contains(result, "Morning News") {
			t.Errorf("expected dataset name in output, got %s", result)
		}
		if !strings.Contains(result, `"total":1`) {
			t.Errorf("expected pagination envelope in output, got %s", result)
		}
	})
}

func TestExportCommand(t *testing.T) {
	t.Run("json export to file carries the samples", func(t *testing.T) {
		backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			switch r.URL.Path {
			case "/datasets/9":
				json.NewEncoder(w).Encode(map[string]any{
					"id": 9, "name": "Interview", "status": "READY", "count_of_samples": 1,
				})
			case "/samples/by-dataset/9":
				json.NewEncoder(w).Encode(map[string]any{
					"page": 1, "limit": 20, "total": 1,
					"samples": []map[string]any{
						{"id": 1, "dataset_id": 9, "filename": "seg_0001.wav", "text": "hello there", "status": "REVIEWED"},
					},
				})
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
			}
		}))
		defer backend.Close()

		config := shared.DefaultConfig()
		config.Backend.BaseURL = backend.URL

		db := setupTestDB(t)
		sessions := repositories.NewSessionRepository(db)
		if err := sessions.Save(&repositories.SessionRecord{
			BackendURL:  backend.URL,
			CookieName:  config.Backend.CookieName,
			CookieValue: "cookie",
			Username:    "admin",
			Role:        "admin",
		}); err != nil {
			t.Fatalf("failed to seed session: %v", err)
		}

		outputFile := filepath.Join(t.TempDir(), "export.json")
		runner := NewRunner(RunnerOpts{
			Config: config,
			Client: api.NewClient(api.Options{BaseURL: backend.URL}),
			DB:     db,
			Output: &bytes.Buffer{},
		})

		cmd := exportCommand(runner)
		if err := cmd.Run(context.Background(), []string{"export", "9", "--format", "json", "--output", outputFile}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		content := tu.MustReadFile(t, outputFile)
		if !strings.Contains(content, "seg_0001.wav") {
			t.Errorf("expected samples in the export file, got %s", content)
		}
		if !strings.Contains(content, "Interview") {
			t.Errorf("expected dataset metadata in the export file, got %s", content)
		}
	})
}

func TestJournalCommands(t *testing.T) {
	t.Run("lists recorded actions", func(t *testing.T) {
		db := setupTestDB(t)
		journal := repositories.NewJournalRepository(db)
		if err := journal.Record(&repositories.JournalEntry{
			Username:  "reviewer",
			Action:    repositories.ActionApprove,
			DatasetID: 7,
			SampleID:  12,
		}); err != nil {
			t.Fatalf("failed to seed journal: %v", err)
		}

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{DB: db, Output: output})

		cmd := journalCommand(runner)
		if err := cmd.Run(context.Background(), []string{"journal", "list"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		result := output.String()
		if !strings.Contains(result, "approve") {
			t.Errorf("expected approve action in output, got %s", result)
		}
		if !strings.Contains(result, "reviewer") {
			t.Errorf("expected username in output, got %s", result)
		}
	})

	t.Run("summarizes actions per type", func(t *testing.T) {
		db := setupTestDB(t)
		journal := repositories.NewJournalRepository(db)
		for _, action := range []string{repositories.ActionApprove, repositories.ActionApprove, repositories.ActionReject} {
			if err := journal.Record(&repositories.JournalEntry{Username: "reviewer", Action: action, DatasetID: 7}); err != nil {
				t.Fatalf("failed to seed journal: %v", err)
			}
		}

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{DB: db, Output: output})

		cmd := journalCommand(runner)
		if err := cmd.Run(context.Background(), []string{"journal", "summary"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		result := output.String()
		if !strings.Contains(result, "approve") || !strings.Contains(result, "reject") {
			t.Errorf("expected both actions in summary, got %s", result)
		}
	})
}

func TestParseIDArg(t *testing.T) {
	run := func(t *testing.T, arg string) (int, error) {
		t.Helper()

		var id int
		var parseErr error
		cmd := datasetsCommand(NewRunner(RunnerOpts{Output: &bytes.Buffer{}}))
		for _, sub := range cmd.Commands {
			if sub.Name == "show" {
				sub.Action = func(ctx context.Context, c *cli.Command) error {
					id, parseErr = parseIDArg(c)
					return nil
				}
			}
		}

		args := []string{"datasets", "show"}
		if arg != "" {
			args = append(args, arg)
		}
		if err := cmd.Run(context.Background(), args); err != nil {
			t.Fatalf("command run failed: %v", err)
		}
		return id, parseErr
	}

	t.Run("parses a positive integer", func(t *testing.T) {
		id, err := run(t, "42")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if id != 42 {
			t.Errorf("expected 42, got %d", id)
		}
	})

	t.Run("rejects a missing argument", func(t *testing.T) {
		_, err := run(t, "")
		if err == nil {
			t.Fatal("expected error for missing argument")
		}
	})

	t.Run("rejects a non-numeric argument", func(t *testing.T) {
		_, err := run(t, "abc")
		if err == nil {
			t.Fatal("expected error for non-numeric argument")
		}
	})
}
