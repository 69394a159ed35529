package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"ytcorpus/internal/models"
	"ytcorpus/internal/repositories"
	"ytcorpus/internal/shared"
)

// AuthLogin authenticates against the backend and stores the session
// cookie in the local database.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	username := cmd.String("username")
	password := cmd.String("password")

	if password == "" {
		r.writePlain("Password: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("%w: failed to read password", shared.ErrMissingArgument)
		}
		password = strings.TrimSpace(line)
	}
	if password == "" {
		return fmt.Errorf("%w: password", shared.ErrMissingArgument)
	}

	if err := r.openDatabase(); err != nil {
		return err
	}

	if _, err := r.client.Login(ctx, username, password); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	user, err := r.client.Me(ctx)
	if err != nil {
		return err
	}

	cookie, ok := r.client.SessionCookie()
	if !ok {
		return fmt.Errorf("%w: backend did not set a session cookie", shared.ErrAuthFailed)
	}

	record := &repositories.SessionRecord{
		BackendURL:  r.config.Backend.BaseURL,
		CookieName:  r.config.Backend.CookieName,
		CookieValue: cookie,
		Username:    user.Username,
		Role:        string(user.Role),
	}
	if err := r.sessions.Save(record); err != nil {
		return err
	}

	r.logger.Info("session saved", "backend", r.config.Backend.BaseURL, "user", user.Username)
	return r.writePlain("✓ Logged in as %s (%s)\n", user.Username, user.Role)
}

// AuthLogout invalidates the backend session and clears the stored cookie.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.openDatabase(); err != nil {
		return err
	}

	if err := r.restoreSession(); err == nil {
		if _, err := r.client.Logout(ctx); err != nil {
			// The local cookie is cleared regardless.
			r.logger.Warn("backend logout failed", "err", err)
		}
	}

	if err := r.sessions.Clear(r.config.Backend.BaseURL); err != nil {
		return err
	}

	return r.writePlain("✓ Logged out\n")
}

// AuthStatus reports the stored session and verifies it against the backend.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.openDatabase(); err != nil {
		return err
	}

	record, err := r.sessions.Load(r.config.Backend.BaseURL)
	if err != nil {
		if errors.Is(err, shared.ErrNoSession) || errors.Is(err, shared.ErrSessionExpired) {
			return r.writePlain("✗ Not logged in (%v)\n", err)
		}
		return err
	}

	r.writePlain("Backend: %s\n", record.BackendURL)
	r.writePlain("Stored session: %s (%s), saved %s\n", record.Username, record.Role, record.SavedAt.Format("2006-01-02 15:04"))

	r.client.SetSessionCookie(record.CookieValue)
	user, err := r.client.Me(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			return r.writePlain("✗ Session no longer accepted by the backend\n")
		}
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}

	return r.writePlain("✓ Session valid, signed in as %s (%s)\n", user.Username, user.Role)
}

// AuthImportCurl extracts a session cookie from a browser cURL command
// and stores it, bypassing the login form entirely.
func (r *Runner) AuthImportCurl(ctx context.Context, cmd *cli.Command) error {
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")

	var data []byte
	switch {
	case curlCmd != "":
		data = []byte(curlCmd)
	case curlFile != "":
		fileData, err := os.ReadFile(curlFile)
		if err != nil {
			return fmt.Errorf("failed to read curl file: %w", err)
		}
		data = fileData
	default:
		return fmt.Errorf("%w: either --curl or --curl-file is required", shared.ErrMissingArgument)
	}

	session, err := shared.ParseCurlCommand(data)
	if err != nil {
		return err
	}

	cookie, ok := session.SessionCookie(r.config.Backend.CookieName)
	if !ok {
		return fmt.Errorf("%w: no %q cookie in curl command", shared.ErrInvalidInput, r.config.Backend.CookieName)
	}

	if err := r.openDatabase(); err != nil {
		return err
	}

	r.client.SetSessionCookie(cookie)
	user, err := r.client.Me(ctx)
	if err != nil {
		return fmt.Errorf("imported cookie rejected by backend: %w", err)
	}

	record := &repositories.SessionRecord{
		BackendURL:  r.config.Backend.BaseURL,
		CookieName:  r.config.Backend.CookieName,
		CookieValue: cookie,
		Username:    user.Username,
		Role:        string(user.Role),
	}
	if err := r.sessions.Save(record); err != nil {
		return err
	}

	return r.writePlain("✓ Imported session for %s (%s)\n", user.Username, user.Role)
}

// AuthRegister creates a new backend account. Admin-only on the backend side.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	role, err := models.ParseRole(cmd.String("role"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}

	if err := r.restoreSession(); err != nil {
		return err
	}
	if err := r.requireCapability(models.CapManageUsers); err != nil {
		return err
	}

	resp, err := r.client.Register(ctx, cmd.String("username"), cmd.String("password"), role)
	if err != nil {
		return err
	}

	return r.writePlain("✓ %s\n", resp.Message)
}
