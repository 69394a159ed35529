package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"ytcorpus/internal/server"
)

// Serve runs the local audio handoff proxy until interrupted.
//
// The proxy fronts the cookie-guarded backend stream so external audio
// players, which cannot present the session cookie, can play samples.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.restoreSession(); err != nil {
		return err
	}

	proxy := server.NewProxy(r.config.Proxy.Addr(), r.client, r.logger)
	if !cmd.Bool("exclusive") {
		proxy = server.NewProxyWithRegistry(r.config.Proxy.Addr(), r.client, server.NewPlaybackRegistry(false), r.logger)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)
	go func() {
		errs <- proxy.ListenAndServe()
	}()

	r.writePlain("Audio proxy listening on http://%s\n", proxy.Addr())
	r.writePlain("Play a sample: http://%s/audio?dataset_id=<id>&filename=<file>\n", proxy.Addr())

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	r.logger.Info("shutting down audio proxy")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return proxy.Shutdown(shutdownCtx)
}
