package server

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"ytcorpus/internal/shared"
)

// AudioAPI streams a sample's audio from the backend with the saved
// session attached.
type AudioAPI interface {
	StreamAudio(ctx context.Context, datasetID int, filename string) (io.ReadCloser, string, error)
}

// AudioHandler relays backend audio streams to local media players.
// Implements the Handler interface for registration with a Router.
type AudioHandler struct {
	api      AudioAPI
	registry *PlaybackRegistry
	logger   *log.Logger
}

// NewAudioHandler creates an AudioHandler backed by the given API client
// and playback registry.
func NewAudioHandler(audioAPI AudioAPI, registry *PlaybackRegistry, logger *log.Logger) *AudioHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &AudioHandler{
		api:      audioAPI,
		registry: registry,
		logger:   logger,
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *AudioHandler) Routes() []string {
	return []string{"/audio", "/audio/stop"}
}

// ServeHTTP dispatches between streaming and playback control.
func (h *AudioHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/audio":
		h.stream(w, r)
	case "/audio/stop":
		h.stop(w, r)
	default:
		http.NotFound(w, r)
	}
}

// stream relays one sample's audio. Query parameters: dataset_id, filename.
func (h *AudioHandler) stream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	datasetID, err := strconv.Atoi(r.URL.Query().Get("dataset_id"))
	if err != nil || datasetID <= 0 {
		http.Error(w, "Missing or invalid dataset_id parameter", http.StatusBadRequest)
		return
	}

	filename := r.URL.Query().Get("filename")
	if filename == "" {
		http.Error(w, "Missing filename parameter", http.StatusBadRequest)
		return
	}

	ctx, release := h.registry.Begin(r.Context())
	defer release()

	body, contentType, err := h.api.StreamAudio(ctx, datasetID, filename)
	if err != nil {
		h.logger.Error("failed to open audio stream", "dataset", datasetID, "filename", filename, "err", err)
		http.Error(w, "Failed to open audio stream", http.StatusBadGateway)
		return
	}
	defer body.Close()

	if contentType == "" {
		contentType = "audio/wav"
	}
	w.Header().Set("Content-Type", contentType)

	if _, err := io.Copy(w, body); err != nil {
		// Aborted playback surfaces here; nothing to report to the client.
		h.logger.Debug("audio stream ended early", "dataset", datasetID, "filename", filename, "err", err)
	}
}

// stop aborts every in-flight stream.
func (h *AudioHandler) stop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.registry.StopAll()
	w.WriteHeader(http.StatusNoContent)
}

// LoggingMiddleware logs each request's method, path and duration.
func LoggingMiddleware(logger *log.Logger) Middleware {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("handled request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
		})
	}
}

// Proxy is the local audio handoff server.
type Proxy struct {
	server   *http.Server
	registry *PlaybackRegistry
	logger   *log.Logger
}

// NewProxy wires the audio handler and logging middleware into a server
// listening on addr. Playback is exclusive: starting a stream stops the
// previous one.
func NewProxy(addr string, audioAPI AudioAPI, logger *log.Logger) *Proxy {
	return NewProxyWithRegistry(addr, audioAPI, NewPlaybackRegistry(true), logger)
}

// NewProxyWithRegistry is NewProxy with a caller-supplied playback
// registry, for non-exclusive playback.
func NewProxyWithRegistry(addr string, audioAPI AudioAPI, registry *PlaybackRegistry, logger *log.Logger) *Proxy {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	router := NewBasicRouter()
	router.Use(LoggingMiddleware(logger))
	router.Handler(NewAudioHandler(audioAPI, registry, logger))

	return &Proxy{
		server: &http.Server{
			Addr:    addr,
			Handler: router,
		},
		registry: registry,
		logger:   logger,
	}
}

// Addr returns the address the proxy listens on.
func (p *Proxy) Addr() string {
	return p.server.Addr
}

// ListenAndServe blocks serving the proxy until Shutdown.
func (p *Proxy) ListenAndServe() error {
	p.logger.Info("audio proxy listening", "addr", p.server.Addr)
	err := p.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops all playback and drains the server.
func (p *Proxy) Shutdown(ctx context.Context) error {
	p.registry.StopAll()
	return p.server.Shutdown(ctx)
}
