package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type fakeAudioAPI struct {
	contentType string
	data        string
	err         error

	lastDataset  int
	lastFilename string
}

func (f *fakeAudioAPI) StreamAudio(_ context.Context, datasetID int, filename string) (io.ReadCloser, string, error) {
	f.lastDataset = datasetID
	f.lastFilename = filename
	if f.err != nil {
		return nil, "", f.err
	}
	return io.NopCloser(strings.NewReader(f.data)), f.contentType, nil
}

func TestAudioHandler(t *testing.T) {
	t.Run("Streams Audio", func(t *testing.T) {
		api := &fakeAudioAPI{contentType: "audio/wav", data: "RIFF...."}
		handler := NewAudioHandler(api, NewPlaybackRegistry(true), nil)

		req := httptest.NewRequest(http.MethodGet, "/audio?dataset_id=7&filename=sample_0001.wav", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got := rec.Header().Get("Content-Type"); got != "audio/wav" {
			t.Errorf("expected audio/wav content type, got %s", got)
		}
		if rec.Body.String() != "RIFF...." {
			t.Errorf("unexpected body: %s", rec.Body.String())
		}
		if api.lastDataset != 7 || api.lastFilename != "sample_0001.wav" {
			t.Errorf("unexpected upstream request: dataset=%d filename=%s", api.lastDataset, api.lastFilename)
		}
	})

	t.Run("Rejects Missing Parameters", func(t *testing.T) {
		handler := NewAudioHandler(&fakeAudioAPI{}, NewPlaybackRegistry(true), nil)

		for _, path := range []string{"/audio", "/audio?dataset_id=7", "/audio?filename=a.wav", "/audio?dataset_id=zero&filename=a.wav"} {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400 for %s, got %d", path, rec.Code)
			}
		}
	})

	t.Run("Maps Upstream Failure To Bad Gateway", func(t *testing.T) {
		api := &fakeAudioAPI{err: errors.New("connection refused")}
		handler := NewAudioHandler(api, NewPlaybackRegistry(true), nil)

		req := httptest.NewRequest(http.MethodGet, "/audio?dataset_id=7&filename=a.wav", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadGateway {
			t.Errorf("expected 502, got %d", rec.Code)
		}
	})

	t.Run("Stop Requires POST", func(t *testing.T) {
		handler := NewAudioHandler(&fakeAudioAPI{}, NewPlaybackRegistry(true), nil)

		req := httptest.NewRequest(http.MethodGet, "/audio/stop", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}

		req = httptest.NewRequest(http.MethodPost, "/audio/stop", nil)
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Errorf("expected 204, got %d", rec.Code)
		}
	})
}

func TestPlaybackRegistry(t *testing.T) {
	t.Run("Exclusive Mode Aborts Previous Stream", func(t *testing.T) {
		registry := NewPlaybackRegistry(true)

		first, releaseFirst := registry.Begin(context.Background())
		defer releaseFirst()

		second, releaseSecond := registry.Begin(context.Background())
		defer releaseSecond()

		select {
		case <-first.Done():
		default:
			t.Error("expected first stream to be aborted when second begins")
		}

		select {
		case <-second.Done():
			t.Error("second stream should still be live")
		default:
		}

		if got := registry.ActiveStreams(); got != 1 {
			t.Errorf("expected 1 active stream, got %d", got)
		}
	})

	t.Run("Non-Exclusive Mode Allows Concurrent Streams", func(t *testing.T) {
		registry := NewPlaybackRegistry(false)

		first, releaseFirst := registry.Begin(context.Background())
		defer releaseFirst()
		_, releaseSecond := registry.Begin(context.Background())
		defer releaseSecond()

		select {
		case <-first.Done():
			t.Error("first stream should survive in non-exclusive mode")
		default:
		}

		if got := registry.ActiveStreams(); got != 2 {
			t.Errorf("expected 2 active streams, got %d", got)
		}
	})

	t.Run("StopAll", func(t *testing.T) {
		registry := NewPlaybackRegistry(false)

		first, _ := registry.Begin(context.Background())
		second, _ := registry.Begin(context.Background())

		registry.StopAll()

		for i, ctx := range []context.Context{first, second} {
			select {
			case <-ctx.Done():
			default:
				t.Errorf("expected stream %d to be aborted", i+1)
			}
		}
		if got := registry.ActiveStreams(); got != 0 {
			t.Errorf("expected no active streams, got %d", got)
		}
	})

	t.Run("Release Removes Stream", func(t *testing.T) {
		registry := NewPlaybackRegistry(true)

		ctx, release := registry.Begin(context.Background())
		release()

		select {
		case <-ctx.Done():
		default:
			t.Error("expected released stream context to be canceled")
		}
		if got := registry.ActiveStreams(); got != 0 {
			t.Errorf("expected no active streams after release, got %d", got)
		}
	})
}

func TestBasicRouter(t *testing.T) {
	t.Run("Method Filtering", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("pong"))
		}))

		req := httptest.NewRequest(http.MethodPost, "/ping", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405 for wrong method, got %d", rec.Code)
		}

		req = httptest.NewRequest(http.MethodGet, "/ping", nil)
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Body.String() != "pong" {
			t.Errorf("unexpected body: %s", rec.Body.String())
		}
	})

	t.Run("Middleware Order", func(t *testing.T) {
		router := NewBasicRouter()
		var order []string

		tag := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router.Use(tag("outer"), tag("inner"))
		router.Handle(http.MethodGet, "/x", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			order = append(order, "handler")
		}))

		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		router.ServeHTTP(httptest.NewRecorder(), req)

		want := []string{"outer", "inner", "handler"}
		for i := range want {
			if i >= len(order) || order[i] != want[i] {
				t.Fatalf("expected order %v, got %v", want, order)
			}
		}
	})
}
