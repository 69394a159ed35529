package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ytcorpus/internal/models"
	"ytcorpus/internal/shared"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(Options{BaseURL: server.URL})
	return client, server
}

func TestClientSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Login Captures Session Cookie", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
				t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			}
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "issued-by-backend"})
			json.NewEncoder(w).Encode(MessageResponse{Message: "ok"})
		})

		if _, err := client.Login(ctx, "admin", "secret"); err != nil {
			t.Fatalf("login failed: %v", err)
		}

		value, ok := client.SessionCookie()
		if !ok || value != "issued-by-backend" {
			t.Errorf("expected captured cookie, got %q ok=%v", value, ok)
		}
	})

	t.Run("Session Cookie Attached To Requests", func(t *testing.T) {
		var gotCookie string
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if c, err := r.Cookie("session"); err == nil {
				gotCookie = c.Value
			}
			json.NewEncoder(w).Encode(models.User{ID: 1, Username: "admin", Role: models.RoleAdmin})
		})

		client.SetSessionCookie("restored")
		if _, err := client.Me(ctx); err != nil {
			t.Fatalf("me failed: %v", err)
		}

		if gotCookie != "restored" {
			t.Errorf("expected session cookie on request, got %q", gotCookie)
		}
	})

	t.Run("Logout Drops Session", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(MessageResponse{Message: "bye"})
		})

		client.SetSessionCookie("live")
		if _, err := client.Logout(ctx); err != nil {
			t.Fatalf("logout failed: %v", err)
		}

		if _, ok := client.SessionCookie(); ok {
			t.Error("expected session to be dropped after logout")
		}
	})
}

func TestClientErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("String Detail Envelope", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"detail": "dataset already exists"}`))
		})

		_, err := client.InitializeDataset(ctx, InitializeRequest{URL: "https://youtube.com/watch?v=x"})
		if !errors.Is(err, shared.ErrConflict) {
			t.Errorf("expected ErrConflict, got %v", err)
		}
		if err == nil || !contains(err.Error(), "dataset already exists") {
			t.Errorf("expected detail in error message, got %v", err)
		}
	})

	t.Run("Nested Message Envelope", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"detail": {"message": "invalid duration range"}}`))
		})

		_, err := client.InitializeDataset(ctx, InitializeRequest{URL: "bad"})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if err == nil || !contains(err.Error(), "invalid duration range") {
			t.Errorf("expected nested message in error, got %v", err)
		}
	})

	t.Run("Fallback Message", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("not json at all"))
		})

		_, err := client.GetDataset(ctx, 1)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
		if err == nil || !contains(err.Error(), "HTTP 500") {
			t.Errorf("expected HTTP 500 fallback, got %v", err)
		}
	})

	t.Run("Status Sentinels", func(t *testing.T) {
		cases := []struct {
			status   int
			sentinel error
		}{
			{http.StatusUnauthorized, shared.ErrNotAuthenticated},
			{http.StatusForbidden, shared.ErrForbidden},
			{http.StatusNotFound, shared.ErrNotFound},
		}

		for _, tc := range cases {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(`{"detail": "nope"}`))
			})

			_, err := client.GetDataset(ctx, 1)
			if !errors.Is(err, tc.sentinel) {
				t.Errorf("status %d: expected %v, got %v", tc.status, tc.sentinel, err)
			}
		}
	})

	t.Run("Transport Failure", func(t *testing.T) {
		client := NewClient(Options{BaseURL: "http://127.0.0.1:1"})

		_, err := client.GetDataset(ctx, 1)
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestClientDatasets(t *testing.T) {
	ctx := context.Background()

	t.Run("ListDatasets Query And Envelope", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/datasets/" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			q := r.URL.Query()
			if q.Get("status") != "SAMPLING" || q.Get("page") != "2" || q.Get("limit") != "10" {
				t.Errorf("unexpected query: %s", r.URL.RawQuery)
			}
			json.NewEncoder(w).Encode(DatasetPage{
				Items: []models.Dataset{{ID: 1, Name: "a", Status: models.DatasetSampling}},
				Total: 11,
				Page:  2,
				Limit: 10,
			})
		})

		page, err := client.ListDatasets(ctx, DatasetFilters{Status: models.DatasetSampling, Page: 2, Limit: 10})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if page.Total != 11 || len(page.Items) != 1 {
			t.Errorf("unexpected page: %+v", page)
		}
	})

	t.Run("Transcribe Sends Model Name", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/transcribe/5" || r.Method != http.MethodPost {
				t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			}
			var body struct {
				ModelName string `json:"model_name"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ModelName != "whisper-large-v3" {
				t.Errorf("unexpected body: %+v err=%v", body, err)
			}
			json.NewEncoder(w).Encode(TranscribeTicket{Message: "started", TaskID: "t1"})
		})

		ticket, err := client.Transcribe(ctx, 5, "whisper-large-v3")
		if err != nil {
			t.Fatalf("transcribe failed: %v", err)
		}
		if ticket.TaskID != "t1" {
			t.Errorf("unexpected ticket: %+v", ticket)
		}
	})
}

func TestClientSamples(t *testing.T) {
	ctx := context.Background()

	t.Run("ListSamples Path", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/samples/by-dataset/9" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			json.NewEncoder(w).Encode(SamplePage{Page: 1, Limit: 20, Total: 0})
		})

		if _, err := client.ListSamples(ctx, 9, SampleFilters{Page: 1, Limit: 20}); err != nil {
			t.Fatalf("list failed: %v", err)
		}
	})

	t.Run("UpdateSampleText Uses PUT", func(t *testing.T) {
		var method, path, text string
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			method = r.Method
			path = r.URL.Path
			var body struct {
				Text string `json:"text"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			text = body.Text
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{}`))
		})

		if err := client.UpdateSampleText(ctx, 14, "corrected"); err != nil {
			t.Fatalf("update failed: %v", err)
		}

		if method != http.MethodPut || path != "/samples/14" || text != "corrected" {
			t.Errorf("unexpected request: %s %s body=%q", method, path, text)
		}
	})

	t.Run("Approve And Reject Paths", func(t *testing.T) {
		var paths []string
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			paths = append(paths, r.Method+" "+r.URL.Path)
			w.Write([]byte(`{}`))
		})

		if err := client.ApproveSample(ctx, 3); err != nil {
			t.Fatalf("approve failed: %v", err)
		}
		if err := client.RejectSample(ctx, 4); err != nil {
			t.Fatalf("reject failed: %v", err)
		}

		want := []string{"POST /samples/3/approve", "POST /samples/4/reject"}
		for i := range want {
			if paths[i] != want[i] {
				t.Errorf("expected %s, got %s", want[i], paths[i])
			}
		}
	})
}

func TestClientStreamAudio(t *testing.T) {
	ctx := context.Background()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/stream" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("dataset_id") != "7" || q.Get("filename") != "sample_0001.wav" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "audio/wav")
		w.Write([]byte("RIFFdata"))
	})

	body, contentType, err := client.StreamAudio(ctx, 7, "sample_0001.wav")
	if err != nil {
		t.Fatalf("stream failed: %v", err)
	}
	defer body.Close()

	if contentType != "audio/wav" {
		t.Errorf("expected audio/wav, got %s", contentType)
	}
	data, _ := io.ReadAll(body)
	if string(data) != "RIFFdata" {
		t.Errorf("unexpected body: %s", data)
	}
}

func contains(haystack, needle string) bool {
	return strings.Contains(haystack, needle)
}
