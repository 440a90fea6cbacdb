package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"unicode/utf8"

	"github.com/nibzard/taskpad/internal/store"
	"github.com/nibzard/taskpad/internal/task"
)

// newStoreServer imitates the reference store: list honors _limit, create
// always assigns id 201, replace echoes the body with the path id. Any
// DELETE trips the test, because the client must never issue one.
func newStoreServer(t *testing.T) (*httptest.Server, *int32) {
	t.Helper()

	var deletes int32
	seed := []task.Task{
		{ID: 1, Title: "delectus aut autem", Completed: false},
		{ID: 2, Title: "quis ut nam", Completed: true},
		{ID: 3, Title: "fugiat veniam minus", Completed: false},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/todos", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			tasks := seed
			if limit := r.URL.Query().Get("_limit"); limit == "2" {
				tasks = seed[:2]
			}
			json.NewEncoder(w).Encode(tasks)
		case http.MethodPost:
			var req struct {
				Title     string `json:"title"`
				Completed bool   `json:"completed"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(task.Task{ID: 201, Title: req.Title, Completed: req.Completed})
		case http.MethodDelete:
			atomic.AddInt32(&deletes, 1)
			w.WriteHeader(http.StatusOK)
		}
	})
	mux.HandleFunc("/todos/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			var req struct {
				Title     string `json:"title"`
				Completed bool   `json:"completed"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			json.NewEncoder(w).Encode(task.Task{ID: 1, Title: req.Title, Completed: req.Completed})
		case http.MethodDelete:
			atomic.AddInt32(&deletes, 1)
			w.WriteHeader(http.StatusOK)
		}
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts, &deletes
}

func TestClient(t *testing.T) {
	ts, deletes := newStoreServer(t)
	client := store.NewClient(ts.URL)
	ctx := context.Background()

	t.Run("List", func(t *testing.T) {
		tasks, err := client.List(ctx, 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tasks) != 2 {
			t.Fatalf("task count: got %d, want 2", len(tasks))
		}
		if tasks[0].ID != 1 || tasks[0].Title != "delectus aut autem" {
			t.Errorf("unexpected first task: %+v", tasks[0])
		}
		if !tasks[1].Completed {
			t.Errorf("second task completed: got false, want true")
		}
	})

	t.Run("Create", func(t *testing.T) {
		created, err := client.Create(ctx, "Buy milk", false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// The reference store hands out the same id on every create.
		if created.ID != 201 {
			t.Errorf("assigned id: got %d, want 201", created.ID)
		}
		if created.Title != "Buy milk" || created.Completed {
			t.Errorf("unexpected created task: %+v", created)
		}

		again, err := client.Create(ctx, "Walk dog", false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again.ID != 201 {
			t.Errorf("second assigned id: got %d, want 201", again.ID)
		}
	})

	t.Run("Replace", func(t *testing.T) {
		replaced, err := client.Replace(ctx, 1, "new title", false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if replaced.ID != 1 || replaced.Title != "new title" {
			t.Errorf("unexpected replaced task: %+v", replaced)
		}
	})

	t.Run("ListRaw", func(t *testing.T) {
		status, raw, err := client.ListRaw(ctx, 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if status != http.StatusOK {
			t.Errorf("status: got %d, want %d", status, http.StatusOK)
		}
		if result := task.ValidateListPayload(raw); !result.Valid {
			t.Errorf("raw payload failed contract: %v", result.Errors)
		}
	})

	t.Run("Server Down", func(t *testing.T) {
		badClient := store.NewClient("http://localhost:59999")
		_, err := badClient.List(ctx, 5)
		if err == nil {
			t.Fatal("expected connection refused error")
		}
		var te *store.TransportError
		if !errors.As(err, &te) {
			t.Errorf("error type: got %T, want *store.TransportError", err)
		}
	})

	if n := atomic.LoadInt32(deletes); n != 0 {
		t.Errorf("DELETE requests observed: got %d, want 0", n)
	}
}

// TestReplaceBodyAlwaysUncompleted pins the replace request shape: the body
// carries completed=false even when the local record is completed. The
// local flag survives because the merge step only takes the echoed title.
func TestReplaceBodyAlwaysUncompleted(t *testing.T) {
	var gotBody struct {
		Title     string `json:"title"`
		Completed bool   `json:"completed"`
	}
	sawCompleted := true

	mux := http.NewServeMux()
	mux.HandleFunc("/todos/7", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		sawCompleted = gotBody.Completed
		json.NewEncoder(w).Encode(task.Task{ID: 7, Title: gotBody.Title, Completed: gotBody.Completed})
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	client := store.NewClient(ts.URL)
	if _, err := client.Replace(context.Background(), 7, "edited", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotBody.Title != "edited" {
		t.Errorf("request title: got %q, want %q", gotBody.Title, "edited")
	}
	if sawCompleted {
		t.Error("request completed flag: got true, want false")
	}
}

// roundTripFunc adapts a function to http.RoundTripper.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// TestWithHTTPClient proves the option swaps the whole transport: the base
// URL points at a host that cannot resolve, so a response can only come from
// the injected client.
func TestWithHTTPClient(t *testing.T) {
	var gotURL string
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		gotURL = r.URL.String()
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     make(http.Header),
			Body:       io.NopCloser(strings.NewReader(`[{"id":1,"title":"delectus aut autem","completed":false}]`)),
		}, nil
	})

	client := store.NewClient("http://store.invalid", store.WithHTTPClient(&http.Client{Transport: rt}))
	tasks, err := client.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotURL != "http://store.invalid/todos" {
		t.Errorf("request URL: got %q, want %q", gotURL, "http://store.invalid/todos")
	}
	if len(tasks) != 1 || tasks[0].ID != 1 {
		t.Errorf("unexpected tasks: %+v", tasks)
	}
}

// TestStrictStatusTruncation cuts a long error body inside a multi-byte rune
// and checks the resulting message is still valid UTF-8.
func TestStrictStatusTruncation(t *testing.T) {
	// 199 ASCII bytes, then a three-byte rune straddling the 200-byte cut.
	body := strings.Repeat("a", 199) + "⚠ and more"

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(body))
	}))
	defer ts.Close()

	client := store.NewClient(ts.URL, store.WithStrictStatus())
	_, err := client.Create(context.Background(), "Buy milk", false)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	msg := err.Error()
	if !utf8.ValidString(msg) {
		t.Errorf("error message is not valid UTF-8: %q", msg)
	}
	if !strings.HasSuffix(msg, "...") {
		t.Errorf("truncated message should end with ellipsis: %q", msg)
	}
	if strings.Contains(msg, "⚠") {
		t.Errorf("rune split by the cut should be dropped entirely: %q", msg)
	}
}

func TestLenientDecode(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		strict  bool
		wantErr bool
	}{
		{
			name:   "error status with parseable body is success",
			status: http.StatusInternalServerError,
			body:   `{"id":201,"title":"Buy milk","completed":false}`,
		},
		{
			name:   "not found with parseable body is success",
			status: http.StatusNotFound,
			body:   `{"id":201,"title":"Buy milk","completed":false}`,
		},
		{
			name:    "ok status with garbage body fails",
			status:  http.StatusOK,
			body:    `<html>oops</html>`,
			wantErr: true,
		},
		{
			name:    "error status rejected in strict mode",
			status:  http.StatusInternalServerError,
			body:    `{"id":201,"title":"Buy milk","completed":false}`,
			strict:  true,
			wantErr: true,
		},
		{
			name:   "ok status accepted in strict mode",
			status: http.StatusOK,
			body:   `{"id":201,"title":"Buy milk","completed":false}`,
			strict: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			opts := []store.Option{}
			if tt.strict {
				opts = append(opts, store.WithStrictStatus())
			}
			client := store.NewClient(ts.URL, opts...)

			created, err := client.Create(context.Background(), "Buy milk", false)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", created)
				}
				var te *store.TransportError
				if !errors.As(err, &te) {
					t.Errorf("error type: got %T, want *store.TransportError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if created.ID != 201 {
				t.Errorf("created id: got %d, want 201", created.ID)
			}
		})
	}
}
