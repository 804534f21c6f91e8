package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/reagent-dev/reagent/internal/agent"
)

func newToolServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/tools", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]agent.Descriptor{
			{Name: "lint", Description: "Lint the repo", Parameters: map[string]any{}},
			{Name: "run_tests", Description: "Run the test suite", Parameters: map[string]any{}},
		})
	})
	mux.HandleFunc("/execute/lint", func(w http.ResponseWriter, r *http.Request) {
		var params map[string]any
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(agent.OK(map[string]any{"issues": 0, "target": params["target"]}))
	})
	mux.HandleFunc("/execute/run_tests", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("test runner crashed"))
	})
	return httptest.NewServer(mux)
}

func TestDiscover(t *testing.T) {
	srv := newToolServer(t)
	defer srv.Close()

	bridge := New(srv.URL, zap.NewNop())
	descriptors := bridge.Discover(context.Background())

	if len(descriptors) != 2 {
		t.Fatalf("discovered %d tools, want 2", len(descriptors))
	}
	if descriptors[0].Name != "lint" || descriptors[1].Name != "run_tests" {
		t.Errorf("descriptors = %+v", descriptors)
	}
}

func TestDiscoverFailsSoft(t *testing.T) {
	t.Run("unreachable server", func(t *testing.T) {
		bridge := New("http://127.0.0.1:1", zap.NewNop())
		if got := bridge.Discover(context.Background()); len(got) != 0 {
			t.Errorf("unreachable server yielded %d tools", len(got))
		}
	})

	t.Run("error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		bridge := New(srv.URL, zap.NewNop())
		if got := bridge.Discover(context.Background()); len(got) != 0 {
			t.Errorf("error status yielded %d tools", len(got))
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer srv.Close()

		bridge := New(srv.URL, zap.NewNop())
		if got := bridge.Discover(context.Background()); len(got) != 0 {
			t.Errorf("malformed body yielded %d tools", len(got))
		}
	})
}

func TestInvoke(t *testing.T) {
	srv := newToolServer(t)
	defer srv.Close()

	bridge := New(srv.URL+"/", zap.NewNop()) // trailing slash must be tolerated
	result := bridge.Invoke(context.Background(), "lint", map[string]any{"target": "./..."})

	if !result.Success() {
		t.Fatalf("Invoke failed: %v", result)
	}
	if result["target"] != "./..." {
		t.Errorf("parameters not forwarded: %v", result)
	}
}

func TestInvokeFailsSoft(t *testing.T) {
	srv := newToolServer(t)
	defer srv.Close()

	t.Run("error status", func(t *testing.T) {
		bridge := New(srv.URL, zap.NewNop())
		result := bridge.Invoke(context.Background(), "run_tests", map[string]any{})
		if result.Success() {
			t.Error("error status reported success")
		}
		if result.ErrorMessage() == "" {
			t.Error("failing result missing error message")
		}
	})

	t.Run("unreachable server", func(t *testing.T) {
		bridge := New("http://127.0.0.1:1", zap.NewNop())
		result := bridge.Invoke(context.Background(), "lint", map[string]any{})
		if result.Success() {
			t.Error("unreachable server reported success")
		}
	})

	t.Run("invalid response JSON", func(t *testing.T) {
		bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer bad.Close()

		bridge := New(bad.URL, zap.NewNop())
		result := bridge.Invoke(context.Background(), "lint", map[string]any{})
		if result.Success() {
			t.Error("invalid JSON reported success")
		}
	})
}
