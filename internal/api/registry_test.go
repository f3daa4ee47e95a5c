package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/cobra"
)

// fakeEndpoint is a minimal Endpoint for registry tests.
type fakeEndpoint struct {
	method, path string
	requiresInit bool
	cmdName      string
}

func (f *fakeEndpoint) Route() (string, string, http.HandlerFunc) {
	return f.method, f.path, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}

func (f *fakeEndpoint) RequiresInit() bool { return f.requiresInit }

func (f *fakeEndpoint) Command(getServerURL func() string) *cobra.Command {
	if f.cmdName == "" {
		return nil
	}
	return &cobra.Command{Use: f.cmdName}
}

var _ Endpoint = (*fakeEndpoint)(nil)

func TestRegistry_RegisterRoutes(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeEndpoint{method: "GET", path: "/open"})
	r.Register(&fakeEndpoint{method: "GET", path: "/gated", requiresInit: true})

	gated := 0
	mux := http.NewServeMux()
	r.RegisterRoutes(mux, func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, req *http.Request) {
			gated++
			next(w, req)
		}
	})

	for _, path := range []string{"/open", "/gated"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		if rec.Code != http.StatusNoContent {
			t.Errorf("GET %s = %d, want 204", path, rec.Code)
		}
	}
	if gated != 1 {
		t.Errorf("init middleware wrapped %d handlers, want only the gated one", gated)
	}
}

func TestRegistry_BuildCommands(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeEndpoint{method: "GET", path: "/a", cmdName: "alpha"})
	r.Register(&fakeEndpoint{method: "GET", path: "/b", cmdName: "beta"})
	r.Register(&fakeEndpoint{method: "GET", path: "/c"}) // no CLI command

	apiCmd := r.BuildCommands(func() string { return "http://localhost:8090" })
	if apiCmd.Use != "api" {
		t.Errorf("Use = %q, want api", apiCmd.Use)
	}
	if got := len(apiCmd.Commands()); got != 2 {
		t.Errorf("subcommands = %d, want 2 (nil commands skipped)", got)
	}
	if got := len(r.Endpoints()); got != 3 {
		t.Errorf("Endpoints() = %d, want 3", got)
	}
}
