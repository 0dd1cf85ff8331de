package npm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/skoenig/depup/pkg/registry"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, registry.NewClient(nil, time.Hour)), server
}

func TestLatest(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/lodash/latest" {
			t.Errorf("path = %q, want /lodash/latest", r.URL.Path)
		}
		w.Write([]byte(`{"name":"lodash","version":"4.17.21"}`))
	})

	got, err := client.Latest(context.Background(), "lodash", false)
	if err != nil {
		t.Fatalf("Latest() error: %v", err)
	}
	if got != "4.17.21" {
		t.Errorf("Latest() = %q, want %q", got, "4.17.21")
	}
}

func TestLatestNotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := client.Latest(context.Background(), "this-package-should-not-exist-12345", false)
	if !errors.Is(err, registry.ErrNotFound) {
		t.Errorf("Latest() error = %v, want ErrNotFound", err)
	}
}

func TestLatestMissingVersion(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"lodash"}`))
	})

	_, err := client.Latest(context.Background(), "lodash", false)
	if !errors.Is(err, registry.ErrNetwork) {
		t.Errorf("Latest() error = %v, want ErrNetwork", err)
	}
}

func TestEscapeName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"lodash", "lodash"},
		{"@types/node", "@types%2Fnode"},
		{"@scope/deep.name", "@scope%2Fdeep.name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escapeName(tt.name); got != tt.want {
				t.Errorf("escapeName(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}
