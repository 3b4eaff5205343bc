package httpbind

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/wappdev/wapp/core/openapi"
)

func TestMountDocs(t *testing.T) {
	r := chi.NewRouter()
	spec := &openapi.Spec{
		OpenAPI: "3.0.3",
		Info:    openapi.Info{Title: "Test", Version: "1.0.0"},
		Paths:   map[string]openapi.PathItem{},
	}
	MountDocs(r, spec)

	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/openapi.json")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("openapi.json status = %d", resp.StatusCode)
	}

	var got openapi.Spec
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Info.Title != "Test" {
		t.Errorf("served spec title = %q", got.Info.Title)
	}

	docsResp, err := http.Get(srv.URL + "/docs/index.html")
	if err != nil {
		t.Fatal(err)
	}
	docsResp.Body.Close()
	if docsResp.StatusCode != http.StatusOK {
		t.Errorf("docs status = %d", docsResp.StatusCode)
	}
}

func TestMountMetricsDefaultPath(t *testing.T) {
	r := chi.NewRouter()
	MountMetrics(r, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), "")

	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("metrics status = %d", resp.StatusCode)
	}
}
