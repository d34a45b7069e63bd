package cli

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/opdot/opdot/pkg/cache"
	"github.com/opdot/opdot/pkg/dot"
	"github.com/opdot/opdot/pkg/store"
)

// memStore is an in-memory Store for handler tests.
type memStore struct {
	saved []store.Export
}

func (m *memStore) Save(_ context.Context, e store.Export) error {
	m.saved = append(m.saved, e)
	return nil
}

func (m *memStore) Recent(_ context.Context, limit int) ([]store.Export, error) {
	if limit > len(m.saved) {
		limit = len(m.saved)
	}
	return m.saved[:limit], nil
}

func (m *memStore) Close(_ context.Context) error { return nil }

func newTestServer(archive store.Store) *server {
	return newServer(dot.DefaultOptions(), cache.NewNullCache(), archive, log.New(io.Discard))
}

const testModuleJSON = `{
	"name": "test",
	"regions": [{"blocks": [{"name": "bb0", "instructions": [
		{"name": "op.a", "results": ["v1"]},
		{"name": "op.b", "operands": ["v1"]}
	]}]}]
}`

func TestServeExportDOT(t *testing.T) {
	srv := httptest.NewServer(newTestServer(nil).routes())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/export?format=dot", "application/json", strings.NewReader(testModuleJSON))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "graphviz") {
		t.Errorf("Content-Type = %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "digraph G {") {
		t.Errorf("body does not look like DOT:\n%s", body)
	}
	if !strings.Contains(string(body), "op.a") {
		t.Errorf("instruction missing from output:\n%s", body)
	}
}

func TestServeExportInvalidFormat(t *testing.T) {
	srv := httptest.NewServer(newTestServer(nil).routes())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/export?format=gif", "application/json", strings.NewReader(testModuleJSON))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Code != "INVALID_FORMAT" {
		t.Errorf("code = %q, want INVALID_FORMAT", body.Code)
	}
}

func TestServeExportMalformedBody(t *testing.T) {
	srv := httptest.NewServer(newTestServer(nil).routes())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/export?format=dot", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestServeExportArchives(t *testing.T) {
	archive := &memStore{}
	srv := httptest.NewServer(newTestServer(archive).routes())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/export?format=dot", "application/json", strings.NewReader(testModuleJSON))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if len(archive.saved) != 1 {
		t.Fatalf("archived %d exports, want 1", len(archive.saved))
	}
	rec := archive.saved[0]
	if rec.Module != "test" || rec.Format != "dot" {
		t.Errorf("archived record = %+v", rec)
	}
	if !strings.Contains(rec.DOT, "digraph G {") {
		t.Errorf("archived DOT looks wrong:\n%s", rec.DOT)
	}
}

func TestServeRecentWithoutArchive(t *testing.T) {
	srv := httptest.NewServer(newTestServer(nil).routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/exports")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestServeRecentListsExports(t *testing.T) {
	archive := &memStore{saved: []store.Export{{Module: "m1", Format: "svg"}}}
	srv := httptest.NewServer(newTestServer(archive).routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/exports")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var got []store.Export
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Module != "m1" {
		t.Errorf("exports = %+v", got)
	}
}

func TestServeHealthz(t *testing.T) {
	srv := httptest.NewServer(newTestServer(nil).routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
