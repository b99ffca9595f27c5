package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sheetview/internal/config"
	"sheetview/internal/gateway"
)

func newServer(t *testing.T) *gateway.Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/files", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`["people"]`))
	})
	mux.HandleFunc("/api/file/people", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"headers":["name","age"],"data":[{"name":"Ann","age":31},{"name":"Bob","age":9},{"name":"Cid","age":100}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	gw, err := gateway.New(srv.URL)
	if err != nil {
		t.Fatalf("gateway.New: %v", err)
	}
	return gw
}

func TestRunBatchSortedCSV(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out", "people.csv")
	cfg := &config.Config{Dataset: "people", SortColumn: "age", SortDesc: true, ExportFormat: "csv", ExportOut: out, Compression: "none"}
	if err := runBatch(context.Background(), cfg, newServer(t)); err != nil {
		t.Fatalf("runBatch: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(b), "name,age\nCid,100\nAnn,31\nBob,9\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRunBatchErrors(t *testing.T) {
	gw := newServer(t)
	dir := t.TempDir()
	cfg := &config.Config{Dataset: "people", SortColumn: "height", ExportFormat: "csv", ExportOut: filepath.Join(dir, "a.csv"), Compression: "none"}
	if err := runBatch(context.Background(), cfg, gw); err == nil || !strings.Contains(err.Error(), `no column "height"`) {
		t.Fatalf("unknown sort column: %v", err)
	}
	cfg = &config.Config{Dataset: "ghost", ExportFormat: "csv", ExportOut: filepath.Join(dir, "b.csv"), Compression: "none"}
	if err := runBatch(context.Background(), cfg, gw); err == nil || !strings.Contains(err.Error(), "no longer available") {
		t.Fatalf("missing dataset: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "b.csv")); !os.IsNotExist(err) {
		t.Fatalf("no file should be written: %v", err)
	}
}
