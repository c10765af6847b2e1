package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

const sampleDataset = `{
	"headers": ["Name", "Close Date", "Amount"],
	"data": [
		{"Name": "Alpha", "Close Date": "2026-12-01", "Amount": "$500"},
		{"Name": "Beta", "Amount": "$1,000"}
	]
}`

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scholarships.json")
	if err := os.WriteFile(path, []byte(sampleDataset), 0o644); err != nil {
		t.Fatal(err)
	}

	records, err := Load(context.Background(), NewFetcher(path, ""), path, DefaultSchema())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
}

func TestLoad_MalformedPayloadDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte(`{"rows": []}`), 0o644); err != nil {
		t.Fatal(err)
	}

	records, err := Load(context.Background(), FileFetcher{}, path, DefaultSchema())
	if err != nil {
		t.Fatalf("malformed payload must not fail, got %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load(context.Background(), FileFetcher{}, filepath.Join(t.TempDir(), "nope.json"), DefaultSchema())
	if err == nil {
		t.Fatal("expected error for missing dataset file")
	}
}

func TestHTTPFetcher_AlwaysFetchesFresh(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if cc := r.Header.Get("Cache-Control"); cc != "no-cache, no-store" {
			t.Errorf("unexpected Cache-Control %q", cc)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleDataset))
	}))
	defer srv.Close()

	fetcher := NewFetcher(srv.URL, "http")
	for i := 0; i < 2; i++ {
		records, err := Load(context.Background(), fetcher, srv.URL, DefaultSchema())
		if err != nil {
			t.Fatalf("load %d: %v", i, err)
		}
		if len(records) != 2 {
			t.Fatalf("expected 2 records, got %d", len(records))
		}
	}
	if atomic.LoadInt32(&hits) != 2 {
		t.Fatalf("expected 2 requests, got %d", hits)
	}
}

func TestHTTPFetcher_RetriesServerErrors(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(sampleDataset))
	}))
	defer srv.Close()

	records, err := Load(context.Background(), NewHTTPFetcher(), srv.URL, DefaultSchema())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
}

func TestHTTPFetcher_NotFoundFails(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	if _, err := NewHTTPFetcher().Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error on 404")
	}
}

func TestCollyFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleDataset))
	}))
	defer srv.Close()

	records, err := Load(context.Background(), NewFetcher(srv.URL, "colly"), srv.URL, DefaultSchema())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
}
