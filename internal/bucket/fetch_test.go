package bucket

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPFetcherParsesValidManifest(t *testing.T) {
	manifest := `{"packages":[{"name":"ripgrep","repo":"BurntSushi/ripgrep","platforms":{}}],"scripts":[]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(manifest))
	}))
	defer srv.Close()

	got, err := NewHTTPFetcher().Fetch(srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got.Packages) != 1 || got.Packages[0].Name != "ripgrep" {
		t.Fatalf("unexpected manifest: %+v", got)
	}
}

func TestHTTPFetcherRejectsNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := NewHTTPFetcher().Fetch(srv.URL); err == nil {
		t.Fatal("expected an error for a 500 response")
	}
}
