package github

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/superyngo/wenget/internal/wgerr"
)

func TestFetchLatestDecodesAssets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tag_name":"v1.2.3","published_at":"2026-01-01T00:00:00Z","assets":[
			{"name":"tool-x86_64-unknown-linux-gnu.tar.gz","browser_download_url":"https://example.com/a","size":1024}
		]}`))
	}))
	defer srv.Close()

	p := New("test", "")
	release, err := p.fetchRelease(srv.URL, "owner/repo")
	if err != nil {
		t.Fatalf("fetchRelease: %v", err)
	}
	if release.TagName != "v1.2.3" {
		t.Fatalf("TagName = %q", release.TagName)
	}
	if len(release.Assets) != 1 || release.Assets[0].Name != "tool-x86_64-unknown-linux-gnu.tar.gz" {
		t.Fatalf("unexpected assets: %+v", release.Assets)
	}
}

func TestFetchReleaseRateLimited(t *testing.T) {
	reset := time.Now().Add(30 * time.Second).Unix()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset, 10))
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	p := New("test", "")
	_, err := p.fetchRelease(srv.URL, "owner/repo")
	if !wgerr.Is(err, wgerr.RateLimited) {
		t.Fatalf("expected RateLimited, got %v", err)
	}
}

func TestFetchReleaseNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := New("test", "")
	_, err := p.fetchRelease(srv.URL, "owner/repo")
	if !wgerr.Is(err, wgerr.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
