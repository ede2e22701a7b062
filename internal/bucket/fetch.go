package bucket

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/superyngo/wenget/internal/model"
)

// HTTPFetcher is the default Fetcher: a plain net/http.Client with the
// 10-second bucket-refresh budget from §5's cancellation rules.
type HTTPFetcher struct {
	http *http.Client
}

func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{http: &http.Client{Timeout: 10 * time.Second}}
}

func (f *HTTPFetcher) Fetch(url string) (model.SourceManifest, error) {
	resp, err := f.http.Get(url)
	if err != nil {
		return model.SourceManifest{}, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.SourceManifest{}, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.SourceManifest{}, fmt.Errorf("read %s: %w", url, err)
	}

	return FetchAndParse(raw)
}
