// Package github fetches release metadata from the GitHub REST API, the
// only release provider wenget ships today.
package github

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/superyngo/wenget/internal/model"
	"github.com/superyngo/wenget/internal/wgerr"
)

// TokenFromEnv reads the optional bearer token used to raise GitHub's
// unauthenticated rate limit. WENGET_GITHUB_TOKEN takes priority over the
// ambient GITHUB_TOKEN so CI environments that set the latter for unrelated
// tooling don't silently get picked up.
func TokenFromEnv() string {
	if tok := strings.TrimSpace(os.Getenv("WENGET_GITHUB_TOKEN")); tok != "" {
		return tok
	}
	return strings.TrimSpace(os.Getenv("GITHUB_TOKEN"))
}

func UserAgent(version string) string {
	return fmt.Sprintf("wenget/%s", version)
}

// Provider fetches releases from GitHub.
type Provider struct {
	http      *http.Client
	userAgent string
	token     string
}

// New constructs a Provider. token, when empty, falls back to TokenFromEnv
// so callers that don't bind it through their own config layer still pick
// up WENGET_GITHUB_TOKEN/GITHUB_TOKEN directly.
func New(version, token string) *Provider {
	if token == "" {
		token = TokenFromEnv()
	}
	return &Provider{
		http:      &http.Client{Timeout: 30 * time.Second},
		userAgent: UserAgent(version),
		token:     token,
	}
}

// repoRelease mirrors the subset of GitHub's release JSON wenget consumes.
type repoRelease struct {
	TagName     string `json:"tag_name"`
	PublishedAt string `json:"published_at"`
	Assets      []struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
		Size               int64  `json:"size"`
	} `json:"assets"`
}

// FetchLatest returns the most recent published release for owner/repo.
func (p *Provider) FetchLatest(owner, repo string) (model.Release, error) {
	url := fmt.Sprintf("https://api.github.com/repos/%s/%s/releases/latest", owner, repo)
	return p.fetchRelease(url, owner+"/"+repo)
}

// FetchTag returns the release tagged exactly tag for owner/repo.
func (p *Provider) FetchTag(owner, repo, tag string) (model.Release, error) {
	url := fmt.Sprintf("https://api.github.com/repos/%s/%s/releases/tags/%s", owner, repo, tag)
	return p.fetchRelease(url, owner+"/"+repo+"@"+tag)
}

func (p *Provider) fetchRelease(url, subject string) (model.Release, error) {
	resp, err := p.get(url)
	if err != nil {
		return model.Release{}, err
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp, subject); err != nil {
		return model.Release{}, err
	}

	var raw repoRelease
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return model.Release{}, wgerr.Wrap(wgerr.NetworkFatal, subject, fmt.Errorf("decode release response: %w", err))
	}

	published, _ := time.Parse(time.RFC3339, raw.PublishedAt)
	release := model.Release{TagName: raw.TagName, PublishedAt: published}
	for _, a := range raw.Assets {
		release.Assets = append(release.Assets, model.Asset{
			Name:               a.Name,
			BrowserDownloadUrl: a.BrowserDownloadURL,
			Size:               a.Size,
		})
	}
	return release, nil
}

func (p *Provider) get(url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, wgerr.Wrap(wgerr.NetworkTransient, url, err)
	}
	return resp, nil
}

// classifyStatus maps a GitHub API HTTP status to wenget's error taxonomy.
func classifyStatus(resp *http.Response, subject string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
		if resp.Header.Get("X-RateLimit-Remaining") == "0" || resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := 0
			if reset := resp.Header.Get("X-RateLimit-Reset"); reset != "" {
				if sec, err := strconv.ParseInt(reset, 10, 64); err == nil {
					retryAfter = int(time.Until(time.Unix(sec, 0)).Seconds())
					if retryAfter < 0 {
						retryAfter = 0
					}
				}
			}
			return wgerr.NewRateLimited(subject, retryAfter)
		}
	}
	if resp.StatusCode == http.StatusNotFound {
		return wgerr.New(wgerr.NotFound, subject)
	}
	if resp.StatusCode >= 500 {
		body, _ := io.ReadAll(resp.Body)
		return wgerr.Wrap(wgerr.NetworkTransient, subject, fmt.Errorf("github returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}
	body, _ := io.ReadAll(resp.Body)
	return wgerr.Wrap(wgerr.NetworkFatal, subject, fmt.Errorf("github returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
}
