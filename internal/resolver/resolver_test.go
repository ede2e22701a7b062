package resolver

import (
	"os"
	"path/filepath"
	"testing"
)

func TestClassifyInstalledKeyTakesPriority(t *testing.T) {
	c := Classify("ripgrep", func(key string) bool { return key == "ripgrep" })
	if c.Kind != KindInstalled {
		t.Fatalf("Kind = %s, want %s", c.Kind, KindInstalled)
	}
}

func TestClassifyLocalArchive(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "tool.tar.gz")
	if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := Classify(p, nil)
	if c.Kind != KindLocalArchive {
		t.Fatalf("Kind = %s, want %s", c.Kind, KindLocalArchive)
	}
}

func TestClassifyLocalScript(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "install.sh")
	if err := os.WriteFile(p, []byte("#!/bin/sh"), 0o755); err != nil {
		t.Fatal(err)
	}
	c := Classify(p, nil)
	if c.Kind != KindLocalScript {
		t.Fatalf("Kind = %s, want %s", c.Kind, KindLocalScript)
	}
}

func TestClassifyDirectAssetURL(t *testing.T) {
	c := Classify("https://github.com/owner/repo/releases/download/v1.0.0/tool.tar.gz", nil)
	if c.Kind != KindDirectAsset {
		t.Fatalf("Kind = %s, want %s", c.Kind, KindDirectAsset)
	}
}

func TestClassifyDirectRepoURL(t *testing.T) {
	c := Classify("https://github.com/owner/repo", nil)
	if c.Kind != KindDirectRepo {
		t.Fatalf("Kind = %s, want %s", c.Kind, KindDirectRepo)
	}
	if c.Owner != "owner" || c.Repo != "repo" {
		t.Fatalf("Owner/Repo = %s/%s", c.Owner, c.Repo)
	}
}

func TestClassifyBareGitHubURL(t *testing.T) {
	c := Classify("github.com/owner/repo/", nil)
	if c.Kind != KindDirectRepo {
		t.Fatalf("Kind = %s, want %s", c.Kind, KindDirectRepo)
	}
}

func TestClassifyNonRepoURLIsDirectAsset(t *testing.T) {
	c := Classify("https://example.com/tool.tar.gz", nil)
	if c.Kind != KindDirectAsset {
		t.Fatalf("Kind = %s, want %s", c.Kind, KindDirectAsset)
	}
}

func TestClassifyGlobPattern(t *testing.T) {
	c := Classify("rip*", nil)
	if c.Kind != KindGlob {
		t.Fatalf("Kind = %s, want %s", c.Kind, KindGlob)
	}
}

func TestClassifyFallsBackToBucketName(t *testing.T) {
	c := Classify("ripgrep", nil)
	if c.Kind != KindBucketName {
		t.Fatalf("Kind = %s, want %s", c.Kind, KindBucketName)
	}
}

func TestNormalizeGitHubURL(t *testing.T) {
	cases := map[string]string{
		"http://github.com/owner/repo/":  "https://github.com/owner/repo",
		"github.com/owner/repo.git":      "https://github.com/owner/repo",
		"https://github.com/owner/repo/": "https://github.com/owner/repo",
	}
	for in, want := range cases {
		if got := NormalizeGitHubURL(in); got != want {
			t.Errorf("NormalizeGitHubURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGlobMatch(t *testing.T) {
	if !GlobMatch("rip*", "ripgrep") {
		t.Error("expected rip* to match ripgrep")
	}
	if GlobMatch("rip*", "grep") {
		t.Error("did not expect rip* to match grep")
	}
}

func TestNormalizeTag(t *testing.T) {
	if NormalizeTag("v1.2.3") != "1.2.3" {
		t.Errorf("NormalizeTag(v1.2.3) = %q", NormalizeTag("v1.2.3"))
	}
	if NormalizeTag("1.2.3") != "1.2.3" {
		t.Errorf("NormalizeTag(1.2.3) = %q", NormalizeTag("1.2.3"))
	}
}
