package verify

import "testing"

func TestExtractChecksumBareDigest(t *testing.T) {
	digest := "d2d2d2d2d2d2d2d2d2d2d2d2d2d2d2d2d2d2d2d2d2d2d2d2d2d2d2d2d2d2d2d2"
	got, err := ExtractChecksum([]byte(digest), "sha256", "tool-linux-amd64.tar.gz")
	if err != nil {
		t.Fatalf("ExtractChecksum: %v", err)
	}
	if got != digest {
		t.Fatalf("got %q, want %q", got, digest)
	}
}

func TestExtractChecksumConsolidatedFileMatchesAssetName(t *testing.T) {
	digest := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	other := "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	data := other + "  tool-windows-amd64.zip\n" + digest + "  tool-linux-amd64.tar.gz\n"
	got, err := ExtractChecksum([]byte(data), "sha256", "tool-linux-amd64.tar.gz")
	if err != nil {
		t.Fatalf("ExtractChecksum: %v", err)
	}
	if got != digest {
		t.Fatalf("got %q, want %q", got, digest)
	}
}

func TestExtractChecksumMissingAssetErrors(t *testing.T) {
	digest := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	data := digest + "  tool-windows-amd64.zip\n"
	if _, err := ExtractChecksum([]byte(data), "sha256", "tool-linux-amd64.tar.gz"); err == nil {
		t.Fatal("expected an error when no line matches the asset name")
	}
}

func TestDetectChecksumTypeAndAlgorithm(t *testing.T) {
	if got := DetectChecksumType("tool.sha256"); got != "per-asset" {
		t.Fatalf("DetectChecksumType(tool.sha256) = %q", got)
	}
	if got := DetectChecksumType("SHA256SUMS"); got != "consolidated" {
		t.Fatalf("DetectChecksumType(SHA256SUMS) = %q", got)
	}
	if got := DetectChecksumAlgorithm("SHA512SUMS", "sha256"); got != "sha512" {
		t.Fatalf("DetectChecksumAlgorithm(SHA512SUMS) = %q", got)
	}
	if got := DetectChecksumAlgorithm("checksums.txt", "sha256"); got != "sha256" {
		t.Fatalf("DetectChecksumAlgorithm(checksums.txt) = %q, want default", got)
	}
}
