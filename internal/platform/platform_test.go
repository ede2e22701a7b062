package platform

import "testing"

func TestParseOSKeywords(t *testing.T) {
	cases := []struct {
		name string
		want OS
	}{
		{"tool-x86_64-unknown-linux-gnu.tar.gz", Linux},
		{"tool-x86_64-apple-darwin.tar.gz", MacOS},
		{"tool-x86_64-pc-windows-msvc.zip", Windows},
		{"tool.exe", Windows},
		{"tool-freebsd-amd64.tar.gz", FreeBSD},
	}
	for _, c := range cases {
		got := Parse(c.name)
		if got.OS != c.want {
			t.Errorf("Parse(%q).OS = %s, want %s", c.name, got.OS, c.want)
		}
	}
}

func TestParseArchKeywords(t *testing.T) {
	cases := []struct {
		name string
		want Arch
	}{
		{"tool-x86_64-unknown-linux-gnu.tar.gz", X86_64},
		{"tool-aarch64-unknown-linux-musl.tar.gz", Aarch64},
		{"tool-armv7-unknown-linux-gnueabihf.tar.gz", Armv7},
		{"tool-x86_64-apple-darwin.tar.gz", X86_64},
		{"tool-x86-pc-windows-msvc.zip", I686},
	}
	for _, c := range cases {
		got := Parse(c.name)
		if got.Arch != c.want {
			t.Errorf("Parse(%q).Arch = %s, want %s", c.name, got.Arch, c.want)
		}
	}
}

func TestParseUnsupportedArch(t *testing.T) {
	got := Parse("tool-s390x-unknown-linux-gnu.tar.gz")
	if got.Arch != Unsupported {
		t.Fatalf("expected Unsupported arch, got %s", got.Arch)
	}
}

func TestScoreRejectsUnsupportedArchEvenWithOSMatch(t *testing.T) {
	host := Host{OS: Linux, Arch: X86_64, Compiler: Gnu}
	desc := Parse("tool-ppc64le-unknown-linux-gnu.tar.gz")
	_, _, ok := Score(desc, host)
	if ok {
		t.Fatal("expected unsupported-arch asset to be rejected")
	}
}

// TestScoreRejectsPowerpc64EvenWithDefaultArchHost uses the literal
// asset/host pair SPEC_FULL.md's scenario 4 names: without powerpc64 in the
// blocklist, DefaultArch(Linux) silently substitutes x86_64 for the unknown
// arch token and the asset wrongly scores as a default-arch match.
func TestScoreRejectsPowerpc64EvenWithDefaultArchHost(t *testing.T) {
	host := Host{OS: Linux, Arch: X86_64, Compiler: Gnu}
	desc := Parse("app-powerpc64-unknown-linux-gnu.tar.gz")
	if desc.Arch != Unsupported {
		t.Fatalf("expected Unsupported arch, got %s", desc.Arch)
	}
	_, _, ok := Score(desc, host)
	if ok {
		t.Fatal("expected powerpc64 asset to be rejected even on a default-arch-matching host")
	}
}

func TestScoreRejectsOSMismatch(t *testing.T) {
	host := Host{OS: Linux, Arch: X86_64, Compiler: Gnu}
	desc := Parse("tool-x86_64-apple-darwin.tar.gz")
	_, _, ok := Score(desc, host)
	if ok {
		t.Fatal("expected OS mismatch to be rejected")
	}
}

func TestScorePrefersHostCompilerFamilyWithMuslFallback(t *testing.T) {
	host := Host{OS: Linux, Arch: X86_64, Compiler: Gnu}
	gnu := Parse("tool-x86_64-unknown-linux-gnu.tar.gz")
	musl := Parse("tool-x86_64-unknown-linux-musl.tar.gz")

	result, err := FindBestMatch(host, []ParsedAsset{gnu, musl})
	if err != nil {
		t.Fatalf("FindBestMatch: %v", err)
	}
	if result.Asset.Compiler != Gnu {
		t.Fatalf("expected gnu asset to win on a gnu host, got %s", result.Asset.Compiler)
	}
	if result.Fallback != Exact {
		t.Fatalf("expected Exact fallback for an exact compiler match, got %s", result.Fallback)
	}

	result2, err := FindBestMatch(host, []ParsedAsset{musl})
	if err != nil {
		t.Fatalf("FindBestMatch: %v", err)
	}
	if result2.Asset.Compiler != Musl {
		t.Fatalf("expected musl-only candidate to be selected, got %s", result2.Asset.Compiler)
	}
	if result2.Fallback != CompatibleAuto {
		t.Fatalf("expected CompatibleAuto when falling back to musl on a gnu host, got %s", result2.Fallback)
	}
}

func TestScoreGnuOnMuslHostNeedsConfirm(t *testing.T) {
	host := Host{OS: Linux, Arch: X86_64, Compiler: Musl}
	gnu := Parse("tool-x86_64-unknown-linux-gnu.tar.gz")

	result, err := FindBestMatch(host, []ParsedAsset{gnu})
	if err != nil {
		t.Fatalf("FindBestMatch: %v", err)
	}
	if result.Fallback != CompatibleConfirm {
		t.Fatalf("expected CompatibleConfirm for a gnu binary on a musl host, got %s", result.Fallback)
	}
}

func TestScoreUnspecifiedArchMatchesOSDefault(t *testing.T) {
	host := Host{OS: MacOS, Arch: Aarch64, Compiler: NoCompiler}
	desc := Parse("tool-macos.tar.gz")

	result, err := FindBestMatch(host, []ParsedAsset{desc})
	if err != nil {
		t.Fatalf("FindBestMatch: %v", err)
	}
	if result.Fallback != CompatibleAuto {
		t.Fatalf("expected CompatibleAuto for unlabeled arch matching the OS default, got %s", result.Fallback)
	}
}

func TestScoreRosettaFallbackNeedsConfirm(t *testing.T) {
	host := Host{OS: MacOS, Arch: Aarch64, Compiler: NoCompiler}
	desc := Parse("tool-x86_64-apple-darwin.tar.gz")

	result, err := FindBestMatch(host, []ParsedAsset{desc})
	if err != nil {
		t.Fatalf("FindBestMatch: %v", err)
	}
	if result.Fallback != CompatibleConfirm {
		t.Fatalf("expected CompatibleConfirm for an x86_64 asset on an aarch64 macOS host, got %s", result.Fallback)
	}
}

func TestScoreRejectsExplicitArchMismatchOutsideEmulationPairs(t *testing.T) {
	host := Host{OS: Linux, Arch: X86_64, Compiler: Gnu}
	desc := Parse("tool-aarch64-unknown-linux-gnu.tar.gz")

	_, _, ok := Score(desc, host)
	if ok {
		t.Fatal("expected aarch64 asset to be rejected on an x86_64 linux host")
	}
}

func TestFindBestMatchNoMatchListsCandidates(t *testing.T) {
	host := Host{OS: Windows, Arch: X86_64, Compiler: Msvc}
	desc := []ParsedAsset{Parse("tool-x86_64-unknown-linux-gnu.tar.gz")}

	_, err := FindBestMatch(host, desc)
	if err == nil {
		t.Fatal("expected an error when no candidate matches")
	}
	nm, ok := err.(*NoMatchError)
	if !ok {
		t.Fatalf("expected *NoMatchError, got %T", err)
	}
	if len(nm.Candidates) != 1 {
		t.Fatalf("expected 1 candidate listed, got %d", len(nm.Candidates))
	}
}

func TestIsRejectedSidecarsAndInstallers(t *testing.T) {
	rejects := []string{
		"tool-1.0.0-source.tar.gz",
		"tool_amd64.deb",
		"tool.msi",
		"tool.tar.gz.sha256",
		"tool.tar.gz.asc",
	}
	for _, name := range rejects {
		if !IsRejected(name) {
			t.Errorf("expected %q to be rejected", name)
		}
	}
	if IsRejected("tool-x86_64-unknown-linux-gnu.tar.gz") {
		t.Error("did not expect a normal release asset to be rejected")
	}
}

func TestExtractVariantAgainstBaseline(t *testing.T) {
	base := Parse("tool-x86_64-unknown-linux-gnu.tar.gz")
	nightly := Parse("tool-nightly-x86_64-unknown-linux-gnu.tar.gz")

	variant := ExtractVariant(nightly, []ParsedAsset{base, nightly})
	if variant != "nightly" {
		t.Fatalf("ExtractVariant = %q, want %q", variant, "nightly")
	}
}

func TestPlatformKeyRoundTrip(t *testing.T) {
	key := PlatformKey(Linux, X86_64, Musl)
	if key != "linux-x86_64-musl" {
		t.Fatalf("PlatformKey = %q", key)
	}
	os, arch, compiler, err := ParsePlatformKey(key)
	if err != nil {
		t.Fatalf("ParsePlatformKey: %v", err)
	}
	if os != Linux || arch != X86_64 || compiler != Musl {
		t.Fatalf("ParsePlatformKey round-trip mismatch: %s %s %s", os, arch, compiler)
	}
}
