// Package platform parses release asset filenames into structured
// descriptors and scores them against a host to pick the best-fitting
// artifact, with documented cross-ABI fallbacks.
package platform

import (
	"fmt"
	"sort"
	"strings"
)

type OS string

const (
	Windows    OS = "windows"
	Linux      OS = "linux"
	MacOS      OS = "macos"
	FreeBSD    OS = "freebsd"
	UnknownOS  OS = "unknown"
)

type Arch string

const (
	X86_64       Arch = "x86_64"
	I686         Arch = "i686"
	Aarch64      Arch = "aarch64"
	Armv7        Arch = "armv7"
	UnknownArch  Arch = "unknown"
	Unsupported  Arch = "unsupported" // carries the offending keyword in ParsedAsset.ArchKeyword
)

type Compiler string

const (
	Gnu         Compiler = "gnu"
	Musl        Compiler = "musl"
	Msvc        Compiler = "msvc"
	NoCompiler  Compiler = ""
)

type Extension string

const (
	ExtZip        Extension = "zip"
	ExtTarGz      Extension = "tar.gz"
	ExtTarXz      Extension = "tar.xz"
	ExtTarBz2     Extension = "tar.bz2"
	ExtSevenZ     Extension = "7z"
	ExtExe        Extension = "exe"
	ExtMsi        Extension = "msi" // rejected
	ExtRaw        Extension = "raw" // uncompressed binary
	ExtUnknownExt Extension = "unknown"
)

// FallbackType describes how closely a chosen asset matches the host.
type FallbackType string

const (
	Exact             FallbackType = "exact"
	CompatibleAuto    FallbackType = "compatible_auto"
	CompatibleConfirm FallbackType = "compatible_confirm"
	NoMatch           FallbackType = "none"
)

// severity orders fallback kinds so combining two contributing factors keeps
// the more degraded one.
func (f FallbackType) severity() int {
	switch f {
	case Exact:
		return 0
	case CompatibleAuto:
		return 1
	case CompatibleConfirm:
		return 2
	default:
		return 3
	}
}

func worseOf(a, b FallbackType) FallbackType {
	if a.severity() >= b.severity() {
		return a
	}
	return b
}

// ParsedAsset is the structured descriptor extracted from an asset filename.
type ParsedAsset struct {
	RawName    string
	Extension  Extension
	OS         OS
	Arch       Arch
	ArchKeyword string // set when Arch == Unsupported
	Compiler   Compiler
	Tokens     []string // lowercase tokens not consumed by os/arch/compiler/extension
}

// Host is the platform wenget is installing onto.
type Host struct {
	OS       OS
	Arch     Arch
	Compiler Compiler
}

var osKeywords = map[OS][]string{
	Windows: {"windows", "win64", "win32", "pc-windows", "win"},
	Linux:   {"linux", "unknown-linux"},
	MacOS:   {"darwin", "macos", "apple", "osx", "mac"},
	FreeBSD: {"freebsd"},
}

// osCheckOrder matters: "darwin" must be checked before "win" substrings
// could ever false-match, and more specific OS keyword sets are checked
// before the generic ones.
var osCheckOrder = []OS{MacOS, FreeBSD, Linux, Windows}

var archKeywords = map[Arch][]string{
	X86_64:  {"x86_64", "amd64", "x64"},
	I686:    {"i686", "i386", "386"},
	Aarch64: {"aarch64", "arm64"},
	Armv7:   {"armv7", "armv6", "armhf"},
}

var archCheckOrder = []Arch{X86_64, Aarch64, Armv7, I686}

var compilerKeywords = map[Compiler][]string{
	Musl: {"musl"},
	Msvc: {"msvc"},
	Gnu:  {"gnu", "gnueabihf", "glibc"},
}

var compilerCheckOrder = []Compiler{Musl, Msvc, Gnu}

// unsupportedArchKeywords carries keywords for architectures wenget will
// never support; presence anywhere in the filename hard-rejects the asset
// even when the OS token matched.
var unsupportedArchKeywords = []string{
	"powerpc64", "powerpc", "ppc64le", "ppc64", "ppc", "riscv64", "riscv", "mips64", "mips",
	"s390x", "s390", "sparc64", "alpha", "sh4", "hppa", "ia64", "loongarch64", "loong",
}

var rejectExtensions = []string{".msi", ".deb", ".rpm", ".apk", ".dmg", ".pkg"}

var rejectNameSubstrings = []string{"source", "src", "sources", ".sha256", ".asc", ".sig"}

// DefaultArch returns the architecture assumed when an asset's filename
// carries no arch token, or UnknownArch if the OS requires an explicit one.
func DefaultArch(os OS) Arch {
	switch os {
	case Windows, Linux:
		return X86_64
	case MacOS:
		return Aarch64
	default:
		return UnknownArch
	}
}

func detectExtension(lower string) Extension {
	switch {
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return ExtTarGz
	case strings.HasSuffix(lower, ".tar.xz"), strings.HasSuffix(lower, ".txz"):
		return ExtTarXz
	case strings.HasSuffix(lower, ".tar.bz2"), strings.HasSuffix(lower, ".tbz2"):
		return ExtTarBz2
	case strings.HasSuffix(lower, ".zip"):
		return ExtZip
	case strings.HasSuffix(lower, ".7z"):
		return ExtSevenZ
	case strings.HasSuffix(lower, ".exe"):
		return ExtExe
	case strings.HasSuffix(lower, ".msi"):
		return ExtMsi
	case !strings.Contains(lower, "."):
		return ExtRaw
	default:
		return ExtUnknownExt
	}
}

// IsRejected reports whether the filename must be excluded outright, before
// any scoring: disallowed archive/installer formats or source/checksum/
// signature sidecar files.
func IsRejected(filename string) bool {
	lower := strings.ToLower(filename)
	for _, ext := range rejectExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	for _, sub := range rejectNameSubstrings {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}

func tokenize(lower string) []string {
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || r == ' '
	})
	return fields
}

// Parse extracts a structured descriptor from an asset filename.
func Parse(filename string) ParsedAsset {
	lower := strings.ToLower(filename)
	ext := detectExtension(lower)

	p := ParsedAsset{RawName: filename, Extension: ext, Compiler: NoCompiler}

	for _, kw := range unsupportedArchKeywords {
		if strings.Contains(lower, kw) {
			p.Arch = Unsupported
			p.ArchKeyword = kw
			break
		}
	}

	for _, os := range osCheckOrder {
		for _, kw := range osKeywords[os] {
			if strings.Contains(lower, kw) {
				p.OS = os
				break
			}
		}
		if p.OS != "" {
			break
		}
	}
	if p.OS == "" && ext == ExtExe {
		p.OS = Windows
	}
	if p.OS == "" {
		p.OS = UnknownOS
	}

	if p.Arch != Unsupported {
		if strings.Contains(lower, "x86") && !strings.Contains(lower, "x86_64") {
			if p.OS == MacOS {
				p.Arch = X86_64
			} else {
				p.Arch = I686
			}
		} else {
			for _, arch := range archCheckOrder {
				for _, kw := range archKeywords[arch] {
					if strings.Contains(lower, kw) {
						p.Arch = arch
						break
					}
				}
				if p.Arch != "" {
					break
				}
			}
		}
	}
	if p.Arch == "" {
		p.Arch = UnknownArch
	}

	for _, c := range compilerCheckOrder {
		for _, kw := range compilerKeywords[c] {
			if strings.Contains(lower, kw) {
				p.Compiler = c
				break
			}
		}
		if p.Compiler != NoCompiler {
			break
		}
	}

	p.Tokens = residualTokens(lower, p)
	return p
}

// residualTokens returns the tokens left after removing every token that
// matched an os/arch/compiler keyword or the extension; used for command
// name derivation and variant extraction.
func residualTokens(lower string, p ParsedAsset) []string {
	consumed := map[string]bool{}
	add := func(kws []string) {
		for _, k := range kws {
			consumed[k] = true
		}
	}
	if p.OS != "" && p.OS != UnknownOS {
		add(osKeywords[p.OS])
	}
	if p.Arch != "" && p.Arch != UnknownArch && p.Arch != Unsupported {
		add(archKeywords[p.Arch])
	}
	if p.Compiler != NoCompiler {
		add(compilerKeywords[p.Compiler])
	}
	consumed["x86"] = true

	var out []string
	for _, tok := range tokenize(lower) {
		if consumed[tok] {
			continue
		}
		switch tok {
		case "tar", "gz", "tgz", "xz", "txz", "bz2", "tbz2", "zip", "7z", "exe", "msi":
			continue
		}
		out = append(out, tok)
	}
	return out
}

// candidateScore is the score plus the fallback severity contributed by
// the arch and compiler decisions, kept separate so FindBestMatch can
// report the most-degraded contributing factor.
type candidateScore struct {
	asset    ParsedAsset
	score    int
	fallback FallbackType
}

func scoreArch(desc ParsedAsset, host Host) (int, FallbackType, bool) {
	if desc.Arch == Unsupported {
		return 0, NoMatch, false
	}
	if desc.Arch == UnknownArch {
		def := DefaultArch(desc.OS)
		if def == UnknownArch {
			// OS requires an explicit arch (FreeBSD) and none was given.
			return 0, NoMatch, false
		}
		if host.Arch == def {
			return 25, CompatibleAuto, true
		}
		// Unlabeled asset, host arch isn't the OS default: accept weakly,
		// we cannot tell if it would run.
		return 0, CompatibleConfirm, true
	}
	if desc.Arch == host.Arch {
		return 50, Exact, true
	}

	// Explicit, differing arch: only specific emulation-compatible pairs
	// are accepted, and only with confirmation.
	is64 := func(a Arch) bool { return a == X86_64 || a == Aarch64 }
	is32 := func(a Arch) bool { return a == I686 || a == Armv7 }

	switch {
	case desc.OS == MacOS && host.Arch == Aarch64 && desc.Arch == X86_64:
		// Rosetta 2.
		return 15, CompatibleConfirm, true
	case desc.OS == Windows && host.Arch == Aarch64 && desc.Arch == X86_64:
		// Windows-on-ARM x64 emulation.
		return 15, CompatibleConfirm, true
	case is64(host.Arch) && is32(desc.Arch):
		// 64-bit host installing a 32-bit binary.
		return 10, CompatibleConfirm, true
	}
	return 0, NoMatch, false
}

func scoreCompiler(desc ParsedAsset, host Host) (int, FallbackType) {
	switch desc.OS {
	case MacOS, FreeBSD:
		if desc.Compiler == NoCompiler {
			return 30, Exact
		}
		return 10, CompatibleAuto
	case Linux:
		switch {
		case desc.Compiler == host.Compiler && desc.Compiler != NoCompiler:
			return 30, Exact
		case host.Compiler == Gnu && desc.Compiler == Musl:
			// Static musl binaries run fine on a glibc host.
			return 20, CompatibleAuto
		case host.Compiler == Musl && desc.Compiler == Gnu:
			// A glibc-linked binary may be missing libc on a musl host.
			return 20, CompatibleConfirm
		case desc.Compiler == NoCompiler:
			return 10, CompatibleAuto
		default:
			return 0, CompatibleConfirm
		}
	case Windows:
		switch {
		case desc.Compiler == host.Compiler && desc.Compiler != NoCompiler:
			return 30, Exact
		case desc.Compiler == Msvc && host.Compiler == NoCompiler:
			// DetectHost sets no compiler on Windows; MSVC is the native ABI.
			return 30, Exact
		case desc.Compiler == Gnu:
			// MinGW binaries generally run fine under any Windows host.
			return 20, CompatibleAuto
		case desc.Compiler == NoCompiler:
			return 10, CompatibleAuto
		default:
			return 0, CompatibleConfirm
		}
	default:
		return 0, Exact
	}
}

func scoreFormat(ext Extension) int {
	switch ext {
	case ExtTarGz, ExtTarXz, ExtZip:
		return 5
	case ExtExe:
		return 3
	case ExtRaw:
		return 2
	default:
		return 0
	}
}

// Score returns the candidate's total score and fallback classification, or
// ok=false if the asset must be excluded for this host.
func Score(desc ParsedAsset, host Host) (score int, fallback FallbackType, ok bool) {
	if IsRejected(desc.RawName) {
		return 0, NoMatch, false
	}
	if desc.Extension == ExtMsi || desc.Extension == ExtUnknownExt {
		return 0, NoMatch, false
	}
	if desc.OS != host.OS {
		return 0, NoMatch, false
	}

	total := 100
	archScore, archFallback, archOK := scoreArch(desc, host)
	if !archOK {
		return 0, NoMatch, false
	}
	total += archScore

	compilerScore, compilerFallback := scoreCompiler(desc, host)
	total += compilerScore

	total += scoreFormat(desc.Extension)

	return total, worseOf(archFallback, compilerFallback), true
}

// MatchResult is the outcome of FindBestMatch.
type MatchResult struct {
	Asset      ParsedAsset
	Score      int
	Fallback   FallbackType
	Candidates []ParsedAsset // every asset considered, for a structured NoMatch error
}

// NoMatchError enumerates every candidate considered when nothing scored.
type NoMatchError struct {
	Host       Host
	Candidates []ParsedAsset
}

func (e *NoMatchError) Error() string {
	names := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		names[i] = c.RawName
	}
	return fmt.Sprintf("no asset matched host %s-%s: considered [%s]", e.Host.OS, e.Host.Arch, strings.Join(names, ", "))
}

// FindBestMatch scores every descriptor against host and returns the
// highest-scoring one along with its fallback classification.
func FindBestMatch(host Host, descriptors []ParsedAsset) (*MatchResult, error) {
	var scored []candidateScore
	for _, d := range descriptors {
		s, fb, ok := Score(d, host)
		if !ok {
			continue
		}
		scored = append(scored, candidateScore{asset: d, score: s, fallback: fb})
	}

	if len(scored) == 0 {
		return nil, &NoMatchError{Host: host, Candidates: descriptors}
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	best := scored[0]

	return &MatchResult{
		Asset:      best.asset,
		Score:      best.score,
		Fallback:   best.fallback,
		Candidates: descriptors,
	}, nil
}

// ExtractVariant computes the variant identifier for chosen among its
// siblings sharing the same (OS, Arch): the residual tokens of chosen that
// are not present in the sibling with the fewest residual tokens (the
// "baseline"). An empty result means no variant.
func ExtractVariant(chosen ParsedAsset, siblings []ParsedAsset) string {
	baseline := chosen
	for _, s := range siblings {
		if s.OS != chosen.OS || s.Arch != chosen.Arch {
			continue
		}
		if len(s.Tokens) < len(baseline.Tokens) {
			baseline = s
		}
	}

	baselineSet := map[string]bool{}
	for _, t := range baseline.Tokens {
		baselineSet[t] = true
	}

	var diff []string
	for _, t := range chosen.Tokens {
		if !baselineSet[t] {
			diff = append(diff, t)
		}
	}
	return strings.Join(diff, "-")
}

// PlatformKey renders the normalized "<os>-<arch>[-<compiler>]" key used in
// bucket manifests and installed records.
func PlatformKey(os OS, arch Arch, compiler Compiler) string {
	if compiler == NoCompiler {
		return fmt.Sprintf("%s-%s", os, arch)
	}
	return fmt.Sprintf("%s-%s-%s", os, arch, compiler)
}

// ParsePlatformKey is the inverse of PlatformKey.
func ParsePlatformKey(key string) (OS, Arch, Compiler, error) {
	parts := strings.Split(key, "-")
	if len(parts) < 2 || len(parts) > 3 {
		return "", "", "", fmt.Errorf("invalid platform key %q", key)
	}
	os := OS(parts[0])
	arch := Arch(parts[1])
	compiler := NoCompiler
	if len(parts) == 3 {
		compiler = Compiler(parts[2])
	}
	return os, arch, compiler, nil
}
