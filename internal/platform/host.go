package platform

import (
	"path/filepath"
	"runtime"
)

// DetectHost builds the Host wenget is installing onto from the running
// binary's GOOS/GOARCH, enriched on Linux with a best-effort glibc-vs-musl
// detection so the asymmetric libc-fallback scoring in scoreCompiler has a
// real preference to apply instead of always falling through to its
// compiler-unknown branch.
func DetectHost() Host {
	h := Host{OS: goosToOS(runtime.GOOS), Arch: goarchToArch(runtime.GOARCH)}
	if h.OS == Linux {
		h.Compiler = detectLinuxLibc()
	}
	return h
}

func goosToOS(goos string) OS {
	switch goos {
	case "windows":
		return Windows
	case "linux":
		return Linux
	case "darwin":
		return MacOS
	case "freebsd":
		return FreeBSD
	default:
		return UnknownOS
	}
}

func goarchToArch(goarch string) Arch {
	switch goarch {
	case "amd64":
		return X86_64
	case "386":
		return I686
	case "arm64":
		return Aarch64
	case "arm":
		return Armv7
	default:
		return UnknownArch
	}
}

// detectLinuxLibc looks for musl's loader, the one filesystem signal that
// reliably distinguishes an Alpine-style musl host from a glibc one without
// shelling out. Absence of a match (including non-Linux test sandboxes)
// falls back to Gnu, the overwhelmingly common case.
func detectLinuxLibc() Compiler {
	for _, pattern := range []string{"/lib/ld-musl-*.so*", "/lib64/ld-musl-*.so*", "/usr/lib/ld-musl-*.so*"} {
		matches, err := filepath.Glob(pattern)
		if err == nil && len(matches) > 0 {
			return Musl
		}
	}
	return Gnu
}
