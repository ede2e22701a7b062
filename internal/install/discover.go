package install

import (
	"path"
	"regexp"
	"runtime"
	"sort"
	"strings"
)

var trailingVersionSuffix = regexp.MustCompile(`-v\d+$`)

// NormalizeCandidateName strips a trailing "-vN" suffix so "rg-v2" and "rg"
// both compare equal to the package name "rg".
func NormalizeCandidateName(name string) string {
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	base = trailingVersionSuffix.ReplaceAllString(base, "")
	return base
}

// ScoredCandidate is one extracted file considered as a main executable.
type ScoredCandidate struct {
	ExtractedFile
	Score int
}

// ScoreExecutables ranks every extracted file as a candidate main
// executable for packageName, per the four-factor scoring rule, and
// returns only the ones that scored above zero, highest first.
func ScoreExecutables(files []ExtractedFile, packageName string) []ScoredCandidate {
	var candidates []ScoredCandidate
	for _, f := range files {
		score := scoreCandidate(f, packageName)
		if score > 0 {
			candidates = append(candidates, ScoredCandidate{ExtractedFile: f, Score: score})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Score > candidates[j].Score })
	return candidates
}

func scoreCandidate(f ExtractedFile, packageName string) int {
	base := path.Base(f.RelPath)
	normalized := NormalizeCandidateName(base)

	score := 0
	if strings.EqualFold(normalized, packageName) {
		score += 60
	}
	if isExecutableCandidate(f) {
		score += 40
	}
	if isAtRootOrBin(f.RelPath) {
		score += 20
	}
	if strings.Contains(strings.ToLower(normalized), strings.ToLower(packageName)) {
		score += 10
	}
	return score
}

func isExecutableCandidate(f ExtractedFile) bool {
	if runtime.GOOS == "windows" {
		return strings.HasSuffix(strings.ToLower(f.RelPath), ".exe")
	}
	return f.Executable
}

func isAtRootOrBin(relPath string) bool {
	dir := path.Dir(relPath)
	if dir == "." {
		return true
	}
	base := path.Base(dir)
	return base == "bin"
}

// SelectExecutables applies the "select all candidates with score > 0,
// prompt above three" rule. autoYes selects up to the top three without a
// prompt; otherwise needsPrompt is true when there are more than three.
func SelectExecutables(candidates []ScoredCandidate, autoYes bool) (selected []ScoredCandidate, needsPrompt bool) {
	if len(candidates) <= 3 {
		return candidates, false
	}
	if autoYes {
		return candidates[:3], false
	}
	return candidates, true
}
