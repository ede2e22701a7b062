package install

import "testing"

func TestScoreExecutablesPrefersNameMatchAtRoot(t *testing.T) {
	files := []ExtractedFile{
		{RelPath: "README.md", Executable: false},
		{RelPath: "bin/rg", Executable: true},
		{RelPath: "rg-v2", Executable: true},
	}
	scored := ScoreExecutables(files, "rg")
	if len(scored) == 0 {
		t.Fatal("expected at least one candidate")
	}
	if scored[0].RelPath != "rg-v2" && scored[0].RelPath != "bin/rg" {
		t.Fatalf("unexpected top candidate: %s", scored[0].RelPath)
	}
	// README.md earns only the root-location bonus (+20), so it ranks last.
	last := scored[len(scored)-1]
	if last.RelPath != "README.md" || last.Score != 20 {
		t.Fatalf("expected README.md last with score 20, got %s with %d", last.RelPath, last.Score)
	}
}

func TestScoreExecutablesSubstringBonus(t *testing.T) {
	files := []ExtractedFile{{RelPath: "uvx", Executable: true}}
	scored := ScoreExecutables(files, "uv")
	if len(scored) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(scored))
	}
	// execute bit (+40) + root location (+20) + substring match (+10), no exact name.
	if scored[0].Score < 40 {
		t.Fatalf("expected uvx to score from substring+exec bonuses, got %d", scored[0].Score)
	}
}

func TestNormalizeCandidateNameStripsVersionSuffix(t *testing.T) {
	if got := NormalizeCandidateName("rg-v2"); got != "rg" {
		t.Fatalf("NormalizeCandidateName(rg-v2) = %q", got)
	}
	if got := NormalizeCandidateName("rg.exe"); got != "rg" {
		t.Fatalf("NormalizeCandidateName(rg.exe) = %q", got)
	}
}

func TestSelectExecutablesAutoYesCapsAtThree(t *testing.T) {
	candidates := []ScoredCandidate{
		{ExtractedFile: ExtractedFile{RelPath: "a"}, Score: 100},
		{ExtractedFile: ExtractedFile{RelPath: "b"}, Score: 90},
		{ExtractedFile: ExtractedFile{RelPath: "c"}, Score: 80},
		{ExtractedFile: ExtractedFile{RelPath: "d"}, Score: 70},
	}
	selected, needsPrompt := SelectExecutables(candidates, true)
	if needsPrompt {
		t.Fatal("expected auto-yes to avoid prompting")
	}
	if len(selected) != 3 {
		t.Fatalf("expected 3 selected, got %d", len(selected))
	}
}

func TestSelectExecutablesNeedsPromptWithoutAutoYes(t *testing.T) {
	candidates := make([]ScoredCandidate, 4)
	for i := range candidates {
		candidates[i] = ScoredCandidate{ExtractedFile: ExtractedFile{RelPath: "x"}, Score: 10}
	}
	_, needsPrompt := SelectExecutables(candidates, false)
	if !needsPrompt {
		t.Fatal("expected a prompt when more than 3 candidates exist without auto-yes")
	}
}
