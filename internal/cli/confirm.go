package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/huh"

	"github.com/superyngo/wenget/internal/install"
	"github.com/superyngo/wenget/internal/platform"
)

// confirm asks a yes/no question through huh's accessible form renderer,
// which falls back to plain line-based prompts over stdin/stdout instead of
// the full-screen TUI — the mode that keeps this testable against arbitrary
// io.Reader/io.Writer pairs and sane when wenget's output is piped.
func confirm(stdin io.Reader, stdout io.Writer, prompt string) bool {
	var ok bool
	field := huh.NewConfirm().
		Title(prompt).
		Affirmative("Yes").
		Negative("No").
		Value(&ok)

	form := huh.NewForm(huh.NewGroup(field)).
		WithAccessible(true).
		WithInput(stdin).
		WithOutput(stdout)

	if err := form.Run(); err != nil {
		return false
	}
	return ok
}

// confirmFallback gates a CompatibleConfirm match behind user consent,
// per §4.1's "the caller MUST obtain affirmative confirmation unless the
// auto-yes flag is set". The matcher stays pure; this orchestration-level
// helper is the caller §4.1 refers to.
func confirmFallback(stdin io.Reader, stdout io.Writer, autoYes bool, fallback platform.FallbackType, assetName string) bool {
	if fallback != platform.CompatibleConfirm {
		return true
	}
	if autoYes {
		return true
	}
	return confirm(stdin, stdout, fmt.Sprintf("%s is not an exact match for your platform but may be compatible. Install anyway?", assetName))
}

// selectExecutables resolves a NeedsSelection outcome: with more than three
// scored candidates and no auto-yes, the user picks which ones to install.
// autoYes already short-circuits this in install.SelectExecutables before
// NeedsSelection is ever set, so this path only runs interactively.
func selectExecutables(stdin io.Reader, stdout io.Writer, candidates []install.ScoredCandidate) []install.ScoredCandidate {
	options := make([]huh.Option[int], len(candidates))
	for i, c := range candidates {
		options[i] = huh.NewOption(fmt.Sprintf("%s (score %d)", c.RelPath, c.Score), i)
	}

	var picked []int
	field := huh.NewMultiSelect[int]().
		Title("Multiple candidate executables were found; choose which to install").
		Options(options...).
		Value(&picked)

	form := huh.NewForm(huh.NewGroup(field)).
		WithAccessible(true).
		WithInput(stdin).
		WithOutput(stdout)

	if err := form.Run(); err != nil {
		return nil
	}

	chosen := make([]install.ScoredCandidate, 0, len(picked))
	for _, i := range picked {
		if i >= 0 && i < len(candidates) {
			chosen = append(chosen, candidates[i])
		}
	}
	return chosen
}
