package install

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/superyngo/wenget/internal/model"
	"github.com/superyngo/wenget/internal/paths"
	"github.com/superyngo/wenget/internal/registry"
)

// Outcome is what RunLocal/Run/RunScript produced, ready to be persisted by
// the caller. Records holds one entry per placed executable: a package that
// extracts to a single binary yields one record; a multi-executable package
// (e.g. uv + uvx) yields one sibling record per selected binary, all sharing
// RepoName per §4.5's variant semantics.
type Outcome struct {
	Records        []model.InstalledRecord
	NeedsSelection bool // true if more than 3 executables scored and AutoYes was false
	Candidates     []ScoredCandidate
}

// RunLocal drives steps 2-7 of the install pipeline starting from a file
// already on disk — a local archive, an uncompressed local binary, or a
// directly-downloaded asset already sitting in the download cache. It is
// Run without step 1, per §4.4's "local path ending in a known archive
// extension → skip download, go to step 3" universal install path. Extract
// also handles the "local path to a plain executable" case by copying it
// through unchanged, so the same code path serves both.
func RunLocal(p *paths.Paths, reg registry.Registry, sourcePath string, plan Plan) (Outcome, error) {
	extractDir := ExtractDirFor(p, plan)
	files, err := Extract(sourcePath, extractDir)
	if err != nil {
		return Outcome{}, fmt.Errorf("extract %s: %w", sourcePath, err)
	}

	candidates := ScoreExecutables(files, plan.RepoName)
	if len(candidates) == 0 {
		return Outcome{}, fmt.Errorf("no executable found in %s for package %q", sourcePath, plan.RepoName)
	}

	selected, needsPrompt := SelectExecutables(candidates, plan.AutoYes)
	if needsPrompt {
		return Outcome{NeedsSelection: true, Candidates: candidates}, nil
	}

	appDir := p.AppDir(plan.RepoName)
	placedRel, err := PlaceFiles(extractDir, appDir, selected)
	if err != nil {
		return Outcome{}, fmt.Errorf("place files: %w", err)
	}

	records, err := buildRecords(p, &reg, plan, appDir, placedRel)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Records: records}, nil
}

// ExtractDirFor returns the scratch extraction directory RunLocal uses for
// plan, exported so a caller resuming from a NeedsSelection outcome (via
// PlaceSelected) can find the already-extracted files without re-extracting.
func ExtractDirFor(p *paths.Paths, plan Plan) string {
	return filepath.Join(p.DownloadsDir(), "extract-"+plan.RepoName)
}

// PlaceSelected finishes steps 5-7 after the caller has resolved, via its
// own interactive prompt, which of a NeedsSelection outcome's Candidates to
// install — the matcher/pipeline stays pure; prompting is the orchestrator's
// job per this package's design notes.
func PlaceSelected(p *paths.Paths, reg registry.Registry, plan Plan, selected []ScoredCandidate) (Outcome, error) {
	appDir := p.AppDir(plan.RepoName)
	placedRel, err := PlaceFiles(ExtractDirFor(p, plan), appDir, selected)
	if err != nil {
		return Outcome{}, fmt.Errorf("place files: %w", err)
	}
	records, err := buildRecords(p, &reg, plan, appDir, placedRel)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Records: records}, nil
}

// buildRecords creates the launcher for, and the installed record
// describing, each placed executable. When more than one executable was
// placed, the one whose normalized filename matches plan.RepoName keeps
// plan.Variant (normally ""); the rest are assigned their own normalized
// filename as a sibling variant, per §4.5 and the "uv + uvx" scenario.
// reg is mutated in place (Upsert) as each name is claimed so sibling
// command-name conflicts within the same batch resolve correctly; the
// caller is still expected to persist the registry afterwards.
func buildRecords(p *paths.Paths, reg *registry.Registry, plan Plan, appDir string, placedRel []string) ([]model.InstalledRecord, error) {
	records := make([]model.InstalledRecord, 0, len(placedRel))
	for _, rel := range placedRel {
		name := NormalizeCandidateName(rel)

		variant := plan.Variant
		isPrimary := true
		if len(placedRel) > 1 && !strings.EqualFold(name, plan.RepoName) {
			variant = name
			isPrimary = false
		}

		candidateName := name
		if isPrimary && plan.CommandNameOverride != "" {
			candidateName = plan.CommandNameOverride
		}
		commandName := reg.UniqueCommandName(candidateName, variant)
		launcherPath := p.BinShimPath(commandName)
		execPath := filepath.Join(appDir, rel)
		if err := CreateLauncher(execPath, launcherPath, appDir); err != nil {
			return nil, fmt.Errorf("create launcher for %s: %w", rel, err)
		}

		rec := model.InstalledRecord{
			RepoName:    plan.RepoName,
			Variant:     variant,
			Version:     plan.Version,
			Platform:    plan.PlatformKey,
			InstallPath: appDir,
			CommandName: commandName,
			Files:       []string{rel},
			Source:      plan.Source,
			AssetName:   plan.AssetName,
		}
		if variant != "" && variant != plan.Variant {
			rec.ParentPackage = plan.RepoName
		}

		reg.Upsert(rec)
		records = append(records, rec)
	}
	return records, nil
}

// RunScript drives the script install path: place the script file and
// create its interpreter launcher, skipping executable discovery entirely
// since the "executable" is the script itself (§4.4).
func RunScript(p *paths.Paths, reg registry.Registry, scriptPath string, plan Plan, scriptType model.ScriptType) (Outcome, error) {
	appDir := p.AppDir(plan.RepoName)
	candidateName := NormalizeCandidateName(plan.RepoName)
	if plan.CommandNameOverride != "" {
		candidateName = plan.CommandNameOverride
	}
	commandName := reg.UniqueCommandName(candidateName, "")
	launcherPath := p.BinShimPath(commandName)

	placedName, err := InstallScript(scriptPath, appDir, launcherPath, scriptType)
	if err != nil {
		return Outcome{}, fmt.Errorf("install script %s: %w", scriptPath, err)
	}

	record := model.InstalledRecord{
		RepoName:    plan.RepoName,
		Version:     plan.Version,
		InstallPath: appDir,
		CommandName: commandName,
		Files:       []string{placedName},
		Source:      plan.Source,
		AssetName:   plan.AssetName,
		ScriptType:  scriptType,
	}
	reg.Upsert(record)

	return Outcome{Records: []model.InstalledRecord{record}}, nil
}
