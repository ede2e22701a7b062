package install

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/superyngo/wenget/internal/model"
	"github.com/superyngo/wenget/internal/paths"
	"github.com/superyngo/wenget/internal/platform"
	"github.com/superyngo/wenget/internal/registry"
	"github.com/superyngo/wenget/internal/verify"
)

// Plan is the fully-resolved input to Run: a chosen asset already
// downloaded, or about to be.
type Plan struct {
	RepoName            string
	Variant             string // optional sibling-binary variant; "" for the primary
	Version             string
	PlatformKey         string
	AssetURL            string
	AssetName           string
	Source              model.PackageSource
	AutoYes             bool
	CommandNameOverride string // --name; applied to the primary record only
	Checksum            string // optional, advisory; from the manifest's platform binary entry
}

// Run executes steps 1-7 of the install pipeline: download the asset, then
// delegate extraction, discovery, placement, and launcher creation to
// RunLocal. Step 8 (persisting the registry) is left to the caller so batch
// installs can commit atomically once per invocation rather than per item.
func Run(p *paths.Paths, reg registry.Registry, plan Plan) (Outcome, error) {
	downloadPath := filepath.Join(p.DownloadsDir(), plan.AssetName)
	if err := Download(plan.AssetURL, downloadPath, nil); err != nil {
		return Outcome{}, fmt.Errorf("download %s: %w", plan.AssetName, err)
	}
	verifyChecksum(downloadPath, plan)
	return RunLocal(p, reg, downloadPath, plan)
}

// verifyChecksum compares the downloaded file's digest against plan.Checksum
// when the manifest published one. The manifest field accepts either a bare
// hex digest or a checksums-file line naming the asset; ExtractChecksum
// handles both, and DetectChecksumAlgorithm/DetectChecksumType pick which
// algorithm and layout to expect from plan.AssetName the same way they'd
// read a checksums file's own filename, since PlatformBinary carries no
// separate checksum-file name to inspect. A mismatch or an unparseable
// field only logs a warning — checksum verification is advisory, not a
// precondition for install.
func verifyChecksum(downloadPath string, plan Plan) {
	if plan.Checksum == "" {
		return
	}
	algo := verify.DetectChecksumAlgorithm(plan.AssetName, "sha256")
	layout := verify.DetectChecksumType(plan.AssetName)
	expected, err := verify.ExtractChecksum([]byte(plan.Checksum), algo, plan.AssetName)
	if err != nil {
		log.Warn("could not determine expected checksum", "asset", plan.AssetName, "algo", algo, "layout", layout, "error", err)
		return
	}
	actual, err := verify.HashFile(downloadPath, algo)
	if err != nil {
		log.Warn("could not hash downloaded asset for checksum verification", "asset", plan.AssetName, "algo", algo, "error", err)
		return
	}
	if !strings.EqualFold(expected, actual) {
		log.Warn("checksum mismatch", "asset", plan.AssetName, "algo", algo, "expected", expected, "actual", actual)
	}
}

// PlatformKeyFor renders the installed-record platform key for a host.
func PlatformKeyFor(host platform.Host) string {
	return platform.PlatformKey(host.OS, host.Arch, host.Compiler)
}

// InstalledAt stamps the install time; kept separate from model.InstalledRecord
// so pipeline tests can construct records without a clock dependency.
func InstalledAt() time.Time {
	return time.Now().UTC()
}
