// Package registry tracks every installed package/variant/script in the
// on-disk prefix, keyed per internal/model.InstalledRecord.RegistryKey.
package registry

import (
	"strconv"

	"github.com/superyngo/wenget/internal/model"
	"github.com/superyngo/wenget/internal/repair"
)

// Registry is the persisted installed.json document.
type Registry struct {
	Packages map[string]model.InstalledRecord `json:"packages"`
}

func New() Registry {
	return Registry{Packages: map[string]model.InstalledRecord{}}
}

func Load(path string) (Registry, error) {
	reg, err := repair.Load[Registry](path, repair.SeverityCritical,
		"Your installed-package registry was reset. Installed files are untouched; run 'wenget repair' to re-adopt them.")
	if err != nil {
		return Registry{}, err
	}
	if reg.Packages == nil {
		reg.Packages = map[string]model.InstalledRecord{}
	}
	return reg, nil
}

func Save(path string, reg Registry) error {
	return repair.Save(path, reg)
}

// IsInstalled reports whether key (repo_name or repo_name::variant) is present.
func (r Registry) IsInstalled(key string) bool {
	_, ok := r.Packages[key]
	return ok
}

// Get returns the record for key.
func (r Registry) Get(key string) (model.InstalledRecord, bool) {
	rec, ok := r.Packages[key]
	return rec, ok
}

// Upsert stores rec under its registry key.
func (r *Registry) Upsert(rec model.InstalledRecord) {
	r.Packages[rec.RegistryKey()] = rec
}

// Remove deletes the record stored under key, returning it if present.
func (r *Registry) Remove(key string) (model.InstalledRecord, bool) {
	rec, ok := r.Packages[key]
	if ok {
		delete(r.Packages, key)
	}
	return rec, ok
}

// ByRepoName returns every record (sibling variants included) whose
// repo_name matches name, sorted with the variant-less record first.
func (r Registry) ByRepoName(name string) []model.InstalledRecord {
	var out []model.InstalledRecord
	for _, rec := range r.Packages {
		if rec.RepoName == name {
			out = append(out, rec)
		}
	}
	sortRecordsBaseFirst(out)
	return out
}

func sortRecordsBaseFirst(recs []model.InstalledRecord) {
	for i := 1; i < len(recs); i++ {
		j := i
		for j > 0 && less(recs[j], recs[j-1]) {
			recs[j], recs[j-1] = recs[j-1], recs[j]
			j--
		}
	}
}

func less(a, b model.InstalledRecord) bool {
	if (a.Variant == "") != (b.Variant == "") {
		return a.Variant == "" // the bare record sorts before any variant
	}
	return a.Variant < b.Variant
}

// CommandNames returns the set of launcher/command names already claimed by
// any installed record, used for conflict resolution during install.
func (r Registry) CommandNames() map[string]bool {
	names := make(map[string]bool, len(r.Packages))
	for _, rec := range r.Packages {
		names[rec.CommandName] = true
	}
	return names
}

// UniqueCommandName returns candidate unmodified if unclaimed; otherwise
// appends "-{variant}" when variant is non-empty, else "-2", "-3", ... until
// an unclaimed name is found.
func (r Registry) UniqueCommandName(candidate, variant string) string {
	claimed := r.CommandNames()
	if !claimed[candidate] {
		return candidate
	}
	if variant != "" {
		withVariant := candidate + "-" + variant
		if !claimed[withVariant] {
			return withVariant
		}
	}
	for n := 2; ; n++ {
		next := candidate + "-" + strconv.Itoa(n)
		if !claimed[next] {
			return next
		}
	}
}
