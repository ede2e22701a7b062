package registry

import (
	"testing"

	"github.com/superyngo/wenget/internal/model"
)

func TestUpsertAndGetByKey(t *testing.T) {
	r := New()
	rec := model.InstalledRecord{RepoName: "uv", CommandName: "uv"}
	r.Upsert(rec)

	got, ok := r.Get("uv")
	if !ok || got.CommandName != "uv" {
		t.Fatalf("Get(uv) = %+v, ok=%v", got, ok)
	}
}

func TestUpsertVariantUsesCompositeKey(t *testing.T) {
	r := New()
	r.Upsert(model.InstalledRecord{RepoName: "uv", Variant: "uvx", CommandName: "uvx"})

	if r.IsInstalled("uv") {
		t.Fatal("did not expect the bare repo name to be installed")
	}
	if !r.IsInstalled("uv::uvx") {
		t.Fatal("expected the composite key uv::uvx to be installed")
	}
}

func TestByRepoNameReturnsBaseFirst(t *testing.T) {
	r := New()
	r.Upsert(model.InstalledRecord{RepoName: "uv", Variant: "uvx", CommandName: "uvx"})
	r.Upsert(model.InstalledRecord{RepoName: "uv", CommandName: "uv"})

	recs := r.ByRepoName("uv")
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Variant != "" {
		t.Fatalf("expected the base record first, got variant %q", recs[0].Variant)
	}
}

func TestUniqueCommandNameAppendsVariantThenCounter(t *testing.T) {
	r := New()
	r.Upsert(model.InstalledRecord{RepoName: "tool", CommandName: "tool"})

	withVariant := r.UniqueCommandName("tool", "beta")
	if withVariant != "tool-beta" {
		t.Fatalf("UniqueCommandName with variant = %q", withVariant)
	}

	r.Upsert(model.InstalledRecord{RepoName: "tool2", CommandName: "tool"})
	withoutVariant := r.UniqueCommandName("tool", "")
	if withoutVariant != "tool-2" {
		t.Fatalf("UniqueCommandName without variant = %q", withoutVariant)
	}
}

func TestRemove(t *testing.T) {
	r := New()
	r.Upsert(model.InstalledRecord{RepoName: "tool", CommandName: "tool"})

	rec, ok := r.Remove("tool")
	if !ok || rec.RepoName != "tool" {
		t.Fatalf("Remove = %+v, ok=%v", rec, ok)
	}
	if r.IsInstalled("tool") {
		t.Fatal("expected tool to be removed")
	}
}
