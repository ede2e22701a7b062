package bucket

import "testing"

func TestAddRejectsDuplicateName(t *testing.T) {
	cfg := NewConfig()
	b := Bucket{Name: "official", URL: "https://example.com/manifest.json", Enabled: true, Priority: DefaultPriority()}

	if !cfg.Add(b) {
		t.Fatal("expected first add to succeed")
	}
	if cfg.Add(b) {
		t.Fatal("expected duplicate add to fail")
	}
	if len(cfg.Buckets) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(cfg.Buckets))
	}
}

func TestRemove(t *testing.T) {
	cfg := NewConfig()
	cfg.Add(Bucket{Name: "official", URL: "https://example.com/1.json", Enabled: true, Priority: 100})

	if !cfg.Remove("official") {
		t.Fatal("expected remove to succeed")
	}
	if cfg.Remove("official") {
		t.Fatal("expected second remove to fail")
	}
}

func TestEnabledInOrderFollowsInsertionOrderRegardlessOfPriority(t *testing.T) {
	cfg := NewConfig()
	cfg.Add(Bucket{Name: "first", URL: "u1", Enabled: true, Priority: 50})
	cfg.Add(Bucket{Name: "second", URL: "u2", Enabled: true, Priority: 200})
	cfg.Add(Bucket{Name: "disabled", URL: "u3", Enabled: false, Priority: 999})
	cfg.Add(Bucket{Name: "third", URL: "u4", Enabled: true, Priority: 100})

	order := cfg.EnabledInOrder()
	names := make([]string, len(order))
	for i, b := range order {
		names[i] = b.Name
	}
	want := []string{"first", "second", "third"}
	if len(names) != len(want) {
		t.Fatalf("EnabledInOrder = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("EnabledInOrder = %v, want %v (priority must not reorder buckets)", names, want)
		}
	}
}
