package preferences

import (
	"testing"

	"github.com/superyngo/wenget/internal/model"
)

func TestSetAndGetDefaultYes(t *testing.T) {
	var prefs model.Preferences
	if err := Set(&prefs, "default_yes", "true"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := Get(prefs, "default_yes")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "true" {
		t.Fatalf("Get(default_yes) = %q, want %q", got, "true")
	}
}

func TestSetRejectsInvalidScope(t *testing.T) {
	var prefs model.Preferences
	if err := Set(&prefs, "default_scope", "global"); err == nil {
		t.Fatal("expected an error for an unrecognized scope value")
	}
}

func TestSetRejectsUnknownKey(t *testing.T) {
	var prefs model.Preferences
	if err := Set(&prefs, "color_theme", "dark"); err == nil {
		t.Fatal("expected an error for an unknown config key")
	}
}

func TestGetDefaultScopeFallsBackToUser(t *testing.T) {
	var prefs model.Preferences
	got, err := Get(prefs, "default_scope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "user" {
		t.Fatalf("Get(default_scope) = %q, want %q", got, "user")
	}
}
