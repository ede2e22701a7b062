// Package preferences persists the small set of user defaults stored in
// preferences.json: the auto-yes default and the preferred install scope.
package preferences

import (
	"fmt"

	"github.com/superyngo/wenget/internal/model"
	"github.com/superyngo/wenget/internal/paths"
	"github.com/superyngo/wenget/internal/repair"
)

// Load reads preferences.json, repairing on corruption.
func Load(path string) (model.Preferences, error) {
	return repair.Load[model.Preferences](path, repair.SeverityWarning,
		"Your preferences were reset to defaults. Re-run 'wenget config set' to restore them.")
}

// Save persists preferences atomically.
func Save(path string, prefs model.Preferences) error {
	return repair.Save(path, prefs)
}

// knownKeys enumerates the "wenget config get/set" surface.
var knownKeys = map[string]bool{
	"default_yes":   true,
	"default_scope": true,
}

// Get returns the string representation of a preference key.
func Get(prefs model.Preferences, key string) (string, error) {
	switch key {
	case "default_yes":
		return fmt.Sprintf("%t", prefs.DefaultYes), nil
	case "default_scope":
		if prefs.DefaultScope == "" {
			return string(paths.ScopeUser), nil
		}
		return prefs.DefaultScope, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// Set updates a preference key in place, validating both the key and value.
func Set(prefs *model.Preferences, key, value string) error {
	if !knownKeys[key] {
		return fmt.Errorf("unknown config key %q", key)
	}
	switch key {
	case "default_yes":
		switch value {
		case "true":
			prefs.DefaultYes = true
		case "false":
			prefs.DefaultYes = false
		default:
			return fmt.Errorf("default_yes must be \"true\" or \"false\", got %q", value)
		}
	case "default_scope":
		switch value {
		case string(paths.ScopeUser), string(paths.ScopeSystem):
			prefs.DefaultScope = value
		default:
			return fmt.Errorf("default_scope must be %q or %q, got %q", paths.ScopeUser, paths.ScopeSystem, value)
		}
	}
	return nil
}

// Keys returns the sorted set of recognized preference keys, for help text.
func Keys() []string {
	return []string{"default_scope", "default_yes"}
}
