// Package bucket manages the set of configured manifest sources (buckets)
// and the merged, TTL'd cache built from them.
package bucket

import (
	"github.com/superyngo/wenget/internal/repair"
)

// Bucket is one configured remote manifest source.
type Bucket struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Enabled  bool   `json:"enabled"`
	Priority uint32 `json:"priority"`
}

// Config is the persisted list of configured buckets.
type Config struct {
	Buckets []Bucket `json:"buckets"`
}

func NewConfig() Config {
	return Config{Buckets: []Bucket{}}
}

func DefaultPriority() uint32 { return 100 }

// Load reads the bucket config from path, repairing on corruption.
func Load(path string) (Config, error) {
	cfg, err := repair.Load[Config](path, repair.SeverityWarning,
		"Your bucket configuration was reset. Re-add buckets with 'wenget bucket add'.")
	if err != nil {
		return Config{}, err
	}
	if cfg.Buckets == nil {
		cfg.Buckets = []Bucket{}
	}
	return cfg, nil
}

// Save persists the bucket config atomically.
func Save(path string, cfg Config) error {
	return repair.Save(path, cfg)
}

// Add appends bucket, returning false if the name is already taken.
func (c *Config) Add(b Bucket) bool {
	for _, existing := range c.Buckets {
		if existing.Name == b.Name {
			return false
		}
	}
	c.Buckets = append(c.Buckets, b)
	return true
}

// Remove deletes the bucket named name, returning false if it wasn't found.
func (c *Config) Remove(name string) bool {
	for i, b := range c.Buckets {
		if b.Name == name {
			c.Buckets = append(c.Buckets[:i], c.Buckets[i+1:]...)
			return true
		}
	}
	return false
}

// Find returns the bucket named name, or nil.
func (c *Config) Find(name string) *Bucket {
	for i := range c.Buckets {
		if c.Buckets[i].Name == name {
			return &c.Buckets[i]
		}
	}
	return nil
}

// SetEnabled toggles a bucket's enabled flag; false if the bucket is unknown.
func (c *Config) SetEnabled(name string, enabled bool) bool {
	b := c.Find(name)
	if b == nil {
		return false
	}
	b.Enabled = enabled
	return true
}

// EnabledInOrder returns enabled buckets in insertion order — the
// authoritative merge tie-break used by BuildCache. Priority is persisted
// and surfaced in "bucket list" for forward compatibility and manual
// reordering by hand-editing buckets.json, but is not itself a sort key:
// a bucket's position in the list is what determines precedence.
func (c *Config) EnabledInOrder() []Bucket {
	var enabled []Bucket
	for _, b := range c.Buckets {
		if b.Enabled {
			enabled = append(enabled, b)
		}
	}
	return enabled
}
