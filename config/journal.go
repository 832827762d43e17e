package config

import "fmt"

// JournalConfig defines settings for the assignment journal.
type JournalConfig struct {
	// Enabled turns journal writes on.
	Enabled bool `json:"enabled"`
	// Backend selects the journal store type; only "jsonl" is supported.
	Backend string `json:"backend"`
	// Path is the file location of the journal.
	Path string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *JournalConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" {
		c.Path = "assignments.log"
	}
}

// Validate checks mandatory fields.
func (c JournalConfig) Validate() error {
	if c.Backend != "jsonl" {
		return fmt.Errorf("unknown journal backend %s", c.Backend)
	}
	if c.Path == "" {
		return fmt.Errorf("journal path is required")
	}
	return nil
}
