package dispatch

import "fmt"

// Config defines dispatch-related settings.
type Config struct {
	// FrozenDistanceLimit is the total distance above which a frozen order
	// requires a freezer-capable vehicle.
	FrozenDistanceLimit int `json:"frozen_distance_limit"`
	// MaxStoreDistance is the exclusive upper bound for randomly assigned
	// vehicle-to-store distances.
	MaxStoreDistance int `json:"max_store_distance"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.FrozenDistanceLimit == 0 {
		c.FrozenDistanceLimit = 2
	}
	if c.MaxStoreDistance == 0 {
		c.MaxStoreDistance = 20
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.FrozenDistanceLimit < 0 {
		return fmt.Errorf("frozen_distance_limit must not be negative")
	}
	if c.MaxStoreDistance < 1 {
		return fmt.Errorf("max_store_distance must be positive")
	}
	return nil
}
