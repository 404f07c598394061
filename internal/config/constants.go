package config

import "time"

const (
	// Configuration file paths
	ConfigPathEconomyItems = "configs/economy/items.json"

	// Rule defaults
	DefaultInventoryMaxItems   = 256
	DefaultStorageUnitMaxItems = 256

	// Read cache defaults
	DefaultInventoryCacheSize = 1024
	DefaultInventoryCacheTTL  = 300

	// Connection pool defaults
	DefaultDBMaxConns        = 20
	DefaultDBMaxConnIdleTime = 5 * time.Minute
	DefaultDBMaxConnLifetime = 30 * time.Minute
)
