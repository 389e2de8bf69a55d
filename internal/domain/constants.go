package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// History constants
const (
	// MaxHistoryItems bounds the recent-scan list
	MaxHistoryItems = 50
	// DefaultRecentLimit is the size of the "recent scans" preview
	DefaultRecentLimit = 5
)

// Lookup constants
const (
	// DefaultLookupBaseURL is the public Open Food Facts endpoint
	DefaultLookupBaseURL = "https://world.openfoodfacts.org"
	// DefaultLookupTimeout bounds a single product request
	DefaultLookupTimeout = 15 * time.Second
	// DefaultLookupCacheSize is the number of products kept in memory
	DefaultLookupCacheSize = 128
	// DefaultLookupCacheTTL is how long a cached product stays fresh
	DefaultLookupCacheTTL = 10 * time.Minute
)

// Server constants
const (
	// DefaultServerAddr is the listen address for the HTTP API
	DefaultServerAddr = "127.0.0.1:8080"
	// DefaultShutdownTimeout bounds graceful shutdown
	DefaultShutdownTimeout = 5 * time.Second
)

// Presentation constants
const (
	// Placeholder is printed where a value is absent
	Placeholder = "N/A"
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
