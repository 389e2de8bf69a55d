package domain

// Config mirrors ~/.foodscan/config.yaml.
type Config struct {
	ConfigFormatVersion string          `yaml:"config_format_version"`
	Lookup              LookupSettings  `yaml:"lookup"`
	History             HistorySettings `yaml:"history"`
	Reviews             ReviewSettings  `yaml:"reviews"`
	Device              DeviceSettings  `yaml:"device"`
	Server              ServerSettings  `yaml:"server"`
}

// LookupSettings configures the product database client.
type LookupSettings struct {
	BaseURL   string `yaml:"base_url"`
	UserAgent string `yaml:"user_agent"`
	Timeout   string `yaml:"timeout"`
	CacheSize int    `yaml:"cache_size"`
	CacheTTL  string `yaml:"cache_ttl"`
}

// HistorySettings bounds the recent-scan list.
type HistorySettings struct {
	MaxItems    int `yaml:"max_items"`
	RecentLimit int `yaml:"recent_limit"`
}

// ReviewSettings selects the review backend.
type ReviewSettings struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	DSN    string `yaml:"dsn"`
}

// DeviceSettings can pin the device identifier.
type DeviceSettings struct {
	ID string `yaml:"id"`
}

// ServerSettings configures `foodscan serve`.
type ServerSettings struct {
	Addr string `yaml:"addr"`
}

// Review backend drivers.
const (
	ReviewDriverSQLite   = "sqlite"
	ReviewDriverPostgres = "postgres"
)
