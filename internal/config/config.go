package config

// Config is the root configuration for Crier.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Hub      HubConfig      `yaml:"hub"`
	MCP      MCPConfig      `yaml:"mcp"`
}

type ServerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

type DatabaseConfig struct {
	Path          string `yaml:"path"`
	RetentionDays int    `yaml:"retention_days"`
}

type HubConfig struct {
	// Buffer is the per-subscriber event queue depth. A subscriber
	// that falls this many events behind is evicted.
	Buffer int `yaml:"buffer"`
}

type MCPConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Defaults returns the configuration defaults.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:     "127.0.0.1",
			Port:     8087,
			LogLevel: "info",
		},
		Database: DatabaseConfig{
			Path:          "~/.local/share/crier/crier.db",
			RetentionDays: 30,
		},
		Hub: HubConfig{
			Buffer: 16,
		},
		MCP: MCPConfig{
			Enabled: true,
		},
	}
}
