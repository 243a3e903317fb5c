package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Git backends for reading commit dates.
const (
	GitBackendCLI    = "cli"
	GitBackendNative = "native"
)

const (
	defaultConfigFile  = "config.ini"
	defaultCSVOutput   = "projects_stats.csv"
	defaultNATSSubject = "gerrit.repositories"
)

// Config holds the application configuration
type Config struct {
	GerritURL      string
	GerritUser     string
	GerritPassword string
	GerritToken    string

	GitBasePath         string
	CSVOutput           string
	LogsPath            string
	DiscardedURLsOutput string

	GitBackend string

	// Optional integrations
	NATSUrl     string
	NATSSubject string
	Schedule    string
}

// Load reads the configuration file next to the binary (or the file named by
// the GERRIT_STATS_CONFIG environment variable).
func Load() (*Config, error) {
	path := os.Getenv("GERRIT_STATS_CONFIG")
	if path == "" {
		path = defaultConfigFile
	}
	return LoadFile(path)
}

// LoadFile reads and validates the [general] section of an INI config file.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("ini")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := &Config{
		GerritURL:           v.GetString("general.gerrit_url"),
		GerritUser:          v.GetString("general.gerrit_user"),
		GerritPassword:      v.GetString("general.gerrit_password"),
		GerritToken:         v.GetString("general.gerrit_token"),
		GitBasePath:         v.GetString("general.git_base_path"),
		CSVOutput:           v.GetString("general.csv_output"),
		LogsPath:            v.GetString("general.logs_path"),
		DiscardedURLsOutput: v.GetString("general.discarded_urls_output"),
		GitBackend:          v.GetString("general.git_backend"),
		NATSUrl:             v.GetString("general.nats_url"),
		NATSSubject:         v.GetString("general.nats_subject"),
		Schedule:            v.GetString("general.schedule"),
	}

	// Set defaults
	if cfg.CSVOutput == "" {
		cfg.CSVOutput = defaultCSVOutput
	}
	if cfg.GitBackend == "" {
		cfg.GitBackend = GitBackendCLI
	}
	if cfg.NATSSubject == "" {
		cfg.NATSSubject = defaultNATSSubject
	}

	// Validate required fields
	if cfg.GerritURL == "" {
		return nil, fmt.Errorf("gerrit_url is required in %s", path)
	}
	if cfg.GerritToken == "" && (cfg.GerritUser == "" || cfg.GerritPassword == "") {
		return nil, fmt.Errorf("gerrit_user and gerrit_password (or gerrit_token) are required in %s", path)
	}
	if cfg.GitBasePath == "" {
		return nil, fmt.Errorf("git_base_path is required in %s", path)
	}
	if cfg.LogsPath == "" {
		return nil, fmt.Errorf("logs_path is required in %s", path)
	}
	if cfg.DiscardedURLsOutput == "" {
		return nil, fmt.Errorf("discarded_urls_output is required in %s", path)
	}
	if cfg.GitBackend != GitBackendCLI && cfg.GitBackend != GitBackendNative {
		return nil, fmt.Errorf("git_backend must be %q or %q, got %q", GitBackendCLI, GitBackendNative, cfg.GitBackend)
	}

	return cfg, nil
}
