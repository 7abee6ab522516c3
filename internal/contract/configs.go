package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/estimation-reporter/schema"
)

// Default values for configuration.
const (
	DefaultScopeDirName  = "scope"
	DefaultPublishRegion = "us-east-1"
)

// PublishConfig holds the S3-compatible publishing settings.
type PublishConfig struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string // Please use env var as this is plaintext
	SecretKey string // Please use env var as this is plaintext
	UseSSL    bool
}

// Enabled reports whether publishing was requested.
func (p PublishConfig) Enabled() bool {
	return p.Endpoint != ""
}

// Config holds the runtime configuration for an estimation run.
// This struct is the "final, validated" config.
type Config struct {
	Project schema.Project

	ToolDir   string // Directory of the running executable
	ScopeDir  string // Directory whose files are measured
	BaseDir   string // Parent of the project output folder
	OutputDir string // BaseDir joined with the project name
	Excludes  []string

	Output    schema.OutputMode
	Detail    bool
	Width     int // Terminal width override (0 = auto-detect)
	UseColors bool
	Parquet   bool

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	Publish PublishConfig
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// These are set manually from positional args, so no tags
	ProjectName string
	Repository  string
	Commit      string

	// --- Fields from rootCmd.PersistentFlags() ---
	ScopeDir         string `mapstructure:"scope-dir"`
	BaseDir          string `mapstructure:"base-dir"`
	Exclude          string `mapstructure:"exclude"`
	Output           string `mapstructure:"output"`
	Detail           bool   `mapstructure:"detail"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	Parquet          bool   `mapstructure:"parquet"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`

	// --- Publishing ---
	PublishEndpoint  string `mapstructure:"publish-endpoint"`
	PublishBucket    string `mapstructure:"publish-bucket"`
	PublishRegion    string `mapstructure:"publish-region"`
	PublishAccessKey string `mapstructure:"publish-access-key"`
	PublishSecretKey string `mapstructure:"publish-secret-key"`
	PublishSSL       bool   `mapstructure:"publish-ssl"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Excludes != nil {
		clone.Excludes = make([]string, len(c.Excludes))
		copy(clone.Excludes, c.Excludes)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := processProject(cfg, input); err != nil {
		return err
	}
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateHistoryConfig(cfg, input); err != nil {
		return err
	}
	if err := processPublishConfig(cfg, input); err != nil {
		return err
	}
	return resolveDirectories(cfg, input)
}

// processProject validates the three positional values.
func processProject(cfg *Config, input *ConfigRawInput) error {
	name := strings.TrimSpace(input.ProjectName)
	if name == "" {
		return fmt.Errorf("project name cannot be empty")
	}
	if filepath.IsAbs(name) {
		return fmt.Errorf("project name %q must be a relative folder name", name)
	}
	if cleaned := filepath.Clean(name); cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return fmt.Errorf("project name %q must stay inside the base directory", name)
	}
	// Repository and commit are copied verbatim into the portal report.
	cfg.Project = schema.Project{
		Name:       name,
		Repository: input.Repository,
		Commit:     input.Commit,
	}
	return nil
}

// validateSimpleInputs handles all simple field validations and assignments.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Detail = input.Detail
	cfg.Parquet = input.Parquet

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	cfg.Output = schema.OutputMode(strings.ToLower(strings.TrimSpace(input.Output)))
	if cfg.Output == "" {
		cfg.Output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, json, yaml, none", input.Output)
	}

	cfg.Excludes = nil
	if input.Exclude != "" {
		for p := range strings.SplitSeq(input.Exclude, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				cfg.Excludes = append(cfg.Excludes, trimmed)
			}
		}
	}
	return nil
}

// ParseDatabaseBackend normalizes a backend string. Empty means none.
func ParseDatabaseBackend(s string) (schema.DatabaseBackend, error) {
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(s)))
	if backend == "" {
		return schema.NoneBackend, nil
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", s)
	}
	return backend, nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") && !strings.HasPrefix(connStr, "postgres://") && !strings.HasPrefix(connStr, "postgresql://") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' or be a postgres:// URL")
		}
	}
	return nil
}

// validateHistoryConfig validates the run history backend configuration.
func validateHistoryConfig(cfg *Config, input *ConfigRawInput) error {
	backend, err := ParseDatabaseBackend(input.HistoryBackend)
	if err != nil {
		return err
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = input.HistoryDBConnect
	return ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect)
}

// processPublishConfig validates the publishing settings when an endpoint is given.
func processPublishConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.Publish = PublishConfig{
		Endpoint:  strings.TrimSpace(input.PublishEndpoint),
		Bucket:    strings.TrimSpace(input.PublishBucket),
		Region:    strings.TrimSpace(input.PublishRegion),
		AccessKey: strings.TrimSpace(input.PublishAccessKey),
		SecretKey: strings.TrimSpace(input.PublishSecretKey),
		UseSSL:    input.PublishSSL,
	}
	if !cfg.Publish.Enabled() {
		return nil
	}
	if cfg.Publish.Region == "" {
		cfg.Publish.Region = DefaultPublishRegion
	}
	if cfg.Publish.Bucket == "" {
		return fmt.Errorf("--publish-bucket is required when --publish-endpoint is set")
	}
	if cfg.Publish.AccessKey == "" || cfg.Publish.SecretKey == "" {
		return fmt.Errorf("publish access key and secret key are required when --publish-endpoint is set")
	}
	return nil
}

// resolveDirectories fills in the tool, scope, base and output directories.
func resolveDirectories(cfg *Config, input *ConfigRawInput) error {
	cfg.ToolDir = ResolveToolDir()

	cfg.ScopeDir = strings.TrimSpace(input.ScopeDir)
	if cfg.ScopeDir == "" {
		cfg.ScopeDir = filepath.Join(cfg.ToolDir, DefaultScopeDirName)
	}
	cfg.BaseDir = strings.TrimSpace(input.BaseDir)
	if cfg.BaseDir == "" {
		cfg.BaseDir = cfg.ToolDir
	}

	var err error
	if cfg.ScopeDir, err = filepath.Abs(cfg.ScopeDir); err != nil {
		return fmt.Errorf("cannot resolve scope directory: %w", err)
	}
	if cfg.BaseDir, err = filepath.Abs(cfg.BaseDir); err != nil {
		return fmt.Errorf("cannot resolve base directory: %w", err)
	}
	cfg.OutputDir = filepath.Join(cfg.BaseDir, cfg.Project.Name)
	return nil
}

// ResolveToolDir returns the directory holding the running executable.
// It falls back to the working directory when the executable cannot be found.
func ResolveToolDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}
