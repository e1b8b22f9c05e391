package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "CHATROUTES_"

// FileSystem interface for file operations (useful for testing).
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
	HomeDir() (string, error)
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadEnv loads a .env file without overriding variables already set.
func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

func (rfs *RealFileSystem) HomeDir() (string, error) {
	return os.UserHomeDir()
}

// Resolver handles finding config and env files.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles contains the resolved config and env file paths.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles returns explicit paths if provided, otherwise searches for them.
func (cr *Resolver) ResolveFiles(opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
	}
	if resolved.ConfigFile == "" {
		resolved.ConfigFile = cr.findFirst(cr.configSearchPaths())
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = cr.findFirst([]string{
			"./.env.chatroutes",
			"./.env",
			"../.env",
		})
	}
	return resolved
}

func (cr *Resolver) configSearchPaths() []string {
	paths := []string{
		"./chatroutes.yml",
		"./chatroutes.yaml",
		"./config/chatroutes.yml",
		"./config/chatroutes.yaml",
	}
	if home, err := cr.FileSystem.HomeDir(); err == nil && home != "" {
		paths = append(paths,
			filepath.Join(home, ".chatroutes", "config.yml"),
			filepath.Join(home, ".chatroutes", "config.yaml"),
		)
	}
	return paths
}

func (cr *Resolver) findFirst(paths []string) string {
	for _, path := range paths {
		if cr.FileSystem.Exists(path) {
			return path
		}
	}
	return ""
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string         // Direct config file path (optional)
	EnvFile    string         // Direct env file path (optional)
	Defaults   map[string]any // Lowest-precedence values keyed by dotted path
	Overrides  map[string]any // Highest-precedence values keyed by dotted path
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path. A missing explicit file is an error.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithDefault sets key below every other source.
func WithDefault(key string, value any) LoaderOption {
	return func(lc *LoaderConfig) {
		if lc.Defaults == nil {
			lc.Defaults = make(map[string]any)
		}
		lc.Defaults[key] = value
	}
}

// WithOverride sets key (e.g. "client.base_url") above every other source.
func WithOverride(key string, value any) LoaderOption {
	return func(lc *LoaderConfig) {
		if lc.Overrides == nil {
			lc.Overrides = make(map[string]any)
		}
		lc.Overrides[key] = value
	}
}

// Load resolves, reads and validates the configuration. The client section is
// not validated; see Config.ValidateClient.
func Load(opts ...LoaderOption) (*Config, error) {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}
	explicitConfig := lc.ConfigFile

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(lc)
	if explicitConfig != "" && !lc.FileSystem.Exists(explicitConfig) {
		return nil, fmt.Errorf("config file %s not found", explicitConfig)
	}

	var cfg Config
	if err := loadFromResolvedFiles(&cfg, files, lc); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadFromResolvedFiles loads configuration from specific files.
func loadFromResolvedFiles(cfg *Config, files ResolvedFiles, lc LoaderConfig) error {
	v := viper.New()
	for key, value := range lc.Defaults {
		v.SetDefault(key, value)
	}

	// 1. YAML file
	if files.ConfigFile != "" && lc.FileSystem.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to load config file %s: %w", files.ConfigFile, err)
		}
	}

	// 2. .env, then the process environment
	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			return fmt.Errorf("failed to load .env file %s: %w", files.EnvFile, err)
		}
	}
	bindEnv(v, os.Environ())

	// 3. explicit overrides
	for key, value := range lc.Overrides {
		v.Set(key, value)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return nil
}

// knownEnv maps well-known variables (without prefix) to their keys.
var knownEnv = map[string]string{
	"API_KEY":            "client.api_key",
	"BASE_URL":           "client.base_url",
	"TIMEOUT":            "client.timeout",
	"MAX_RETRIES":        "client.max_retries",
	"STREAM_SHAPE":       "client.stream_shape",
	"STRICT_IDENTIFIERS": "client.strict_identifiers",
	"ENV":                "environment",
	"LOG_LEVEL":          "logging.level",
	"LOG_FORMAT":         "logging.format",
	"OTEL_ENABLED":       "observability.enabled",
	"OTEL_ENDPOINT":      "observability.endpoint",
}

// bindEnv sets every CHATROUTES_* variable of environ on v.
func bindEnv(v *viper.Viper, environ []string) {
	for _, env := range environ {
		key, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		name := strings.TrimPrefix(key, EnvPrefix)
		if mapped, ok := knownEnv[name]; ok {
			v.Set(mapped, value)
			continue
		}
		for _, variant := range generateEnvKeyVariants(name) {
			v.Set(variant, value)
		}
	}
}

// generateEnvKeyVariants creates the nested key candidates of an env name:
// any underscore may separate a section from its key.
//
//	OBSERVABILITY_SAMPLE_RATE -> [observability_sample_rate, observability.sample_rate, observability_sample.rate, observability.sample.rate]
func generateEnvKeyVariants(envKey string) []string {
	lowerKey := strings.ToLower(envKey)
	parts := strings.Split(lowerKey, "_")
	if len(parts) <= 1 {
		return []string{lowerKey}
	}

	variants := []string{lowerKey}
	for i := 1; i < len(parts); i++ {
		prefix := strings.Join(parts[:i], "_")
		suffix := strings.Join(parts[i:], "_")
		variants = append(variants, prefix+"."+suffix)
	}
	variants = append(variants, strings.ReplaceAll(lowerKey, "_", "."))
	return removeDuplicates(variants)
}

// removeDuplicates removes duplicate strings from a slice.
func removeDuplicates(items []string) []string {
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}
	return result
}
