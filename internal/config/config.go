package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for toolbelt.
type Config struct {
	BaseDir    string           `toml:"base_dir"`
	LogDir     string           `toml:"log_dir"`
	Database   DatabaseConfig   `toml:"database"`
	Vault      VaultConfig      `toml:"vault"`
	Encryption EncryptionConfig `toml:"encryption"`
	History    HistoryConfig    `toml:"history"`
	HTTP       HTTPConfig       `toml:"http"`
	Files      FilesConfig      `toml:"files"`
}

// DatabaseConfig points at the application database. The DSN carries the
// driver name and its settings, e.g.
// "mysql:user=app;password=secret;dbname=shop" or "sqlite:dbname=app.db".
type DatabaseConfig struct {
	DSN    string `toml:"dsn"`
	Prefix string `toml:"prefix,omitempty"`
}

// VaultConfig represents configuration for a snapshot storage backend.
// This uses a tagged union pattern - the Type field determines which other
// fields are relevant.
type VaultConfig struct {
	Type string `toml:"type"` // "memory", "s3", or "filesystem"
	Name string `toml:"name"`

	// S3-specific fields (only used when Type == "s3"). When the access
	// key pair is empty the default AWS credential chain is used.
	S3Bucket    string `toml:"s3_bucket,omitempty"`
	S3Prefix    string `toml:"s3_prefix,omitempty"`
	S3Region    string `toml:"s3_region,omitempty"`
	S3AccessKey string `toml:"s3_access_key,omitempty"`
	S3SecretKey string `toml:"s3_secret_key,omitempty"`
	S3Endpoint  string `toml:"s3_endpoint,omitempty"`

	// FileSystem-specific fields (only used when Type == "filesystem")
	FSVaultRoot string `toml:"fs_vault_root,omitempty"`
}

// EncryptionConfig holds paths to the age key pair used for snapshot
// encryption.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "age" (default) or "test"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// HistoryConfig points at the operation history ledger database.
type HistoryConfig struct {
	Path string `toml:"path"`
}

// HTTPConfig holds settings for the request helpers and page router.
type HTTPConfig struct {
	Addr           string   `toml:"addr"`
	TrustedOrigins []string `toml:"trusted_origins"`
	NonceSecret    string   `toml:"nonce_secret"`
	TemplateDir    string   `toml:"template_dir,omitempty"`
	StaticDir      string   `toml:"static_dir,omitempty"`
}

// FilesConfig holds settings for the file manager.
type FilesConfig struct {
	BaseDir      string   `toml:"base_dir"`
	MaxFileSize  int64    `toml:"max_file_size,omitempty"`
	AllowedTypes []string `toml:"allowed_types,omitempty"`
}

// NewConfig creates a new Config with the provided base directory and
// default paths.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir: baseDir,
		LogDir:  filepath.Join(baseDir, "log"),
		Vault: VaultConfig{
			Type:        "filesystem",
			Name:        "default",
			FSVaultRoot: filepath.Join(baseDir, "vault"),
		},
		Encryption: EncryptionConfig{
			PublicKeyPath:  filepath.Join(baseDir, "keys", "toolbelt.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "toolbelt.key"),
		},
		History: HistoryConfig{
			Path: filepath.Join(baseDir, "history.db"),
		},
		Files: FilesConfig{
			BaseDir: filepath.Join(baseDir, "files"),
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the
// provided Config. It refuses to overwrite an existing file.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
