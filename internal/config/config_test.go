package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		BaseDir: "/home/user/.local/share/toolbelt",
		LogDir:  "/home/user/.local/share/toolbelt/log",
		Database: DatabaseConfig{
			DSN:    "mysql:user=app;password=secret;dbname=shop",
			Prefix: "app_",
		},
		Vault: VaultConfig{Type: "filesystem", Name: "local", FSVaultRoot: "/backup/vault"},
		Encryption: EncryptionConfig{
			PublicKeyPath:  "/home/user/.local/share/toolbelt/keys/toolbelt.pub",
			PrivateKeyPath: "/home/user/.local/share/toolbelt/keys/toolbelt.key",
		},
		History: HistoryConfig{Path: "/home/user/.local/share/toolbelt/history.db"},
		HTTP: HTTPConfig{
			Addr:           ":8080",
			TrustedOrigins: []string{"example.com", "app.example.com"},
			NonceSecret:    "abc123",
		},
		Files: FilesConfig{
			BaseDir:      "/srv/files",
			MaxFileSize:  1 << 20,
			AllowedTypes: []string{"image/png", "text/plain"},
		},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.BaseDir != original.BaseDir {
		t.Errorf("BaseDir = %q, want %q", got.BaseDir, original.BaseDir)
	}
	if got.Database.DSN != original.Database.DSN {
		t.Errorf("Database.DSN = %q, want %q", got.Database.DSN, original.Database.DSN)
	}
	if got.Database.Prefix != "app_" {
		t.Errorf("Database.Prefix = %q, want %q", got.Database.Prefix, "app_")
	}
	if got.Vault.Type != "filesystem" {
		t.Errorf("Vault.Type = %q, want %q", got.Vault.Type, "filesystem")
	}
	if got.Vault.FSVaultRoot != "/backup/vault" {
		t.Errorf("Vault.FSVaultRoot = %q, want %q", got.Vault.FSVaultRoot, "/backup/vault")
	}
	if got.Encryption.PublicKeyPath != original.Encryption.PublicKeyPath {
		t.Errorf("Encryption.PublicKeyPath = %q, want %q", got.Encryption.PublicKeyPath, original.Encryption.PublicKeyPath)
	}
	if got.History.Path != original.History.Path {
		t.Errorf("History.Path = %q, want %q", got.History.Path, original.History.Path)
	}
	if len(got.HTTP.TrustedOrigins) != 2 {
		t.Fatalf("len(HTTP.TrustedOrigins) = %d, want 2", len(got.HTTP.TrustedOrigins))
	}
	if got.Files.MaxFileSize != 1<<20 {
		t.Errorf("Files.MaxFileSize = %d, want %d", got.Files.MaxFileSize, 1<<20)
	}
	if len(got.Files.AllowedTypes) != 2 {
		t.Fatalf("len(Files.AllowedTypes) = %d, want 2", len(got.Files.AllowedTypes))
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("/data/toolbelt")

	if cfg.BaseDir != "/data/toolbelt" {
		t.Errorf("BaseDir = %q, want %q", cfg.BaseDir, "/data/toolbelt")
	}
	if cfg.LogDir != "/data/toolbelt/log" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/data/toolbelt/log")
	}
	if cfg.Vault.Type != "filesystem" {
		t.Errorf("Vault.Type = %q, want %q", cfg.Vault.Type, "filesystem")
	}
	if cfg.Encryption.PublicKeyPath != "/data/toolbelt/keys/toolbelt.pub" {
		t.Errorf("Encryption.PublicKeyPath = %q, want %q", cfg.Encryption.PublicKeyPath, "/data/toolbelt/keys/toolbelt.pub")
	}
	if cfg.History.Path != "/data/toolbelt/history.db" {
		t.Errorf("History.Path = %q, want %q", cfg.History.Path, "/data/toolbelt/history.db")
	}
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "toolbelt.toml")
		cfg := NewConfig(dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("config file not created: %v", err)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "toolbelt.toml")
		cfg := NewConfig(dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}

		err := Init(path, cfg)
		if err == nil {
			t.Fatal("second Init() expected error")
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("reads valid config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "toolbelt.toml")
		cfg := NewConfig(dir)
		cfg.Database = DatabaseConfig{DSN: "sqlite:dbname=app.db"}

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.Database.DSN != "sqlite:dbname=app.db" {
			t.Errorf("Database.DSN = %q, want %q", got.Database.DSN, "sqlite:dbname=app.db")
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		_, err := ReadFromFile("/nonexistent/path/toolbelt.toml")
		if err == nil {
			t.Fatal("ReadFromFile() expected error for missing file")
		}
	})
}
