package vault

import (
	"context"
	"fmt"

	"toolbelt-go/internal/config"
)

// NewStoreFromConfig creates a Store implementation based on the vault
// config type.
func NewStoreFromConfig(ctx context.Context, cfg config.VaultConfig) (Store, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStore(cfg.Name), nil
	case "s3":
		return NewS3Store(ctx, cfg)
	case "filesystem":
		if cfg.FSVaultRoot == "" {
			return nil, fmt.Errorf("filesystem store requires fs_vault_root to be set")
		}
		return NewFileSystemStore(cfg.Name, cfg.FSVaultRoot)
	default:
		return nil, fmt.Errorf("unknown vault type: %s", cfg.Type)
	}
}
