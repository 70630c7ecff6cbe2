// Package app is the application layer between the CLI and the toolkit
// packages. It constructs all dependencies from config and exposes
// high-level snapshot operations.
package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"toolbelt-go/internal/config"
	"toolbelt-go/internal/db"
	"toolbelt-go/internal/encryption"
	"toolbelt-go/internal/filemgr"
	"toolbelt-go/internal/history"
	"toolbelt-go/internal/hooks"
	"toolbelt-go/internal/vault"
)

// ageHeader is the first line of every age-encrypted file; it distinguishes
// encrypted snapshots from plain gob archives on restore.
const ageHeader = "age-encryption.org/v1"

// App wires the database facade, file manager, snapshot store, encryptor,
// operation ledger, and hook registry from a single config. The caller must
// call Close when done.
type App struct {
	cfg       *config.Config
	DB        *db.Manager
	Files     *filemgr.Manager
	Snapshots vault.Store
	Encryptor encryption.Encryptor
	Ledger    *history.Ledger
	Hooks     *hooks.Registry
	logger    *slog.Logger
	logFile   *os.File
}

// New creates a fully wired App from the given config. operation identifies
// the command being run (e.g. "Backup", "Restore") and tags every log line.
func New(ctx context.Context, cfg *config.Config, operation string) (*App, error) {
	opID := time.Now().UTC().Format("20060102T150405Z") + "-" + operation
	logger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	a := &App{cfg: cfg, Hooks: hooks.NewRegistry(), logger: logger, logFile: logFile}
	if err := a.wire(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) wire(ctx context.Context) error {
	cfg := a.cfg

	if cfg.Database.DSN != "" {
		mgr, err := db.NewManager(ctx, cfg.Database.DSN, &slogAdapter{l: a.logger})
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		if cfg.Database.Prefix != "" {
			mgr.Credentials().Prefix = cfg.Database.Prefix
		}
		a.DB = mgr
	}

	if cfg.Files.BaseDir != "" {
		files, err := filemgr.NewManager(cfg.Files.BaseDir)
		if err != nil {
			return fmt.Errorf("creating file manager: %w", err)
		}
		if cfg.Files.MaxFileSize > 0 {
			files.SetMaxFileSize(cfg.Files.MaxFileSize)
		}
		if len(cfg.Files.AllowedTypes) > 0 {
			files.SetAllowedTypes(cfg.Files.AllowedTypes)
		}
		a.Files = files
	}

	store, err := vault.NewStoreFromConfig(ctx, cfg.Vault)
	if err != nil {
		return fmt.Errorf("creating snapshot store: %w", err)
	}
	a.Snapshots = store

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return fmt.Errorf("creating encryptor: %w", err)
	}
	a.Encryptor = enc

	if cfg.History.Path != "" {
		ledger, err := history.Open(cfg.History.Path)
		if err != nil {
			return fmt.Errorf("opening history ledger: %w", err)
		}
		a.Ledger = ledger
	}

	return nil
}

// record wraps an operation in a ledger entry when a ledger is configured.
func (a *App) record(ctx context.Context, name, parameters string, fn func() error) error {
	if a.Ledger == nil {
		return fn()
	}
	op, err := a.Ledger.Begin(ctx, name, parameters)
	if err != nil {
		return err
	}
	opErr := fn()
	if err := a.Ledger.Finish(ctx, op, opErr); err != nil {
		a.logger.Error("recording operation finish", "operation", name, "error", err)
	}
	return opErr
}

// Backup snapshots the named tables (all tables when none given), optionally
// encrypts the archive, and uploads it to the snapshot store under name.
func (a *App) Backup(ctx context.Context, name string, encrypt bool, tables ...string) error {
	if a.DB == nil {
		return fmt.Errorf("no database configured")
	}
	return a.record(ctx, "Backup", strings.Join(tables, ","), func() error {
		archive, err := a.DB.BackupDB(ctx, tables...)
		if err != nil {
			return fmt.Errorf("backing up database: %w", err)
		}

		var plain bytes.Buffer
		if err := db.WriteArchive(&plain, archive); err != nil {
			return fmt.Errorf("encoding archive: %w", err)
		}

		payload := plain.Bytes()
		if encrypt {
			if !a.Encryptor.IsConfigured() {
				return fmt.Errorf("encryption requested but keys are not set up")
			}
			var sealed bytes.Buffer
			if err := a.Encryptor.Encrypt(bytes.NewReader(payload), &sealed); err != nil {
				return fmt.Errorf("encrypting archive: %w", err)
			}
			payload = sealed.Bytes()
		}

		if err := a.Snapshots.PutSnapshot(ctx, name, bytes.NewReader(payload), int64(len(payload))); err != nil {
			return fmt.Errorf("uploading snapshot: %w", err)
		}

		a.logger.Info("snapshot stored", "name", name, "tables", len(archive.Tables), "encrypted", encrypt)
		a.Hooks.DoAction("snapshot_created", name, len(archive.Tables))
		return nil
	})
}

// Restore downloads a snapshot from the store, decrypting it with the
// passphrase when it is age-encrypted, and restores it into the database.
// When tables are named only those are restored; naming a table absent from
// the snapshot is an error.
func (a *App) Restore(ctx context.Context, name, passphrase string, drop bool, tables ...string) error {
	if a.DB == nil {
		return fmt.Errorf("no database configured")
	}
	return a.record(ctx, "Restore", name, func() error {
		var raw bytes.Buffer
		if err := a.Snapshots.GetSnapshot(ctx, name, &raw); err != nil {
			return err
		}

		payload := raw.Bytes()
		if passphrase != "" {
			dec, err := a.Encryptor.Unlock(passphrase)
			if err != nil {
				return fmt.Errorf("unlocking private key: %w", err)
			}
			var plain bytes.Buffer
			if err := dec.Decrypt(bytes.NewReader(payload), &plain); err != nil {
				return fmt.Errorf("decrypting snapshot: %w", err)
			}
			payload = plain.Bytes()
		} else if bytes.HasPrefix(payload, []byte(ageHeader)) {
			return fmt.Errorf("snapshot %s is encrypted: a passphrase is required", name)
		}

		archive, err := db.ReadArchiveFile(bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("decoding archive: %w", err)
		}
		if len(tables) > 0 {
			subset := &db.Archive{Tables: make(map[string]*db.Snapshot, len(tables)), Metadata: archive.Metadata}
			for _, table := range tables {
				// Archive keys are physical (prefixed) table names.
				snap, ok := archive.Tables[table]
				if !ok {
					snap, ok = archive.Tables[a.DB.TableName(table)]
				}
				if !ok {
					return fmt.Errorf("snapshot %s does not contain table %s", name, table)
				}
				subset.Tables[snap.TableName] = snap
			}
			archive = subset
		}
		if err := a.DB.RestoreArchive(ctx, archive, db.RestoreOptions{Drop: drop}); err != nil {
			return fmt.Errorf("restoring archive: %w", err)
		}

		a.logger.Info("snapshot restored", "name", name, "tables", len(archive.Tables))
		a.Hooks.DoAction("snapshot_restored", name, len(archive.Tables))
		return nil
	})
}

// ListSnapshots returns the names of stored snapshots.
func (a *App) ListSnapshots(ctx context.Context) ([]string, error) {
	return a.Snapshots.ListSnapshots(ctx)
}

// Tables lists the tables in the configured database.
func (a *App) Tables(ctx context.Context) ([]string, error) {
	if a.DB == nil {
		return nil, fmt.Errorf("no database configured")
	}
	return a.DB.ListTables(ctx)
}

// SetupEncryption generates the age key pair protected by the passphrase.
func (a *App) SetupEncryption(passphrase string) error {
	if a.Encryptor.IsConfigured() {
		return fmt.Errorf("encryption keys already exist")
	}
	return a.Encryptor.Setup(passphrase)
}

// History returns the most recent ledger entries.
func (a *App) History(ctx context.Context, limit int) ([]*history.Operation, error) {
	if a.Ledger == nil {
		return nil, fmt.Errorf("no history ledger configured")
	}
	return a.Ledger.Recent(ctx, limit)
}

// Logger exposes the app logger for commands that log directly.
func (a *App) Logger() *slog.Logger { return a.logger }

// HTTPAddr returns the configured HTTP listen address.
func (a *App) HTTPAddr() string { return a.cfg.HTTP.Addr }

// Close releases all resources. Safe to call on a partially wired App.
func (a *App) Close() error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if a.DB != nil {
		keep(a.DB.Close())
	}
	if a.Ledger != nil {
		keep(a.Ledger.Close())
	}
	if a.logFile != nil {
		keep(a.logFile.Close())
	}
	return firstErr
}

var _ io.Closer = (*App)(nil)
