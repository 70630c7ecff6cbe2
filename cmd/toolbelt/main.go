package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"toolbelt-go/internal/app"
	"toolbelt-go/internal/config"
	"toolbelt-go/internal/secrets"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer a.Close().
// operation identifies the CLI command being run (e.g. "Backup", "Restore").
func newApp(ctx context.Context, operation string) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.New(ctx, cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// promptPassphrase reads a passphrase from the terminal without echo. When
// confirm is set it asks twice and requires both entries to match.
func promptPassphrase(confirm bool) (string, error) {
	fmt.Print("Passphrase: ")
	first, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	if !confirm {
		return string(first), nil
	}

	fmt.Print("Confirm passphrase: ")
	second, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	if string(first) != string(second) {
		return "", fmt.Errorf("passphrases do not match")
	}
	return string(first), nil
}

var rootCmd = &cobra.Command{
	Use:   "toolbelt",
	Short: "Web application utility toolkit",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir:   %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
		fmt.Printf("Vault:      %s (%s)\n", cfg.Vault.Name, cfg.Vault.Type)
		fmt.Printf("History:    %s\n", cfg.History.Path)
		fmt.Printf("Files Dir:  %s\n", cfg.Files.BaseDir)
		if cfg.Database.DSN != "" {
			fmt.Printf("Database:   %s\n", cfg.Database.DSN)
		}
		return nil
	},
}

// backup command
var backupCmd = &cobra.Command{
	Use:   "backup NAME [TABLE...]",
	Short: "Snapshot database tables to the vault",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		encrypt, _ := cmd.Flags().GetBool("encrypt")

		a, err := newApp(cmd.Context(), "Backup")
		if err != nil {
			return err
		}
		defer a.Close()

		name := args[0]
		tables := args[1:]
		if err := a.Backup(cmd.Context(), name, encrypt, tables...); err != nil {
			return fmt.Errorf("backup failed: %w", err)
		}

		scope := "all tables"
		if len(tables) > 0 {
			scope = strings.Join(tables, ", ")
		}
		fmt.Printf("Snapshot %s stored (%s)\n", name, scope)
		return nil
	},
}

// restore command
var restoreCmd = &cobra.Command{
	Use:   "restore NAME [TABLE...]",
	Short: "Restore a snapshot from the vault",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		drop, _ := cmd.Flags().GetBool("drop")
		encrypted, _ := cmd.Flags().GetBool("encrypted")

		a, err := newApp(cmd.Context(), "Restore")
		if err != nil {
			return err
		}
		defer a.Close()

		passphrase := ""
		if encrypted {
			passphrase, err = promptPassphrase(false)
			if err != nil {
				return err
			}
		}

		if err := a.Restore(cmd.Context(), args[0], passphrase, drop, args[1:]...); err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}

		fmt.Printf("Snapshot %s restored\n", args[0])
		return nil
	},
}

// snapshots command
var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List stored snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "ListSnapshots")
		if err != nil {
			return err
		}
		defer a.Close()

		names, err := a.ListSnapshots(cmd.Context())
		if err != nil {
			return err
		}

		if len(names) == 0 {
			fmt.Println("No snapshots stored.")
			return nil
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

var snapshotsDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a stored snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "DeleteSnapshot")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Snapshots.DeleteSnapshot(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("deleting snapshot: %w", err)
		}
		fmt.Printf("Snapshot %s deleted\n", args[0])
		return nil
	},
}

// tables command
var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "ListTables")
		if err != nil {
			return err
		}
		defer a.Close()

		tables, err := a.Tables(cmd.Context())
		if err != nil {
			return err
		}

		if len(tables) == 0 {
			fmt.Println("No tables found.")
			return nil
		}
		for _, t := range tables {
			fmt.Println(t)
		}
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View operation history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp(cmd.Context(), "GetHistory")
		if err != nil {
			return err
		}
		defer a.Close()

		ops, err := a.History(cmd.Context(), limit)
		if err != nil {
			return err
		}

		if len(ops) == 0 {
			fmt.Println("No operations recorded.")
			return nil
		}

		for _, op := range ops {
			duration := ""
			if op.FinishedAt.Valid {
				d := op.FinishedAt.Time.Sub(op.StartedAt)
				duration = d.Truncate(time.Millisecond).String()
			}
			line := fmt.Sprintf("%s  %-12s  %s  %-8s  %s",
				op.ID[:8],
				op.Name,
				op.StartedAt.Format("2006-01-02 15:04:05"),
				op.Status,
				duration,
			)
			if op.Error != "" {
				line += "  " + op.Error
			}
			fmt.Println(line)
		}
		return nil
	},
}

// encrypt command
var encryptCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "Manage snapshot encryption",
}

var encryptSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Generate the encryption key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "SetupEncryption")
		if err != nil {
			return err
		}
		defer a.Close()

		passphrase, err := promptPassphrase(true)
		if err != nil {
			return err
		}

		if err := a.SetupEncryption(passphrase); err != nil {
			return fmt.Errorf("setting up encryption: %w", err)
		}
		fmt.Println("Encryption keys generated.")
		return nil
	},
}

// serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		a, err := newApp(cmd.Context(), "Serve")
		if err != nil {
			return err
		}
		defer a.Close()

		handler, err := a.Server()
		if err != nil {
			return err
		}

		if addr == "" {
			addr = a.HTTPAddr()
		}
		if addr == "" {
			addr = ":8080"
		}
		fmt.Printf("Listening on %s\n", addr)
		return http.ListenAndServe(addr, handler)
	},
}

// archive command
var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Pack and inspect archives under the files directory",
}

var archiveZipCmd = &cobra.Command{
	Use:   "zip DEST FILE...",
	Short: "Pack files into a ZIP archive",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "ZipData")
		if err != nil {
			return err
		}
		defer a.Close()

		if a.Files == nil {
			return fmt.Errorf("no files directory configured")
		}
		if _, err := a.Files.ZipData(args[1:], args[0], false); err != nil {
			return err
		}
		fmt.Printf("Archived %d file(s) into %s\n", len(args)-1, args[0])
		return nil
	},
}

var archiveUnzipCmd = &cobra.Command{
	Use:   "unzip ARCHIVE DEST",
	Short: "Extract a ZIP archive",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "UnzipData")
		if err != nil {
			return err
		}
		defer a.Close()

		if a.Files == nil {
			return fmt.Errorf("no files directory configured")
		}
		if err := a.Files.UnzipData(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Extracted %s into %s\n", args[0], args[1])
		return nil
	},
}

var archiveReadCmd = &cobra.Command{
	Use:   "read ARCHIVE",
	Short: "List the contents of a ZIP or tar.gz archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "ReadArchive")
		if err != nil {
			return err
		}
		defer a.Close()

		if a.Files == nil {
			return fmt.Errorf("no files directory configured")
		}
		info, err := a.Files.ReadArchive(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%d file(s), %d director(ies)\n", info.FileCount, info.DirCount)
		for _, dir := range info.DirNames {
			fmt.Printf("d %s/\n", dir)
		}
		for _, file := range info.FileNames {
			fmt.Printf("f %s\n", file)
		}
		return nil
	},
}

// keygen command
var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate random keys and passwords",
}

var keygenKeyCmd = &cobra.Command{
	Use:   "key",
	Short: "Generate a random hex key",
	RunE: func(cmd *cobra.Command, args []string) error {
		length, _ := cmd.Flags().GetInt("length")
		key, err := secrets.RandomKey(length)
		if err != nil {
			return err
		}
		fmt.Println(key)
		return nil
	},
}

var keygenPasswordCmd = &cobra.Command{
	Use:   "password",
	Short: "Generate a random password",
	RunE: func(cmd *cobra.Command, args []string) error {
		length, _ := cmd.Flags().GetInt("length")
		simple, _ := cmd.Flags().GetBool("simple")

		opts := secrets.DefaultPasswordOptions()
		if simple {
			opts = secrets.PasswordOptions{Upper: true, Digits: true}
		}
		password, err := secrets.RandomPassword(length, opts)
		if err != nil {
			return err
		}
		fmt.Printf("%s  (%s)\n", password, secrets.PasswordStrength(password))
		return nil
	},
}

var keygenDigitsCmd = &cobra.Command{
	Use:   "digits",
	Short: "Generate a random digit code",
	RunE: func(cmd *cobra.Command, args []string) error {
		length, _ := cmd.Flags().GetInt("length")
		code, err := secrets.RandomDigits(length)
		if err != nil {
			return err
		}
		fmt.Println(code)
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// snapshot subcommands
	snapshotsCmd.AddCommand(snapshotsDeleteCmd)

	// encrypt subcommands
	encryptCmd.AddCommand(encryptSetupCmd)

	// archive subcommands
	archiveCmd.AddCommand(archiveZipCmd)
	archiveCmd.AddCommand(archiveUnzipCmd)
	archiveCmd.AddCommand(archiveReadCmd)

	// keygen subcommands
	keygenCmd.AddCommand(keygenKeyCmd)
	keygenKeyCmd.Flags().IntP("length", "l", 32, "Key length in hex characters")
	keygenCmd.AddCommand(keygenPasswordCmd)
	keygenPasswordCmd.Flags().IntP("length", "l", 16, "Password length")
	keygenPasswordCmd.Flags().Bool("simple", false, "Skip special characters")
	keygenCmd.AddCommand(keygenDigitsCmd)
	keygenDigitsCmd.Flags().IntP("length", "l", 6, "Number of digits")

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(backupCmd)
	backupCmd.Flags().BoolP("encrypt", "e", false, "Encrypt the snapshot")
	rootCmd.AddCommand(restoreCmd)
	restoreCmd.Flags().Bool("drop", false, "Drop existing tables before restoring")
	restoreCmd.Flags().Bool("encrypted", false, "Prompt for a passphrase to decrypt the snapshot")
	rootCmd.AddCommand(snapshotsCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Maximum number of operations to show")
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(encryptCmd)
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (default from config, then :8080)")
	rootCmd.AddCommand(keygenCmd)
}
