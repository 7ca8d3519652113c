package main

import (
	"fmt"
	"os"

	"blocksync/internal/app"
	"blocksync/internal/config"
	"blocksync/internal/database"
	"blocksync/internal/database/migrations"
	"blocksync/internal/encryption"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates a fully wired App.
// The caller must defer a.Close().
func newApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := readConfig()
	if err != nil {
		return nil, err
	}

	a, err := app.New(cmd.Context(), cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

func readConfig() (*config.Config, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return cfg, nil
}

var rootCmd = &cobra.Command{
	Use:          "blocksync",
	Short:        "Synchronize DNS blocklist state between nodes",
	Version:      version,
	SilenceUsage: true,
}

var initPushCmd = &cobra.Command{
	Use:     "init-push",
	Aliases: []string{"initpush"},
	Short:   "Seed the work directory from this node and stage the first snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.InitPush(cmd.Context()); err != nil {
			return err
		}

		fmt.Println("Local state collected and staged. Commit and push the work directory to finish initialization.")
		return nil
	},
}

var initPullCmd = &cobra.Command{
	Use:     "init-pull",
	Aliases: []string{"initpull"},
	Short:   "Replace this node's state with the remote snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.InitPull(cmd.Context()); err != nil {
			return err
		}

		fmt.Println("Remote snapshot applied to this node.")
		return nil
	},
}

var pushCmd = &cobra.Command{
	Use:     "push",
	Aliases: []string{"upload", "up", "u"},
	Short:   "Publish local list state if it differs from the remote",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.Push(cmd.Context())
		if err != nil {
			return err
		}

		if res.NoOp {
			fmt.Println("Nothing to push: remote matches local.")
			return nil
		}
		fmt.Printf("Pushed snapshot: %s\n", res.Message)
		return nil
	},
}

var pullCmd = &cobra.Command{
	Use:     "pull",
	Aliases: []string{"download", "down", "d"},
	Short:   "Apply the remote list state if this node is behind",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.Pull(cmd.Context())
		if err != nil {
			return err
		}

		if res.NoOp {
			fmt.Println("Nothing to pull: local matches remote.")
			return nil
		}
		fmt.Printf("Applied remote snapshot (%d commit(s) behind).\n", res.Commits)
		return nil
	},
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

		nodeID := uuid.New().String()
		cfg := config.NewConfig(nodeID, defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Node ID:  %s\n", nodeID)
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
		fmt.Printf("Node ID:       %s\n", cfg.NodeID)
		fmt.Printf("Appliance Dir: %s\n", cfg.ApplianceDir)
		fmt.Printf("Snippet Dir:   %s\n", cfg.SnippetDir)
		fmt.Printf("Work Dir:      %s\n", cfg.WorkDir)
		fmt.Printf("Database:      %s\n", cfg.DatabasePath)
		fmt.Printf("Log Dir:       %s\n", cfg.LogDir)
		fmt.Printf("Git Remote:    %s (%s)\n", cfg.Git.Remote, cfg.Git.Branch)
		fmt.Printf("Backup:        %s\n", cfg.Backup.Type)
		fmt.Printf("Encryption:    %s\n", cfg.Encryption.Type)
		return nil
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage encryption keys",
}

var configKeysInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate an age keypair for snapshot encryption",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := readConfig()
		if err != nil {
			return err
		}

		if cfg.Encryption.Type != "age" {
			return fmt.Errorf("encryption is not enabled in config (type=%s)", cfg.Encryption.Type)
		}

		enc := encryption.NewAgeEncryptor(cfg.Encryption.RecipientPath, cfg.Encryption.IdentityPath)
		if err := enc.Setup(); err != nil {
			return fmt.Errorf("generating keypair: %w", err)
		}

		fmt.Printf("Recipient key written to %s\n", cfg.Encryption.RecipientPath)
		fmt.Printf("Identity key written to %s\n", cfg.Encryption.IdentityPath)
		return nil
	},
}

// db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the list database",
}

var dbInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the list database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := readConfig()
		if err != nil {
			return err
		}

		db, err := database.OpenConnection(cfg.DatabasePath)
		if err != nil {
			return fmt.Errorf("opening list database: %w", err)
		}
		defer db.Close()

		if err := migrations.MigrateUp(db); err != nil {
			return fmt.Errorf("migrating list database: %w", err)
		}

		fmt.Printf("List database ready at %s\n", cfg.DatabasePath)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the blocksync version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("blocksync %s\n", version)
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configKeysCmd)
	configKeysCmd.AddCommand(configKeysInitCmd)

	dbCmd.AddCommand(dbInitCmd)

	rootCmd.AddCommand(initPushCmd)
	rootCmd.AddCommand(initPullCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(pullCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(versionCmd)
}
