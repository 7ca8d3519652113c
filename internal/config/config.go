package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for blocksync. It is read once at
// startup and handed to the orchestrator as an immutable value; nothing is
// discovered at runtime.
type Config struct {
	NodeID       string `toml:"node_id"`
	ApplianceDir string `toml:"appliance_dir"`
	SnippetDir   string `toml:"snippet_dir"`
	WorkDir      string `toml:"work_dir"`
	DatabasePath string `toml:"database_path"`
	LogDir       string `toml:"log_dir"`

	Git        GitConfig        `toml:"git"`
	Service    ServiceConfig    `toml:"service"`
	Backup     BackupConfig     `toml:"backup"`
	Encryption EncryptionConfig `toml:"encryption"`
}

// GitConfig identifies the remote snapshot and the commit author.
type GitConfig struct {
	Remote      string `toml:"remote"`
	Branch      string `toml:"branch"`
	AuthorName  string `toml:"author_name"`
	AuthorEmail string `toml:"author_email"`
}

// ServiceConfig holds the external commands used to control the resolver.
// Both are argv vectors; no shell is involved.
type ServiceConfig struct {
	StopCommand    []string `toml:"stop_command"`
	RebuildCommand []string `toml:"rebuild_command"`
}

// BackupConfig configures the pre-import database snapshot store.
// This uses a tagged union pattern - the Type field determines which other
// fields are relevant.
type BackupConfig struct {
	Type string `toml:"type"` // "none", "filesystem", "s3", or "memory"

	// Filesystem-specific fields (only used when Type == "filesystem")
	Dir string `toml:"dir,omitempty"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket    string `toml:"s3_bucket,omitempty"`
	S3Prefix    string `toml:"s3_prefix,omitempty"`
	S3Region    string `toml:"s3_region,omitempty"`
	S3Endpoint  string `toml:"s3_endpoint,omitempty"`
	S3AccessKey string `toml:"s3_access_key,omitempty"`
	S3SecretKey string `toml:"s3_secret_key,omitempty"`
}

// EncryptionConfig configures optional encryption of database snapshots.
// This uses a tagged union pattern - the Type field determines which other
// fields are relevant.
type EncryptionConfig struct {
	Type string `toml:"type"` // "none" or "age"

	// age-specific fields (only used when Type == "age")
	RecipientPath string `toml:"recipient_path,omitempty"`
	IdentityPath  string `toml:"identity_path,omitempty"`
}

// NewConfig creates a Config with the provided node ID and defaults rooted
// under baseDir for the node-local state (working copy, logs).
func NewConfig(nodeID, baseDir string) *Config {
	return &Config{
		NodeID:       nodeID,
		ApplianceDir: "/etc/blockdns",
		SnippetDir:   "/etc/dnsmasq.d",
		WorkDir:      filepath.Join(baseDir, "lists"),
		DatabasePath: "/etc/blockdns/lists.db",
		LogDir:       filepath.Join(baseDir, "log"),
		Git: GitConfig{
			Remote:      "origin",
			Branch:      "master",
			AuthorName:  "blocksync",
			AuthorEmail: "blocksync@localhost",
		},
		Service: ServiceConfig{
			StopCommand:    []string{"systemctl", "stop", "dnsmasq"},
			RebuildCommand: []string{"blockdns", "rebuild"},
		},
		Backup:     BackupConfig{Type: "none"},
		Encryption: EncryptionConfig{Type: "none"},
	}
}

// Validate checks that the fields the orchestrator depends on are present.
func (c *Config) Validate() error {
	required := map[string]string{
		"node_id":       c.NodeID,
		"appliance_dir": c.ApplianceDir,
		"snippet_dir":   c.SnippetDir,
		"work_dir":      c.WorkDir,
		"database_path": c.DatabasePath,
		"git.remote":    c.Git.Remote,
		"git.branch":    c.Git.Branch,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("%s must be set", name)
		}
	}

	switch c.Backup.Type {
	case "", "none", "filesystem", "s3", "memory":
	default:
		return fmt.Errorf("unknown backup type: %s", c.Backup.Type)
	}

	switch c.Encryption.Type {
	case "", "none", "age":
	default:
		return fmt.Errorf("unknown encryption type: %s", c.Encryption.Type)
	}

	return nil
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

// Init initializes a new config file at the specified path with the provided
// Config. An existing file is never overwritten.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
