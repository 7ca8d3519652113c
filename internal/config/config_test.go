package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		NodeID:       "node-abc",
		ApplianceDir: "/etc/blockdns",
		SnippetDir:   "/etc/dnsmasq.d",
		WorkDir:      "/var/lib/blocksync/lists",
		DatabasePath: "/etc/blockdns/lists.db",
		LogDir:       "/var/lib/blocksync/log",
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
		Backup: BackupConfig{
			Type:     "s3",
			S3Bucket: "list-snapshots",
			S3Prefix: "node-abc",
			S3Region: "us-east-1",
		},
		Encryption: EncryptionConfig{
			Type:          "age",
			RecipientPath: "/var/lib/blocksync/keys/snapshots.pub",
			IdentityPath:  "/var/lib/blocksync/keys/snapshots.key",
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

	if got.NodeID != original.NodeID {
		t.Errorf("NodeID = %q, want %q", got.NodeID, original.NodeID)
	}
	if got.ApplianceDir != original.ApplianceDir {
		t.Errorf("ApplianceDir = %q, want %q", got.ApplianceDir, original.ApplianceDir)
	}
	if got.WorkDir != original.WorkDir {
		t.Errorf("WorkDir = %q, want %q", got.WorkDir, original.WorkDir)
	}
	if got.Git.Remote != "origin" || got.Git.Branch != "master" {
		t.Errorf("Git = %+v, want origin/master", got.Git)
	}
	if len(got.Service.StopCommand) != 3 {
		t.Errorf("len(Service.StopCommand) = %d, want 3", len(got.Service.StopCommand))
	}
	if got.Backup.Type != "s3" || got.Backup.S3Bucket != "list-snapshots" {
		t.Errorf("Backup = %+v, want s3/list-snapshots", got.Backup)
	}
	if got.Encryption.Type != "age" {
		t.Errorf("Encryption.Type = %q, want %q", got.Encryption.Type, "age")
	}
	if got.Encryption.RecipientPath != original.Encryption.RecipientPath {
		t.Errorf("Encryption.RecipientPath = %q, want %q", got.Encryption.RecipientPath, original.Encryption.RecipientPath)
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("node-1", "/data/blocksync")

	if cfg.NodeID != "node-1" {
		t.Errorf("NodeID = %q, want %q", cfg.NodeID, "node-1")
	}
	if cfg.WorkDir != filepath.Join("/data/blocksync", "lists") {
		t.Errorf("WorkDir = %q", cfg.WorkDir)
	}
	if cfg.LogDir != filepath.Join("/data/blocksync", "log") {
		t.Errorf("LogDir = %q", cfg.LogDir)
	}
	if cfg.Backup.Type != "none" {
		t.Errorf("Backup.Type = %q, want %q", cfg.Backup.Type, "none")
	}
	if cfg.Encryption.Type != "none" {
		t.Errorf("Encryption.Type = %q, want %q", cfg.Encryption.Type, "none")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults error = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(_ *Config) {}, false},
		{"missing node id", func(c *Config) { c.NodeID = "" }, true},
		{"missing work dir", func(c *Config) { c.WorkDir = "" }, true},
		{"missing database path", func(c *Config) { c.DatabasePath = "" }, true},
		{"missing git remote", func(c *Config) { c.Git.Remote = "" }, true},
		{"unknown backup type", func(c *Config) { c.Backup.Type = "ftp" }, true},
		{"unknown encryption type", func(c *Config) { c.Encryption.Type = "rot13" }, true},
		{"memory backup is valid", func(c *Config) { c.Backup.Type = "memory" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig("node-1", "/data/blocksync")
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("Validate() error = nil, want error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
		})
	}
}

func TestInit(t *testing.T) {
	t.Run("writes a readable config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "conf", "blocksync.toml")
		cfg := NewConfig("node-1", "/data/blocksync")

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.NodeID != "node-1" {
			t.Errorf("NodeID = %q, want %q", got.NodeID, "node-1")
		}
	})

	t.Run("refuses to overwrite an existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "blocksync.toml")
		if err := os.WriteFile(path, []byte("node_id = \"keep\"\n"), 0644); err != nil {
			t.Fatal(err)
		}

		err := Init(path, NewConfig("node-1", "/data/blocksync"))
		if err == nil {
			t.Fatal("Init() error = nil, want already-exists error")
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.NodeID != "keep" {
			t.Errorf("existing config was overwritten: NodeID = %q", got.NodeID)
		}
	})
}

func TestReadFromFile_Missing(t *testing.T) {
	_, err := ReadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("ReadFromFile() error = nil, want error for missing file")
	}
}
