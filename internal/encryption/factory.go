package encryption

import (
	"fmt"

	"blocksync/internal/blocksync"
	"blocksync/internal/config"
)

// NewEncryptorFromConfig creates an Encryptor based on the encryption config
// type. Type "none" returns nil: snapshots stored in plaintext.
func NewEncryptorFromConfig(cfg config.EncryptionConfig) (blocksync.Encryptor, error) {
	switch cfg.Type {
	case "", "none":
		return nil, nil
	case "age":
		if cfg.RecipientPath == "" || cfg.IdentityPath == "" {
			return nil, fmt.Errorf("age encryption requires recipient_path and identity_path")
		}
		return NewAgeEncryptor(cfg.RecipientPath, cfg.IdentityPath), nil
	default:
		return nil, fmt.Errorf("unknown encryption type: %s", cfg.Type)
	}
}
