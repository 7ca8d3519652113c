// Package encryption provides optional encryption of database snapshots.
package encryption

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"filippo.io/age"

	"blocksync/internal/blocksync"
)

// AgeEncryptor implements the Encryptor port using filippo.io/age with
// X25519 key files. Encryption needs only the recipient (public) key;
// decryption needs the identity (private) key. Both are plain age key files,
// so the tool can run unattended from cron.
type AgeEncryptor struct {
	recipientPath string
	identityPath  string
}

var _ blocksync.Encryptor = (*AgeEncryptor)(nil)

// NewAgeEncryptor creates an encryptor reading keys from the given paths.
func NewAgeEncryptor(recipientPath, identityPath string) *AgeEncryptor {
	return &AgeEncryptor{
		recipientPath: recipientPath,
		identityPath:  identityPath,
	}
}

// Setup generates a new X25519 key pair and writes the recipient and
// identity files. Existing key files are never overwritten.
func (e *AgeEncryptor) Setup() error {
	for _, p := range []string{e.recipientPath, e.identityPath} {
		if _, err := os.Stat(p); err == nil {
			return fmt.Errorf("key file already exists: %s", p)
		}
	}

	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return fmt.Errorf("generating key pair: %w", err)
	}

	if err := os.WriteFile(e.recipientPath, []byte(identity.Recipient().String()+"\n"), 0644); err != nil {
		return fmt.Errorf("writing recipient file: %w", err)
	}
	if err := os.WriteFile(e.identityPath, []byte(identity.String()+"\n"), 0600); err != nil {
		return fmt.Errorf("writing identity file: %w", err)
	}
	return nil
}

// Encrypt reads plaintext from r and writes age-encrypted ciphertext to w
// using the recipient key.
func (e *AgeEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	recipient, err := e.loadRecipient()
	if err != nil {
		return fmt.Errorf("loading recipient key: %w", err)
	}

	encWriter, err := age.Encrypt(w, recipient)
	if err != nil {
		return fmt.Errorf("creating encrypted writer: %w", err)
	}

	if _, err := io.Copy(encWriter, r); err != nil {
		return fmt.Errorf("encrypting data: %w", err)
	}

	if err := encWriter.Close(); err != nil {
		return fmt.Errorf("finalizing encryption: %w", err)
	}
	return nil
}

// Decrypt reads age-encrypted ciphertext from r and writes plaintext to w
// using the identity key.
func (e *AgeEncryptor) Decrypt(r io.Reader, w io.Writer) error {
	identity, err := e.loadIdentity()
	if err != nil {
		return fmt.Errorf("loading identity key: %w", err)
	}

	decReader, err := age.Decrypt(r, identity)
	if err != nil {
		return fmt.Errorf("decrypting data: %w", err)
	}

	if _, err := io.Copy(w, decReader); err != nil {
		return fmt.Errorf("reading decrypted data: %w", err)
	}
	return nil
}

func (e *AgeEncryptor) loadRecipient() (age.Recipient, error) {
	data, err := os.ReadFile(e.recipientPath)
	if err != nil {
		return nil, fmt.Errorf("reading recipient file: %w", err)
	}

	recipients, err := age.ParseRecipients(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing recipient file: %w", err)
	}
	if len(recipients) == 0 {
		return nil, fmt.Errorf("no recipients found in %s", e.recipientPath)
	}
	return recipients[0], nil
}

func (e *AgeEncryptor) loadIdentity() (age.Identity, error) {
	data, err := os.ReadFile(e.identityPath)
	if err != nil {
		return nil, fmt.Errorf("reading identity file: %w", err)
	}

	identities, err := age.ParseIdentities(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing identity file: %w", err)
	}
	if len(identities) == 0 {
		return nil, fmt.Errorf("no identities found in %s", e.identityPath)
	}
	return identities[0], nil
}
