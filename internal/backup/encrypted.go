package backup

import (
	"context"
	"io"

	"blocksync/internal/blocksync"
)

// EncryptedStore wraps another SnapshotStore and encrypts snapshots on the
// way in, decrypting them on the way out.
type EncryptedStore struct {
	inner blocksync.SnapshotStore
	enc   blocksync.Encryptor
}

var _ blocksync.SnapshotStore = (*EncryptedStore)(nil)

// NewEncryptedStore wraps inner so all content passes through enc.
func NewEncryptedStore(inner blocksync.SnapshotStore, enc blocksync.Encryptor) *EncryptedStore {
	return &EncryptedStore{inner: inner, enc: enc}
}

// PutSnapshot encrypts the content read from r and stores the ciphertext.
func (s *EncryptedStore) PutSnapshot(ctx context.Context, name string, r io.Reader) error {
	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(s.enc.Encrypt(r, pw))
	}()

	if err := s.inner.PutSnapshot(ctx, name, pr); err != nil {
		pr.CloseWithError(err)
		return err
	}
	return nil
}

// GetSnapshot retrieves the ciphertext and writes the plaintext to w.
func (s *EncryptedStore) GetSnapshot(ctx context.Context, name string, w io.Writer) error {
	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(s.inner.GetSnapshot(ctx, name, pw))
	}()

	if err := s.enc.Decrypt(pr, w); err != nil {
		pr.CloseWithError(err)
		return err
	}
	return nil
}

// ValidateSetup delegates to the wrapped store.
func (s *EncryptedStore) ValidateSetup(ctx context.Context) error {
	return s.inner.ValidateSetup(ctx)
}
