package blocksync

import (
	"context"
	"io"
)

// SnapshotStore archives copies of the appliance database taken immediately
// before a destructive table reimport. A pull that goes wrong mid-import can
// then be recovered from the most recent snapshot.
type SnapshotStore interface {
	// PutSnapshot stores the content read from r under the given name.
	PutSnapshot(ctx context.Context, name string, r io.Reader) error

	// GetSnapshot retrieves a stored snapshot and writes it to w.
	GetSnapshot(ctx context.Context, name string, w io.Writer) error

	// ValidateSetup verifies the store is accessible and properly configured.
	ValidateSetup(ctx context.Context) error
}

// Encryptor transforms snapshot content on its way into and out of a
// SnapshotStore.
type Encryptor interface {
	// Encrypt reads plaintext from r and writes ciphertext to w.
	Encrypt(r io.Reader, w io.Writer) error

	// Decrypt reads ciphertext from r and writes plaintext to w.
	Decrypt(r io.Reader, w io.Writer) error
}
