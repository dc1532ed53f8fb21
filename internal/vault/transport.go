package vault

import "context"

//go:generate mockgen -source=transport.go -destination=transport_mock.go -package=vault

// Transport moves the opaque encrypted envelope to and from a durable slot.
// Implementations never look inside the blob.
type Transport interface {
	// Load returns the stored envelope, or ErrNoVault if none exists.
	Load(ctx context.Context) ([]byte, error)
	// Store durably replaces the envelope.
	Store(ctx context.Context, data []byte) error
	// Delete destroys the envelope. Deleting an absent envelope is not an
	// error.
	Delete(ctx context.Context) error
}
