// Package vault holds the session controller: the only component that ever
// sees the password, the decrypted ledger and the persistence transport at
// the same time.
package vault

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cofferapp/coffer/internal/crypto"
	"github.com/cofferapp/coffer/internal/ledger"
)

// MinPasswordLen is enforced at setup time.
const MinPasswordLen = 6

var (
	ErrNoVault          = errors.New("no vault exists")
	ErrVaultExists      = errors.New("vault already exists")
	ErrLocked           = errors.New("session is locked")
	ErrPasswordRequired = errors.New("password is required")
	ErrWeakPassword     = fmt.Errorf("password must be at least %d characters", MinPasswordLen)

	// ErrPersistenceFailed marks a mutation that took effect in memory but
	// could not be written through the transport. Distinct from validation
	// errors: the caller decides whether to retry Save or lock the session.
	ErrPersistenceFailed = errors.New("persisting vault failed")
)

// Session is the single-writer gatekeeper over an unlocked ledger. It is
// Locked until Setup or Unlock succeeds; while Unlocked it holds the
// password for re-encryption and persists after every successful mutation.
type Session struct {
	mu        sync.Mutex
	transport Transport

	// nil while locked.
	password []byte
	ledger   *ledger.Ledger

	// epoch increments on every lock-state change, letting callers tie
	// credentials (e.g. API tokens) to one unlocked lifetime.
	epoch uint64
}

func NewSession(transport Transport) *Session {
	return &Session{transport: transport}
}

// Exists reports whether an envelope is persisted, without touching it.
func (s *Session) Exists(ctx context.Context) (bool, error) {
	_, err := s.transport.Load(ctx)
	if errors.Is(err, ErrNoVault) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}

// Setup initializes a brand-new vault with the default ledger and unlocks
// it. Fails if an envelope already exists.
func (s *Session) Setup(ctx context.Context, password string) error {
	if len(password) < MinPasswordLen {
		return ErrWeakPassword
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.Exists(ctx)
	if err != nil {
		return err
	}

	if exists {
		return ErrVaultExists
	}

	s.ledger = ledger.Default()
	s.password = []byte(password)
	s.epoch++

	if err := s.save(ctx); err != nil {
		// A vault we could not write is no vault at all.
		s.lockLocked()
		return err
	}

	return nil
}

// Unlock decrypts the persisted envelope. On failure the session stays
// Locked; wrong password and corrupted data are indistinguishable.
func (s *Session) Unlock(ctx context.Context, password string) error {
	if password == "" {
		return ErrPasswordRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	envelope, err := s.transport.Load(ctx)
	if err != nil {
		return err
	}

	plaintext, err := crypto.Decrypt(string(envelope), password)
	if err != nil {
		return err
	}

	l, err := ledger.Decode(plaintext)
	if err != nil {
		// Valid AEAD tag but unparseable payload still must not expose a
		// partial ledger.
		return crypto.ErrDecryptionFailed
	}

	s.ledger = l
	s.password = []byte(password)
	s.epoch++

	return nil
}

// Lock discards the key material and the in-memory ledger.
func (s *Session) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lockLocked()
}

func (s *Session) lockLocked() {
	for i := range s.password {
		s.password[i] = 0
	}

	s.password = nil
	s.ledger = nil
	s.epoch++
}

// Reset destroys the persisted envelope and locks the session.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.transport.Delete(ctx); err != nil {
		return err
	}

	s.lockLocked()

	return nil
}

// Unlocked reports the session state.
func (s *Session) Unlocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.password != nil
}

// Epoch identifies the current unlocked lifetime. It changes on every
// Setup, Unlock, Lock and Reset.
func (s *Session) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.epoch
}

// View runs fn against the ledger under the session lock. fn must not
// mutate; use Mutate for that.
func (s *Session) View(fn func(*ledger.Ledger) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.password == nil {
		return ErrLocked
	}

	return fn(s.ledger)
}

// Mutate runs fn against the engine and, when it succeeds, re-encrypts and
// persists the ledger under the held password. A transport failure is
// surfaced as ErrPersistenceFailed; the in-memory mutation stands and the
// caller may retry with Save.
func (s *Session) Mutate(ctx context.Context, fn func(*ledger.Engine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.password == nil {
		return ErrLocked
	}

	if err := fn(ledger.NewEngine(s.ledger)); err != nil {
		return err
	}

	return s.save(ctx)
}

// Save re-encrypts and persists the current ledger. Exposed for retrying
// after ErrPersistenceFailed.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.password == nil {
		return ErrLocked
	}

	return s.save(ctx)
}

func (s *Session) save(ctx context.Context) error {
	plaintext, err := s.ledger.Encode()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}

	envelope, err := crypto.Encrypt(plaintext, string(s.password))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}

	if err := s.transport.Store(ctx, []byte(envelope)); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}

	return nil
}
