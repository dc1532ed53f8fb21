// Package httperr maps domain errors to HTTP status codes so every
// handler reports the same taxonomy.
package httperr

import (
	"errors"
	"net/http"

	"github.com/cofferapp/coffer/internal/crypto"
	"github.com/cofferapp/coffer/internal/ledger"
	"github.com/cofferapp/coffer/internal/vault"
)

// Write reports err with the status its category calls for. Unrecognized
// errors become an opaque 500.
func Write(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrValidation),
		errors.Is(err, vault.ErrWeakPassword),
		errors.Is(err, vault.ErrPasswordRequired):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, crypto.ErrDecryptionFailed),
		errors.Is(err, vault.ErrLocked):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, ledger.ErrNotFound),
		errors.Is(err, vault.ErrNoVault):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ledger.ErrReferenced),
		errors.Is(err, vault.ErrVaultExists):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, vault.ErrPersistenceFailed):
		http.Error(w, err.Error(), http.StatusInternalServerError)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
