package view

import (
	"context"
	"fmt"
	"time"
)

const vaultTimeout = 5 * time.Second

// FormatAmount formats an amount stored as cents into a human-readable string.
func FormatAmount(cents int64) string {
	return fmt.Sprintf("%.2f", float64(cents)/100.0)
}

// VaultCtx returns a context with a standard timeout for vault operations.
func VaultCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), vaultTimeout)
}
