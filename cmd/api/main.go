package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/cofferapp/coffer/internal/config"
	cofferHttp "github.com/cofferapp/coffer/internal/http"
	accountHandler "github.com/cofferapp/coffer/internal/http/account"
	"github.com/cofferapp/coffer/internal/http/auth"
	categoryHandler "github.com/cofferapp/coffer/internal/http/category"
	exportHandler "github.com/cofferapp/coffer/internal/http/export"
	importHandler "github.com/cofferapp/coffer/internal/http/importcsv"
	reportHandler "github.com/cofferapp/coffer/internal/http/report"
	sessionHandler "github.com/cofferapp/coffer/internal/http/session"
	txHandler "github.com/cofferapp/coffer/internal/http/transaction"
	"github.com/cofferapp/coffer/internal/importer"
	"github.com/cofferapp/coffer/internal/vault"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	vaultPath, err := cfg.VaultPath()
	if err != nil {
		slog.Error("failed to resolve vault path", "error", err)
		os.Exit(1)
	}

	secret := []byte(cfg.Auth.Secret)
	if len(secret) == 0 {
		// Tokens die with the process, which is fine for a single-user
		// vault.
		secret = randomSecret()

		slog.Warn("AUTH_SECRET not set, using an ephemeral secret")
	}

	session := vault.NewSession(vault.NewFileTransport(vaultPath))
	issuer := auth.NewIssuer(secret, cfg.Auth.TTL)

	router := cofferHttp.New(
		session,
		issuer,
		sessionHandler.NewHandler(session, issuer),
		accountHandler.NewHandler(session),
		categoryHandler.NewHandler(session),
		txHandler.NewHandler(session),
		importHandler.NewHandler(session, importer.NewService()),
		exportHandler.NewHandler(session),
		reportHandler.NewHandler(session),
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port, "vault", vaultPath)

	srv := &http.Server{
		Addr:        port,
		Handler:     router,
		ReadTimeout: cfg.Server.Timeout,
	}

	if err := srv.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func randomSecret() []byte {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		slog.Error("failed to generate secret", "error", err)
		os.Exit(1)
	}

	return []byte(hex.EncodeToString(buf))
}
