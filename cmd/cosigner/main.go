package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"zkml-cosigner/cosigner"
	"zkml-cosigner/model"
	"zkml-cosigner/nonce"
	"zkml-cosigner/shared"
	"zkml-cosigner/snark"
)

func main() {
	config := LoadCosignerConfig()

	logger, err := shared.NewLoggerFromEnv("cosigner")
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Startup is fail-fast: operating without a valid signing identity or a
	// pinned model would silently produce unverifiable approvals.
	if config.PrivateKeyHex == "" {
		logger.Fatal("COSIGNER_PRIVATE_KEY env var must be set")
	}
	signer, err := shared.LoadApprovalSigner(config.PrivateKeyHex)
	if err != nil {
		logger.Fatal("failed to load signing key", zap.Error(err))
	}
	logger.Info("signing identity loaded", zap.String("address", signer.Address().Hex()))

	modelHash, err := model.Fingerprint(config.ModelPath)
	if err != nil {
		logger.Fatal("failed to compute model hash", zap.Error(err))
	}
	logger.Info("model pinned", zap.String("sha256", modelHash))

	m, err := model.Load(config.ModelPath)
	if err != nil {
		logger.Fatal("failed to load model artifact", zap.Error(err))
	}

	verifier, err := snark.NewGroth16Verifier(config.VerifyingKeyPath, m.Classes())
	if err != nil {
		logger.Fatal("failed to load verifier preprocessing", zap.Error(err))
	}
	logger.Info("verifier preprocessing ready")

	ledger := nonce.Load(nonce.NewFileBacking(config.NonceStatePath), logger)
	logger.Info("loaded nonce state", zap.Uint64("counter", ledger.Counter()))

	cs := cosigner.New(verifier, signer, ledger, modelHash, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", config.Port),
		Handler:      cosigner.NewServer(cs, logger).Routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	logger.Info("starting co-signer service", zap.Int("port", config.Port))
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Critical("server failed", zap.Error(err))
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGTERM)
			select {
			case sigChan <- syscall.SIGTERM:
			default:
			}
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
