// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package health

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ManuGH/shortify/internal/log"
)

// StartupInput is the subset of configuration the pre-flight checks need.
type StartupInput struct {
	ListenAddr     string
	StorageBackend string
	StorageDir     string
	CacheBackend   string
	RedisAddr      string
}

// PerformStartupChecks validates the environment before the server starts.
func PerformStartupChecks(_ context.Context, in StartupInput) error {
	logger := log.WithComponent("startup-check")
	logger.Debug().Msg("running startup checks")

	if err := checkListenAddr(in.ListenAddr); err != nil {
		return fmt.Errorf("listen address check failed: %w", err)
	}

	switch in.StorageBackend {
	case "memory":
		logger.Warn().
			Str("storage_backend", in.StorageBackend).
			Msg("theme preferences are not persistent across restarts")
	default:
		if in.StorageDir == "" {
			break
		}
		if err := checkDataDir(logger, in.StorageDir); err != nil {
			return fmt.Errorf("storage directory check failed: %w", err)
		}
		warnIfTemp(logger, in.StorageDir)
	}

	if in.CacheBackend == "redis" {
		if _, _, err := net.SplitHostPort(in.RedisAddr); err != nil {
			return fmt.Errorf("invalid redis address %q: %w", in.RedisAddr, err)
		}
	}

	logger.Info().Msg("startup checks passed")
	return nil
}

func checkListenAddr(addr string) error {
	if addr == "" {
		return nil
	}
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	portNum, err := strconv.Atoi(port)
	if err != nil || portNum < 0 || portNum > 65535 {
		return fmt.Errorf("invalid listen port %q in %q", port, addr)
	}
	return nil
}

func checkDataDir(logger zerolog.Logger, path string) error {
	if err := os.MkdirAll(path, 0o750); err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	testFile := filepath.Join(path, ".write_test")
	if err := os.WriteFile(testFile, []byte("ok"), 0o600); err != nil {
		return fmt.Errorf("directory is not writable: %s (error: %v)", path, err)
	}
	_ = os.Remove(testFile)

	logger.Debug().Str("path", path).Msg("storage directory is writable")
	return nil
}

func warnIfTemp(logger zerolog.Logger, dir string) {
	tempDir := filepath.Clean(os.TempDir())
	dataDir := filepath.Clean(dir)
	if tempDir != "." && (dataDir == tempDir || strings.HasPrefix(dataDir, tempDir+string(filepath.Separator))) {
		logger.Warn().
			Str("storage_path", dir).
			Msg("storage directory is under temp; preferences may be lost on reboot")
	}
}
