package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// PASETO v4 requires a 256-bit (32-byte) symmetric key.
	keyLength = 32
	// Expected hex-encoded length (32 bytes = 64 hex characters).
	keyHexLength = 64
)

// LoadOrGenerateKey loads or generates the PASETO v4 symmetric key for access tokens.
// The TOKEN_KEY environment variable wins when set (hosted deployments);
// otherwise the key lives in <dataPath>/auth.key as a hex-encoded string and is
// generated on first start.
// Returns the hex-encoded key ready for NewTokenService.
func LoadOrGenerateKey(dataPath string) (string, error) {
	if envKey := strings.TrimSpace(os.Getenv("TOKEN_KEY")); envKey != "" {
		if err := validateKeyHex(envKey); err != nil {
			return "", fmt.Errorf("TOKEN_KEY: %w", err)
		}
		return envKey, nil
	}

	keyPath := filepath.Join(dataPath, "auth.key")

	//#nosec G304 -- key path is derived from the validated data path
	if keyBytes, err := os.ReadFile(keyPath); err == nil {
		keyHex := strings.TrimSpace(string(keyBytes))
		if err := validateKeyHex(keyHex); err != nil {
			return "", fmt.Errorf("stored auth key: %w", err)
		}
		return keyHex, nil
	}

	key := make([]byte, keyLength)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("failed to generate auth key: %w", err)
	}
	keyHex := hex.EncodeToString(key)

	if err := os.MkdirAll(dataPath, 0o700); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}

	if err := os.WriteFile(keyPath, []byte(keyHex), 0o600); err != nil {
		return "", fmt.Errorf("failed to save auth key: %w", err)
	}

	return keyHex, nil
}

func validateKeyHex(keyHex string) error {
	if len(keyHex) != keyHexLength {
		return fmt.Errorf("expected %d hex chars, got %d", keyHexLength, len(keyHex))
	}
	if _, err := hex.DecodeString(keyHex); err != nil {
		return fmt.Errorf("not valid hex: %w", err)
	}
	return nil
}
