package auth

import (
	"context"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/mjaros/listkeeper/internal/docstore"
)

// KeysPath is the document collection holding API key records, keyed by
// short token.
const KeysPath = "apikeys"

// KeyType, Service and Version identify keys minted by this service.
const (
	KeyType = "sk"
	Service = "listkeeper"
	Version = "v1"
)

// ErrInvalidKey is returned for any key that fails authentication. The
// cause is deliberately not distinguished to the caller.
var ErrInvalidKey = errors.New("invalid API key")

// keyRecord is the stored shape of a registered API key.
type keyRecord struct {
	ID         string     `json:"id"`
	SecretHash string     `json:"secretHash"`
	Owner      string     `json:"owner"`
	CreatedAt  time.Time  `json:"createdAt"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
}

// hashSecret computes BLAKE2b-256 hash of the secret and returns hex-encoded string.
// BLAKE2b is faster than SHA-256 while maintaining security for high-entropy API keys.
func hashSecret(secret string) string {
	hash := blake2b.Sum256([]byte(secret))
	return hex.EncodeToString(hash[:])
}

// Authenticator resolves API keys to owner ids against the document store.
type Authenticator struct {
	store docstore.Store
}

// NewAuthenticator creates an authenticator backed by the given store.
func NewAuthenticator(store docstore.Store) *Authenticator {
	return &Authenticator{store: store}
}

// Register mints a new API key for the owner and persists its record.
// The full key is returned exactly once; only its hash is stored.
func (a *Authenticator) Register(ctx context.Context, owner string) (*APIKeyParts, error) {
	if owner == "" {
		return nil, errors.New("owner is required")
	}

	parts, err := GenerateAPIKey(KeyType, Service, Version)
	if err != nil {
		return nil, err
	}

	record := keyRecord{
		ID:         parts.ShortToken,
		SecretHash: hashSecret(parts.LongSecret),
		Owner:      owner,
		CreatedAt:  time.Now().UTC(),
	}
	if err := a.store.Put(ctx, KeysPath, parts.ShortToken, record); err != nil {
		return nil, fmt.Errorf("failed to store API key: %w", err)
	}
	return parts, nil
}

// Resolve authenticates the key and returns the owner it belongs to.
func (a *Authenticator) Resolve(ctx context.Context, apiKey string) (string, error) {
	parts, err := ParseAPIKey(apiKey)
	if err != nil {
		return "", ErrInvalidKey
	}

	record, err := a.lookup(ctx, parts.ShortToken)
	if err != nil {
		return "", ErrInvalidKey
	}

	// Constant-time comparison over equal-length hex digests.
	providedHash := hashSecret(parts.LongSecret)
	if subtle.ConstantTimeCompare([]byte(record.SecretHash), []byte(providedHash)) != 1 {
		return "", ErrInvalidKey
	}

	// Update last used time without slowing down the request.
	go func() {
		touchCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err := a.store.Merge(touchCtx, KeysPath, record.ID, map[string]any{
			"lastUsedAt": time.Now().UTC(),
		})
		if err != nil {
			slog.Warn("failed to update API key last used time", "error", err)
		}
	}()

	return record.Owner, nil
}

func (a *Authenticator) lookup(ctx context.Context, shortToken string) (keyRecord, error) {
	snapshot, err := a.store.Load(ctx, KeysPath)
	if err != nil {
		return keyRecord{}, err
	}
	for _, doc := range snapshot {
		if doc.ID != shortToken {
			continue
		}
		var record keyRecord
		if err := json.Unmarshal(doc.Data, &record); err != nil {
			return keyRecord{}, err
		}
		return record, nil
	}
	return keyRecord{}, fmt.Errorf("API key not found")
}
