package cache

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/anandMohanan/staybase/internal/domain/model"
)

const keySize = 32 // AES-256

// SecureCache stores merged customer lists in Redis, sealed with AES-256-GCM
// so cached customer PII is encrypted at rest. Entries are a pure
// memoization: losing or corrupting one only forces a rebuild from source
// data, so decryption failures surface as cache misses, not request errors.
type SecureCache struct {
	rdb  *redis.Client
	aead cipher.AEAD
}

// NewSecureCache creates a SecureCache. encryptionKey is base64; its decoded
// form is truncated to 32 bytes for AES-256.
func NewSecureCache(rdb *redis.Client, encryptionKey string) (*SecureCache, error) {
	raw, err := base64.StdEncoding.DecodeString(encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("cache: decode encryption key: %w", err)
	}
	if len(raw) < keySize {
		return nil, fmt.Errorf("cache: encryption key must decode to at least %d bytes", keySize)
	}

	block, err := aes.NewCipher(raw[:keySize])
	if err != nil {
		return nil, fmt.Errorf("cache: init cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cache: init GCM: %w", err)
	}

	return &SecureCache{rdb: rdb, aead: aead}, nil
}

// Get returns the cached customer list for key, with ok=false on a miss. An
// entry that fails to open (rotated key, tampering) is deleted and reported
// as a miss.
func (c *SecureCache) Get(ctx context.Context, key string) ([]model.EnrichedCustomer, bool, error) {
	sealed, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: get %s: %w", key, err)
	}

	plaintext, err := c.open(sealed)
	if err != nil {
		c.rdb.Del(ctx, key)
		return nil, false, nil
	}

	var customers []model.EnrichedCustomer
	if err := json.Unmarshal(plaintext, &customers); err != nil {
		c.rdb.Del(ctx, key)
		return nil, false, nil
	}
	return customers, true, nil
}

// Set stores the customer list under key for the given TTL.
func (c *SecureCache) Set(ctx context.Context, key string, customers []model.EnrichedCustomer, ttl time.Duration) error {
	plaintext, err := json.Marshal(customers)
	if err != nil {
		return fmt.Errorf("cache: marshal customers: %w", err)
	}

	sealed, err := c.seal(plaintext)
	if err != nil {
		return err
	}

	if err := c.rdb.Set(ctx, key, sealed, ttl).Err(); err != nil {
		return fmt.Errorf("cache: set %s: %w", key, err)
	}
	return nil
}

// Delete drops the cached list for key.
func (c *SecureCache) Delete(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache: delete %s: %w", key, err)
	}
	return nil
}

// seal encrypts plaintext and encodes nonce-prefixed ciphertext as base64.
func (c *SecureCache) seal(plaintext []byte) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("cache: generate nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// open reverses seal.
func (c *SecureCache) open(encoded string) ([]byte, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("cache: decode entry: %w", err)
	}
	if len(sealed) < c.aead.NonceSize() {
		return nil, fmt.Errorf("cache: entry too short")
	}
	nonce, ciphertext := sealed[:c.aead.NonceSize()], sealed[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("cache: open entry: %w", err)
	}
	return plaintext, nil
}
