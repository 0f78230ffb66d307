package credentials

import (
	"encoding/json"
	"errors"
	"os"
	"time"

	"cloverlink.io/infrastructure/env"
	"cloverlink.io/infrastructure/logger"
)

// DefaultTokenLifetime applies when the provider omits expires_in. Clover
// tokens typically live for one hour.
const DefaultTokenLifetime = 3600

// ExpiryBuffer keeps a token from being used when it would expire mid-request.
const ExpiryBuffer = 5 * time.Minute

var Instance *Store

func InitialiseStore() {
	Instance = NewStore(env.GetOrDefault("TOKEN_FILE", "token.json"))
	if err := Instance.EnsureExists(); err != nil {
		logger.Error("could not create token file", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
	}
}

// TokenRecord is the single persisted OAuth session. ExpiresAt is kept as the
// formatted string it is stored as; a record missing either the access token
// or a parseable expiry means "no valid session".
type TokenRecord struct {
	AccessToken string `json:"access_token"`
	MerchantID  string `json:"merchant_id"`
	ExpiresAt   string `json:"expires_at"`
}

// Store owns the on-disk token slot: one JSON file, overwritten wholesale on
// each save. Single in-flight session assumed, no file locking.
type Store struct {
	Path string
}

func NewStore(path string) *Store {
	return &Store{Path: path}
}

// EnsureExists creates an empty token file when none is present so the slot
// is inspectable from first boot.
func (store *Store) EnsureExists() error {
	_, err := os.Stat(store.Path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return os.WriteFile(store.Path, []byte{}, 0o600)
}

// Save computes the expiry from the declared lifetime and replaces the stored
// record. A non-positive lifetime falls back to DefaultTokenLifetime.
func (store *Store) Save(record *TokenRecord, lifetimeSeconds int64) error {
	if lifetimeSeconds <= 0 {
		lifetimeSeconds = DefaultTokenLifetime
	}
	record.ExpiresAt = time.Now().Add(time.Duration(lifetimeSeconds) * time.Second).Format(time.RFC3339)
	payload, err := json.MarshalIndent(record, "", "    ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(store.Path, payload, 0o600); err != nil {
		return err
	}
	logger.Info("token saved", logger.LoggerOptions{
		Key:  "expiresAt",
		Data: record.ExpiresAt,
	})
	return nil
}

// Load returns the stored record, or nil when the file is missing, empty or
// malformed. Malformed state degrades to "unauthenticated", never an error.
func (store *Store) Load() *TokenRecord {
	content, err := os.ReadFile(store.Path)
	if err != nil || len(content) == 0 {
		return nil
	}
	var record TokenRecord
	if err := json.Unmarshal(content, &record); err != nil {
		logger.Warning("could not decode token file", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return nil
	}
	return &record
}

// IsExpired reports whether the stored token is unusable: absent, missing an
// expiry, expiring within the buffer, or carrying an unparseable expiry.
func (store *Store) IsExpired() bool {
	record := store.Load()
	if record == nil || record.ExpiresAt == "" {
		return true
	}
	expiresAt, err := time.Parse(time.RFC3339, record.ExpiresAt)
	if err != nil {
		logger.Warning("could not parse token expiry", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return true
	}
	return !time.Now().Before(expiresAt.Add(-ExpiryBuffer))
}

// AccessToken returns the token only while it is still usable.
func (store *Store) AccessToken() *string {
	if store.IsExpired() {
		return nil
	}
	record := store.Load()
	if record == nil || record.AccessToken == "" {
		return nil
	}
	return &record.AccessToken
}

func (store *Store) MerchantID() *string {
	record := store.Load()
	if record == nil || record.MerchantID == "" {
		return nil
	}
	return &record.MerchantID
}

// Clear deletes the persisted record; clearing an absent record is a no-op.
func (store *Store) Clear() error {
	err := os.Remove(store.Path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
