package keys

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// KeyStore provides access to secret values such as API keys and tokens.
type KeyStore interface {
	Get(id string) ([]byte, error)
	Put(id string, key []byte) error
	Delete(id string) error
}

var ErrKeyNotFound = errors.New("key not found")

// SecretKeys are the config keys that may live in a KeyStore instead of
// config.toml.
var SecretKeys = []string{"gemini.api_key", "auth.token"}

// IsSecret reports whether key may be kept in a KeyStore.
func IsSecret(key string) bool {
	for _, k := range SecretKeys {
		if k == key {
			return true
		}
	}
	return false
}

// MapStore keeps secrets in memory.
type MapStore struct {
	Keys map[string]string
}

func (s *MapStore) Get(id string) ([]byte, error) {
	if s == nil || s.Keys == nil {
		return nil, ErrKeyNotFound
	}
	val, ok := s.Keys[id]
	if !ok || val == "" {
		return nil, ErrKeyNotFound
	}
	return []byte(val), nil
}

func (s *MapStore) Put(id string, key []byte) error {
	if s.Keys == nil {
		s.Keys = map[string]string{}
	}
	s.Keys[id] = string(key)
	return nil
}

func (s *MapStore) Delete(id string) error {
	if s == nil || s.Keys == nil {
		return nil
	}
	delete(s.Keys, id)
	return nil
}

// Resolve fills every empty secret key in v from store. Values already set
// by the config file or environment win. Missing entries are skipped.
func Resolve(v *viper.Viper, store KeyStore) error {
	for _, k := range SecretKeys {
		if strings.TrimSpace(v.GetString(k)) != "" {
			continue
		}
		val, err := store.Get(k)
		if errors.Is(err, ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read %s from keyring: %w", k, err)
		}
		v.Set(k, strings.TrimSpace(string(val)))
	}
	return nil
}
