// Package auth guards the log routes with a static bearer API key.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"gamelog/internal/apperr"
	"gamelog/internal/config"
)

// Verifier checks a presented key against either the plain configured key
// or a hex HMAC-SHA256 digest of it.
type Verifier struct {
	key      []byte
	hash     []byte
	secret   []byte
	disabled bool
	cfgErr   error
}

func NewVerifier(cfg config.AuthConfig) *Verifier {
	v := &Verifier{disabled: cfg.Disabled}
	key := strings.TrimSpace(cfg.APIKey)
	digest := strings.TrimSpace(cfg.APIKeyHash)

	switch {
	case key != "":
		v.key = []byte(key)
	case digest != "":
		if cfg.HashSecret == "" {
			v.cfgErr = apperr.Config("auth.api_key_hash requires auth.hash_secret")
			break
		}
		b, err := hex.DecodeString(digest)
		if err != nil {
			v.cfgErr = apperr.Config("auth.api_key_hash is not valid hex")
			break
		}
		v.hash = b
		v.secret = []byte(cfg.HashSecret)
	default:
		v.cfgErr = apperr.Config("api key not configured")
	}
	return v
}

// Verify returns nil for an accepted token, a config error when no key is
// set up, and an auth error otherwise.
func (v *Verifier) Verify(token string) error {
	if v == nil {
		return apperr.Config("api key not configured")
	}
	if v.disabled {
		return nil
	}
	if v.cfgErr != nil {
		return v.cfgErr
	}
	if token == "" {
		return apperr.Auth("unauthorized - missing api key")
	}
	if v.key != nil {
		if subtle.ConstantTimeCompare([]byte(token), v.key) == 1 {
			return nil
		}
		return apperr.Auth("unauthorized - invalid api key")
	}
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(token))
	if hmac.Equal(mac.Sum(nil), v.hash) {
		return nil
	}
	return apperr.Auth("unauthorized - invalid api key")
}

// HashKey is the digest form expected in auth.api_key_hash.
func HashKey(key, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(key))
	return hex.EncodeToString(mac.Sum(nil))
}
