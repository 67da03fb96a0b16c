// Package analysis computes string properties, filters analysis records
// and orchestrates record storage.
package analysis

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns the lowercase hex SHA-256 digest of value.
// It is the record ID and storage key.
func Fingerprint(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:])
}
