package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	return fmt.Sprintf("%s:%s", prefix, Fingerprint(parts...))
}

// Fingerprint returns a structural hash of parts. Parts are JSON encoded, so
// two inputs with equal encodings share a fingerprint; map keys are sorted
// by the encoder, which keeps the result stable.
func Fingerprint(parts ...any) string {
	data, err := json.Marshal(parts)
	if err != nil {
		// Unencodable input never matches a previous fingerprint.
		data = fmt.Appendf(nil, "%#v", parts)
	}
	return Hash(data)
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
