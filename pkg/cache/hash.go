package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey builds "prefix:<sha256 of the JSON encoding of v>".
func hashKey(prefix string, v any) string {
	data, _ := json.Marshal(v)
	return prefix + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data. Image bytes are hashed with it
// before they become part of an upload key.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
