package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashUserKey derives a stable storage namespace from a user identifier so raw
// IDs never appear in object keys.
func HashUserKey(userID string) string {
	if userID == "" {
		userID = "anonymous"
	}
	sum := sha256.Sum256([]byte(userID))
	return hex.EncodeToString(sum[:16])
}
