package service

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashCredential turns a password into the opaque credential stored for a user.
func HashCredential(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
