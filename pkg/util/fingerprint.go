package util

import (
	"crypto/sha256"
	"encoding/hex"
)

func HashSHA256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func HashStringSHA256Hex(value string) string {
	return HashSHA256Hex([]byte(value))
}

// Fingerprint folds the hex leaf hashes pairwise into a single root hash. An odd
// node at any level is paired with itself.
func Fingerprint(leafHashes []string) string {
	if len(leafHashes) == 0 {
		return HashStringSHA256Hex("")
	}
	level := append([]string(nil), leafHashes...)
	for len(level) > 1 {
		next := make([]string, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			right := level[i]
			if i+1 < len(level) {
				right = level[i+1]
			}
			next = append(next, hashPair(level[i], right))
		}
		level = next
	}
	return level[0]
}

func hashPair(leftHash, rightHash string) string {
	leftBytes, errLeft := hex.DecodeString(leftHash)
	rightBytes, errRight := hex.DecodeString(rightHash)
	if errLeft != nil || errRight != nil {
		return HashStringSHA256Hex(leftHash + rightHash)
	}
	merged := make([]byte, 0, len(leftBytes)+len(rightBytes))
	merged = append(merged, leftBytes...)
	merged = append(merged, rightBytes...)
	return HashSHA256Hex(merged)
}
