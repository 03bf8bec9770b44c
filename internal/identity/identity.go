// Package identity derives the stable fingerprint that makes draft
// upserts idempotent.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint hashes the normalized (date, application, canonical task)
// triple. Matter code, notes and billing units are deliberately excluded:
// they are mutable, and folding them in would orphan reviewer edits into a
// new record on every reprocess.
func Fingerprint(date, application, task string) string {
	h := sha256.New()
	h.Write([]byte(date))
	h.Write([]byte{0})
	h.Write([]byte(strings.ToLower(application)))
	h.Write([]byte{0})
	h.Write([]byte(strings.TrimSpace(task)))
	return hex.EncodeToString(h.Sum(nil))
}
