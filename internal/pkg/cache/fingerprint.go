package cache

import (
	"crypto/md5"
	"encoding/hex"

	"github.com/FACorreiaa/go-concierge/internal/pkg/textutil"
)

// Fingerprint is the cache key of a free-text query. Queries that differ only
// in case, surrounding whitespace or whitespace runs share a fingerprint.
func Fingerprint(query string) string {
	sum := md5.Sum([]byte(textutil.Normalize(query)))
	return hex.EncodeToString(sum[:])
}
