package storage

import (
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"time"
)

// newObjectName derives a collision-resistant filename from the category
// prefix, the current time and a random suffix. Only the extension of the
// original filename survives; the rest of the client-provided name is
// discarded so it can never influence storage paths.
func newObjectName(prefix, originalFilename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalFilename)))
	return fmt.Sprintf("%s-%d-%d%s", prefix, time.Now().UnixMilli(), rand.Int64N(1_000_000_000), ext)
}
