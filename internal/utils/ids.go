package utils

import (
	"math/rand"
	"strings"

	"github.com/google/uuid"
)

// NewRef returns a prefixed external identifier such as "cl3f09ab2c41d":
// the given prefix followed by the first 11 characters of a dashless
// lowercase v4 UUID. External ids are business-facing and distinct from
// the storage primary key.
func NewRef(prefix string) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + strings.ToLower(raw[:11])
}

// NewCode returns a random 6-digit human-facing code in [100000,999999].
func NewCode() int {
	return 100000 + rand.Intn(900000)
}
