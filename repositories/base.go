package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Sentinel errors shared by all repositories. Services translate these into
// their own typed errors.
var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

// isDuplicateKey reports whether err is a unique-constraint violation. GORM
// normalizes this for some dialects; the string checks cover Postgres and
// sqlite drivers that surface the raw database error instead.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
