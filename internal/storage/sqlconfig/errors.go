package sqlconfig

import (
	"errors"

	"github.com/lib/pq"
)

// IsConstraintViolation reports whether err is a postgres integrity
// constraint violation (SQLSTATE class 23).
func IsConstraintViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Class() == "23"
	}
	return false
}
