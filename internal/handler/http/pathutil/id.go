package pathutil

import (
	"errors"
	"regexp"
	"strconv"
)

// ErrInvalidID is returned for malformed path identifiers.
var ErrInvalidID = errors.New("invalid id")

var instancePattern = regexp.MustCompile(`^[0-9a-fA-F-]{1,64}$`)

// ParseID parses a positive decimal id.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// ValidInstance reports whether s has the shape of an ad instance id.
func ValidInstance(s string) bool {
	return instancePattern.MatchString(s)
}
