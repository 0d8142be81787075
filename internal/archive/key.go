package archive

import (
	"fmt"
	"strings"
	"time"
)

// keySeparator joins the day and location components of an archive key.
const keySeparator = "_"

// Key builds the archive key for one location on one day, in the
// YYYY-MM-DD_Location form shared by file names and object keys.
func Key(day time.Time, location string) string {
	return day.Format(time.DateOnly) + keySeparator + SanitizeLocation(location)
}

// SanitizeLocation normalizes a location name for use in keys and file
// names: runs of whitespace collapse to a single underscore.
func SanitizeLocation(location string) string {
	return strings.Join(strings.Fields(location), keySeparator)
}

// ParseKey splits an archive key into its day and location components.
func ParseKey(key string) (time.Time, string, error) {
	dateLen := len(time.DateOnly)
	if len(key) <= dateLen || key[dateLen:dateLen+1] != keySeparator {
		return time.Time{}, "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	day, err := time.Parse(time.DateOnly, key[:dateLen])
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	location := key[dateLen+1:]
	if location == "" {
		return time.Time{}, "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return day, location, nil
}
