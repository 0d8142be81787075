package archive

import "errors"

// Common errors returned by the archive package.
var (
	// ErrArchiveSealed is returned when writing to or sealing an archive
	// that has already been sealed.
	ErrArchiveSealed = errors.New("archive is sealed")
	// ErrArchiveNotFound is returned when a key has no registered archive.
	ErrArchiveNotFound = errors.New("archive not found")
	// ErrInvalidKey is returned when an archive key does not match the
	// YYYY-MM-DD_Location form.
	ErrInvalidKey = errors.New("invalid archive key")
)
