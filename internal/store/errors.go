package store

import "errors"

// The sentinel error kinds the core returns. I/O failures (open, read, write,
// seek, stat) have no sentinel of their own: they are returned as the
// underlying os error, wrapped with context. The HTTP adapter maps these to
// status codes. Inside this package, index treats a clean EOF as the end of
// the scan and recovers from a short read by truncating the file at the last
// good record boundary; nothing else is recovered.
var (
	// ErrNotFound means the key is absent from the keydir.
	ErrNotFound = errors.New("store: key not found")

	// ErrShortRead means the record decoder hit EOF mid-record.
	ErrShortRead = errors.New("store: short read, record truncated")

	// ErrCorrupt means the header is missing on a non-empty file, or a
	// decode invariant was violated.
	ErrCorrupt = errors.New("store: corrupt store file")

	// ErrVersionMismatch means the file header's major version differs
	// from the code's major version.
	ErrVersionMismatch = errors.New("store: on-disk format version mismatch")
)
