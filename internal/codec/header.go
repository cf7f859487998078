// Package codec implements the on-disk binary format shared by every store
// file: the 12-byte file header and the length-prefixed record layout.
package codec

import (
	"errors"
	"fmt"
)

// HeaderSize is the fixed size, in bytes, of the file header that begins
// every non-empty store file.
const HeaderSize = 12

const sentinelSize = 8

// Version identifies the on-disk format major.minor.patch. Only Major is
// checked for compatibility; a mismatch there is fatal at open.
type Version struct {
	Major byte
	Minor byte
	Patch byte
}

// CurrentVersion is the format version written by this code.
var CurrentVersion = Version{Major: 2, Minor: 0, Patch: 0}

// ErrHeaderless is returned by DecodeHeader when the first 8 bytes are not
// all zero, meaning the file predates the versioned header (format version
// 1) or is not a store file at all.
var ErrHeaderless = errors.New("codec: file has no header (pre-v2 format)")

// EncodeHeader returns the 12-byte header for v: 8 zero bytes followed by
// major, minor, patch, and a reserved zero byte.
func EncodeHeader(v Version) []byte {
	buf := make([]byte, HeaderSize)
	buf[sentinelSize] = v.Major
	buf[sentinelSize+1] = v.Minor
	buf[sentinelSize+2] = v.Patch
	return buf
}

// DecodeHeader parses a 12-byte header. It returns ErrHeaderless if the
// sentinel bytes are not all zero.
func DecodeHeader(buf []byte) (Version, error) {
	if len(buf) != HeaderSize {
		return Version{}, fmt.Errorf("codec: short header: got %d bytes, want %d", len(buf), HeaderSize)
	}
	for i := 0; i < sentinelSize; i++ {
		if buf[i] != 0 {
			return Version{}, ErrHeaderless
		}
	}
	return Version{
		Major: buf[sentinelSize],
		Minor: buf[sentinelSize+1],
		Patch: buf[sentinelSize+2],
	}, nil
}
