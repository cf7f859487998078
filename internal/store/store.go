// Package store implements a single Bitcask-style append-only key-value
// store: one file on disk, an in-memory keydir mapping keys to their latest
// record offset, and a mutex guarding both as one unit.
package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/0xRadioAc7iv/kvstore/internal/codec"
)

// Store owns one append-only file, its parsed header, its keydir, and the
// mutex serializing every public operation against them.
type Store struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	header codec.Version
	keydir keydir
}

// Open opens the store file at path, creating it (with a fresh header) if
// it does not exist or is empty. If the file already has content, its
// header is validated and the keydir is rebuilt by scanning every record.
//
// Open is fatal (returns a non-nil error) if the file is non-empty but has
// no valid header, if the header's major version does not match
// codec.CurrentVersion.Major, or on any underlying I/O failure.
func Open(path string) (*Store, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("store: stat %s: %w", path, err)
	}

	s := &Store{path: path, file: f}

	if info.Size() == 0 {
		if _, err := f.Write(codec.EncodeHeader(codec.CurrentVersion)); err != nil {
			f.Close()
			return nil, fmt.Errorf("store: write header for %s: %w", path, err)
		}
		s.header = codec.CurrentVersion
		s.keydir = make(keydir)
		return s, nil
	}

	headerBuf := make([]byte, codec.HeaderSize)
	if _, err := io.ReadFull(f, headerBuf); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}

	version, err := codec.DecodeHeader(headerBuf)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}

	if version.Major != codec.CurrentVersion.Major {
		f.Close()
		return nil, fmt.Errorf("%w: %s is format v%d, code is v%d", ErrVersionMismatch, path, version.Major, codec.CurrentVersion.Major)
	}

	s.header = version

	if err := s.index(); err != nil {
		f.Close()
		return nil, err
	}

	return s, nil
}

// Path returns the filesystem path this store was opened from.
func (s *Store) Path() string {
	return s.path
}

// Put appends an encoded (key, value, mime) record to the file and, only on
// success, updates the keydir to point at it. The write is not fsync'd to
// disk; it is flushed as far as the OS page cache, which is all this store
// guarantees (see the durability note in the package's design docs).
func (s *Store) Put(key, value []byte, mime string) error {
	encoded, err := codec.Encode(key, value, []byte(mime))
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pos, err := s.file.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("store: seek to end: %w", err)
	}

	if _, err := s.file.Write(encoded); err != nil {
		return fmt.Errorf("store: write: %w", err)
	}

	s.keydir[string(key)] = pos
	return nil
}

// Get returns the value and MIME type last written for key, or ErrNotFound
// if key is absent from the keydir. The key embedded in the on-disk record
// is not re-checked; the keydir is trusted.
func (s *Store) Get(key string) (value []byte, mime string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.keydir[key]
	if !ok {
		return nil, "", ErrNotFound
	}

	if _, err := s.file.Seek(pos, io.SeekStart); err != nil {
		return nil, "", fmt.Errorf("store: seek: %w", err)
	}

	rec, err := codec.Decode(s.file)
	if err != nil {
		if errors.Is(err, codec.ErrShortRead) || errors.Is(err, io.EOF) {
			return nil, "", ErrShortRead
		}
		return nil, "", fmt.Errorf("store: decode: %w", err)
	}

	return rec.Value, string(rec.Mime), nil
}

// Keys returns a snapshot of the keys currently in the keydir, in
// unspecified order. Callers that need a stable order should sort it.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.keydir))
	for k := range s.keydir {
		keys = append(keys, k)
	}
	return keys
}

// Size returns the current size, in bytes, of the store file.
func (s *Store) Size() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := s.file.Stat()
	if err != nil {
		return 0, fmt.Errorf("store: stat: %w", err)
	}
	return info.Size(), nil
}

// Close closes the underlying file handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.file.Close(); err != nil {
		return fmt.Errorf("store: close %s: %w", s.path, err)
	}
	return nil
}
