package store

import (
	"errors"
	"fmt"
	"io"

	"github.com/0xRadioAc7iv/kvstore/internal/codec"
)

// index rebuilds the keydir by scanning the file from byte codec.HeaderSize
// to EOF. It assumes the caller already holds s.mu (or is Open, before the
// *Store is visible to any other goroutine).
func (s *Store) index() error {
	if _, err := s.file.Seek(codec.HeaderSize, io.SeekStart); err != nil {
		return fmt.Errorf("store: seek to index start: %w", err)
	}

	kd := make(keydir)

	for {
		pos, err := s.file.Seek(0, io.SeekCurrent)
		if err != nil {
			return fmt.Errorf("store: seek: %w", err)
		}

		rec, err := codec.Decode(s.file)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if errors.Is(err, codec.ErrShortRead) {
				// A crash mid-write leaves a partial record at the tail.
				// Truncate back to the last good boundary and treat
				// everything before it as authoritative.
				if terr := truncateAt(s.file, pos); terr != nil {
					return fmt.Errorf("%w: %v (truncate also failed: %v)", ErrShortRead, err, terr)
				}
				break
			}
			return fmt.Errorf("store: index: %w", err)
		}

		kd[string(rec.Key)] = pos
	}

	s.keydir = kd
	return nil
}

// reindex acquires the store's mutex and rebuilds the keydir from scratch.
func (s *Store) reindex() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index()
}
