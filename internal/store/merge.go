package store

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/0xRadioAc7iv/kvstore/internal/codec"
)

// Merge rewrites the store file so it contains exactly one record per key,
// the latest version of each, reclaiming space held by superseded records.
//
// The protocol: refresh the keydir, write every live key's latest record
// into a fresh temporary store, then swap it in via copy-then-overwrite so
// that at any crash point at least one of the live file, its backup, or the
// temporary file is a complete, valid store file. On success the backup and
// temporary files are removed; on a record-count mismatch they are
// deliberately left behind for post-mortem recovery and Merge logs a
// warning but still returns success, since the live file was swapped in
// successfully and is itself a valid store.
//
// The keydir refresh takes and releases the store's mutex on its own; Merge
// then holds the mutex for every remaining step, from choosing the temporary
// path through the final re-index, so no other goroutine can observe the
// file mid-swap. A Put that lands between the refresh and the copy is
// already in the keydir the copy walks.
func (s *Store) Merge() error {
	if err := s.reindex(); err != nil {
		return fmt.Errorf("store: merge: refresh index: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tempPath, err := uniqueTempPath(s.path)
	if err != nil {
		return fmt.Errorf("store: merge: choose temp path: %w", err)
	}

	temp, err := Open(tempPath)
	if err != nil {
		return fmt.Errorf("store: merge: open temp store: %w", err)
	}

	written := 0
	for key, pos := range s.keydir {
		if _, err := s.file.Seek(pos, io.SeekStart); err != nil {
			temp.Close()
			os.Remove(tempPath)
			return fmt.Errorf("store: merge: seek live file for %q: %w", key, err)
		}

		rec, err := codec.Decode(s.file)
		if err != nil {
			temp.Close()
			os.Remove(tempPath)
			return fmt.Errorf("store: merge: decode live record for %q: %w", key, err)
		}

		if err := temp.Put(rec.Key, rec.Value, string(rec.Mime)); err != nil {
			temp.Close()
			os.Remove(tempPath)
			return fmt.Errorf("store: merge: write temp record for %q: %w", key, err)
		}

		written++
	}

	keydirSize := len(s.keydir)

	if err := temp.file.Sync(); err != nil {
		temp.Close()
		return fmt.Errorf("store: merge: sync temp store: %w", err)
	}
	if err := temp.file.Close(); err != nil {
		return fmt.Errorf("store: merge: close temp store: %w", err)
	}

	if err := s.file.Close(); err != nil {
		return fmt.Errorf("store: merge: close live file: %w", err)
	}

	backupPath := tempPath + ".bak"
	if err := copyFile(s.path, backupPath); err != nil {
		return fmt.Errorf("store: merge: back up live file: %w", err)
	}
	if err := copyFile(tempPath, s.path); err != nil {
		return fmt.Errorf("store: merge: install merged file: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("store: merge: reopen live file: %w", err)
	}
	s.file = f

	if written != keydirSize {
		if err := s.index(); err != nil {
			return err
		}
		log.Printf("store: merge %s: wrote %d records but keydir had %d keys; backup kept at %s, temp kept at %s",
			s.path, written, keydirSize, backupPath, tempPath)
		return nil
	}

	os.Remove(backupPath)
	os.Remove(tempPath)

	return s.index()
}

// uniqueTempPath picks a path in the OS temp directory for a merge's
// working file, disambiguating with a numeric suffix if one already exists.
func uniqueTempPath(storePath string) (string, error) {
	base := filepath.Base(storePath)
	dir := os.TempDir()

	candidate := filepath.Join(dir, base+".merge")
	for i := 0; pathExists(candidate); i++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s.merge.%d", base, i))
	}
	return candidate, nil
}

// copyFile overwrites dst with the contents of src.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
