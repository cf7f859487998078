package store

import "os"

// truncateAt truncates f at offset and syncs the truncation to disk, used
// by index to drop a crash-truncated tail record.
func truncateAt(f *os.File, offset int64) error {
	if err := f.Truncate(offset); err != nil {
		return err
	}
	return f.Sync()
}

// pathExists reports whether path names an existing file or directory.
func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
