/*
backup.go - Single-generation backup slot

PURPOSE:
  One safety net, refreshed before every mutation: a byte-for-byte copy
  of the data file. There is exactly one generation; each backup replaces
  the last. Load falls back to it when the primary goes unreadable.
*/
package csvfile

import (
	"errors"
	"io"
	"os"
)

// Backup copies the data file into the backup slot, byte for byte. A
// missing data file means there is nothing to protect yet; that is
// success, and the old backup (if any) is left alone.
func (s *Store) Backup() error {
	src, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &BackupError{Path: s.path, Err: err}
	}
	defer src.Close()

	dst, err := os.Create(s.backupPath)
	if err != nil {
		return &BackupError{Path: s.backupPath, Err: err}
	}
	_, err = io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return &BackupError{Path: s.backupPath, Err: err}
	}
	return nil
}
