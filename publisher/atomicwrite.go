package publisher

import (
	"os"
	"path/filepath"
)

// writeFileAtomic stages data to a temp file beside path and renames it
// into place, so a concurrent reader never observes a partial write and a
// crash mid-write leaves the previous file (if any) untouched.
//
// Grounded on claircore's `datastore/postgres` atomic-commit discipline
// (a single transaction commits or it doesn't) translated to the
// filesystem: stage-then-rename is the filesystem's equivalent of a single
// atomic commit.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once the rename below succeeds

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
