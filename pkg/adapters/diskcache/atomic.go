package diskcache

import (
	"fmt"
	"os"
	"path/filepath"
)

// TempFilePrefix marks in-flight slot writes. The watcher skips files
// carrying it so a half-written temp file never triggers a reload.
const TempFilePrefix = "stroma-tmp-"

// writeFileAtomic replaces filename via a temp file in the same directory,
// so concurrent readers see either the old slot or the new one, never a
// partial write. The temp file must live next to the target: rename is
// only atomic within a filesystem.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(filename), TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("create temp slot: %w", err)
	}
	name := tmp.Name()

	if err := fillAndClose(tmp, data); err != nil {
		os.Remove(name)
		return fmt.Errorf("stage slot %s: %w", filename, err)
	}
	// CreateTemp uses 0600; widen to the slot's permissions before publishing.
	if err := os.Chmod(name, perm); err != nil {
		os.Remove(name)
		return fmt.Errorf("chmod temp slot: %w", err)
	}
	if err := os.Rename(name, filename); err != nil {
		os.Remove(name)
		return fmt.Errorf("publish slot %s: %w", filename, err)
	}
	return nil
}

// fillAndClose writes data and syncs it to stable storage. The file is
// closed on every path; the first error wins.
func fillAndClose(f *os.File, data []byte) error {
	_, werr := f.Write(data)
	if werr == nil {
		werr = f.Sync()
	}
	cerr := f.Close()
	if werr != nil {
		return werr
	}
	return cerr
}
