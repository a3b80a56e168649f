package document

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// WriteFileAtomic writes data to path so that readers observe either the old
// content or the new content, never a partial write. The data is written to
// a temporary file in the destination directory, synced, and renamed into
// place. The temporary name carries a nanosecond timestamp and a random
// component so rapid successive writes never share a temp file.
//
// The parent directory is created if it does not exist.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmpPath := tempName(path)
	tmpFile, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// OpenFile honours the umask; make the final mode explicit.
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// tempName returns "<dir>/.<base>.<unixnano>-<rand>.tmp".
func tempName(path string) string {
	var b [4]byte
	_, _ = rand.Read(b[:])
	name := "." + filepath.Base(path) + "." + strconv.FormatInt(time.Now().UnixNano(), 10) + "-" + hex.EncodeToString(b[:]) + ".tmp"
	return filepath.Join(filepath.Dir(path), name)
}
