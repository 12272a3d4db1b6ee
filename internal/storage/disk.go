// Package storage stores uploaded video files on local disk, one directory
// per player, with collision-free generated filenames.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/padelhq/padel-data/internal/domain"
)

// Disk is a filesystem-backed file store.
type Disk struct {
	base string
}

// NewDisk creates the base directory if needed.
func NewDisk(base string) (*Disk, error) {
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, &domain.StorageError{Op: "mkdir", Path: base, Err: err}
	}
	return &Disk{base: base}, nil
}

// Save writes the file under <base>/<playerID>/<timestamp>_<uuid><ext> and
// returns the path relative to the base directory.
func (d *Disk) Save(r io.Reader, originalFilename, playerID string) (string, error) {
	playerDir := filepath.Join(d.base, playerID)
	if err := os.MkdirAll(playerDir, 0o755); err != nil {
		return "", &domain.StorageError{Op: "mkdir", Path: playerDir, Err: err}
	}

	ext := filepath.Ext(originalFilename)
	name := fmt.Sprintf("%s_%s%s",
		time.Now().Format("20060102_150405"),
		uuid.NewString()[:8],
		ext)
	path := filepath.Join(playerDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", &domain.StorageError{Op: "create", Path: path, Err: err}
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", &domain.StorageError{Op: "write", Path: path, Err: err}
	}

	rel, err := filepath.Rel(d.base, path)
	if err != nil {
		return "", &domain.StorageError{Op: "rel", Path: path, Err: err}
	}
	return rel, nil
}

// Delete removes a stored file. Missing files are not an error; the record
// may outlive the file.
func (d *Disk) Delete(storagePath string) error {
	path := filepath.Join(d.base, storagePath)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return &domain.StorageError{Op: "remove", Path: path, Err: err}
	}
	return nil
}

// Path returns the absolute path for a stored file.
func (d *Disk) Path(storagePath string) string {
	return filepath.Join(d.base, storagePath)
}
