package report

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// CreateFS defines a file system interface that supports creating files and directories.
type CreateFS interface {
	// Create creates a new file for writing.
	Create(name string) (file io.WriteCloser, err error)
	// Mkdir creates a new directory with the specified permissions.
	Mkdir(name string, filemode fs.FileMode) (err error)
}

// DirFS is a CreateFS rooted at a host directory.
type DirFS string

var _ CreateFS = DirFS("")

func (dir DirFS) path(name string) string {
	if len(dir) == 0 {
		return name
	}
	return filepath.Join(string(dir), name)
}

// Create creates or truncates a file under the directory.
func (dir DirFS) Create(name string) (file io.WriteCloser, err error) {
	return os.Create(dir.path(name))
}

// Mkdir creates a directory, and any missing parents, under the directory.
func (dir DirFS) Mkdir(name string, filemode fs.FileMode) (err error) {
	return os.MkdirAll(dir.path(name), filemode)
}
