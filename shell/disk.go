package shell

import (
	"io"
	"os"
)

// DiskFileSystem is the operating system's file system.
type DiskFileSystem struct{}

func NewDiskFileSystem() *DiskFileSystem {
	return &DiskFileSystem{}
}

func (this *DiskFileSystem) MkdirAll(path string, mode os.FileMode) error {
	return os.MkdirAll(path, mode)
}

func (this *DiskFileSystem) Create(path string) (io.WriteCloser, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
}

func (this *DiskFileSystem) Symlink(source, target string) error {
	return os.Symlink(source, target)
}

func (this *DiskFileSystem) Link(source, target string) error {
	return os.Link(source, target)
}

func (this *DiskFileSystem) Remove(path string) error {
	return os.Remove(path)
}

func (this *DiskFileSystem) Lstat(path string) (os.FileInfo, error) {
	return os.Lstat(path)
}

func (this *DiskFileSystem) Readlink(path string) (string, error) {
	return os.Readlink(path)
}

func (this *DiskFileSystem) Chmod(path string, mode os.FileMode) error {
	return os.Chmod(path, mode)
}

func (this *DiskFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
