package contracts

import (
	"io"
	"os"
)

type DirectoryMaker interface {
	MkdirAll(path string, mode os.FileMode) error
}

type FileCreator interface {
	Create(path string) (io.WriteCloser, error)
}

type SymlinkCreator interface {
	Symlink(source, target string) error
}

type HardLinkCreator interface {
	Link(source, target string) error
}

type Deleter interface {
	Remove(path string) error
}

// FileChecker reports on a path without following a final symlink.
type FileChecker interface {
	Lstat(path string) (os.FileInfo, error)
}

type SymlinkReader interface {
	Readlink(path string) (string, error)
}

type Chmod interface {
	Chmod(path string, mode os.FileMode) error
}

type FileSystem interface {
	DirectoryMaker
	FileCreator
	SymlinkCreator
	HardLinkCreator
	Deleter
	FileChecker
	SymlinkReader
	Chmod
}

func IsExecutable(mode os.FileMode) bool {
	return mode.Perm()&0111 > 0
}
