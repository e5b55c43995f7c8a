package core

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

var errNotDirectory = errors.New("not a directory")

type inMemoryFileSystem struct {
	fileSystem   map[string]*file
	errMkdir     map[string]error
	errCreate    map[string]error
	errChmodFile map[string]error
	errRemove    map[string]error
	errSymlink   map[string]error
}

func newInMemoryFileSystem() *inMemoryFileSystem {
	return &inMemoryFileSystem{
		fileSystem:   make(map[string]*file),
		errMkdir:     make(map[string]error),
		errCreate:    make(map[string]error),
		errChmodFile: make(map[string]error),
		errRemove:    make(map[string]error),
		errSymlink:   make(map[string]error),
	}
}

func (this *inMemoryFileSystem) MkdirAll(path string, mode os.FileMode) error {
	if err := this.errMkdir[path]; err != nil {
		return err
	}
	for current := filepath.Clean(path); ; current = filepath.Dir(current) {
		if existing, found := this.fileSystem[current]; found {
			if !existing.directory {
				return &os.PathError{Op: "mkdir", Path: current, Err: errNotDirectory}
			}
			return nil
		}
		this.fileSystem[current] = &file{path: current, mode: mode.Perm(), directory: true, mod: InMemoryModTime}
		if filepath.Dir(current) == current {
			return nil
		}
	}
}

func (this *inMemoryFileSystem) Create(path string) (io.WriteCloser, error) {
	if err := this.errCreate[path]; err != nil {
		return nil, err
	}
	if existing, found := this.fileSystem[path]; found && existing.directory {
		return nil, &os.PathError{Op: "open", Path: path, Err: errors.New("is a directory")}
	}
	this.WriteFile(path, nil, 0o644)
	return this.fileSystem[path], nil
}

func (this *inMemoryFileSystem) Symlink(source, target string) error {
	if err := this.errSymlink[target]; err != nil {
		return err
	}
	if _, found := this.fileSystem[target]; found {
		return &os.LinkError{Op: "symlink", Old: source, New: target, Err: os.ErrExist}
	}
	this.fileSystem[target] = &file{path: target, symlink: source, mode: 0o777, mod: InMemoryModTime}
	return nil
}

func (this *inMemoryFileSystem) Link(source, target string) error {
	original, found := this.fileSystem[source]
	if !found {
		return &os.LinkError{Op: "link", Old: source, New: target, Err: os.ErrNotExist}
	}
	if _, found = this.fileSystem[target]; found {
		return &os.LinkError{Op: "link", Old: source, New: target, Err: os.ErrExist}
	}
	this.fileSystem[target] = original
	return nil
}

func (this *inMemoryFileSystem) Remove(path string) error {
	if err := this.errRemove[path]; err != nil {
		return err
	}
	if _, found := this.fileSystem[path]; !found {
		return &os.PathError{Op: "remove", Path: path, Err: os.ErrNotExist}
	}
	delete(this.fileSystem, path)
	return nil
}

func (this *inMemoryFileSystem) Lstat(path string) (os.FileInfo, error) {
	target, found := this.fileSystem[path]
	if !found {
		return nil, &os.PathError{Op: "lstat", Path: path, Err: os.ErrNotExist}
	}
	return &fileInfo{file: target, name: filepath.Base(path)}, nil
}

func (this *inMemoryFileSystem) Readlink(path string) (string, error) {
	target, found := this.fileSystem[path]
	if !found {
		return "", &os.PathError{Op: "readlink", Path: path, Err: os.ErrNotExist}
	}
	if target.symlink == "" {
		return "", &os.PathError{Op: "readlink", Path: path, Err: errors.New("invalid argument")}
	}
	return target.symlink, nil
}

func (this *inMemoryFileSystem) Chmod(path string, mode os.FileMode) error {
	target, found := this.fileSystem[path]
	if !found {
		return &os.PathError{Op: "chmod", Path: path, Err: os.ErrNotExist}
	}
	if err := this.errChmodFile[path]; err != nil {
		return err
	}
	target.mode = mode.Perm()
	return nil
}

func (this *inMemoryFileSystem) ReadFile(path string) ([]byte, error) {
	target, found := this.fileSystem[path]
	if !found || target.directory {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}
	return target.contents, nil
}

func (this *inMemoryFileSystem) WriteFile(path string, content []byte, mode os.FileMode) {
	this.fileSystem[path] = &file{
		path:     path,
		contents: content,
		mode:     mode,
		mod:      InMemoryModTime,
	}
}

// Listing returns every path below root, relative to it, with directories
// suffixed by a slash.
func (this *inMemoryFileSystem) Listing(root string) (paths []string) {
	prefix := filepath.Clean(root) + string(filepath.Separator)
	for path, entry := range this.fileSystem {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		relative := filepath.ToSlash(strings.TrimPrefix(path, prefix))
		if entry.directory {
			relative += "/"
		}
		paths = append(paths, relative)
	}
	sort.Strings(paths)
	return paths
}

func (this *inMemoryFileSystem) File(path string) *file {
	return this.fileSystem[path]
}

/////////////////////////////////////////////////

type file struct {
	path      string
	contents  []byte
	mod       time.Time
	symlink   string
	directory bool
	mode      os.FileMode
}

func (this *file) Write(p []byte) (n int, err error) {
	this.contents = append(this.contents, p...)
	return len(p), nil
}

func (this *file) Close() error { return nil }

var InMemoryModTime = time.Now()

type fileInfo struct {
	*file
	name string
}

func (this *fileInfo) Name() string       { return this.name }
func (this *fileInfo) Size() int64        { return int64(len(this.contents)) }
func (this *fileInfo) ModTime() time.Time { return this.mod }
func (this *fileInfo) IsDir() bool        { return this.directory }
func (this *fileInfo) Sys() any           { return nil }
func (this *fileInfo) Mode() os.FileMode {
	switch {
	case this.directory:
		return os.ModeDir | this.mode
	case this.symlink != "":
		return os.ModeSymlink | this.mode
	default:
		return this.mode
	}
}
