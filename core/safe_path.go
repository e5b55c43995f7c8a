package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/smarty/dcspkg/contracts"
)

const maxSymlinkHops = 40

var (
	errAbsolutePath    = errors.New("absolute path")
	errPathEscapes     = errors.New("path escapes the target directory")
	errTooManySymlinks = errors.New("too many levels of symbolic links")
)

// resolveWithin joins the slash-separated name onto root. Absolute names and
// names that climb out of root are rejected.
func resolveWithin(root, name string) (string, error) {
	local := filepath.FromSlash(name)
	if filepath.IsAbs(local) || strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("%w: %q", errAbsolutePath, name)
	}
	clean := filepath.Clean(local)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", errPathEscapes, name)
	}
	if clean == "." {
		return filepath.Clean(root), nil
	}
	return filepath.Join(root, clean), nil
}

type symlinkInspector interface {
	contracts.FileChecker
	contracts.SymlinkReader
}

// followWithin walks the relative name below root one component at a time,
// following every symlink already on disk the way path lookup would, and
// returns the path it arrives at. Components that do not exist yet are taken
// as written. Any step that leaves root is rejected.
func followWithin(fileSystem symlinkInspector, root, name string) (string, error) {
	pending := splitPath(name)
	var reached []string
	hops := 0
	for len(pending) > 0 {
		part := pending[0]
		pending = pending[1:]
		if part == ".." {
			if len(reached) == 0 {
				return "", fmt.Errorf("%w: %q", errPathEscapes, name)
			}
			reached = reached[:len(reached)-1]
			continue
		}

		next := append(reached[:len(reached):len(reached)], part)
		current := filepath.Join(root, filepath.Join(next...))
		info, err := fileSystem.Lstat(current)
		if errors.Is(err, os.ErrNotExist) {
			reached = next
			continue
		}
		if err != nil {
			return "", err
		}
		if info.Mode()&os.ModeSymlink == 0 {
			reached = next
			continue
		}

		if hops++; hops > maxSymlinkHops {
			return "", fmt.Errorf("%w: %q", errTooManySymlinks, name)
		}
		destination, err := fileSystem.Readlink(current)
		if err != nil {
			return "", err
		}
		if filepath.IsAbs(destination) {
			return "", fmt.Errorf("%w: %s points at %s", errAbsolutePath, current, destination)
		}
		pending = append(splitPath(destination), pending...)
	}
	return filepath.Join(root, filepath.Join(reached...)), nil
}

func splitPath(name string) (parts []string) {
	for _, part := range strings.Split(filepath.ToSlash(name), "/") {
		if part != "" && part != "." {
			parts = append(parts, part)
		}
	}
	return parts
}
