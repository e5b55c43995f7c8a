package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/smartystreets/logging"

	"github.com/smarty/dcspkg/contracts"
)

type PathLinkerFileSystem interface {
	contracts.DirectoryMaker
	contracts.FileChecker
	contracts.SymlinkReader
	contracts.SymlinkCreator
}

type PathLinker struct {
	fileSystem   PathLinkerFileSystem
	binDirectory string
	absolute     func(string) (string, error)
	logger       *logging.Logger
}

func NewPathLinker(fileSystem PathLinkerFileSystem, config contracts.Config) *PathLinker {
	return &PathLinker{
		fileSystem:   fileSystem,
		binDirectory: config.BinDirectory(),
		absolute:     filepath.Abs,
	}
}

// Link places a symbolic link named after the executable in the shared bin
// directory, pointing at the absolute path of the installed executable.
// Existing links are never replaced.
func (this *PathLinker) Link(directory, executable string) (string, error) {
	if strings.TrimSpace(executable) == "" {
		return "", fmt.Errorf("%w: the package asks to be added to the path but names no executable", contracts.ErrMisconfiguredPackage)
	}
	installed, err := resolveWithin(directory, executable)
	if err != nil || installed == filepath.Clean(directory) {
		return "", fmt.Errorf("%w: executable path %q does not name a file inside the package", contracts.ErrMisconfiguredPackage, executable)
	}
	resolved, err := followWithin(this.fileSystem, directory, executable)
	if err != nil {
		return "", fmt.Errorf("%w: executable path %q leads outside the package: %w", contracts.ErrMisconfiguredPackage, executable, err)
	}
	info, err := this.fileSystem.Lstat(resolved)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: the archive does not contain the executable %s", contracts.ErrMisconfiguredPackage, executable)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", contracts.ErrLink, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: the executable %s is a directory", contracts.ErrMisconfiguredPackage, executable)
	}
	if !contracts.IsExecutable(info.Mode()) {
		this.logger.Printf("[WARN] %s is not marked executable", installed)
	}
	source, err := this.absolute(installed)
	if err != nil {
		return "", fmt.Errorf("%w: %w", contracts.ErrLink, err)
	}

	if err = this.fileSystem.MkdirAll(this.binDirectory, 0o755); err != nil {
		return "", fmt.Errorf("%w: could not create %s: %w", contracts.ErrLink, this.binDirectory, err)
	}
	link := filepath.Join(this.binDirectory, filepath.Base(installed))
	if _, err = this.fileSystem.Lstat(link); err == nil {
		return "", fmt.Errorf("%w: %s already exists", contracts.ErrLink, link)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %w", contracts.ErrLink, err)
	}
	if err = this.fileSystem.Symlink(source, link); err != nil {
		return "", fmt.Errorf("%w: %w", contracts.ErrLink, err)
	}
	this.logger.Printf("[INFO] Linked %s to %s", link, source)
	return link, nil
}
