package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/smartystreets/logging"

	"github.com/smarty/dcspkg/contracts"
)

type metadataFetcher interface {
	Fetch(ctx context.Context, name string, server url.URL) (contracts.Descriptor, error)
}

type archiveFetcher interface {
	Fetch(ctx context.Context, name string, checksum uint32, server url.URL) ([]byte, error)
}

type archiveUnpacker interface {
	Unpack(archive io.Reader, directory string) error
}

type scriptRunner interface {
	Run(ctx context.Context, directory string) (contracts.ScriptReport, error)
}

type pathLinker interface {
	Link(directory, executable string) (string, error)
}

type installLock interface {
	Acquire(ctx context.Context, path string) (release func() error, err error)
}

// PackageInstaller runs one install from descriptor lookup to path linking.
// Each failure is prefixed with the stage it happened in.
type PackageInstaller struct {
	config     contracts.Config
	fileSystem contracts.DirectoryMaker
	metadata   metadataFetcher
	archives   archiveFetcher
	unpacker   archiveUnpacker
	scripts    scriptRunner
	linker     pathLinker
	lock       installLock
	logger     *logging.Logger
}

func NewPackageInstaller(
	config contracts.Config,
	fileSystem contracts.DirectoryMaker,
	metadata metadataFetcher,
	archives archiveFetcher,
	unpacker archiveUnpacker,
	scripts scriptRunner,
	linker pathLinker,
	lock installLock,
) *PackageInstaller {
	return &PackageInstaller{
		config:     config,
		fileSystem: fileSystem,
		metadata:   metadata,
		archives:   archives,
		unpacker:   unpacker,
		scripts:    scripts,
		linker:     linker,
		lock:       lock,
	}
}

func (this *PackageInstaller) Install(ctx context.Context, request contracts.InstallationRequest) (report contracts.InstallReport, err error) {
	name := request.PackageName
	if err = contracts.ValidatePackageName(name); err != nil {
		return report, stageError("invalid package request", err)
	}
	this.logger.Printf("[INFO] Installing %s", request.Title())

	descriptor, err := this.metadata.Fetch(ctx, name, request.ServerURL)
	if err != nil {
		return report, stageError("could not get package data from server", err)
	}
	report.Descriptor = descriptor
	if descriptor.AddToPath && descriptor.Executable() == "" {
		return report, stageError("could not install package", fmt.Errorf(
			"%w: package %s asks to be added to the path but names no executable", contracts.ErrMisconfiguredPackage, name))
	}

	release, err := this.lock.Acquire(ctx, this.config.LockPath(name))
	if err != nil {
		return report, stageError("could not lock package for install", err)
	}
	defer func() {
		if releaseErr := release(); releaseErr != nil {
			this.logger.Printf("[WARN] Could not release install lock for %s: %s", name, releaseErr)
		}
	}()

	archive, err := this.archives.Fetch(ctx, name, descriptor.Checksum, request.ServerURL)
	if err != nil {
		return report, stageError("could not download package archive", err)
	}

	directory := this.config.InstallDirectory(name)
	if err = this.fileSystem.MkdirAll(directory, 0o755); err != nil {
		return report, stageError("could not install file", fmt.Errorf("%w: %w", contracts.ErrExtraction, err))
	}
	report.Directory = directory
	if err = this.unpacker.Unpack(bytes.NewReader(archive), directory); err != nil {
		return report, stageError("could not install file", err)
	}

	var cleanupErr error
	if descriptor.HasInstaller {
		report.Script, err = this.scripts.Run(ctx, directory)
		if errors.Is(err, contracts.ErrCleanup) {
			this.logger.Printf("[WARN] %s", err)
			cleanupErr = err
		} else if err != nil {
			return report, stageError("could not run install script for file", err)
		}
	}

	if descriptor.AddToPath {
		report.LinkPath, err = this.linker.Link(directory, descriptor.Executable())
		if err != nil {
			return report, stageError("could not create symbolic link to package executable", err)
		}
	}

	if cleanupErr != nil {
		return report, stageError("could not clean up install script", cleanupErr)
	}
	this.logger.Printf("[INFO] Installed %s into %s", name, directory)
	return report, nil
}

func stageError(stage string, err error) error {
	return fmt.Errorf("%s: %w", stage, err)
}
