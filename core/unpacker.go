package core

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/mholt/archiver"
	"github.com/smartystreets/logging"

	"github.com/smarty/dcspkg/contracts"
)

type ArchiveUnpacker struct {
	fileSystem contracts.FileSystem
	logger     *logging.Logger
}

func NewArchiveUnpacker(fileSystem contracts.FileSystem) *ArchiveUnpacker {
	return &ArchiveUnpacker{fileSystem: fileSystem}
}

// Unpack decompresses a gzipped tarball into directory, which must already
// exist. Entries are written in archive order and existing regular files are
// replaced.
func (this *ArchiveUnpacker) Unpack(archive io.Reader, directory string) error {
	decompressor, err := gzip.NewReader(archive)
	if err != nil {
		return fmt.Errorf("%w: %w", contracts.ErrDecompression, err)
	}
	defer func() { _ = decompressor.Close() }()

	stream := &decompressedStream{Reader: decompressor}
	tarball := archiver.NewTar()
	if err = tarball.Open(stream, 0); err != nil {
		return fmt.Errorf("%w: %w", contracts.ErrDecompression, err)
	}
	defer func() { _ = tarball.Close() }()

	count := 0
	for {
		entry, err := tarball.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: reading archive: %w", contracts.ErrDecompression, err)
		}
		header, ok := entry.Header.(*tar.Header)
		if !ok {
			return fmt.Errorf("%w: unexpected archive header %T", contracts.ErrExtraction, entry.Header)
		}
		err = this.extract(header, entry, directory)
		_ = entry.Close()
		if errors.Is(err, contracts.ErrDecompression) {
			return err
		}
		if err != nil {
			return fmt.Errorf("%w: could not write %s: %w", contracts.ErrExtraction, header.Name, err)
		}
		count++
	}

	// The tar reader stops at the end-of-archive marker; draining the rest
	// lets gzip verify its trailer.
	if _, err = io.Copy(io.Discard, stream); err != nil {
		return err
	}
	this.logger.Printf("[INFO] Unpacked %d archive entries into %s", count, directory)
	return nil
}

func (this *ArchiveUnpacker) extract(header *tar.Header, contents io.Reader, root string) error {
	switch header.Typeflag {
	case tar.TypeDir, tar.TypeReg, tar.TypeSymlink, tar.TypeLink:
	default:
		this.logger.Printf("[INFO] Skipping archive entry %s of type %q", header.Name, header.Typeflag)
		return nil
	}
	if err := this.checkParents(root, header.Name); err != nil {
		return err
	}

	mode := header.FileInfo().Mode().Perm()
	switch header.Typeflag {
	case tar.TypeDir:
		target, err := resolveWithin(root, header.Name)
		if err != nil {
			return err
		}
		return this.writeDirectory(target, mode)
	case tar.TypeReg:
		target, err := resolveWithin(root, header.Name)
		if err != nil {
			return err
		}
		return this.writeFile(target, mode, contents)
	case tar.TypeSymlink:
		return this.writeSymlink(root, header)
	default:
		return this.writeHardLink(root, header)
	}
}

func (this *ArchiveUnpacker) writeDirectory(target string, mode os.FileMode) error {
	if err := this.clear(target); err != nil {
		return err
	}
	if err := this.fileSystem.MkdirAll(target, 0o755); err != nil {
		return err
	}
	return this.fileSystem.Chmod(target, mode)
}

func (this *ArchiveUnpacker) writeFile(target string, mode os.FileMode, contents io.Reader) error {
	if err := this.prepare(target); err != nil {
		return err
	}
	writer, err := this.fileSystem.Create(target)
	if err != nil {
		return err
	}
	_, err = io.Copy(writer, contents)
	closeErr := writer.Close()
	if err != nil {
		return err
	}
	if closeErr != nil {
		return closeErr
	}
	return this.fileSystem.Chmod(target, mode)
}

func (this *ArchiveUnpacker) writeSymlink(root string, header *tar.Header) error {
	target, err := resolveWithin(root, header.Name)
	if err != nil {
		return err
	}
	if filepath.IsAbs(filepath.FromSlash(header.Linkname)) {
		return fmt.Errorf("symlink %s points at absolute path %s", header.Name, header.Linkname)
	}
	pointedAt := filepath.Join(filepath.Dir(filepath.FromSlash(header.Name)), filepath.FromSlash(header.Linkname))
	if _, err = followWithin(this.fileSystem, root, pointedAt); err != nil {
		return fmt.Errorf("symlink %s points outside the install directory: %w", header.Name, err)
	}
	if err = this.prepare(target); err != nil {
		return err
	}
	return this.fileSystem.Symlink(header.Linkname, target)
}

func (this *ArchiveUnpacker) writeHardLink(root string, header *tar.Header) error {
	target, err := resolveWithin(root, header.Name)
	if err != nil {
		return err
	}
	source, err := resolveWithin(root, header.Linkname)
	if err == nil {
		_, err = followWithin(this.fileSystem, root, header.Linkname)
	}
	if err != nil {
		return fmt.Errorf("hard link %s points outside the install directory: %w", header.Name, err)
	}
	if err = this.prepare(target); err != nil {
		return err
	}
	return this.fileSystem.Link(source, target)
}

// checkParents rejects an entry whose parent directories, as they exist on
// disk right now, lead outside root through symlinks written by earlier
// entries or left behind by an earlier install.
func (this *ArchiveUnpacker) checkParents(root, name string) error {
	parent := filepath.Dir(filepath.Clean(filepath.FromSlash(name)))
	if filepath.IsAbs(parent) {
		return nil // refused by resolveWithin
	}
	if _, err := followWithin(this.fileSystem, root, parent); err != nil {
		return fmt.Errorf("the parent directory of %s leads outside the install directory: %w", name, err)
	}
	return nil
}

func (this *ArchiveUnpacker) prepare(target string) error {
	if err := this.fileSystem.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	return this.clear(target)
}

// clear removes whatever non-directory already occupies target.
func (this *ArchiveUnpacker) clear(target string) error {
	info, err := this.fileSystem.Lstat(target)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return nil
	}
	return this.fileSystem.Remove(target)
}

// decompressedStream marks read failures of the gzip layer so they are not
// mistaken for write failures while copying entry contents.
type decompressedStream struct {
	io.Reader
}

func (this *decompressedStream) Read(p []byte) (int, error) {
	n, err := this.Reader.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		err = fmt.Errorf("%w: %w", contracts.ErrDecompression, err)
	}
	return n, err
}
