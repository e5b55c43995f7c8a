package core

import (
	"archive/tar"
	"bytes"

	"github.com/klauspost/compress/gzip"
)

type archiveItem struct {
	name     string
	contents string
	mode     int64
	kind     byte
	linkname string
}

func regularItem(name, contents string, mode int64) archiveItem {
	return archiveItem{name: name, contents: contents, mode: mode, kind: tar.TypeReg}
}

func directoryItem(name string, mode int64) archiveItem {
	return archiveItem{name: name, mode: mode, kind: tar.TypeDir}
}

func symlinkItem(name, linkname string) archiveItem {
	return archiveItem{name: name, linkname: linkname, mode: 0o777, kind: tar.TypeSymlink}
}

func hardLinkItem(name, linkname string) archiveItem {
	return archiveItem{name: name, linkname: linkname, mode: 0o644, kind: tar.TypeLink}
}

func fifoItem(name string) archiveItem {
	return archiveItem{name: name, mode: 0o644, kind: tar.TypeFifo}
}

// buildArchive produces a gzipped tarball holding the items in order.
func buildArchive(items ...archiveItem) []byte {
	buffer := new(bytes.Buffer)
	compressor := gzip.NewWriter(buffer)
	writer := tar.NewWriter(compressor)
	for _, item := range items {
		header := &tar.Header{
			Name:     item.name,
			Mode:     item.mode,
			Typeflag: item.kind,
			Linkname: item.linkname,
			ModTime:  InMemoryModTime,
		}
		if item.kind == tar.TypeReg {
			header.Size = int64(len(item.contents))
		}
		if err := writer.WriteHeader(header); err != nil {
			panic(err)
		}
		if _, err := writer.Write([]byte(item.contents)); err != nil {
			panic(err)
		}
	}
	if err := writer.Close(); err != nil {
		panic(err)
	}
	if err := compressor.Close(); err != nil {
		panic(err)
	}
	return buffer.Bytes()
}
