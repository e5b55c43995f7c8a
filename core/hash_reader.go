package core

import (
	"hash"
	"io"
)

// ChecksumReader feeds every byte read from the source into a 32-bit hash.
type ChecksumReader struct {
	io.Reader
	hash.Hash32
}

func NewChecksumReader(source io.Reader, target hash.Hash32) *ChecksumReader {
	return &ChecksumReader{Reader: source, Hash32: target}
}

func (this *ChecksumReader) Read(buffer []byte) (int, error) {
	count, err := this.Reader.Read(buffer)
	_, _ = this.Hash32.Write(buffer[0:count])
	return count, err
}

func (this *ChecksumReader) Checksum() uint32 {
	return this.Hash32.Sum32()
}
