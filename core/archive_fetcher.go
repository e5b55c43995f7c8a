package core

import (
	"bytes"
	"context"
	"fmt"
	"hash/crc32"
	"io"
	"net/url"
	"time"

	"github.com/smartystreets/logging"

	"github.com/smarty/dcspkg/contracts"
)

type ArchiveFetcher struct {
	client   contracts.HTTPClient
	progress contracts.ProgressMeter
	endpoint string
	timeout  time.Duration
	logger   *logging.Logger
}

func NewArchiveFetcher(client contracts.HTTPClient, progress contracts.ProgressMeter, config contracts.Config) *ArchiveFetcher {
	return &ArchiveFetcher{
		client:   client,
		progress: progress,
		endpoint: config.FileEndpoint,
		timeout:  config.RequestTimeout,
	}
}

// Fetch downloads the compressed archive of the named package and returns its
// bytes only when their CRC32 matches the declared checksum.
func (this *ArchiveFetcher) Fetch(ctx context.Context, name string, checksum uint32, server url.URL) ([]byte, error) {
	filename := name + contracts.ArchiveExtension
	address := server.JoinPath(this.endpoint, filename)
	this.logger.Printf("[INFO] Downloading compressed package %s from %s", filename, address)

	ctx, cancel := withTimeout(ctx, this.timeout)
	defer cancel()

	response, err := get(ctx, this.client, address, this.logger)
	if err != nil {
		return nil, err
	}
	defer func() { _ = response.Body.Close() }()

	reader := NewChecksumReader(response.Body, crc32.NewIEEE())
	buffer := new(bytes.Buffer)
	progress := this.progress.Track(filename, response.ContentLength)
	_, err = io.Copy(io.MultiWriter(buffer, progress), reader)
	_ = progress.Close()
	if err != nil {
		return nil, fmt.Errorf("%w: reading archive from %s: %w", contracts.ErrNetwork, address, err)
	}

	if actual := reader.Checksum(); actual != checksum {
		return nil, fmt.Errorf("%w: %s has CRC %08x but the package declares %08x",
			contracts.ErrChecksumMismatch, filename, actual, checksum)
	}
	this.logger.Printf("[INFO] Downloaded %s (%s) and verified its checksum", filename, humanFileSize(float64(buffer.Len())))
	return buffer.Bytes(), nil
}
