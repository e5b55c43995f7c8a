package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/smartystreets/logging"

	"github.com/smarty/dcspkg/contracts"
)

type MetadataFetcher struct {
	client    contracts.HTTPClient
	validator *DescriptorValidator
	endpoint  string
	timeout   time.Duration
	logger    *logging.Logger
}

func NewMetadataFetcher(client contracts.HTTPClient, validator *DescriptorValidator, config contracts.Config) *MetadataFetcher {
	return &MetadataFetcher{
		client:    client,
		validator: validator,
		endpoint:  config.MetadataEndpoint,
		timeout:   config.RequestTimeout,
	}
}

// Fetch asks the server for the descriptor of the named package. A server
// answer of JSON null means the package does not exist.
func (this *MetadataFetcher) Fetch(ctx context.Context, name string, server url.URL) (contracts.Descriptor, error) {
	if err := contracts.ValidatePackageName(name); err != nil {
		return contracts.Descriptor{}, err
	}
	address := server.JoinPath(this.endpoint, name)
	this.logger.Printf("[INFO] Downloading data for package %s from %s", name, address)

	ctx, cancel := withTimeout(ctx, this.timeout)
	defer cancel()

	response, err := get(ctx, this.client, address, this.logger)
	if err != nil {
		return contracts.Descriptor{}, err
	}
	defer func() { _ = response.Body.Close() }()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return contracts.Descriptor{}, fmt.Errorf("%w: reading response from %s: %w", contracts.ErrNetwork, address, err)
	}
	return this.decode(name, raw)
}

func (this *MetadataFetcher) decode(name string, raw []byte) (descriptor contracts.Descriptor, err error) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return descriptor, fmt.Errorf("%w: package %s does not exist on the server", contracts.ErrNotFound, name)
	}
	if err = this.validator.Validate(raw); err != nil {
		return descriptor, err
	}
	if err = json.Unmarshal(raw, &descriptor); err != nil {
		return descriptor, fmt.Errorf("%w: %w", contracts.ErrDecode, err)
	}
	if descriptor.Name != name {
		this.logger.Printf("[WARN] Requested package %s but the server described %s", name, descriptor.Name)
	}
	this.logger.Printf("[INFO] Got package data for %s (%s)", name, descriptor.DisplayName)
	return descriptor, nil
}
