package contracts

import "errors"

// Failure kinds of the install pipeline. Every error returned by the pipeline
// wraps exactly one of these; match them with errors.Is.
var (
	ErrURL                  = errors.New("invalid url")
	ErrNetwork              = errors.New("network failure")
	ErrDecode               = errors.New("malformed package data")
	ErrNotFound             = errors.New("package not found")
	ErrChecksumMismatch     = errors.New("checksum mismatch")
	ErrDecompression        = errors.New("decompression failure")
	ErrExtraction           = errors.New("extraction failure")
	ErrMissingScript        = errors.New("install script missing")
	ErrScriptExecution      = errors.New("install script failure")
	ErrCleanup              = errors.New("cleanup failure")
	ErrMisconfiguredPackage = errors.New("misconfigured package")
	ErrLink                 = errors.New("link failure")
	ErrLock                 = errors.New("install lock unavailable")
	ErrConfig               = errors.New("invalid configuration")
)
