package contracts

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

type InstallationRequest struct {
	PackageName string
	ServerURL   url.URL
}

func (this InstallationRequest) Title() string {
	return fmt.Sprintf("[%s @ %s]", this.PackageName, this.ServerURL.String())
}

type ScriptStage int

const (
	ScriptNotStarted ScriptStage = iota
	ScriptPermissionsSet
	ScriptExecuted
	ScriptRemoved
)

func (this ScriptStage) String() string {
	switch this {
	case ScriptNotStarted:
		return "not-started"
	case ScriptPermissionsSet:
		return "permissions-set"
	case ScriptExecuted:
		return "executed"
	case ScriptRemoved:
		return "removed"
	default:
		return fmt.Sprintf("ScriptStage(%d)", int(this))
	}
}

type ScriptReport struct {
	Stage    ScriptStage
	ExitCode int
}

type InstallReport struct {
	Descriptor Descriptor
	Directory  string
	Script     ScriptReport
	LinkPath   string
}

type PackageInstaller interface {
	Install(ctx context.Context, request InstallationRequest) (InstallReport, error)
}

// ValidatePackageName reports whether name can serve as a single URL path
// segment and a single directory name.
func ValidatePackageName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("%w: package name %q is not usable", ErrURL, name)
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return fmt.Errorf("%w: package name %q contains a path separator", ErrURL, name)
	}
	return nil
}

// ParseServerURL parses an absolute http(s) server address.
func ParseServerURL(raw string) (url.URL, error) {
	address, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return url.URL{}, fmt.Errorf("%w: %w", ErrURL, err)
	}
	if address.Scheme != "http" && address.Scheme != "https" {
		return url.URL{}, fmt.Errorf("%w: unsupported scheme %q in %q", ErrURL, address.Scheme, raw)
	}
	if address.Host == "" {
		return url.URL{}, fmt.Errorf("%w: server url %q has no host", ErrURL, raw)
	}
	return *address, nil
}
