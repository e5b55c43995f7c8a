package core

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/smarty/dcspkg/contracts"
)

const (
	configPathVariable  = "DCSPKG_CONFIG"
	installRootVariable = "DCSPKG_ROOT"
)

// InstallCommand is everything `dcspkg install` needs to run.
type InstallCommand struct {
	Config  contracts.Config
	Request contracts.InstallationRequest
}

type ConfigLoader struct {
	storage     contracts.FileReader
	environment contracts.Environment
	stderr      io.Writer
	absolute    func(string) (string, error)
}

func NewConfigLoader(storage contracts.FileReader, environment contracts.Environment, stderr io.Writer) *ConfigLoader {
	return &ConfigLoader{storage: storage, environment: environment, stderr: stderr, absolute: filepath.Abs}
}

// LoadInstallCommand layers defaults, the optional YAML config file, the
// environment and finally the command line.
func (this *ConfigLoader) LoadInstallCommand(args []string) (command InstallCommand, err error) {
	flags := pflag.NewFlagSet("dcspkg install", pflag.ContinueOnError)
	flags.SetOutput(this.stderr)
	configPath := flags.String("config", this.lookup(configPathVariable), "Path to a YAML config file.")
	server := flags.String("server", "", "Base URL of the package server (required unless set in the config file).")
	root := flags.String("root", "", "Install root holding the packages, bin and locks directories.")
	timeout := flags.Duration("timeout", 0, "Timeout applied to each HTTP request.")
	strict := flags.Bool("strict-installer-exit", false, "Fail the install when the install script exits non-zero.")
	progress := flags.Bool("progress", false, "Show a terminal progress bar while downloading.")
	flags.Usage = func() {
		_, _ = fmt.Fprintln(this.stderr, "Usage of dcspkg install: dcspkg install [flags] <package>")
		flags.PrintDefaults()
		_, _ = fmt.Fprintln(this.stderr, `
exit code 0: success
exit code 1: install failure (see stderr for details)
exit code 2: invalid usage or configuration`)
	}
	if err = flags.Parse(args); err != nil {
		return InstallCommand{}, fmt.Errorf("%w: %w", contracts.ErrConfig, err)
	}

	config := contracts.DefaultConfig(this.defaultInstallRoot())
	if *configPath != "" {
		if err = this.parseConfigFile(*configPath, &config); err != nil {
			return InstallCommand{}, err
		}
	}
	if value := this.lookup(installRootVariable); value != "" {
		config.InstallRoot = value
	}
	if flags.Changed("root") {
		config.InstallRoot = strings.TrimSpace(*root)
	}
	if flags.Changed("timeout") {
		config.RequestTimeout = *timeout
	}
	if flags.Changed("strict-installer-exit") {
		config.StrictInstallerExit = *strict
	}
	if flags.Changed("progress") {
		config.ShowProgress = *progress
	}

	rawServer := config.Server.Value().String()
	if flags.Changed("server") {
		rawServer = *server
	}
	if strings.TrimSpace(rawServer) == "" {
		return InstallCommand{}, fmt.Errorf("%w: %w", contracts.ErrConfig, errMissingServer)
	}
	serverURL, err := contracts.ParseServerURL(rawServer)
	if err != nil {
		return InstallCommand{}, fmt.Errorf("%w: %w", contracts.ErrConfig, err)
	}
	config.Server = contracts.URL(serverURL)

	if flags.NArg() != 1 {
		return InstallCommand{}, fmt.Errorf("%w: %w", contracts.ErrConfig, errPackageArgument)
	}
	if err = validateConfig(config); err != nil {
		return InstallCommand{}, fmt.Errorf("%w: %w", contracts.ErrConfig, err)
	}
	// Install scripts run from inside the package directory, so every
	// derived path must survive a change of working directory.
	if config.InstallRoot, err = this.absolute(config.InstallRoot); err != nil {
		return InstallCommand{}, fmt.Errorf("%w: resolving the install root: %w", contracts.ErrConfig, err)
	}

	command.Config = config
	command.Request = contracts.InstallationRequest{PackageName: flags.Arg(0), ServerURL: serverURL}
	if err = contracts.ValidatePackageName(command.Request.PackageName); err != nil {
		return InstallCommand{}, fmt.Errorf("%w: %w", contracts.ErrConfig, err)
	}
	return command, nil
}

func (this *ConfigLoader) parseConfigFile(path string, config *contracts.Config) error {
	raw, err := this.storage.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %w", contracts.ErrConfig, path, err)
	}
	if err = yaml.Unmarshal(raw, config); err != nil {
		return fmt.Errorf("%w: parsing %s: %w", contracts.ErrConfig, path, err)
	}
	return nil
}

func (this *ConfigLoader) lookup(key string) string {
	value, _ := this.environment.LookupEnv(key)
	return strings.TrimSpace(value)
}

func (this *ConfigLoader) defaultInstallRoot() string {
	home := this.lookup("HOME")
	if home == "" {
		return ".dcspkg"
	}
	return filepath.Join(home, ".dcspkg")
}

func validateConfig(config contracts.Config) error {
	if strings.TrimSpace(config.InstallRoot) == "" {
		return errBlankInstallRoot
	}
	if strings.Trim(config.MetadataEndpoint, "/ ") == "" {
		return errBlankMetadataEndpoint
	}
	if strings.Trim(config.FileEndpoint, "/ ") == "" {
		return errBlankFileEndpoint
	}
	if config.RequestTimeout < 0 {
		return errNegativeRequestTimeout
	}
	if config.LockTimeout < 0 {
		return errNegativeLockTimeout
	}
	if config.LockTimeout > 0 && config.LockPollInterval <= 0 {
		return errLockPollInterval
	}
	if strings.TrimSpace(config.ScriptName) == "" || strings.ContainsAny(config.ScriptName, `/\`) {
		return errScriptName
	}
	return nil
}

var (
	errMissingServer          = errors.New("server URL must be given with --server or in the config file")
	errPackageArgument        = errors.New("exactly one package name is required")
	errBlankInstallRoot       = errors.New("install root should not be blank")
	errBlankMetadataEndpoint  = errors.New("metadata endpoint should not be blank")
	errBlankFileEndpoint      = errors.New("file endpoint should not be blank")
	errNegativeRequestTimeout = errors.New("request timeout must not be negative")
	errNegativeLockTimeout    = errors.New("lock timeout must not be negative")
	errLockPollInterval       = errors.New("lock poll interval must be positive when a lock timeout is set")
	errScriptName             = errors.New("script name must be a plain file name")
)
