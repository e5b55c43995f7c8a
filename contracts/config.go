package contracts

import (
	"path/filepath"
	"time"
)

const (
	DefaultMetadataEndpoint = "pkgdata"
	DefaultFileEndpoint     = "download"
	DefaultScriptName       = "install.sh"
	ArchiveExtension        = ".pkg"
)

// Config is fixed for the lifetime of an install and handed to every
// component at construction.
type Config struct {
	InstallRoot         string        `yaml:"install_root"`
	Server              URL           `yaml:"server"`
	MetadataEndpoint    string        `yaml:"metadata_endpoint"`
	FileEndpoint        string        `yaml:"file_endpoint"`
	RequestTimeout      time.Duration `yaml:"request_timeout"`
	LockTimeout         time.Duration `yaml:"lock_timeout"`
	LockPollInterval    time.Duration `yaml:"lock_poll_interval"`
	ScriptName          string        `yaml:"script_name"`
	StrictInstallerExit bool          `yaml:"strict_installer_exit"`
	ShowProgress        bool          `yaml:"show_progress"`
}

func DefaultConfig(installRoot string) Config {
	return Config{
		InstallRoot:      installRoot,
		MetadataEndpoint: DefaultMetadataEndpoint,
		FileEndpoint:     DefaultFileEndpoint,
		RequestTimeout:   time.Minute,
		LockTimeout:      time.Minute,
		LockPollInterval: time.Second,
		ScriptName:       DefaultScriptName,
	}
}

func (this Config) PackagesDirectory() string {
	return filepath.Join(this.InstallRoot, "packages")
}

func (this Config) BinDirectory() string {
	return filepath.Join(this.InstallRoot, "bin")
}

func (this Config) LocksDirectory() string {
	return filepath.Join(this.InstallRoot, "locks")
}

func (this Config) InstallDirectory(name string) string {
	return filepath.Join(this.PackagesDirectory(), name)
}

func (this Config) LockPath(name string) string {
	return filepath.Join(this.LocksDirectory(), name+".lock")
}
