// Package install wires the package installer to the local disk, the network
// and the process environment.
package install

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/smarty/dcspkg/contracts"
	"github.com/smarty/dcspkg/core"
	"github.com/smarty/dcspkg/shell"
)

const progressLogInterval = 5 * time.Second

// Package installs the named package from the server at serverURL.
func Package(ctx context.Context, config contracts.Config, name, serverURL string) (contracts.InstallReport, error) {
	server, err := contracts.ParseServerURL(serverURL)
	if err != nil {
		return contracts.InstallReport{}, fmt.Errorf("invalid package request: %w", err)
	}
	request := contracts.InstallationRequest{PackageName: name, ServerURL: server}
	return NewPackageInstaller(config).Install(ctx, request)
}

func NewPackageInstaller(config contracts.Config) *core.PackageInstaller {
	return newPackageInstaller(config, os.Stdout, os.Stderr)
}

func newPackageInstaller(config contracts.Config, stdout, stderr io.Writer) *core.PackageInstaller {
	disk := shell.NewDiskFileSystem()
	client := shell.NewHTTPClient(config.RequestTimeout)
	var progress contracts.ProgressMeter = core.NewLogProgressMeter(progressLogInterval)
	if config.ShowProgress {
		progress = shell.NewBarProgressMeter(stderr)
	}
	return core.NewPackageInstaller(
		config,
		disk,
		core.NewMetadataFetcher(client, core.NewDescriptorValidator(), config),
		core.NewArchiveFetcher(client, progress, config),
		core.NewArchiveUnpacker(disk),
		core.NewScriptRunner(disk, shell.NewScriptExecutor(stdout, stderr), config),
		core.NewPathLinker(disk, config),
		core.NewInstallLock(shell.NewFileLocker(), disk, config),
	)
}
