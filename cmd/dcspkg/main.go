package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/smarty/dcspkg/contracts"
	"github.com/smarty/dcspkg/core"
	"github.com/smarty/dcspkg/install"
	"github.com/smarty/dcspkg/shell"
)

func main() {
	log.SetFlags(log.Ltime | log.Lshortfile)

	if isSubCommand("install") {
		os.Exit(installMain(os.Args[2:]))
	} else if isSubCommand("version") {
		versionMain()
	} else {
		_, _ = fmt.Fprintln(os.Stderr, "Usage: dcspkg install [flags] <package> | dcspkg version")
		os.Exit(2)
	}
}

func isSubCommand(name string) bool {
	return len(os.Args) > 1 && os.Args[1] == name
}

func installMain(args []string) int {
	loader := core.NewConfigLoader(shell.NewDiskFileSystem(), shell.NewEnvironment(), os.Stderr)
	command, err := loader.LoadInstallCommand(args)
	if err != nil {
		log.Println("[WARN]", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := install.NewPackageInstaller(command.Config).Install(ctx, command.Request)
	if errors.Is(err, contracts.ErrCleanup) {
		log.Println("[WARN]", err)
	} else if err != nil {
		log.Println("[WARN]", err)
		return 1
	}
	log.Printf("[INFO] %s is installed in %s", report.Descriptor.DisplayName, report.Directory)
	if report.LinkPath != "" {
		log.Printf("[INFO] Add %s to your PATH to run it", command.Config.BinDirectory())
	}
	return 0
}

func versionMain() {
	fmt.Printf("dcspkg [%s]\n", ldflagsSoftwareVersion)
}

var ldflagsSoftwareVersion = "debug"
