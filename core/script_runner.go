package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/smartystreets/logging"

	"github.com/smarty/dcspkg/contracts"
)

// Owner may read, write and execute; group may read and execute; others may
// only execute.
const installScriptMode os.FileMode = 0o751

type ScriptRunnerFileSystem interface {
	contracts.FileChecker
	contracts.Chmod
	contracts.Deleter
}

type ScriptRunner struct {
	fileSystem ScriptRunnerFileSystem
	executor   contracts.ScriptExecutor
	scriptName string
	strict     bool
	logger     *logging.Logger
}

func NewScriptRunner(fileSystem ScriptRunnerFileSystem, executor contracts.ScriptExecutor, config contracts.Config) *ScriptRunner {
	return &ScriptRunner{
		fileSystem: fileSystem,
		executor:   executor,
		scriptName: config.ScriptName,
		strict:     config.StrictInstallerExit,
	}
}

// Run makes the install script in directory executable, runs it from that
// directory and removes it. The report names the last stage reached.
func (this *ScriptRunner) Run(ctx context.Context, directory string) (report contracts.ScriptReport, err error) {
	script := filepath.Join(directory, this.scriptName)
	info, err := this.fileSystem.Lstat(script)
	if errors.Is(err, os.ErrNotExist) {
		return report, fmt.Errorf("%w: the package declares an install script but %s does not exist", contracts.ErrMissingScript, script)
	}
	if err != nil {
		return report, fmt.Errorf("%w: could not inspect %s: %w", contracts.ErrScriptExecution, script, err)
	}
	if !info.Mode().IsRegular() {
		return report, fmt.Errorf("%w: %s is not a regular file", contracts.ErrMissingScript, script)
	}

	if err = this.fileSystem.Chmod(script, installScriptMode); err != nil {
		return report, fmt.Errorf("%w: could not make %s executable: %w", contracts.ErrScriptExecution, script, err)
	}
	report.Stage = contracts.ScriptPermissionsSet

	this.logger.Printf("[INFO] Executing install script %s", script)
	exitCode, err := this.executor.Execute(ctx, script, directory)
	if err != nil {
		return report, fmt.Errorf("%w: could not run %s: %w", contracts.ErrScriptExecution, script, err)
	}
	report.Stage = contracts.ScriptExecuted
	report.ExitCode = exitCode
	if report.ExitCode != 0 {
		this.logger.Printf("[WARN] Install script %s exited with status %d", script, report.ExitCode)
	}

	removeErr := this.fileSystem.Remove(script)
	if removeErr == nil {
		report.Stage = contracts.ScriptRemoved
	}
	if this.strict && report.ExitCode != 0 {
		return report, fmt.Errorf("%w: %s exited with status %d", contracts.ErrScriptExecution, script, report.ExitCode)
	}
	if removeErr != nil {
		return report, fmt.Errorf("%w: could not remove %s: %w", contracts.ErrCleanup, script, removeErr)
	}
	this.logger.Printf("[INFO] Install script finished and was removed")
	return report, nil
}
