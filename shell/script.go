package shell

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"path/filepath"
)

// ScriptExecutor runs install scripts as child processes that inherit the
// environment of this process.
type ScriptExecutor struct {
	stdout io.Writer
	stderr io.Writer
}

func NewScriptExecutor(stdout, stderr io.Writer) *ScriptExecutor {
	return &ScriptExecutor{stdout: stdout, stderr: stderr}
}

// Execute runs script with directory as its working directory. Relative
// paths are resolved against the working directory of this process before
// the child changes into directory.
func (this *ScriptExecutor) Execute(ctx context.Context, script, directory string) (int, error) {
	script, err := filepath.Abs(script)
	if err != nil {
		return -1, err
	}
	directory, err = filepath.Abs(directory)
	if err != nil {
		return -1, err
	}
	command := exec.CommandContext(ctx, script)
	command.Dir = directory
	command.Stdout = this.stdout
	command.Stderr = this.stderr

	err = command.Run()
	var exit *exec.ExitError
	if errors.As(err, &exit) && ctx.Err() == nil {
		return exit.ExitCode(), nil
	}
	if err != nil {
		return -1, err
	}
	return 0, nil
}
