package core

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/smartystreets/clock"
	"github.com/smartystreets/logging"

	"github.com/smarty/dcspkg/contracts"
)

// InstallLock serializes installs of the same package across processes.
type InstallLock struct {
	locker     contracts.Locker
	fileSystem contracts.DirectoryMaker
	timeout    time.Duration
	interval   time.Duration
	sleeper    *clock.Sleeper
	logger     *logging.Logger
}

func NewInstallLock(locker contracts.Locker, fileSystem contracts.DirectoryMaker, config contracts.Config) *InstallLock {
	return &InstallLock{
		locker:     locker,
		fileSystem: fileSystem,
		timeout:    config.LockTimeout,
		interval:   config.LockPollInterval,
	}
}

// Acquire polls for the lock at path until it is granted, the wait exceeds
// the lock timeout, or ctx is done.
func (this *InstallLock) Acquire(ctx context.Context, path string) (release func() error, err error) {
	if err = this.fileSystem.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: %w", contracts.ErrLock, err)
	}
	waits := 0
	if this.interval > 0 {
		waits = int(this.timeout / this.interval)
	}
	for attempt := 0; ; attempt++ {
		release, acquired, err := this.locker.TryLock(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", contracts.ErrLock, err)
		}
		if acquired {
			return release, nil
		}
		if attempt >= waits {
			return nil, fmt.Errorf("%w: %s is still held by another install after %s", contracts.ErrLock, path, this.timeout)
		}
		if attempt == 0 {
			this.logger.Printf("[WARN] Another install holds %s, waiting up to %s", path, this.timeout)
		}
		if err = ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", contracts.ErrLock, err)
		}
		this.sleeper.Sleep(this.interval)
	}
}
