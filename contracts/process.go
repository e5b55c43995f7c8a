package contracts

import "context"

// ScriptExecutor spawns a script and waits for it. A non-nil error means the
// script could not be spawned or waited on; otherwise exitCode is its status.
type ScriptExecutor interface {
	Execute(ctx context.Context, script, directory string) (exitCode int, err error)
}

// Locker takes an advisory, non-blocking lock on path. When the lock is held
// elsewhere it returns acquired == false and a nil error.
type Locker interface {
	TryLock(path string) (release func() error, acquired bool, err error)
}

type Environment interface {
	LookupEnv(key string) (value string, set bool)
}

type FileReader interface {
	ReadFile(path string) ([]byte, error)
}
