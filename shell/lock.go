package shell

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// FileLocker takes advisory flock(2) locks. The lock file itself is left in
// place after release.
type FileLocker struct{}

func NewFileLocker() *FileLocker {
	return &FileLocker{}
}

func (this *FileLocker) TryLock(path string) (release func() error, acquired bool, err error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, false, err
	}
	err = unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if errors.Is(err, unix.EWOULDBLOCK) {
		_ = file.Close()
		return nil, false, nil
	}
	if err != nil {
		_ = file.Close()
		return nil, false, err
	}
	return func() error {
		unlockErr := unix.Flock(int(file.Fd()), unix.LOCK_UN)
		closeErr := file.Close()
		return errors.Join(unlockErr, closeErr)
	}, true, nil
}
