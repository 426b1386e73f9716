package retry

import (
	"errors"
	"io/fs"
	"os"
	"syscall"
)

// IsTransientFSError сообщает, похожа ли ошибка файловой системы на временную:
// файл занят другим процессом, прерванный системный вызов, таймаут.
// Ошибки "нет такого файла" и "нет прав на каталог" временными не считаются.
func IsTransientFSError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
		return false
	}
	if os.IsTimeout(err) {
		return true
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.EBUSY, syscall.EAGAIN, syscall.EINTR, syscall.ETXTBSY, syscall.ETIMEDOUT:
			return true
		}
		// На Windows ERROR_SHARING_VIOLATION (32) и ERROR_LOCK_VIOLATION (33)
		// возвращаются как Errno без отдельных констант в syscall для unix.
		if errno == 32 || errno == 33 {
			return true
		}
	}
	return false
}
