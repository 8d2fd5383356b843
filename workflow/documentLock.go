package workflow

import (
	"fmt"

	"gorm.io/gorm"
)

const documentsLockName = "opsdesk:documents"

// AcquireDocumentsLock serializes document writes across instances using a MySQL advisory lock.
// NOTE: GET_LOCK is connection-scoped, so this must be called on the *gorm.DB of the write transaction.
// Other dialects rely on the Locker alone.
func AcquireDocumentsLock(tx *gorm.DB, timeoutSeconds int) error {
	if tx.Dialector.Name() != "mysql" {
		return nil
	}
	var ok int
	if err := tx.Raw("SELECT GET_LOCK(?, ?)", documentsLockName, timeoutSeconds).Scan(&ok).Error; err != nil {
		return err
	}
	if ok != 1 {
		return fmt.Errorf("could not acquire %s within %ds", documentsLockName, timeoutSeconds)
	}
	return nil
}

func ReleaseDocumentsLock(tx *gorm.DB) {
	if tx.Dialector.Name() != "mysql" {
		return
	}
	var _ok int
	_ = tx.Raw("SELECT RELEASE_LOCK(?)", documentsLockName).Scan(&_ok).Error
}
