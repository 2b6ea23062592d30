package reconcile

import (
	"fmt"

	"gorm.io/gorm"
)

// acquireAccountLock serializes the reconciliation check-then-insert per
// account across instances using MySQL advisory locks.
// NOTE: GET_LOCK is connection-scoped, so this must be called on the same
// *gorm.DB transaction that performs the check and the insert. Dialects
// without advisory locks (the in-memory sqlite used in tests) fall back
// to the database transaction alone.
func acquireAccountLock(tx *gorm.DB, accountId int) error {
	if tx.Dialector.Name() != "mysql" {
		return nil
	}
	lockName := fmt.Sprintf("reconcile:%d", accountId)
	var ok int
	if err := tx.Raw("SELECT GET_LOCK(?, 30)", lockName).Scan(&ok).Error; err != nil {
		return err
	}
	if ok != 1 {
		return fmt.Errorf("could not acquire reconciliation lock for account_id=%d", accountId)
	}
	return nil
}

func releaseAccountLock(tx *gorm.DB, accountId int) {
	if tx.Dialector.Name() != "mysql" {
		return
	}
	lockName := fmt.Sprintf("reconcile:%d", accountId)
	var _ok int
	_ = tx.Raw("SELECT RELEASE_LOCK(?)", lockName).Scan(&_ok).Error
}
