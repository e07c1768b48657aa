package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"disfactory.tw/backoffice/models"
	ierr "disfactory.tw/backoffice/pkg/errors"
)

// RestoreStatus is the outcome of a successful restore call.
type RestoreStatus string

const (
	StatusRestored    RestoreStatus = "restored"
	StatusAlreadyLive RestoreStatus = "already_live"
)

// RestoreFactory clears deleted_at on one recycled factory. The write is a
// single conditional UPDATE, so racing restores of the same id cannot leave
// a partial state: one of them updates the row, the others see it live.
// Restoring a live factory is a no-op reported as StatusAlreadyLive.
func (s *Store) RestoreFactory(ctx context.Context, id uuid.UUID) (RestoreStatus, error) {
	var status RestoreStatus
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Unscoped().
			Model(&models.Factory{}).
			Where("id = ? AND deleted_at IS NOT NULL", id).
			Update("deleted_at", nil)
		if res.Error != nil {
			return ierr.WithError(res.Error).WithMessage("restore factory").Mark(ierr.ErrDatabase)
		}
		if res.RowsAffected > 0 {
			status = StatusRestored
			return nil
		}

		var count int64
		if err := AnyFactory(tx).Where("id = ?", id).Count(&count).Error; err != nil {
			return ierr.WithError(err).Mark(ierr.ErrDatabase)
		}
		if count == 0 {
			return ierr.NewErrorf("factory %s not found", id).Mark(ierr.ErrNotFound)
		}
		status = StatusAlreadyLive
		return nil
	})
	if err != nil {
		return "", err
	}
	return status, nil
}
