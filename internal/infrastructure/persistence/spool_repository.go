package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SpoolRepository persists and drains the analytics event spool
type SpoolRepository struct {
	db *gorm.DB
}

// NewSpoolRepository creates a spool repository
func NewSpoolRepository(db *gorm.DB) *SpoolRepository {
	return &SpoolRepository{db: db}
}

// Enqueue writes a batch of events. Duplicate event IDs are ignored so
// a retried beacon never produces a second row.
func (r *SpoolRepository) Enqueue(ctx context.Context, events []SpooledEvent) error {
	if len(events) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoNothing: true,
		}).
		Create(&events).Error
	if err != nil {
		return fmt.Errorf("spool: enqueue failed: %w", err)
	}
	return nil
}

// FetchPending returns up to limit pending events, oldest first
func (r *SpoolRepository) FetchPending(ctx context.Context, limit int) ([]SpooledEvent, error) {
	var events []SpooledEvent
	err := r.db.WithContext(ctx).
		Where("status = ?", SpoolStatusPending).
		Order("id ASC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("spool: fetch pending failed: %w", err)
	}
	return events, nil
}

// MarkSent flags the given events as delivered
func (r *SpoolRepository) MarkSent(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	now := time.Now()
	err := r.db.WithContext(ctx).
		Model(&SpooledEvent{}).
		Where("id IN ?", ids).
		Updates(map[string]any{
			"status":  SpoolStatusSent,
			"sent_at": &now,
		}).Error
	if err != nil {
		return fmt.Errorf("spool: mark sent failed: %w", err)
	}
	return nil
}

// MarkFailed records a delivery failure. Events that exhausted
// maxRetries move to abandoned and are no longer fetched.
func (r *SpoolRepository) MarkFailed(ctx context.Context, ids []uint, lastError string, maxRetries int) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&SpooledEvent{}).
			Where("id IN ?", ids).
			Updates(map[string]any{
				"attempts":   gorm.Expr("attempts + 1"),
				"last_error": lastError,
			}).Error; err != nil {
			return fmt.Errorf("spool: mark failed failed: %w", err)
		}
		if err := tx.Model(&SpooledEvent{}).
			Where("id IN ? AND attempts >= ?", ids, maxRetries).
			Update("status", SpoolStatusAbandoned).Error; err != nil {
			return fmt.Errorf("spool: abandon failed: %w", err)
		}
		return nil
	})
}

// PurgeOlderThan removes sent and abandoned events older than the
// retention window and returns the number of rows deleted
func (r *SpoolRepository) PurgeOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	result := r.db.WithContext(ctx).
		Where("status IN ? AND created_at < ?", []string{SpoolStatusSent, SpoolStatusAbandoned}, cutoff).
		Delete(&SpooledEvent{})
	if result.Error != nil {
		return 0, fmt.Errorf("spool: purge failed: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// PendingCount returns the number of events waiting for delivery
func (r *SpoolRepository) PendingCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&SpooledEvent{}).
		Where("status = ?", SpoolStatusPending).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("spool: count failed: %w", err)
	}
	return count, nil
}

// IsDuplicateKeyError reports whether err is a unique constraint
// violation
func IsDuplicateKeyError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
