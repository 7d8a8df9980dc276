package notification

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	CreateMailLog(ctx context.Context, entry *MailLog) error
	ListRecentMailLogs(ctx context.Context, limit int) ([]MailLog, error)
	ListMailLogsByRecipient(ctx context.Context, recipient string, limit int) ([]MailLog, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateMailLog(ctx context.Context, entry *MailLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ListRecentMailLogs(ctx context.Context, limit int) ([]MailLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var logs []MailLog
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

func (r *repository) ListMailLogsByRecipient(ctx context.Context, recipient string, limit int) ([]MailLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var logs []MailLog
	err := r.db.WithContext(ctx).
		Where("recipient = ?", recipient).
		Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
