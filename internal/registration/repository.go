package registration

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kiran026/sports-portal-backend/internal/event"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// ===========================
// 🔒 Atomic admission
//
// Duplicate and capacity checks plus the insert run in one transaction that
// holds a FOR UPDATE lock on the event row, so two near-simultaneous
// submissions for the same event serialize. Partial unique indexes on
// (event_id, user_id) and (event_id, lower(email)) back-stop the duplicate
// case if anything slips past.
func (r *Repository) AdmitAndCreate(ctx context.Context, reg *Registration, proofMissing bool) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ev event.Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&ev, reg.EventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		dupQuery := tx.Model(&Registration{}).
			Where("event_id = ? AND payment_status <> ?", reg.EventID, StatusRejected)
		if reg.UserID != nil {
			dupQuery = dupQuery.Where("user_id = ? OR lower(email) = lower(?)", *reg.UserID, reg.Email)
		} else {
			dupQuery = dupQuery.Where("lower(email) = lower(?)", reg.Email)
		}
		var duplicates int64
		if err := dupQuery.Count(&duplicates).Error; err != nil {
			return err
		}
		if duplicates > 0 {
			return ErrAlreadyRegistered
		}

		if err := checkCapacity(tx, &ev, reg); err != nil {
			return err
		}

		if proofMissing {
			return ErrPaymentProofRequired
		}

		if err := tx.Create(reg).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyRegistered
			}
			return err
		}
		return nil
	})
}

// checkCapacity recounts under the event lock, so the count cannot move
// between check and insert.
func checkCapacity(tx *gorm.DB, ev *event.Event, reg *Registration) error {
	// gender is required on the profile regardless of count type, so the
	// separate-quota branch always has something to count against
	if strings.TrimSpace(reg.Gender) == "" {
		return ErrProfileIncomplete
	}

	if ev.RegistrationCountType == event.CountTypeSeparate {
		limit := genderQuota(ev, reg.Gender)
		if limit == nil {
			return nil
		}
		var count int64
		if err := tx.Model(&Registration{}).
			Where("event_id = ? AND lower(gender) = lower(?)", reg.EventID, reg.Gender).
			Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(*limit) {
			return ErrCapacityReached
		}
		return nil
	}

	if ev.MaxTotalRegistrations == nil {
		return nil
	}
	var count int64
	if err := tx.Model(&Registration{}).
		Where("event_id = ?", reg.EventID).
		Count(&count).Error; err != nil {
		return err
	}
	if count >= int64(*ev.MaxTotalRegistrations) {
		return ErrCapacityReached
	}
	return nil
}

// genderQuota picks the per-gender cap for separate counting. Only male and
// female buckets carry caps; any other gender value is uncapped (nil).
func genderQuota(ev *event.Event, gender string) *int {
	switch strings.ToLower(strings.TrimSpace(gender)) {
	case "male":
		return ev.MaxMaleRegistrations
	case "female":
		return ev.MaxFemaleRegistrations
	default:
		return nil
	}
}

func isUniqueViolation(err error) bool {
	// 23505 is Postgres unique_violation
	return err != nil && strings.Contains(err.Error(), "23505")
}

// ===========================
// 📄 Reads

func (r *Repository) GetByID(id uint) (*Registration, error) {
	var reg Registration
	if err := r.DB.First(&reg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &reg, nil
}

func (r *Repository) ListByEvent(eventID uint, limit, offset int, search string) ([]Registration, int64, error) {
	query := r.DB.Model(&Registration{}).Where("event_id = ?", eventID)
	if search != "" {
		query = query.Where("email ILIKE ? OR user_data::text ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var regs []Registration
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&regs).Error; err != nil {
		return nil, 0, err
	}
	return regs, total, nil
}

// GetAllByEvent loads every registration of an event, used for attachment
// collection and exports.
func (r *Repository) GetAllByEvent(eventID uint) ([]Registration, error) {
	var regs []Registration
	if err := r.DB.Where("event_id = ?", eventID).Order("created_at ASC").Find(&regs).Error; err != nil {
		return nil, err
	}
	return regs, nil
}

// ===========================
// 🔄 Lifecycle writes

// Approve moves a registration to paid. Approving an already-paid record is
// a no-op; a rejected record is terminal.
func (r *Repository) Approve(id uint) (*Registration, error) {
	reg, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	switch reg.PaymentStatus {
	case StatusPaid:
		return reg, nil
	case StatusRejected:
		return nil, ErrInvalidTransition
	}
	if err := r.DB.Model(reg).Update("payment_status", StatusPaid).Error; err != nil {
		return nil, err
	}
	reg.PaymentStatus = StatusPaid
	return reg, nil
}

// Reject moves a pending registration to rejected. A paid record cannot be
// rejected.
func (r *Repository) Reject(id uint) (*Registration, error) {
	reg, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	switch reg.PaymentStatus {
	case StatusRejected:
		return reg, nil
	case StatusPaid:
		return nil, ErrInvalidTransition
	}
	if err := r.DB.Model(reg).Update("payment_status", StatusRejected).Error; err != nil {
		return nil, err
	}
	reg.PaymentStatus = StatusRejected
	return reg, nil
}

func (r *Repository) Delete(id uint) error {
	res := r.DB.Delete(&Registration{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteByEvent(eventID uint) error {
	return r.DB.Where("event_id = ?", eventID).Delete(&Registration{}).Error
}
