package reports

import (
	"time"

	"gorm.io/gorm"

	"github.com/kiran026/sports-portal-backend/internal/event"
	"github.com/kiran026/sports-portal-backend/internal/registration"
)

// ReportRepository defines the database operations required by the reports service.
type ReportRepository interface {
	GetEvents(creatorID *uint, start, end time.Time) ([]EventReportRow, error)
	GetEventWithRegistrations(eventID uint) (*event.Event, []registration.Registration, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) ReportRepository {
	return &repository{db: db}
}

// GetEvents returns events in the window with registration totals and pending
// payment counts. creatorID narrows the result to one organizer's events;
// admins pass nil to see everything.
func (r *repository) GetEvents(creatorID *uint, start, end time.Time) ([]EventReportRow, error) {
	var rows []EventReportRow

	query := r.db.Table("events e").
		Select(`e.id, e.title, e.sport_type, e.venue, e.event_date, e.is_active, e.is_paid,
			COUNT(r.id) AS registration_count,
			COUNT(r.id) FILTER (WHERE r.payment_status = 'pending' AND e.is_paid) AS pending_payments`).
		Joins("LEFT JOIN registrations r ON r.event_id = e.id").
		Where("e.event_date BETWEEN ? AND ?", start, end).
		Group("e.id").
		Order("e.event_date ASC")

	if creatorID != nil {
		query = query.Where("e.created_by = ?", *creatorID)
	}

	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) GetEventWithRegistrations(eventID uint) (*event.Event, []registration.Registration, error) {
	var ev event.Event
	if err := r.db.First(&ev, eventID).Error; err != nil {
		return nil, nil, err
	}

	var regs []registration.Registration
	if err := r.db.Where("event_id = ?", eventID).Order("created_at ASC").Find(&regs).Error; err != nil {
		return nil, nil, err
	}
	return &ev, regs, nil
}
