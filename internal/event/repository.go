package event

import (
	"time"

	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// ===========================
// 🎯 Create Event
func (r *Repository) CreateEvent(e *Event) error {
	return r.DB.Create(e).Error
}

// ===========================
// 🔍 Get Event By ID with registration count
func (r *Repository) GetEventByID(id uint) (*Event, error) {
	var e Event
	err := r.DB.First(&e, id).Error
	if err != nil {
		return nil, err
	}

	var count int64
	err = r.DB.Table("registrations").
		Where("event_id = ?", id).
		Count(&count).Error
	if err != nil {
		return nil, err
	}

	e.RegistrationCount = int(count)
	return &e, nil
}

// ===========================
// 🔍 Get Event By Slug (public page lookup)
func (r *Repository) GetEventBySlug(slug string) (*Event, error) {
	var e Event
	err := r.DB.Where("slug = ?", slug).First(&e).Error
	if err != nil {
		return nil, err
	}

	var count int64
	if err := r.DB.Table("registrations").Where("event_id = ?", e.ID).Count(&count).Error; err != nil {
		return nil, err
	}
	e.RegistrationCount = int(count)
	return &e, nil
}

// ===========================
// 📆 Get Upcoming Events
func (r *Repository) GetUpcomingEvents() ([]Event, error) {
	var events []Event

	err := r.DB.
		Where("event_date >= CURRENT_DATE - INTERVAL '7 day' AND is_active = TRUE").
		Order("event_date ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	for i := range events {
		var count int64
		r.DB.Table("registrations").Where("event_id = ?", events[i].ID).Count(&count)
		events[i].RegistrationCount = int(count)
	}

	return events, nil
}

// ===========================
// 📄 List Events With Pagination & Search
func (r *Repository) ListEvents(limit, offset int, search string) ([]Event, error) {
	var events []Event

	query := r.DB.Model(&Event{})

	if search != "" {
		ilike := "%" + search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ? OR sport_type ILIKE ?", ilike, ilike, ilike)
	}

	err := query.
		Order("event_date ASC").
		Limit(limit).
		Offset(offset).
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	for i := range events {
		var count int64
		r.DB.Table("registrations").Where("event_id = ?", events[i].ID).Count(&count)
		events[i].RegistrationCount = int(count)
	}

	return events, nil
}

// ===========================
// 🛠 Update Event
func (r *Repository) UpdateEvent(e *Event) error {
	return r.DB.Save(e).Error
}

// UpdateSchema writes only the schema column; last writer wins at
// field-list granularity
func (r *Repository) UpdateSchema(id uint, schema interface{}) error {
	return r.DB.Model(&Event{}).Where("id = ?", id).Update("schema", schema).Error
}

// ===========================
// ❌ Delete Event (registrations are purged first by the service)
func (r *Repository) DeleteEvent(id uint) error {
	return r.DB.Delete(&Event{}, id).Error
}

// ===========================
// 🔢 Count Registrations for an Event
func (r *Repository) CountRegistrations(eventID uint) (int, error) {
	var count int64
	err := r.DB.Table("registrations").
		Where("event_id = ?", eventID).
		Count(&count).Error
	return int(count), err
}

// ===========================
// 📊 Event Dashboard Stats
type EventStatsResponse struct {
	TotalEvents        int `json:"total_events"`
	ThisMonthEvents    int `json:"this_month_events"`
	UpcomingEvents     int `json:"upcoming_events"`
	TotalRegistrations int `json:"total_registrations"`
	PendingPayments    int `json:"pending_payments"`
}

func (r *Repository) GetEventStats() (*EventStatsResponse, error) {
	var stats EventStatsResponse
	var total, thisMonth, upcoming, totalRegs, pending int64

	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	r.DB.Model(&Event{}).Count(&total)

	r.DB.Model(&Event{}).
		Where("event_date >= ?", startOfMonth).
		Count(&thisMonth)

	r.DB.Model(&Event{}).
		Where("event_date >= CURRENT_DATE").
		Count(&upcoming)

	r.DB.Table("registrations").Count(&totalRegs)

	r.DB.Table("registrations").
		Where("payment_status = ?", "pending").
		Count(&pending)

	stats.TotalEvents = int(total)
	stats.ThisMonthEvents = int(thisMonth)
	stats.UpcomingEvents = int(upcoming)
	stats.TotalRegistrations = int(totalRegs)
	stats.PendingPayments = int(pending)

	return &stats, nil
}
