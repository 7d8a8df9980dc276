package event

import (
	"time"

	"gorm.io/datatypes"
)

// Registration count modes
const (
	CountTypeCommon   = "common"
	CountTypeSeparate = "separate"
)

// ============================
// 🔷 GORM Event Model
type Event struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Slug        string `gorm:"type:varchar(120);uniqueIndex;not null" json:"slug"`
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	SportType   string `gorm:"type:varchar(100)" json:"sport_type"`
	Venue       string `gorm:"type:text" json:"venue"`

	EventDate             time.Time  `gorm:"not null;index" json:"event_date"`
	RegistrationStartDate *time.Time `json:"registration_start_date,omitempty"`
	RegistrationEndDate   *time.Time `json:"registration_end_date,omitempty"`

	IsActive bool `gorm:"default:true" json:"is_active"`
	IsPaid   bool `gorm:"default:false" json:"is_paid"`

	// Shown to registrants of paid events; collected on event deletion
	FeeAmount      float64 `gorm:"default:0" json:"fee_amount"`
	PaymentQRImage string  `gorm:"type:text" json:"payment_qr_image,omitempty"`

	RegistrationCountType  string `gorm:"type:varchar(20);default:'common'" json:"registration_count_type"`
	MaxTotalRegistrations  *int   `json:"max_total_registrations,omitempty"`
	MaxMaleRegistrations   *int   `json:"max_male_registrations,omitempty"`
	MaxFemaleRegistrations *int   `json:"max_female_registrations,omitempty"`

	// Ordered field list, see internal/formschema
	Schema datatypes.JSON `gorm:"type:jsonb" json:"schema"`

	CreatedBy uint      `gorm:"not null" json:"created_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	RegistrationCount int `gorm:"-" json:"registration_count"`
}

// ============================
// 🟡 Create Event Request
type CreateEventRequest struct {
	Slug        string `json:"slug" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	SportType   string `json:"sport_type"`
	Venue       string `json:"venue"`

	EventDate             string `json:"event_date" binding:"required"` // "2006-01-02"
	RegistrationStartDate string `json:"registration_start_date,omitempty"`
	RegistrationEndDate   string `json:"registration_end_date,omitempty"`

	IsActive *bool `json:"is_active,omitempty"`
	IsPaid   bool  `json:"is_paid"`

	FeeAmount      float64 `json:"fee_amount"`
	PaymentQRImage string  `json:"payment_qr_image"`

	RegistrationCountType  string `json:"registration_count_type"`
	MaxTotalRegistrations  *int   `json:"max_total_registrations"`
	MaxMaleRegistrations   *int   `json:"max_male_registrations"`
	MaxFemaleRegistrations *int   `json:"max_female_registrations"`
}

// ============================
// 🟠 Update Event Request
type UpdateEventRequest struct {
	ID          uint   `json:"-"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	SportType   string `json:"sport_type"`
	Venue       string `json:"venue"`

	EventDate             string `json:"event_date" binding:"required"`
	RegistrationStartDate string `json:"registration_start_date,omitempty"`
	RegistrationEndDate   string `json:"registration_end_date,omitempty"`

	IsActive *bool `json:"is_active,omitempty"`
	IsPaid   *bool `json:"is_paid,omitempty"`

	FeeAmount      *float64 `json:"fee_amount,omitempty"`
	PaymentQRImage *string  `json:"payment_qr_image,omitempty"`

	RegistrationCountType  string `json:"registration_count_type"`
	MaxTotalRegistrations  *int   `json:"max_total_registrations"`
	MaxMaleRegistrations   *int   `json:"max_male_registrations"`
	MaxFemaleRegistrations *int   `json:"max_female_registrations"`
}

// ============================
// 🧾 Schema edit requests
type AddFieldRequest struct {
	Type string `json:"type" binding:"required"`
}

type MoveFieldRequest struct {
	Direction string `json:"direction" binding:"required,oneof=up down"`
}

// UpdateFieldRequest patches one field; nil means "leave unchanged".
// A non-nil Type triggers a retype.
type UpdateFieldRequest struct {
	Type          *string   `json:"type,omitempty"`
	Label         *string   `json:"label,omitempty"`
	Required      *bool     `json:"required,omitempty"`
	Options       *[]string `json:"options,omitempty"`
	AcceptedTypes *[]string `json:"acceptedTypes,omitempty"`
	MaxFileSize   *int      `json:"maxFileSize,omitempty"`
	HelpText      *string   `json:"helpText,omitempty"`
	Content       *string   `json:"content,omitempty"`
	ImageURL      *string   `json:"imageUrl,omitempty"`
}
