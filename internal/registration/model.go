package registration

import (
	"errors"
	"time"

	"gorm.io/datatypes"
)

// ===========================
// 🎟️ Registration Model

const (
	StatusPending  = "pending"
	StatusPaid     = "paid"
	StatusRejected = "rejected"
)

// Admission and lifecycle failures. Handlers map these onto HTTP statuses,
// so the messages are written for the registrant, not the operator.
var (
	ErrEventNotFound        = errors.New("event not found")
	ErrEventInactive        = errors.New("registration is disabled for this event")
	ErrTooEarly             = errors.New("registration has not opened yet")
	ErrTooLate              = errors.New("registration is closed")
	ErrAlreadyRegistered    = errors.New("you have already registered for this event")
	ErrCapacityReached      = errors.New("registration limit reached for this event")
	ErrPaymentProofRequired = errors.New("transaction ID and payment screenshot are required for paid events")
	ErrProfileIncomplete    = errors.New("please complete your profile (gender is required) before registering")
	ErrNotFound             = errors.New("registration not found")
	ErrInvalidTransition    = errors.New("registration has already been processed")
)

// Identity columns (user id, email, gender) are promoted out of the form
// payload so uniqueness and quota queries hit indexed columns instead of
// scanning JSONB.
type Registration struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	EventID       uint           `gorm:"not null;index" json:"event_id"`
	UserID        *uint          `gorm:"index" json:"user_id,omitempty"`
	Email         string         `gorm:"size:255;index" json:"email"`
	Gender        string         `gorm:"size:20" json:"gender"`
	UserData      datatypes.JSON `gorm:"type:jsonb" json:"user_data"`
	PaymentStatus string         `gorm:"size:20;default:'pending';index" json:"payment_status"`
	TransactionID string         `gorm:"size:100" json:"transaction_id,omitempty"`
	PaymentProof  string         `gorm:"size:512" json:"payment_proof,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

func (Registration) TableName() string {
	return "registrations"
}

// Actor is the authenticated registrant's verified profile. Locked form
// fields are always filled from here, never from the submitted payload.
type Actor struct {
	UserID       uint
	FullName     string
	Email        string
	Mobile       string
	Gender       string
	ProfileImage string
}

// ActorProvider resolves the verified profile for the authenticated user.
type ActorProvider interface {
	ActorByID(userID uint) (Actor, error)
}

// ===========================
// 📥 Requests / Responses

type SubmitRequest struct {
	EventID              uint                   `json:"eventId" binding:"required"`
	UserData             map[string]interface{} `json:"userData" binding:"required"`
	TransactionID        string                 `json:"transactionId"`
	PaymentScreenshotRef string                 `json:"paymentScreenshotRef"`
}

type SubmitResponse struct {
	Success        bool `json:"success"`
	RegistrationID uint `json:"registrationId"`
}

type DispositionRequest struct {
	RegistrationID uint   `json:"registrationId" binding:"required"`
	Status         string `json:"status" binding:"required,oneof=paid rejected"`
}
