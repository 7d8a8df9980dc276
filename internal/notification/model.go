package notification

import (
	"time"
)

// Mail message kinds carried over Kafka
const (
	MailRegistrationConfirmation = "registration_confirmation"
	MailPaymentApproved          = "payment_approved"
	MailPaymentRejected          = "payment_rejected"
)

// MailMessage is the payload produced to the registration-emails topic.
// Producers fire and forget; the consumer owns delivery and logging.
type MailMessage struct {
	Type       string `json:"type"`
	To         string `json:"to"`
	Name       string `json:"name"`
	EventTitle string `json:"event_title"`
	Paid       bool   `json:"paid"`
}

// MailLog - each actual email delivery attempt
type MailLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Recipient string    `gorm:"size:255;not null;index" json:"recipient"`
	Type      string    `gorm:"size:40;not null" json:"type"`
	Subject   string    `gorm:"size:255" json:"subject"`
	Status    string    `gorm:"size:20;default:'sent'" json:"status"` // sent, failed
	Error     *string   `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
