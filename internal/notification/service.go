package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/kiran026/sports-portal-backend/utils"
)

// ===========================
// 📨 Mail pipeline
//
// Registration and lifecycle emails flow through Kafka: the producing side
// never blocks or fails a request on mail problems, the consuming side
// retries by way of consumer-group offsets and records every delivery
// attempt in the mail log.

type Service struct {
	Repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{Repo: repo}
}

// Publish enqueues a mail message. Errors are logged, never returned: a
// broker outage must not fail the request that triggered the email.
func Publish(msg MailMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		log.Printf("❌ Failed to encode mail message for %s: %v", msg.To, err)
		return
	}
	if err := utils.PublishMessage(msg.To, payload); err != nil {
		log.Printf("⚠️ Failed to enqueue %s email for %s: %v", msg.Type, msg.To, err)
	}
}

// StartKafkaConsumer runs the mail consumer loop until ctx is cancelled.
// Call it from a goroutine at startup.
func (s *Service) StartKafkaConsumer(ctx context.Context) {
	reader := utils.NewMailReader()
	defer reader.Close()

	log.Println("🔄 Mail consumer started")
	for {
		m, err := reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				log.Println("✅ Mail consumer stopped")
				return
			}
			log.Printf("⚠️ Mail consumer read error: %v", err)
			continue
		}

		var msg MailMessage
		if err := json.Unmarshal(m.Value, &msg); err != nil {
			log.Printf("❌ Dropping malformed mail message at offset %d: %v", m.Offset, err)
			continue
		}

		s.deliver(ctx, msg)
	}
}

func (s *Service) deliver(ctx context.Context, msg MailMessage) {
	var err error
	var subject string

	switch msg.Type {
	case MailRegistrationConfirmation:
		subject = fmt.Sprintf("Registration received: %s", msg.EventTitle)
		err = utils.SendRegistrationConfirmation(msg.To, msg.Name, msg.EventTitle, msg.Paid)
	case MailPaymentApproved:
		subject = fmt.Sprintf("Payment verified: %s", msg.EventTitle)
		err = utils.SendPaymentApprovedEmail(msg.To, msg.Name, msg.EventTitle)
	case MailPaymentRejected:
		subject = fmt.Sprintf("Payment rejected: %s", msg.EventTitle)
		err = utils.SendPaymentRejectedEmail(msg.To, msg.Name, msg.EventTitle)
	default:
		log.Printf("❌ Unknown mail message type %q for %s", msg.Type, msg.To)
		return
	}

	entry := &MailLog{
		Recipient: msg.To,
		Type:      msg.Type,
		Subject:   subject,
		Status:    "sent",
	}
	if err != nil {
		log.Printf("❌ Failed to send %s email to %s: %v", msg.Type, msg.To, err)
		entry.Status = "failed"
		errText := err.Error()
		entry.Error = &errText
	} else {
		log.Printf("✅ Sent %s email to %s", msg.Type, msg.To)
	}

	if logErr := s.Repo.CreateMailLog(ctx, entry); logErr != nil {
		log.Printf("⚠️ Failed to record mail log for %s: %v", msg.To, logErr)
	}
}
