package registration

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/kiran026/sports-portal-backend/internal/attachment"
	"github.com/kiran026/sports-portal-backend/internal/auditlog"
	"github.com/kiran026/sports-portal-backend/internal/event"
	"github.com/kiran026/sports-portal-backend/internal/formschema"
	"github.com/kiran026/sports-portal-backend/internal/notification"
	"github.com/kiran026/sports-portal-backend/middleware"
)

type Service struct {
	Repo      *Repository
	EventRepo *event.Repository
	AuditSvc  auditlog.Service
	Actors    ActorProvider
	Files     event.FileStore
}

func NewService(repo *Repository, eventRepo *event.Repository, auditSvc auditlog.Service, actors ActorProvider, files event.FileStore) *Service {
	return &Service{Repo: repo, EventRepo: eventRepo, AuditSvc: auditSvc, Actors: actors, Files: files}
}

// ===========================
// 📝 Submit Registration
//
// The gate runs in a fixed order: event lookup, active flag, window,
// payload validation, then duplicate/capacity/proof atomically under the
// event row lock. The confirmation email is fire-and-forget.
func (s *Service) Submit(ctx context.Context, req *SubmitRequest, userID uint, ip string) (*Registration, error) {
	actor, err := s.Actors.ActorByID(userID)
	if err != nil {
		return nil, err
	}

	ev, err := s.EventRepo.GetEventByID(req.EventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	if err := checkWindow(ev, time.Now()); err != nil {
		s.auditSubmit(ctx, actor.UserID, ev.ID, ip, err)
		return nil, err
	}

	schema, err := formschema.FromJSON(ev.Schema)
	if err != nil {
		return nil, err
	}

	userData := make(map[string]interface{}, len(req.UserData)+len(formschema.LockedFieldIDs))
	for k, v := range req.UserData {
		userData[k] = v
	}
	applyVerifiedIdentity(userData, actor)

	if err := validatePayload(schema, userData); err != nil {
		s.auditSubmit(ctx, actor.UserID, ev.ID, ip, err)
		return nil, err
	}

	rawUserData, err := json.Marshal(userData)
	if err != nil {
		return nil, err
	}

	status := initialStatus(ev)

	reg := &Registration{
		EventID:       ev.ID,
		UserID:        &actor.UserID,
		Email:         actor.Email,
		Gender:        actor.Gender,
		UserData:      datatypes.JSON(rawUserData),
		PaymentStatus: status,
		TransactionID: req.TransactionID,
		PaymentProof:  req.PaymentScreenshotRef,
	}

	if err := s.Repo.AdmitAndCreate(ctx, reg, needsPaymentProof(ev, req)); err != nil {
		s.auditSubmit(ctx, actor.UserID, ev.ID, ip, err)
		return nil, err
	}

	s.AuditSvc.LogAction(ctx, &actor.UserID, &ev.ID, "REGISTRATION_CREATED",
		map[string]interface{}{"registration_id": reg.ID, "payment_status": reg.PaymentStatus}, ip, "success")

	notification.Publish(notification.MailMessage{
		Type:       notification.MailRegistrationConfirmation,
		To:         actor.Email,
		Name:       actor.FullName,
		EventTitle: ev.Title,
		Paid:       ev.IsPaid,
	})

	return reg, nil
}

// initialStatus is the payment status a fresh registration starts in: free
// events are admitted as paid right away, paid events wait for verification.
func initialStatus(ev *event.Event) string {
	if ev.IsPaid {
		return StatusPending
	}
	return StatusPaid
}

func (s *Service) auditSubmit(ctx context.Context, userID, eventID uint, ip string, cause error) {
	s.AuditSvc.LogAction(ctx, &userID, &eventID, "REGISTRATION_CREATED",
		map[string]interface{}{"error": cause.Error()}, ip, "failure")
}

// ===========================
// ✅ Payment Disposition
//
// Approve is idempotent on an already-paid record; reject only succeeds
// from pending. Both notify the registrant by email.
func (s *Service) Disposition(ctx context.Context, req *DispositionRequest, accessContext middleware.AccessContext, ip string) (*Registration, error) {
	if !accessContext.CanWrite() {
		return nil, errors.New("write access denied")
	}

	var (
		reg *Registration
		err error
	)
	action := "REGISTRATION_APPROVED"
	mailType := notification.MailPaymentApproved
	if req.Status == StatusRejected {
		action = "REGISTRATION_REJECTED"
		mailType = notification.MailPaymentRejected
		reg, err = s.Repo.Reject(req.RegistrationID)
	} else {
		reg, err = s.Repo.Approve(req.RegistrationID)
	}
	if err != nil {
		s.AuditSvc.LogAction(ctx, &accessContext.UserID, nil, action,
			map[string]interface{}{"registration_id": req.RegistrationID, "error": err.Error()}, ip, "failure")
		return nil, err
	}

	s.AuditSvc.LogAction(ctx, &accessContext.UserID, &reg.EventID, action,
		map[string]interface{}{"registration_id": reg.ID}, ip, "success")

	eventTitle := ""
	if ev, evErr := s.EventRepo.GetEventByID(reg.EventID); evErr == nil {
		eventTitle = ev.Title
	}
	notification.Publish(notification.MailMessage{
		Type:       mailType,
		To:         reg.Email,
		Name:       registrantName(reg),
		EventTitle: eventTitle,
	})

	return reg, nil
}

func (s *Service) GetByID(id uint) (*Registration, error) {
	return s.Repo.GetByID(id)
}

func (s *Service) ListByEvent(eventID uint, limit, offset int, search string) ([]Registration, int64, error) {
	return s.Repo.ListByEvent(eventID, limit, offset, search)
}

// ===========================
// 🗑 Delete Registration
//
// The record delete is authoritative; file cleanup afterwards is
// best-effort and only logged.
func (s *Service) Delete(ctx context.Context, id uint, accessContext middleware.AccessContext, ip string) error {
	if !accessContext.CanWrite() {
		return errors.New("write access denied")
	}

	reg, err := s.Repo.GetByID(id)
	if err != nil {
		return err
	}

	if err := s.Repo.Delete(id); err != nil {
		return err
	}

	refs := attachment.CollectReferences("", []attachment.Item{
		{UserData: reg.UserData, PaymentProof: reg.PaymentProof},
	})
	if len(refs) > 0 {
		if err := s.Files.Delete(refs); err != nil {
			log.Printf("⚠️ Attachment cleanup after deleting registration %d failed: %v", id, err)
		}
	}

	s.AuditSvc.LogAction(ctx, &accessContext.UserID, &reg.EventID, "REGISTRATION_DELETED",
		map[string]interface{}{"registration_id": id, "attachments_removed": len(refs)}, ip, "success")
	return nil
}

// PurgeByEvent removes every registration of an event and returns the file
// references that belonged to them, including the event's own payment QR.
// Called from the event delete cascade.
func (s *Service) PurgeByEvent(ctx context.Context, ev *event.Event) ([]string, error) {
	regs, err := s.Repo.GetAllByEvent(ev.ID)
	if err != nil {
		return nil, err
	}

	items := make([]attachment.Item, 0, len(regs))
	for _, reg := range regs {
		items = append(items, attachment.Item{UserData: reg.UserData, PaymentProof: reg.PaymentProof})
	}
	refs := attachment.CollectReferences(ev.PaymentQRImage, items)

	if err := s.Repo.DeleteByEvent(ev.ID); err != nil {
		return nil, err
	}
	return refs, nil
}

// registrantName pulls the verified name out of the stored payload.
func registrantName(reg *Registration) string {
	var payload map[string]interface{}
	if err := json.Unmarshal(reg.UserData, &payload); err != nil {
		return ""
	}
	if name, ok := payload[formschema.LockedFieldName].(string); ok {
		return name
	}
	return ""
}
