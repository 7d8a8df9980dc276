package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/kiran026/sports-portal-backend/internal/auditlog"
	"github.com/kiran026/sports-portal-backend/internal/formschema"
	"github.com/kiran026/sports-portal-backend/middleware"
	"github.com/kiran026/sports-portal-backend/utils"
)

const slugCacheTTL = 5 * time.Minute

// RegistrationPurger deletes every registration of an event and returns the
// stored-file references they held (implemented by internal/registration)
type RegistrationPurger interface {
	PurgeByEvent(ctx context.Context, ev *Event) ([]string, error)
}

// FileStore removes stored files; failures must be swallowed by the caller
type FileStore interface {
	Delete(refs []string) error
}

// Service wraps business logic for portal events
type Service struct {
	Repo     *Repository
	AuditSvc auditlog.Service
	Purger   RegistrationPurger
	Files    FileStore
}

func NewService(r *Repository, auditSvc auditlog.Service) *Service {
	return &Service{
		Repo:     r,
		AuditSvc: auditSvc,
	}
}

// ===========================
// 🎯 Create Event
func (s *Service) CreateEvent(req *CreateEventRequest, accessContext middleware.AccessContext, ip string) (*Event, error) {
	if !accessContext.CanWrite() {
		s.AuditSvc.LogAction(context.Background(), &accessContext.UserID, nil, "EVENT_CREATED",
			map[string]interface{}{"title": req.Title, "error": "write access denied"}, ip, "failure")
		return nil, errors.New("write access denied")
	}

	eventDate, err := time.Parse("2006-01-02", req.EventDate)
	if err != nil {
		s.AuditSvc.LogAction(context.Background(), &accessContext.UserID, nil, "EVENT_CREATED",
			map[string]interface{}{"title": req.Title, "error": "invalid event_date format", "event_date": req.EventDate}, ip, "failure")
		return nil, errors.New("invalid event_date format. Use YYYY-MM-DD")
	}

	regStart, err := parseOptionalDateTime(req.RegistrationStartDate)
	if err != nil {
		return nil, errors.New("invalid registration_start_date format")
	}
	regEnd, err := parseOptionalDateTime(req.RegistrationEndDate)
	if err != nil {
		return nil, errors.New("invalid registration_end_date format")
	}
	if regStart != nil && regEnd != nil && regEnd.Before(*regStart) {
		return nil, errors.New("registration_end_date must not be before registration_start_date")
	}

	countType := req.RegistrationCountType
	if countType == "" {
		countType = CountTypeCommon
	}
	if countType != CountTypeCommon && countType != CountTypeSeparate {
		return nil, errors.New("registration_count_type must be 'common' or 'separate'")
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	schemaJSON, err := formschema.ToJSON(formschema.DefaultSchema())
	if err != nil {
		return nil, err
	}

	event := &Event{
		Slug:                   req.Slug,
		Title:                  req.Title,
		Description:            req.Description,
		SportType:              req.SportType,
		Venue:                  req.Venue,
		EventDate:              eventDate,
		RegistrationStartDate:  regStart,
		RegistrationEndDate:    regEnd,
		IsActive:               isActive,
		IsPaid:                 req.IsPaid,
		FeeAmount:              req.FeeAmount,
		PaymentQRImage:         req.PaymentQRImage,
		RegistrationCountType:  countType,
		MaxTotalRegistrations:  req.MaxTotalRegistrations,
		MaxMaleRegistrations:   req.MaxMaleRegistrations,
		MaxFemaleRegistrations: req.MaxFemaleRegistrations,
		Schema:                 schemaJSON,
		CreatedBy:              accessContext.UserID,
	}

	if err := s.Repo.CreateEvent(event); err != nil {
		s.AuditSvc.LogAction(context.Background(), &accessContext.UserID, nil, "EVENT_CREATED",
			map[string]interface{}{"title": req.Title, "slug": req.Slug, "error": err.Error()}, ip, "failure")
		return nil, err
	}

	s.AuditSvc.LogAction(context.Background(), &accessContext.UserID, &event.ID, "EVENT_CREATED",
		map[string]interface{}{
			"event_id":  event.ID,
			"title":     event.Title,
			"slug":      event.Slug,
			"is_paid":   event.IsPaid,
			"is_active": event.IsActive,
		}, ip, "success")

	return event, nil
}

// ===========================
// 🔍 Get Event by ID
func (s *Service) GetEventByID(id uint) (*Event, error) {
	return s.Repo.GetEventByID(id)
}

// ===========================
// 🔍 Get Event by Slug (cached for the public registration page)
func (s *Service) GetEventBySlug(slug string) (*Event, error) {
	cacheKey := "event:slug:" + slug
	if raw, err := utils.CacheGet(cacheKey); err == nil {
		var cached Event
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &cached, nil
		}
	}

	event, err := s.Repo.GetEventBySlug(slug)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(event); err == nil {
		if err := utils.CacheSet(cacheKey, raw, slugCacheTTL); err != nil {
			log.Printf("⚠️ event cache set failed: %v", err)
		}
	}
	return event, nil
}

// ===========================
// 📆 Upcoming Events (public listing)
func (s *Service) GetUpcomingEvents() ([]Event, error) {
	return s.Repo.GetUpcomingEvents()
}

// ===========================
// 📄 List Events with Pagination
func (s *Service) ListEvents(accessContext middleware.AccessContext, limit, offset int, search string) ([]Event, error) {
	if !accessContext.CanRead() {
		return nil, errors.New("read access denied")
	}
	return s.Repo.ListEvents(limit, offset, search)
}

// ===========================
// 📊 Dashboard Stats
func (s *Service) GetEventStats(accessContext middleware.AccessContext) (*EventStatsResponse, error) {
	if !accessContext.CanRead() {
		return nil, errors.New("read access denied")
	}
	return s.Repo.GetEventStats()
}

// ===========================
// 🛠 Update Event
func (s *Service) UpdateEvent(id uint, req *UpdateEventRequest, accessContext middleware.AccessContext, ip string) error {
	if !accessContext.CanWrite() {
		s.AuditSvc.LogAction(context.Background(), &accessContext.UserID, &id, "EVENT_UPDATED",
			map[string]interface{}{"event_id": id, "error": "write access denied"}, ip, "failure")
		return errors.New("write access denied")
	}

	event, err := s.Repo.GetEventByID(id)
	if err != nil {
		s.AuditSvc.LogAction(context.Background(), &accessContext.UserID, &id, "EVENT_UPDATED",
			map[string]interface{}{"event_id": id, "error": "event not found"}, ip, "failure")
		return err
	}

	eventDate, err := time.Parse("2006-01-02", req.EventDate)
	if err != nil {
		return errors.New("invalid event_date format. Use YYYY-MM-DD")
	}
	event.EventDate = eventDate

	regStart, err := parseOptionalDateTime(req.RegistrationStartDate)
	if err != nil {
		return errors.New("invalid registration_start_date format")
	}
	regEnd, err := parseOptionalDateTime(req.RegistrationEndDate)
	if err != nil {
		return errors.New("invalid registration_end_date format")
	}
	if regStart != nil && regEnd != nil && regEnd.Before(*regStart) {
		return errors.New("registration_end_date must not be before registration_start_date")
	}
	event.RegistrationStartDate = regStart
	event.RegistrationEndDate = regEnd

	if req.RegistrationCountType != "" {
		if req.RegistrationCountType != CountTypeCommon && req.RegistrationCountType != CountTypeSeparate {
			return errors.New("registration_count_type must be 'common' or 'separate'")
		}
		event.RegistrationCountType = req.RegistrationCountType
	}

	event.Title = req.Title
	event.Description = req.Description
	event.SportType = req.SportType
	event.Venue = req.Venue
	event.MaxTotalRegistrations = req.MaxTotalRegistrations
	event.MaxMaleRegistrations = req.MaxMaleRegistrations
	event.MaxFemaleRegistrations = req.MaxFemaleRegistrations
	if req.IsActive != nil {
		event.IsActive = *req.IsActive
	}
	if req.IsPaid != nil {
		event.IsPaid = *req.IsPaid
	}
	if req.FeeAmount != nil {
		event.FeeAmount = *req.FeeAmount
	}
	if req.PaymentQRImage != nil {
		event.PaymentQRImage = *req.PaymentQRImage
	}

	if err := s.Repo.UpdateEvent(event); err != nil {
		s.AuditSvc.LogAction(context.Background(), &accessContext.UserID, &id, "EVENT_UPDATED",
			map[string]interface{}{"event_id": id, "error": err.Error()}, ip, "failure")
		return err
	}

	utils.CacheDelete("event:slug:" + event.Slug)

	s.AuditSvc.LogAction(context.Background(), &accessContext.UserID, &id, "EVENT_UPDATED",
		map[string]interface{}{"event_id": event.ID, "title": event.Title}, ip, "success")

	return nil
}

// ===========================
// ❌ Delete Event: cascades to registrations, then cleans up stored files.
// The file cleanup is best-effort: a storage failure is logged, never
// surfaced as a failed delete.
func (s *Service) DeleteEvent(id uint, accessContext middleware.AccessContext, ip string) error {
	if !accessContext.CanWrite() {
		s.AuditSvc.LogAction(context.Background(), &accessContext.UserID, &id, "EVENT_DELETED",
			map[string]interface{}{"event_id": id, "error": "write access denied"}, ip, "failure")
		return errors.New("write access denied")
	}

	event, err := s.Repo.GetEventByID(id)
	if err != nil {
		s.AuditSvc.LogAction(context.Background(), &accessContext.UserID, &id, "EVENT_DELETED",
			map[string]interface{}{"event_id": id, "error": "event not found"}, ip, "failure")
		return err
	}

	var fileRefs []string
	if s.Purger != nil {
		refs, err := s.Purger.PurgeByEvent(context.Background(), event)
		if err != nil {
			s.AuditSvc.LogAction(context.Background(), &accessContext.UserID, &id, "EVENT_DELETED",
				map[string]interface{}{"event_id": id, "error": err.Error()}, ip, "failure")
			return fmt.Errorf("failed to remove registrations: %w", err)
		}
		fileRefs = refs
	}

	if err := s.Repo.DeleteEvent(id); err != nil {
		s.AuditSvc.LogAction(context.Background(), &accessContext.UserID, &id, "EVENT_DELETED",
			map[string]interface{}{"event_id": id, "error": err.Error()}, ip, "failure")
		return err
	}

	utils.CacheDelete("event:slug:" + event.Slug)

	if s.Files != nil && len(fileRefs) > 0 {
		if err := s.Files.Delete(fileRefs); err != nil {
			log.Printf("⚠️ storage cleanup for event %d failed: %v", id, err)
		}
	}

	s.AuditSvc.LogAction(context.Background(), &accessContext.UserID, &id, "EVENT_DELETED",
		map[string]interface{}{
			"event_id":      id,
			"title":         event.Title,
			"files_removed": len(fileRefs),
		}, ip, "success")

	return nil
}

// parseOptionalDateTime accepts "" (nil), date-time or plain date input
func parseOptionalDateTime(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognised date format: %q", v)
}
