package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/kiran026/sports-portal-backend/internal/auditlog"
	"github.com/kiran026/sports-portal-backend/internal/formschema"
	"github.com/kiran026/sports-portal-backend/internal/registration"
	"github.com/kiran026/sports-portal-backend/middleware"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrForbidden     = errors.New("insufficient permissions for report generation")
)

// ReportService builds and exports the two portal reports: the event summary
// and the per-event registrations sheet with organizer-defined columns.
type ReportService interface {
	EventsReport(ctx context.Context, accessContext middleware.AccessContext, format, dateRange, startStr, endStr, ip string) ([]byte, string, string, error)
	RegistrationsReport(ctx context.Context, accessContext middleware.AccessContext, eventID uint, format, ip string) ([]byte, string, string, error)
}

type reportService struct {
	repo     ReportRepository
	exporter ReportExporter
	auditSvc auditlog.Service
}

func NewService(repo ReportRepository, exporter ReportExporter, auditSvc auditlog.Service) ReportService {
	return &reportService{repo: repo, exporter: exporter, auditSvc: auditSvc}
}

func (s *reportService) EventsReport(ctx context.Context, accessContext middleware.AccessContext, format, dateRange, startStr, endStr, ip string) ([]byte, string, string, error) {
	if !accessContext.CanWrite() {
		return nil, "", "", ErrForbidden
	}

	start, end, err := GetDateRange(dateRange, startStr, endStr)
	if err != nil {
		return nil, "", "", err
	}

	// Organizers only see their own events; admins see the whole portal
	var creatorID *uint
	if !accessContext.IsAdmin() {
		creatorID = &accessContext.UserID
	}

	rows, err := s.repo.GetEvents(creatorID, start, end)
	if err != nil {
		return nil, "", "", err
	}

	data, filename, mimetype, err := s.exporter.Export(ReportTypeEvents, format, ReportData{Events: rows})
	if err != nil {
		return nil, "", "", err
	}

	s.audit(ctx, accessContext.UserID, "EVENTS_REPORT_EXPORTED", nil, ip,
		map[string]interface{}{"format": format, "date_range": dateRange, "row_count": len(rows)})
	return data, filename, mimetype, nil
}

func (s *reportService) RegistrationsReport(ctx context.Context, accessContext middleware.AccessContext, eventID uint, format, ip string) ([]byte, string, string, error) {
	if !accessContext.CanWrite() {
		return nil, "", "", ErrForbidden
	}

	ev, regs, err := s.repo.GetEventWithRegistrations(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", ErrEventNotFound
		}
		return nil, "", "", err
	}
	if !accessContext.IsAdmin() && ev.CreatedBy != accessContext.UserID {
		return nil, "", "", ErrForbidden
	}

	schema, err := formschema.FromJSON(ev.Schema)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to parse event form schema: %w", err)
	}

	report := buildRegistrationsReport(ev.ID, ev.Title, schema, regs)

	data, filename, mimetype, err := s.exporter.Export(ReportTypeRegistrations, format, ReportData{Registrations: report})
	if err != nil {
		return nil, "", "", err
	}

	s.audit(ctx, accessContext.UserID, "REGISTRATIONS_REPORT_EXPORTED", &eventID, ip,
		map[string]interface{}{"format": format, "row_count": len(report.Rows)})
	return data, filename, mimetype, nil
}

// buildRegistrationsReport flattens registrations into a table. The fixed
// columns come first, then one column per custom (non-locked, answerable)
// schema field in the organizer's field order.
func buildRegistrationsReport(eventID uint, eventTitle string, schema formschema.Schema, regs []registration.Registration) *RegistrationsReport {
	headers := []string{"ID", "Full Name", "Email", "Mobile", "Gender", "Payment Status", "Transaction ID", "Registered At"}

	var customFields []formschema.FieldDefinition
	for _, f := range schema {
		if f.Locked || formschema.IsLockedFieldID(f.ID) || f.Type.IsDisplay() {
			continue
		}
		customFields = append(customFields, f)
		headers = append(headers, f.Label)
	}

	rows := make([][]string, 0, len(regs))
	for _, reg := range regs {
		var userData map[string]interface{}
		if err := json.Unmarshal(reg.UserData, &userData); err != nil {
			log.Printf("⚠️ Skipping registration %d with malformed payload in report for event %d", reg.ID, eventID)
			continue
		}

		row := []string{
			strconv.FormatUint(uint64(reg.ID), 10),
			stringValue(userData[formschema.LockedFieldName]),
			reg.Email,
			stringValue(userData[formschema.LockedFieldMobile]),
			reg.Gender,
			reg.PaymentStatus,
			reg.TransactionID,
			reg.CreatedAt.Format(time.RFC3339),
		}
		for _, f := range customFields {
			row = append(row, stringValue(userData[f.ID]))
		}
		rows = append(rows, row)
	}

	return &RegistrationsReport{
		EventID:    eventID,
		EventTitle: eventTitle,
		Headers:    headers,
		Rows:       rows,
	}
}

// stringValue renders a form answer for a report cell. Multi-select answers
// arrive as JSON arrays and are joined with ", ".
func stringValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []interface{}:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, stringValue(item))
		}
		return strings.Join(parts, ", ")
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func (s *reportService) audit(ctx context.Context, userID uint, action string, eventID *uint, ip string, details map[string]interface{}) {
	if s.auditSvc == nil {
		return
	}
	if err := s.auditSvc.LogAction(ctx, &userID, eventID, action, details, ip, "success"); err != nil {
		log.Printf("⚠️ Failed to write audit log for %s: %v", action, err)
	}
}
