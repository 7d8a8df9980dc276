package reports

import (
	"time"
)

// Report types
const (
	ReportTypeRegistrations = "registrations"
	ReportTypeEvents        = "events"
)

// Export formats
const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatPDF   = "pdf"
)

// Date range presets
const (
	DateRangeDaily   = "daily"
	DateRangeWeekly  = "weekly"
	DateRangeMonthly = "monthly"
	DateRangeYearly  = "yearly"
	DateRangeCustom  = "custom"
)

// EventReportRow is one event in the events summary report
type EventReportRow struct {
	ID                uint      `json:"id"`
	Title             string    `json:"title"`
	SportType         string    `json:"sport_type"`
	Venue             string    `json:"venue"`
	EventDate         time.Time `json:"event_date"`
	IsActive          bool      `json:"is_active"`
	IsPaid            bool      `json:"is_paid"`
	RegistrationCount int64     `json:"registration_count"`
	PendingPayments   int64     `json:"pending_payments"`
}

// RegistrationsReport is a fully materialized registrations table for one
// event. Headers carry the event's form labels, so the column set follows
// the organizer's schema.
type RegistrationsReport struct {
	EventID    uint       `json:"event_id"`
	EventTitle string     `json:"event_title"`
	Headers    []string   `json:"headers"`
	Rows       [][]string `json:"rows"`
}

// ReportData carries whichever dataset the requested report needs
type ReportData struct {
	Events        []EventReportRow
	Registrations *RegistrationsReport
}
