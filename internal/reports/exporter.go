package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// ReportExporter defines the interface for exporting reports in different formats
type ReportExporter interface {
	Export(reportType, format string, data ReportData) ([]byte, string, string, error)
}

type reportExporter struct{}

func NewReportExporter() ReportExporter {
	return &reportExporter{}
}

func (e *reportExporter) Export(reportType, format string, data ReportData) ([]byte, string, string, error) {
	timestamp := time.Now().Format("20060102_150405")

	switch reportType {
	case ReportTypeEvents:
		return e.exportEventsByFormat(format, timestamp, data.Events)

	case ReportTypeRegistrations:
		if data.Registrations == nil {
			return nil, "", "", fmt.Errorf("registrations report has no data")
		}
		return e.exportRegistrationsByFormat(format, timestamp, data.Registrations)

	default:
		return nil, "", "", fmt.Errorf("unsupported report type: %s", reportType)
	}
}

//// ============================
/// REGISTRATIONS EXPORTS
//// ============================

func (e *reportExporter) exportRegistrationsByFormat(format, timestamp string, report *RegistrationsReport) ([]byte, string, string, error) {
	switch format {
	case FormatExcel:
		data, err := e.exportRegistrationsExcel(report)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("registrations_event_%d_%s.xlsx", report.EventID, timestamp)
		return data, filename, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil

	case FormatCSV:
		data, err := e.exportRegistrationsCSV(report)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("registrations_event_%d_%s.csv", report.EventID, timestamp)
		return data, filename, "text/csv", nil

	case FormatPDF:
		data, err := e.exportRegistrationsPDF(report)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("registrations_event_%d_%s.pdf", report.EventID, timestamp)
		return data, filename, "application/pdf", nil

	default:
		return nil, "", "", fmt.Errorf("unsupported format for registrations: %s", format)
	}
}

func (e *reportExporter) exportRegistrationsCSV(report *RegistrationsReport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(report.Headers); err != nil {
		return nil, err
	}
	for _, row := range report.Rows {
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (e *reportExporter) exportRegistrationsExcel(report *RegistrationsReport) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Registrations"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	for i, h := range report.Headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, h)
	}

	for rIdx, row := range report.Rows {
		for cIdx, value := range row {
			cell, err := excelize.CoordinatesToCellName(cIdx+1, rIdx+2)
			if err != nil {
				return nil, err
			}
			f.SetCellValue(sheet, cell, value)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *reportExporter) exportRegistrationsPDF(report *RegistrationsReport) ([]byte, error) {
	// Landscape: organizer-defined schemas can carry many columns
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, fmt.Sprintf("Registrations: %s", report.EventTitle))
	pdf.Ln(10)

	pageWidth, _ := pdf.GetPageSize()
	usable := pageWidth - 20
	colWidth := usable / float64(len(report.Headers))
	if colWidth > 60 {
		colWidth = 60
	}

	pdf.SetFont("Arial", "B", 8)
	for _, h := range report.Headers {
		pdf.CellFormat(colWidth, 7, truncate(h, 28), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range report.Rows {
		for _, value := range row {
			pdf.CellFormat(colWidth, 6, truncate(value, 28), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

//// ============================
/// EVENTS EXPORTS
//// ============================

func (e *reportExporter) exportEventsByFormat(format, timestamp string, events []EventReportRow) ([]byte, string, string, error) {
	switch format {
	case FormatExcel:
		data, err := e.exportEventsExcel(events)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("events_report_%s.xlsx", timestamp)
		return data, filename, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil

	case FormatCSV:
		data, err := e.exportEventsCSV(events)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("events_report_%s.csv", timestamp)
		return data, filename, "text/csv", nil

	case FormatPDF:
		data, err := e.exportEventsPDF(events)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("events_report_%s.pdf", timestamp)
		return data, filename, "application/pdf", nil

	default:
		return nil, "", "", fmt.Errorf("unsupported format for events: %s", format)
	}
}

var eventHeaders = []string{"ID", "Title", "Sport", "Venue", "Event Date", "Active", "Paid", "Registrations", "Pending Payments"}

func eventRecord(ev EventReportRow) []string {
	return []string{
		strconv.FormatUint(uint64(ev.ID), 10),
		ev.Title,
		ev.SportType,
		ev.Venue,
		ev.EventDate.Format("2006-01-02"),
		strconv.FormatBool(ev.IsActive),
		strconv.FormatBool(ev.IsPaid),
		strconv.FormatInt(ev.RegistrationCount, 10),
		strconv.FormatInt(ev.PendingPayments, 10),
	}
}

func (e *reportExporter) exportEventsCSV(events []EventReportRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(eventHeaders); err != nil {
		return nil, err
	}
	for _, ev := range events {
		if err := writer.Write(eventRecord(ev)); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *reportExporter) exportEventsExcel(events []EventReportRow) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Events"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	for i, h := range eventHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, h)
	}

	for rIdx, ev := range events {
		for cIdx, value := range eventRecord(ev) {
			cell, err := excelize.CoordinatesToCellName(cIdx+1, rIdx+2)
			if err != nil {
				return nil, err
			}
			f.SetCellValue(sheet, cell, value)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *reportExporter) exportEventsPDF(events []EventReportRow) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Events Report")
	pdf.Ln(10)

	widths := []float64{15, 60, 30, 45, 25, 18, 18, 28, 32}

	pdf.SetFont("Arial", "B", 9)
	for i, h := range eventHeaders {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, ev := range events {
		record := eventRecord(ev)
		for i, value := range record {
			align := "L"
			if i == 0 || i >= 4 {
				align = "C"
			}
			pdf.CellFormat(widths[i], 6, truncate(value, 34), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
