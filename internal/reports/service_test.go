package reports

import (
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/kiran026/sports-portal-backend/internal/formschema"
	"github.com/kiran026/sports-portal-backend/internal/registration"
)

func TestBuildRegistrationsReportUsesSchemaColumns(t *testing.T) {
	s := formschema.DefaultSchema()
	s, _ = formschema.AddField(s, formschema.FieldText)
	s[len(s)-1].Label = "Team Name"
	teamID := s[len(s)-1].ID
	s, _ = formschema.AddField(s, formschema.FieldCheckbox)
	s[len(s)-1].Label = "Categories"
	categoriesID := s[len(s)-1].ID
	s, _ = formschema.AddField(s, formschema.FieldNote)
	s[len(s)-1].Content = "Bring your ID card" // display-only, no column

	userID := uint(7)
	regs := []registration.Registration{
		{
			ID:            1,
			EventID:       3,
			UserID:        &userID,
			Email:         "asha@example.com",
			Gender:        "female",
			PaymentStatus: registration.StatusPaid,
			TransactionID: "TXN42",
			UserData: datatypes.JSON(`{
				"full_name": "Asha Rao",
				"mobile": "9876543210",
				"` + teamID + `": "Strikers",
				"` + categoriesID + `": ["U-19", "Open"]
			}`),
			CreatedAt: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:       2,
			EventID:  3,
			Email:    "broken@example.com",
			UserData: datatypes.JSON(`{not json`),
		},
	}

	report := buildRegistrationsReport(3, "Spring Cup", s, regs)

	wantHeaders := []string{
		"ID", "Full Name", "Email", "Mobile", "Gender",
		"Payment Status", "Transaction ID", "Registered At",
		"Team Name", "Categories",
	}
	if len(report.Headers) != len(wantHeaders) {
		t.Fatalf("headers = %v, want %v", report.Headers, wantHeaders)
	}
	for i, h := range wantHeaders {
		if report.Headers[i] != h {
			t.Errorf("header[%d] = %q, want %q", i, report.Headers[i], h)
		}
	}

	// the malformed registration is skipped, not fatal
	if len(report.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(report.Rows))
	}
	row := report.Rows[0]
	if row[1] != "Asha Rao" || row[2] != "asha@example.com" || row[5] != registration.StatusPaid {
		t.Errorf("fixed columns wrong: %v", row)
	}
	if row[8] != "Strikers" {
		t.Errorf("custom column = %q, want %q", row[8], "Strikers")
	}
	if row[9] != "U-19, Open" {
		t.Errorf("multi-select column = %q, want %q", row[9], "U-19, Open")
	}
}

func TestStringValue(t *testing.T) {
	cases := []struct {
		in   interface{}
		want string
	}{
		{nil, ""},
		{"plain", "plain"},
		{[]interface{}{"a", "b"}, "a, b"},
		{float64(17), "17"},
		{float64(3.5), "3.5"},
		{true, "true"},
	}
	for _, tc := range cases {
		if got := stringValue(tc.in); got != tc.want {
			t.Errorf("stringValue(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestGetDateRangeCustom(t *testing.T) {
	start, end, err := GetDateRange(DateRangeCustom, "2026-03-01", "2026-03-10")
	if err != nil {
		t.Fatalf("custom range: %v", err)
	}
	if !start.Before(end) {
		t.Errorf("start %v should precede end %v", start, end)
	}
	if end.Sub(start) < 9*24*time.Hour {
		t.Errorf("end day should be included, got span %v", end.Sub(start))
	}

	if _, _, err := GetDateRange(DateRangeCustom, "", ""); err == nil {
		t.Error("custom range without dates should fail")
	}
	if _, _, err := GetDateRange(DateRangeCustom, "2026-03-10", "2026-03-01"); err == nil {
		t.Error("inverted range should fail")
	}

	// unknown presets fall back to the weekly window
	start, end, err = GetDateRange("fortnightly", "", "")
	if err != nil {
		t.Fatalf("fallback range: %v", err)
	}
	if end.Sub(start) > 8*24*time.Hour {
		t.Errorf("fallback should be about a week, got %v", end.Sub(start))
	}
}
