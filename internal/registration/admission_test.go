package registration

import (
	"errors"
	"testing"
	"time"

	"github.com/kiran026/sports-portal-backend/internal/event"
	"github.com/kiran026/sports-portal-backend/internal/formschema"
)

func TestCheckWindow(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)

	ev := &event.Event{
		IsActive:              true,
		RegistrationStartDate: &start,
		RegistrationEndDate:   &end,
	}

	cases := []struct {
		name string
		now  time.Time
		want error
	}{
		{"before start", start.Add(-time.Minute), ErrTooEarly},
		{"exactly at start", start, nil},
		{"mid window", start.AddDate(0, 0, 3), nil},
		{"exactly at end", end, nil},
		{"after end", end.Add(time.Second), ErrTooLate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := checkWindow(ev, tc.now); !errors.Is(err, tc.want) && err != tc.want {
				t.Errorf("checkWindow at %v: got %v, want %v", tc.now, err, tc.want)
			}
		})
	}

	inactive := &event.Event{IsActive: false, RegistrationStartDate: &start, RegistrationEndDate: &end}
	if err := checkWindow(inactive, start.AddDate(0, 0, 3)); !errors.Is(err, ErrEventInactive) {
		t.Errorf("inactive event: got %v, want ErrEventInactive", err)
	}

	// no window configured: always open while active
	open := &event.Event{IsActive: true}
	if err := checkWindow(open, time.Now()); err != nil {
		t.Errorf("event without window should admit, got %v", err)
	}
}

func TestNeedsPaymentProof(t *testing.T) {
	free := &event.Event{IsPaid: false}
	if needsPaymentProof(free, &SubmitRequest{}) {
		t.Error("free event should never require payment proof")
	}

	paid := &event.Event{IsPaid: true}
	cases := []struct {
		name string
		req  SubmitRequest
		want bool
	}{
		{"both missing", SubmitRequest{}, true},
		{"only transaction id", SubmitRequest{TransactionID: "TXN123"}, true},
		{"only screenshot", SubmitRequest{PaymentScreenshotRef: "/uploads/proofs/a.png"}, true},
		{"whitespace transaction id", SubmitRequest{TransactionID: "   ", PaymentScreenshotRef: "/uploads/proofs/a.png"}, true},
		{"both present", SubmitRequest{TransactionID: "TXN123", PaymentScreenshotRef: "/uploads/proofs/a.png"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := needsPaymentProof(paid, &tc.req); got != tc.want {
				t.Errorf("needsPaymentProof: got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestValidatePayloadListsEveryMissingField(t *testing.T) {
	s := formschema.DefaultSchema()
	s, _ = formschema.AddField(s, formschema.FieldText)
	s[len(s)-1].Label = "Team Name"
	s[len(s)-1].Required = true
	s, _ = formschema.AddField(s, formschema.FieldCheckbox)
	s[len(s)-1].Label = "Categories"
	s[len(s)-1].Required = true
	s, _ = formschema.AddField(s, formschema.FieldText)
	s[len(s)-1].Label = "Coach Name" // optional
	s, _ = formschema.AddField(s, formschema.FieldNote)
	s[len(s)-1].Label = "Rules"
	s[len(s)-1].Required = true // display fields never require answers

	userData := map[string]interface{}{
		formschema.LockedFieldName:         "Asha Rao",
		formschema.LockedFieldEmail:        "asha@example.com",
		formschema.LockedFieldMobile:       "9876543210",
		formschema.LockedFieldProfileImage: "/uploads/profiles/asha.png",
	}

	err := validatePayload(s, userData)
	if err == nil {
		t.Fatal("expected missing-fields error")
	}
	var merr *MissingFieldsError
	if !errors.As(err, &merr) {
		t.Fatalf("expected *MissingFieldsError, got %T", err)
	}
	if len(merr.Labels) != 2 {
		t.Fatalf("expected 2 missing labels, got %v", merr.Labels)
	}
	for _, want := range []string{"Team Name", "Categories"} {
		found := false
		for _, got := range merr.Labels {
			if got == want {
				found = true
			}
		}
		if !found {
			t.Errorf("missing list should contain %q, got %v", want, merr.Labels)
		}
	}

	var teamID, categoriesID string
	for _, f := range s {
		switch f.Label {
		case "Team Name":
			teamID = f.ID
		case "Categories":
			categoriesID = f.ID
		}
	}

	// empty answers count as missing
	userData[teamID] = "  "
	userData[categoriesID] = []interface{}{}
	if err := validatePayload(s, userData); err == nil {
		t.Error("blank string and empty list should still be missing")
	}

	// filled answers pass
	userData[teamID] = "Strikers"
	userData[categoriesID] = []interface{}{"U-19"}
	if err := validatePayload(s, userData); err != nil {
		t.Errorf("complete payload should validate, got %v", err)
	}
}

func TestApplyVerifiedIdentityOverridesClientValues(t *testing.T) {
	userData := map[string]interface{}{
		formschema.LockedFieldName:   "Forged Name",
		formschema.LockedFieldEmail:  "attacker@example.com",
		formschema.LockedFieldMobile: "0000000000",
		"custom_field":               "keep me",
	}

	actor := Actor{
		UserID:       7,
		FullName:     "Asha Rao",
		Email:        "asha@example.com",
		Mobile:       "9876543210",
		Gender:       "female",
		ProfileImage: "/uploads/profiles/asha.png",
	}
	applyVerifiedIdentity(userData, actor)

	if userData[formschema.LockedFieldName] != "Asha Rao" {
		t.Errorf("full name not overwritten: %v", userData[formschema.LockedFieldName])
	}
	if userData[formschema.LockedFieldEmail] != "asha@example.com" {
		t.Errorf("email not overwritten: %v", userData[formschema.LockedFieldEmail])
	}
	if userData[formschema.LockedFieldMobile] != "9876543210" {
		t.Errorf("mobile not overwritten: %v", userData[formschema.LockedFieldMobile])
	}
	if userData[formschema.LockedFieldProfileImage] != "/uploads/profiles/asha.png" {
		t.Errorf("profile image not set: %v", userData[formschema.LockedFieldProfileImage])
	}
	if userData["custom_field"] != "keep me" {
		t.Error("custom answers must be left alone")
	}
}
