package registration

import (
	"fmt"
	"strings"
	"time"

	"github.com/kiran026/sports-portal-backend/internal/event"
	"github.com/kiran026/sports-portal-backend/internal/formschema"
)

// ===========================
// 🚦 Admission gate
//
// Denial reasons are evaluated in a fixed order: inactive event, window not
// open, window closed, duplicate, capacity, missing payment proof. The first
// three are checked here against the clock; duplicate and capacity need the
// database and run inside the submit transaction so the decision is atomic.

// checkWindow enforces the active flag and the registration window.
// Both window boundaries are inclusive.
func checkWindow(ev *event.Event, now time.Time) error {
	if !ev.IsActive {
		return ErrEventInactive
	}
	if ev.RegistrationStartDate != nil && now.Before(*ev.RegistrationStartDate) {
		return ErrTooEarly
	}
	if ev.RegistrationEndDate != nil && now.After(*ev.RegistrationEndDate) {
		return ErrTooLate
	}
	return nil
}

// needsPaymentProof reports whether a paid event's submission is missing
// the transaction ID or the uploaded screenshot reference.
func needsPaymentProof(ev *event.Event, req *SubmitRequest) bool {
	if !ev.IsPaid {
		return false
	}
	return strings.TrimSpace(req.TransactionID) == "" || strings.TrimSpace(req.PaymentScreenshotRef) == ""
}

// MissingFieldsError reports every required form field the payload left
// empty, not just the first one.
type MissingFieldsError struct {
	Labels []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Labels, ", "))
}

// validatePayload checks the submitted answers against the event's form
// schema. Display-only fields (notes, images) never require input.
func validatePayload(schema formschema.Schema, userData map[string]interface{}) error {
	var missing []string
	for _, f := range schema {
		if !f.Required || f.Type.IsDisplay() {
			continue
		}
		v, ok := userData[f.ID]
		if !ok || isEmptyValue(v) {
			missing = append(missing, f.Label)
		}
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Labels: missing}
	}
	return nil
}

func isEmptyValue(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []interface{}:
		return len(t) == 0
	default:
		return false
	}
}

// applyVerifiedIdentity overwrites the locked identity answers with the
// authenticated profile. Whatever the client sent for these fields is
// discarded.
func applyVerifiedIdentity(userData map[string]interface{}, actor Actor) {
	userData[formschema.LockedFieldName] = actor.FullName
	userData[formschema.LockedFieldEmail] = actor.Email
	userData[formschema.LockedFieldMobile] = actor.Mobile
	userData[formschema.LockedFieldProfileImage] = actor.ProfileImage
}
