package registration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/kiran026/sports-portal-backend/internal/event"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&event.Event{}, &Registration{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedEvent(t *testing.T, db *gorm.DB, ev *event.Event) {
	t.Helper()
	if ev.Slug == "" {
		ev.Slug = "annual-meet"
	}
	if ev.Title == "" {
		ev.Title = "Annual Meet"
	}
	if ev.EventDate.IsZero() {
		ev.EventDate = time.Now().AddDate(0, 1, 0)
	}
	ev.IsActive = true
	if ev.CreatedBy == 0 {
		ev.CreatedBy = 1
	}
	if err := db.Create(ev).Error; err != nil {
		t.Fatalf("seed event: %v", err)
	}
}

func intPtr(n int) *int { return &n }

func admit(t *testing.T, r *Repository, eventID uint, email, gender string) {
	t.Helper()
	reg := &Registration{EventID: eventID, Email: email, Gender: gender, PaymentStatus: StatusPaid}
	if err := r.AdmitAndCreate(context.Background(), reg, false); err != nil {
		t.Fatalf("admit %s: %v", email, err)
	}
}

func TestAdmitCommonCapacity(t *testing.T) {
	db := newTestDB(t)
	r := NewRepository(db)
	seedEvent(t, db, &event.Event{ID: 1, RegistrationCountType: event.CountTypeCommon, MaxTotalRegistrations: intPtr(2)})

	admit(t, r, 1, "first@x.com", "male")
	admit(t, r, 1, "second@x.com", "female")

	err := r.AdmitAndCreate(context.Background(), &Registration{EventID: 1, Email: "third@x.com", Gender: "male"}, false)
	if !errors.Is(err, ErrCapacityReached) {
		t.Fatalf("expected ErrCapacityReached once the total limit is hit, got %v", err)
	}
}

func TestAdmitSeparateQuotasIndependent(t *testing.T) {
	db := newTestDB(t)
	r := NewRepository(db)
	seedEvent(t, db, &event.Event{
		ID:                     1,
		RegistrationCountType:  event.CountTypeSeparate,
		MaxMaleRegistrations:   intPtr(1),
		MaxFemaleRegistrations: intPtr(2),
	})

	admit(t, r, 1, "m1@x.com", "male")

	// male bucket is full, second male is turned away
	err := r.AdmitAndCreate(context.Background(), &Registration{EventID: 1, Email: "m2@x.com", Gender: "male"}, false)
	if !errors.Is(err, ErrCapacityReached) {
		t.Fatalf("expected ErrCapacityReached for second male, got %v", err)
	}

	// a full male bucket must not block female admissions
	admit(t, r, 1, "f1@x.com", "female")
	admit(t, r, 1, "f2@x.com", "Female")

	err = r.AdmitAndCreate(context.Background(), &Registration{EventID: 1, Email: "f3@x.com", Gender: "female"}, false)
	if !errors.Is(err, ErrCapacityReached) {
		t.Fatalf("expected ErrCapacityReached for third female, got %v", err)
	}
}

// A gender outside the male/female buckets carries no per-gender cap, so an
// exhausted male quota must not spill over onto it.
func TestAdmitSeparateOtherGenderUncapped(t *testing.T) {
	db := newTestDB(t)
	r := NewRepository(db)
	seedEvent(t, db, &event.Event{
		ID:                     1,
		RegistrationCountType:  event.CountTypeSeparate,
		MaxMaleRegistrations:   intPtr(1),
		MaxFemaleRegistrations: intPtr(10),
	})

	admit(t, r, 1, "m1@x.com", "male")
	admit(t, r, 1, "o1@x.com", "other")
	admit(t, r, 1, "o2@x.com", "other")
}

func TestGenderQuota(t *testing.T) {
	ev := &event.Event{
		MaxMaleRegistrations:   intPtr(5),
		MaxFemaleRegistrations: intPtr(7),
	}
	if q := genderQuota(ev, "Male"); q == nil || *q != 5 {
		t.Errorf("male quota = %v, want 5", q)
	}
	if q := genderQuota(ev, " female "); q == nil || *q != 7 {
		t.Errorf("female quota = %v, want 7", q)
	}
	if q := genderQuota(ev, "other"); q != nil {
		t.Errorf("other gender quota = %v, want nil (uncapped)", *q)
	}
}

func TestAdmitDuplicateByUser(t *testing.T) {
	db := newTestDB(t)
	r := NewRepository(db)
	seedEvent(t, db, &event.Event{ID: 1})

	uid := uint(42)
	first := &Registration{EventID: 1, UserID: &uid, Email: "player@x.com", Gender: "male"}
	if err := r.AdmitAndCreate(context.Background(), first, false); err != nil {
		t.Fatalf("first admit: %v", err)
	}

	// same user, different email
	dup := &Registration{EventID: 1, UserID: &uid, Email: "alias@x.com", Gender: "male"}
	if err := r.AdmitAndCreate(context.Background(), dup, false); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered for same user, got %v", err)
	}
}

func TestAdmitDuplicateByEmail(t *testing.T) {
	db := newTestDB(t)
	r := NewRepository(db)
	seedEvent(t, db, &event.Event{ID: 1})

	first := &Registration{EventID: 1, Email: "Player@X.com", Gender: "female"}
	if err := r.AdmitAndCreate(context.Background(), first, false); err != nil {
		t.Fatalf("first admit: %v", err)
	}

	dup := &Registration{EventID: 1, Email: "player@x.com", Gender: "female"}
	if err := r.AdmitAndCreate(context.Background(), dup, false); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered for same email, got %v", err)
	}
}

func TestAdmitAfterRejectionAllowed(t *testing.T) {
	db := newTestDB(t)
	r := NewRepository(db)
	seedEvent(t, db, &event.Event{ID: 1})

	first := &Registration{EventID: 1, Email: "retry@x.com", Gender: "male"}
	if err := r.AdmitAndCreate(context.Background(), first, false); err != nil {
		t.Fatalf("first admit: %v", err)
	}
	if _, err := r.Reject(first.ID); err != nil {
		t.Fatalf("reject: %v", err)
	}

	// a rejected registration no longer counts as a duplicate
	again := &Registration{EventID: 1, Email: "retry@x.com", Gender: "male"}
	if err := r.AdmitAndCreate(context.Background(), again, false); err != nil {
		t.Fatalf("re-admit after rejection: %v", err)
	}
}

func TestAdmitMissingGender(t *testing.T) {
	db := newTestDB(t)
	r := NewRepository(db)
	seedEvent(t, db, &event.Event{ID: 1, RegistrationCountType: event.CountTypeSeparate, MaxMaleRegistrations: intPtr(5)})

	err := r.AdmitAndCreate(context.Background(), &Registration{EventID: 1, Email: "x@x.com"}, false)
	if !errors.Is(err, ErrProfileIncomplete) {
		t.Fatalf("expected ErrProfileIncomplete, got %v", err)
	}
}

func TestAdmitPaymentProofRequiredRollsBack(t *testing.T) {
	db := newTestDB(t)
	r := NewRepository(db)
	seedEvent(t, db, &event.Event{ID: 1, IsPaid: true})

	err := r.AdmitAndCreate(context.Background(), &Registration{EventID: 1, Email: "x@x.com", Gender: "male"}, true)
	if !errors.Is(err, ErrPaymentProofRequired) {
		t.Fatalf("expected ErrPaymentProofRequired, got %v", err)
	}

	var count int64
	if err := db.Model(&Registration{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no rows after refused admission, got %d", count)
	}
}

func TestAdmitUnknownEvent(t *testing.T) {
	db := newTestDB(t)
	r := NewRepository(db)

	err := r.AdmitAndCreate(context.Background(), &Registration{EventID: 99, Email: "x@x.com", Gender: "male"}, false)
	if !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
}

func TestInitialStatus(t *testing.T) {
	if got := initialStatus(&event.Event{IsPaid: false}); got != StatusPaid {
		t.Errorf("free event initial status = %q, want %q", got, StatusPaid)
	}
	if got := initialStatus(&event.Event{IsPaid: true}); got != StatusPending {
		t.Errorf("paid event initial status = %q, want %q", got, StatusPending)
	}
}

func TestApproveLifecycle(t *testing.T) {
	db := newTestDB(t)
	r := NewRepository(db)
	seedEvent(t, db, &event.Event{ID: 1})

	reg := &Registration{EventID: 1, Email: "x@x.com", Gender: "male", PaymentStatus: StatusPending}
	if err := r.AdmitAndCreate(context.Background(), reg, false); err != nil {
		t.Fatalf("admit: %v", err)
	}

	approved, err := r.Approve(reg.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.PaymentStatus != StatusPaid {
		t.Fatalf("status after approve = %q, want %q", approved.PaymentStatus, StatusPaid)
	}

	// approving twice is a no-op
	again, err := r.Approve(reg.ID)
	if err != nil {
		t.Fatalf("second approve: %v", err)
	}
	if again.PaymentStatus != StatusPaid {
		t.Fatalf("status after second approve = %q, want %q", again.PaymentStatus, StatusPaid)
	}

	// a paid registration cannot be rejected
	if _, err := r.Reject(reg.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition rejecting a paid registration, got %v", err)
	}
}

func TestRejectLifecycle(t *testing.T) {
	db := newTestDB(t)
	r := NewRepository(db)
	seedEvent(t, db, &event.Event{ID: 1})

	reg := &Registration{EventID: 1, Email: "x@x.com", Gender: "female", PaymentStatus: StatusPending}
	if err := r.AdmitAndCreate(context.Background(), reg, false); err != nil {
		t.Fatalf("admit: %v", err)
	}

	rejected, err := r.Reject(reg.ID)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.PaymentStatus != StatusRejected {
		t.Fatalf("status after reject = %q, want %q", rejected.PaymentStatus, StatusRejected)
	}

	// rejecting twice is a no-op
	if _, err := r.Reject(reg.ID); err != nil {
		t.Fatalf("second reject: %v", err)
	}

	// rejected is terminal, it cannot be approved afterwards
	if _, err := r.Approve(reg.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition approving a rejected registration, got %v", err)
	}
}

func TestDeleteMissingRegistration(t *testing.T) {
	db := newTestDB(t)
	r := NewRepository(db)

	if err := r.Delete(123); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
