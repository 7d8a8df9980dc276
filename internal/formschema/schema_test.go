package formschema

import (
	"errors"
	"testing"
)

func TestDefaultSchemaHasAllLockedFields(t *testing.T) {
	s := DefaultSchema()

	if len(s) != len(LockedFieldIDs) {
		t.Fatalf("expected %d fields, got %d", len(LockedFieldIDs), len(s))
	}
	for _, id := range LockedFieldIDs {
		f, ok := s.Field(id)
		if !ok {
			t.Fatalf("locked field %q missing from default schema", id)
		}
		if !f.Locked {
			t.Errorf("field %q should be locked", id)
		}
		if !f.Required {
			t.Errorf("field %q should be required", id)
		}
	}
	if err := Validate(s); err != nil {
		t.Errorf("default schema should validate, got %v", err)
	}
	if err := EnsureLockedFields(s); err != nil {
		t.Errorf("default schema should pass locked-field check, got %v", err)
	}
}

func TestAddFieldDefaults(t *testing.T) {
	s := DefaultSchema()

	s, err := AddField(s, FieldSelect)
	if err != nil {
		t.Fatalf("AddField(select): %v", err)
	}
	added := s[len(s)-1]
	if added.ID == "" {
		t.Error("added field should have a generated id")
	}
	if added.Required {
		t.Error("added field should default to not required")
	}
	if len(added.Options) != 1 {
		t.Errorf("choice field should be seeded with one option, got %v", added.Options)
	}

	s, err = AddField(s, FieldFile)
	if err != nil {
		t.Fatalf("AddField(file): %v", err)
	}
	added = s[len(s)-1]
	if len(added.AcceptedTypes) == 0 {
		t.Error("file field should have default accepted types")
	}
	if added.MaxFileSize == 0 {
		t.Error("file field should have a default max size")
	}

	if _, err := AddField(s, FieldType("carousel")); !errors.Is(err, ErrUnknownFieldType) {
		t.Errorf("expected ErrUnknownFieldType, got %v", err)
	}
}

func TestRemoveFieldProtectsLockedSet(t *testing.T) {
	s := DefaultSchema()

	for _, id := range LockedFieldIDs {
		before := len(s)
		out, err := RemoveField(s, id)
		if !errors.Is(err, ErrLockedField) {
			t.Errorf("RemoveField(%q): expected ErrLockedField, got %v", id, err)
		}
		if len(out) != before {
			t.Errorf("RemoveField(%q): schema changed on failure", id)
		}
	}

	s, _ = AddField(s, FieldText)
	customID := s[len(s)-1].ID
	out, err := RemoveField(s, customID)
	if err != nil {
		t.Fatalf("RemoveField(custom): %v", err)
	}
	if len(out) != len(LockedFieldIDs) {
		t.Errorf("expected %d fields after removal, got %d", len(LockedFieldIDs), len(out))
	}

	if _, err := RemoveField(s, "no-such-field"); !errors.Is(err, ErrFieldNotFound) {
		t.Errorf("expected ErrFieldNotFound, got %v", err)
	}
}

func TestDuplicateField(t *testing.T) {
	s := DefaultSchema()
	s, _ = AddField(s, FieldRadio)
	origID := s[len(s)-1].ID

	if _, err := DuplicateField(s, LockedFieldEmail); !errors.Is(err, ErrLockedField) {
		t.Errorf("duplicating locked field: expected ErrLockedField, got %v", err)
	}

	out, err := DuplicateField(s, origID)
	if err != nil {
		t.Fatalf("DuplicateField: %v", err)
	}
	if len(out) != len(s)+1 {
		t.Fatalf("expected %d fields, got %d", len(s)+1, len(out))
	}

	origIdx := out.indexOf(origID)
	dup := out[origIdx+1]
	if dup.ID == origID {
		t.Error("duplicate should get a fresh id")
	}
	if dup.Type != FieldRadio {
		t.Errorf("duplicate should keep type, got %v", dup.Type)
	}
	if len(dup.Options) != len(s[len(s)-1].Options) {
		t.Error("duplicate should copy options")
	}
	if dup.Locked {
		t.Error("duplicate must never be locked")
	}
}

func TestMoveFieldBoundaries(t *testing.T) {
	s := DefaultSchema()
	first := s[0].ID
	last := s[len(s)-1].ID

	out, err := MoveField(s, first, MoveUp)
	if err != nil {
		t.Fatalf("MoveField(first, up): %v", err)
	}
	if out[0].ID != first {
		t.Error("moving first field up should be a no-op")
	}

	out, err = MoveField(s, last, MoveDown)
	if err != nil {
		t.Fatalf("MoveField(last, down): %v", err)
	}
	if out[len(out)-1].ID != last {
		t.Error("moving last field down should be a no-op")
	}

	out, err = MoveField(s, first, MoveDown)
	if err != nil {
		t.Fatalf("MoveField(first, down): %v", err)
	}
	if out[1].ID != first || out[0].ID != s[1].ID {
		t.Error("move down should swap with the next field")
	}
}

func TestRetype(t *testing.T) {
	s := DefaultSchema()
	s, _ = AddField(s, FieldText)
	fieldID := s[len(s)-1].ID

	if _, err := Retype(s, LockedFieldMobile, FieldText); !errors.Is(err, ErrLockedField) {
		t.Errorf("retyping locked field: expected ErrLockedField, got %v", err)
	}

	out, err := Retype(s, fieldID, FieldSelect)
	if err != nil {
		t.Fatalf("Retype(text -> select): %v", err)
	}
	f, _ := out.Field(fieldID)
	if len(f.Options) != 1 {
		t.Errorf("retype into choice type should seed one option, got %v", f.Options)
	}

	// choice -> choice keeps existing options
	out2, err := Retype(out, fieldID, FieldCheckbox)
	if err != nil {
		t.Fatalf("Retype(select -> checkbox): %v", err)
	}
	f2, _ := out2.Field(fieldID)
	if len(f2.Options) != len(f.Options) {
		t.Error("retype between choice types should keep options")
	}

	// choice -> file clears options, seeds file defaults
	out3, err := Retype(out2, fieldID, FieldFile)
	if err != nil {
		t.Fatalf("Retype(checkbox -> file): %v", err)
	}
	f3, _ := out3.Field(fieldID)
	if f3.Options != nil {
		t.Errorf("file field should not carry options, got %v", f3.Options)
	}
	if len(f3.AcceptedTypes) == 0 {
		t.Error("file field should get default accepted types")
	}
}

func TestValidateListsEveryOffender(t *testing.T) {
	s := DefaultSchema()
	s, _ = AddField(s, FieldText)
	noLabel1 := s[len(s)-1].ID
	s, _ = AddField(s, FieldNumber)
	noLabel2 := s[len(s)-1].ID
	s, _ = AddField(s, FieldSelect)
	noOptions := s[len(s)-1].ID
	s[len(s)-1].Label = "Category"
	s[len(s)-1].Options = nil
	s, _ = AddField(s, FieldNote) // display type: label not required
	s[len(s)-1].Content = "Please read the rules"

	err := Validate(s)
	if err == nil {
		t.Fatal("expected validation error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}

	if len(verr.MissingLabels) != 2 {
		t.Errorf("expected 2 missing labels, got %v", verr.MissingLabels)
	}
	for _, want := range []string{noLabel1, noLabel2} {
		found := false
		for _, got := range verr.MissingLabels {
			if got == want {
				found = true
			}
		}
		if !found {
			t.Errorf("missing label list should contain %q, got %v", want, verr.MissingLabels)
		}
	}
	if len(verr.MissingOptions) != 1 || verr.MissingOptions[0] != noOptions {
		t.Errorf("expected missing options for %q, got %v", noOptions, verr.MissingOptions)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	s := DefaultSchema()
	s, _ = AddField(s, FieldSelect)
	s[len(s)-1].Label = "T-Shirt Size"
	s[len(s)-1].Options = []string{"S", "M", "L", "XL"}

	raw, err := ToJSON(s)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	back, err := FromJSON(raw)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if len(back) != len(s) {
		t.Fatalf("round trip changed field count: %d != %d", len(back), len(s))
	}
	f, ok := back.Field(s[len(s)-1].ID)
	if !ok || f.Label != "T-Shirt Size" || len(f.Options) != 4 {
		t.Errorf("round trip lost field data: %+v", f)
	}

	// empty column falls back to the default schema
	fallback, err := FromJSON(nil)
	if err != nil {
		t.Fatalf("FromJSON(nil): %v", err)
	}
	if err := EnsureLockedFields(fallback); err != nil {
		t.Errorf("fallback schema should carry locked fields: %v", err)
	}
}
