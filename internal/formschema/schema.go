package formschema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
)

var (
	// ErrLockedField is returned when an operation would remove, retype or
	// duplicate a system-mandatory field
	ErrLockedField = errors.New("locked fields cannot be removed, duplicated or retyped")

	// ErrFieldNotFound is returned when the target field id is absent
	ErrFieldNotFound = errors.New("field not found in schema")

	// ErrUnknownFieldType is returned for a type outside the registry
	ErrUnknownFieldType = errors.New("unknown field type")
)

// MoveDirection selects the neighbour a field is swapped with
type MoveDirection string

const (
	MoveUp   MoveDirection = "up"
	MoveDown MoveDirection = "down"
)

// Schema is the ordered field list attached to one event
type Schema []FieldDefinition

// DefaultSchema returns the seed schema every new event starts with:
// the locked identity fields, always required
func DefaultSchema() Schema {
	return Schema{
		{ID: LockedFieldName, Type: FieldText, Label: "Full Name", Required: true, Locked: true},
		{ID: LockedFieldEmail, Type: FieldEmail, Label: "Email", Required: true, Locked: true},
		{ID: LockedFieldMobile, Type: FieldTel, Label: "Mobile Number", Required: true, Locked: true},
		{ID: LockedFieldProfileImage, Type: FieldFile, Label: "Profile Photo", Required: true, Locked: true,
			AcceptedTypes: []string{".jpg", ".jpeg", ".png"}, MaxFileSize: 2},
	}
}

// indexOf returns the position of fieldID or -1
func (s Schema) indexOf(fieldID string) int {
	for i, f := range s {
		if f.ID == fieldID {
			return i
		}
	}
	return -1
}

// Field returns the definition for fieldID, if present
func (s Schema) Field(fieldID string) (FieldDefinition, bool) {
	if i := s.indexOf(fieldID); i >= 0 {
		return s[i], true
	}
	return FieldDefinition{}, false
}

// ===========================
// 🛠 Schema operations
//
// Every operation returns a new schema; the input is never mutated, so a
// failed edit leaves the stored schema untouched.

// AddField appends a new field of the given type
func AddField(s Schema, t FieldType) (Schema, error) {
	if !IsValidFieldType(t) {
		return s, fmt.Errorf("%w: %q", ErrUnknownFieldType, t)
	}
	out := s.copy()
	out = append(out, NewField(t))
	return out, nil
}

// RemoveField drops fieldID. Locked fields are immune, and the schema can
// never shrink below the locked-field count.
func RemoveField(s Schema, fieldID string) (Schema, error) {
	i := s.indexOf(fieldID)
	if i < 0 {
		return s, ErrFieldNotFound
	}
	if s[i].Locked || IsLockedFieldID(fieldID) {
		return s, ErrLockedField
	}
	if len(s)-1 < len(LockedFieldIDs) {
		return s, ErrLockedField
	}
	out := s.copy()
	out = append(out[:i], out[i+1:]...)
	return out, nil
}

// DuplicateField inserts a copy with a new id directly after the original
func DuplicateField(s Schema, fieldID string) (Schema, error) {
	i := s.indexOf(fieldID)
	if i < 0 {
		return s, ErrFieldNotFound
	}
	if s[i].Locked || IsLockedFieldID(fieldID) {
		return s, ErrLockedField
	}
	dup := s[i].clone()
	dup.ID = NewField(dup.Type).ID
	dup.Locked = false

	out := s.copy()
	out = append(out, FieldDefinition{})
	copy(out[i+2:], out[i+1:])
	out[i+1] = dup
	return out, nil
}

// MoveField swaps fieldID with its neighbour; a move past either boundary is a no-op
func MoveField(s Schema, fieldID string, dir MoveDirection) (Schema, error) {
	i := s.indexOf(fieldID)
	if i < 0 {
		return s, ErrFieldNotFound
	}

	j := i
	switch dir {
	case MoveUp:
		j = i - 1
	case MoveDown:
		j = i + 1
	default:
		return s, fmt.Errorf("invalid move direction %q", dir)
	}

	if j < 0 || j >= len(s) {
		return s, nil // boundary: no-op
	}

	out := s.copy()
	out[i], out[j] = out[j], out[i]
	return out, nil
}

// Retype switches fieldID to newType. Locked fields are immune. Switching
// into a choice type from a non-choice type seeds one default option;
// attributes belonging to the old type are cleared.
func Retype(s Schema, fieldID string, newType FieldType) (Schema, error) {
	if !IsValidFieldType(newType) {
		return s, fmt.Errorf("%w: %q", ErrUnknownFieldType, newType)
	}
	i := s.indexOf(fieldID)
	if i < 0 {
		return s, ErrFieldNotFound
	}
	if s[i].Locked || IsLockedFieldID(fieldID) {
		return s, ErrLockedField
	}

	out := s.copy()
	f := &out[i]
	wasChoice := f.Type.IsChoice()
	f.Type = newType
	clearForeignAttributes(f)
	if newType.IsChoice() && !wasChoice {
		f.Options = nil
	}
	applyTypeDefaults(f)
	return out, nil
}

// ===========================
// ✅ Validation

// ValidationError carries every offending field, not just the first
type ValidationError struct {
	MissingLabels  []string `json:"missing_labels"`  // non-display fields with empty label
	MissingOptions []string `json:"missing_options"` // choice fields with no options
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.MissingLabels) > 0 {
		parts = append(parts, fmt.Sprintf("label required for fields: %s", strings.Join(e.MissingLabels, ", ")))
	}
	if len(e.MissingOptions) > 0 {
		parts = append(parts, fmt.Sprintf("at least one option required for fields: %s", strings.Join(e.MissingOptions, ", ")))
	}
	return strings.Join(parts, "; ")
}

// Validate checks the structural invariants of the whole schema
func Validate(s Schema) error {
	verr := &ValidationError{}
	for _, f := range s {
		if !f.Type.IsDisplay() && strings.TrimSpace(f.Label) == "" {
			verr.MissingLabels = append(verr.MissingLabels, f.ID)
		}
		if f.Type.IsChoice() && len(f.Options) == 0 {
			verr.MissingOptions = append(verr.MissingOptions, f.ID)
		}
	}
	if len(verr.MissingLabels) > 0 || len(verr.MissingOptions) > 0 {
		return verr
	}
	return nil
}

// EnsureLockedFields verifies the fixed identity fields are all present,
// unique and marked required; used before persisting organizer edits
func EnsureLockedFields(s Schema) error {
	seen := map[string]int{}
	for _, f := range s {
		if IsLockedFieldID(f.ID) {
			seen[f.ID]++
			if !f.Locked || !f.Required {
				return fmt.Errorf("field %q must stay locked and required", f.ID)
			}
		}
	}
	for _, id := range LockedFieldIDs {
		if seen[id] == 0 {
			return fmt.Errorf("mandatory field %q is missing", id)
		}
		if seen[id] > 1 {
			return fmt.Errorf("mandatory field %q is duplicated", id)
		}
	}
	return nil
}

// ===========================
// 📦 JSONB codec

// ToJSON serialises the schema for the events.schema jsonb column
func ToJSON(s Schema) (datatypes.JSON, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return datatypes.JSON(raw), nil
}

// FromJSON decodes the stored column back into a Schema
func FromJSON(raw datatypes.JSON) (Schema, error) {
	if len(raw) == 0 {
		return DefaultSchema(), nil
	}
	var s Schema
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}
	return s, nil
}

func (s Schema) copy() Schema {
	out := make(Schema, len(s))
	copy(out, s)
	return out
}
