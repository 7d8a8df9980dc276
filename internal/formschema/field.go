package formschema

import (
	"github.com/google/uuid"
)

// FieldType enumerates the allowed form-field variants
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldEmail    FieldType = "email"
	FieldTel      FieldType = "tel"
	FieldNumber   FieldType = "number"
	FieldSelect   FieldType = "select"
	FieldRadio    FieldType = "radio"
	FieldCheckbox FieldType = "checkbox"
	FieldFile     FieldType = "file"
	FieldDate     FieldType = "date"
	FieldTime     FieldType = "time"
	FieldURL      FieldType = "url"
	FieldNote     FieldType = "note"
	FieldImage    FieldType = "image"
)

// AllFieldTypes lists every registered type, in display order
var AllFieldTypes = []FieldType{
	FieldText, FieldTextarea, FieldEmail, FieldTel, FieldNumber,
	FieldSelect, FieldRadio, FieldCheckbox, FieldFile,
	FieldDate, FieldTime, FieldURL, FieldNote, FieldImage,
}

// IsValidFieldType reports whether t is a registered type
func IsValidFieldType(t FieldType) bool {
	for _, ft := range AllFieldTypes {
		if ft == t {
			return true
		}
	}
	return false
}

// IsChoice reports whether the type carries an options list
func (t FieldType) IsChoice() bool {
	return t == FieldSelect || t == FieldRadio || t == FieldCheckbox
}

// IsDisplay reports whether the type renders static content only (no answer)
func (t FieldType) IsDisplay() bool {
	return t == FieldNote || t == FieldImage
}

// IsFile reports whether answers to this field are stored file references
func (t FieldType) IsFile() bool {
	return t == FieldFile
}

// ===========================
// 🔷 Field Definition
//
// One record covers every variant; per-type attributes are populated only for
// the types they belong to and cleared on retype.
type FieldDefinition struct {
	ID            string    `json:"id"`
	Type          FieldType `json:"type"`
	Label         string    `json:"label"`
	Required      bool      `json:"required"`
	Locked        bool      `json:"locked,omitempty"`
	Options       []string  `json:"options,omitempty"`       // select / radio / checkbox
	AcceptedTypes []string  `json:"acceptedTypes,omitempty"` // file
	MaxFileSize   int       `json:"maxFileSize,omitempty"`   // file, in MB
	HelpText      string    `json:"helpText,omitempty"`
	Content       string    `json:"content,omitempty"`  // note
	ImageURL      string    `json:"imageUrl,omitempty"` // image
}

// Locked field ids are always sourced from the registrant's verified profile
const (
	LockedFieldName         = "full_name"
	LockedFieldEmail        = "email"
	LockedFieldMobile       = "mobile"
	LockedFieldProfileImage = "profile_image"
)

// LockedFieldIDs is the fixed, ordered set of system-mandatory fields
var LockedFieldIDs = []string{
	LockedFieldName,
	LockedFieldEmail,
	LockedFieldMobile,
	LockedFieldProfileImage,
}

// IsLockedFieldID reports whether id belongs to the fixed locked set
func IsLockedFieldID(id string) bool {
	for _, locked := range LockedFieldIDs {
		if locked == id {
			return true
		}
	}
	return false
}

// NewField builds a field of the given type with a generated id and
// type-appropriate defaults
func NewField(t FieldType) FieldDefinition {
	f := FieldDefinition{
		ID:       uuid.NewString(),
		Type:     t,
		Required: false,
	}
	applyTypeDefaults(&f)
	return f
}

// applyTypeDefaults seeds the attributes a freshly created or retyped field needs
func applyTypeDefaults(f *FieldDefinition) {
	if f.Type.IsChoice() && len(f.Options) == 0 {
		f.Options = []string{"Option 1"}
	}
	if f.Type.IsFile() && len(f.AcceptedTypes) == 0 {
		f.AcceptedTypes = []string{".pdf", ".jpg", ".jpeg", ".png"}
		f.MaxFileSize = 5
	}
}

// clearForeignAttributes drops attributes that do not belong to the field's type
func clearForeignAttributes(f *FieldDefinition) {
	if !f.Type.IsChoice() {
		f.Options = nil
	}
	if !f.Type.IsFile() {
		f.AcceptedTypes = nil
		f.MaxFileSize = 0
	}
	if f.Type != FieldNote {
		f.Content = ""
	}
	if f.Type != FieldImage {
		f.ImageURL = ""
	}
}

// clone returns a deep copy of the field
func (f FieldDefinition) clone() FieldDefinition {
	c := f
	if f.Options != nil {
		c.Options = append([]string(nil), f.Options...)
	}
	if f.AcceptedTypes != nil {
		c.AcceptedTypes = append([]string(nil), f.AcceptedTypes...)
	}
	return c
}
