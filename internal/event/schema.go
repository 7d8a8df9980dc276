package event

import (
	"context"
	"errors"

	"github.com/kiran026/sports-portal-backend/internal/formschema"
	"github.com/kiran026/sports-portal-backend/middleware"
	"github.com/kiran026/sports-portal-backend/utils"
)

// ===========================
// 🧾 Schema editing
//
// Structural edits (add/remove/duplicate/move/retype) are applied server-side
// so the locked-field invariants are re-enforced on every mutation. A full
// save re-validates the whole field list and rejects it en bloc if any field
// is missing a label or options.

// GetSchema decodes the stored field list of an event
func (s *Service) GetSchema(eventID uint) (formschema.Schema, error) {
	ev, err := s.Repo.GetEventByID(eventID)
	if err != nil {
		return nil, err
	}
	return formschema.FromJSON(ev.Schema)
}

// AddSchemaField appends a new field of the given type
func (s *Service) AddSchemaField(eventID uint, fieldType string, accessContext middleware.AccessContext, ip string) (formschema.Schema, error) {
	return s.mutateSchema(eventID, accessContext, ip, "SCHEMA_FIELD_ADDED", func(sc formschema.Schema) (formschema.Schema, error) {
		return formschema.AddField(sc, formschema.FieldType(fieldType))
	})
}

// RemoveSchemaField drops a non-locked field
func (s *Service) RemoveSchemaField(eventID uint, fieldID string, accessContext middleware.AccessContext, ip string) (formschema.Schema, error) {
	return s.mutateSchema(eventID, accessContext, ip, "SCHEMA_FIELD_REMOVED", func(sc formschema.Schema) (formschema.Schema, error) {
		return formschema.RemoveField(sc, fieldID)
	})
}

// DuplicateSchemaField copies a non-locked field directly after the original
func (s *Service) DuplicateSchemaField(eventID uint, fieldID string, accessContext middleware.AccessContext, ip string) (formschema.Schema, error) {
	return s.mutateSchema(eventID, accessContext, ip, "SCHEMA_FIELD_DUPLICATED", func(sc formschema.Schema) (formschema.Schema, error) {
		return formschema.DuplicateField(sc, fieldID)
	})
}

// MoveSchemaField swaps a field with its neighbour
func (s *Service) MoveSchemaField(eventID uint, fieldID, direction string, accessContext middleware.AccessContext, ip string) (formschema.Schema, error) {
	return s.mutateSchema(eventID, accessContext, ip, "SCHEMA_FIELD_MOVED", func(sc formschema.Schema) (formschema.Schema, error) {
		return formschema.MoveField(sc, fieldID, formschema.MoveDirection(direction))
	})
}

// UpdateSchemaField patches label/options/attributes and optionally retypes
func (s *Service) UpdateSchemaField(eventID uint, fieldID string, req *UpdateFieldRequest, accessContext middleware.AccessContext, ip string) (formschema.Schema, error) {
	return s.mutateSchema(eventID, accessContext, ip, "SCHEMA_FIELD_UPDATED", func(sc formschema.Schema) (formschema.Schema, error) {
		current, ok := sc.Field(fieldID)
		if !ok {
			return sc, formschema.ErrFieldNotFound
		}

		if req.Type != nil && formschema.FieldType(*req.Type) != current.Type {
			var err error
			sc, err = formschema.Retype(sc, fieldID, formschema.FieldType(*req.Type))
			if err != nil {
				return sc, err
			}
		}

		out := make(formschema.Schema, len(sc))
		copy(out, sc)
		for i := range out {
			if out[i].ID != fieldID {
				continue
			}
			f := &out[i]
			if req.Label != nil {
				f.Label = *req.Label
			}
			if req.Required != nil {
				// locked fields stay required no matter what
				if !f.Locked {
					f.Required = *req.Required
				}
			}
			if req.Options != nil && f.Type.IsChoice() {
				f.Options = *req.Options
			}
			if req.AcceptedTypes != nil && f.Type.IsFile() {
				f.AcceptedTypes = *req.AcceptedTypes
			}
			if req.MaxFileSize != nil && f.Type.IsFile() {
				f.MaxFileSize = *req.MaxFileSize
			}
			if req.HelpText != nil {
				f.HelpText = *req.HelpText
			}
			if req.Content != nil && f.Type == formschema.FieldNote {
				f.Content = *req.Content
			}
			if req.ImageURL != nil && f.Type == formschema.FieldImage {
				f.ImageURL = *req.ImageURL
			}
		}
		return out, nil
	})
}

// SaveSchema replaces the whole field list after full validation.
// Validation failures list every offending field, not just the first.
func (s *Service) SaveSchema(eventID uint, schema formschema.Schema, accessContext middleware.AccessContext, ip string) error {
	if !accessContext.CanWrite() {
		return errors.New("write access denied")
	}

	if err := formschema.EnsureLockedFields(schema); err != nil {
		return err
	}
	if err := formschema.Validate(schema); err != nil {
		return err
	}

	ev, err := s.Repo.GetEventByID(eventID)
	if err != nil {
		return err
	}

	raw, err := formschema.ToJSON(schema)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdateSchema(eventID, raw); err != nil {
		return err
	}

	utils.CacheDelete("event:slug:" + ev.Slug)

	s.AuditSvc.LogAction(context.Background(), &accessContext.UserID, &eventID, "SCHEMA_SAVED",
		map[string]interface{}{"event_id": eventID, "field_count": len(schema)}, ip, "success")
	return nil
}

// mutateSchema loads, transforms and persists an event's schema in one place
func (s *Service) mutateSchema(eventID uint, accessContext middleware.AccessContext, ip, action string,
	apply func(formschema.Schema) (formschema.Schema, error)) (formschema.Schema, error) {

	if !accessContext.CanWrite() {
		return nil, errors.New("write access denied")
	}

	ev, err := s.Repo.GetEventByID(eventID)
	if err != nil {
		return nil, err
	}

	schema, err := formschema.FromJSON(ev.Schema)
	if err != nil {
		return nil, err
	}

	updated, err := apply(schema)
	if err != nil {
		s.AuditSvc.LogAction(context.Background(), &accessContext.UserID, &eventID, action,
			map[string]interface{}{"event_id": eventID, "error": err.Error()}, ip, "failure")
		return nil, err
	}

	raw, err := formschema.ToJSON(updated)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateSchema(eventID, raw); err != nil {
		return nil, err
	}

	utils.CacheDelete("event:slug:" + ev.Slug)

	s.AuditSvc.LogAction(context.Background(), &accessContext.UserID, &eventID, action,
		map[string]interface{}{"event_id": eventID, "field_count": len(updated)}, ip, "success")
	return updated, nil
}
