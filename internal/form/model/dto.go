package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// FieldRequest describes one field in a form definition.
type FieldRequest struct {
	Label     string   `json:"label" binding:"required,max=255"`
	FieldType string   `json:"field_type" binding:"required,fieldtype"`
	Required  bool     `json:"required"`
	Options   []string `json:"options" binding:"omitempty,dive,required,max=255"`
	Position  int      `json:"position"`
}

// FormRequest replaces an event's form definition.
type FormRequest struct {
	Title       string         `json:"title" binding:"max=255"`
	Description string         `json:"description"`
	Fields      []FieldRequest `json:"fields" binding:"required,min=1,max=50,dive"`
}

// Validate checks that choice fields carry options.
func (r *FormRequest) Validate() error {
	for i, f := range r.Fields {
		if (f.FieldType == FieldSelect || f.FieldType == FieldRadio) && len(f.Options) == 0 {
			return fmt.Errorf("%w: field %d (%s)", ErrOptionsRequired, i, f.Label)
		}
	}
	return nil
}

// ToForm builds a Form for eventID from the request.
func (r *FormRequest) ToForm(eventID uuid.UUID) *Form {
	form := &Form{
		EventID:     eventID,
		Title:       r.Title,
		Description: r.Description,
		Fields:      make([]FormField, 0, len(r.Fields)),
	}
	for i, f := range r.Fields {
		position := f.Position
		if position == 0 {
			position = i + 1
		}
		options := f.Options
		if options == nil {
			options = []string{}
		}
		form.Fields = append(form.Fields, FormField{
			Label:     f.Label,
			FieldType: f.FieldType,
			Required:  f.Required,
			Options:   options,
			Position:  position,
		})
	}
	form.SortFields()
	return form
}

// SubmissionView is a submission joined with the submitter's profile.
type SubmissionView struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"user_id"`
	FullName  string         `json:"full_name"`
	Email     string         `json:"email"`
	Responses map[string]any `json:"responses"`
	CreatedAt time.Time      `json:"created_at"`
}
