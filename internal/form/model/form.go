// Package model contains data models for the registration form module.
package model

import (
	"sort"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/festy23/eventhub/internal/database/base"
)

// Field types.
const (
	FieldText     = "text"
	FieldTextarea = "textarea"
	FieldEmail    = "email"
	FieldNumber   = "number"
	FieldSelect   = "select"
	FieldRadio    = "radio"
	FieldCheckbox = "checkbox"
	FieldDate     = "date"
	FieldURL      = "url"
	FieldPhone    = "phone"
)

// FieldTypes lists every supported field type.
var FieldTypes = []string{
	FieldText, FieldTextarea, FieldEmail, FieldNumber, FieldSelect,
	FieldRadio, FieldCheckbox, FieldDate, FieldURL, FieldPhone,
}

// Form is the custom registration form of an event. An event has at most one.
type Form struct {
	base.Model
	EventID     uuid.UUID   `json:"event_id" gorm:"column:event_id;type:uuid;not null;uniqueIndex"`
	Title       string      `json:"title" gorm:"column:title"`
	Description string      `json:"description" gorm:"column:description"`
	Fields      []FormField `json:"fields" gorm:"foreignKey:FormID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Form model.
func (Form) TableName() string {
	return "forms"
}

// SortFields orders fields by position.
func (f *Form) SortFields() {
	sort.SliceStable(f.Fields, func(i, j int) bool {
		return f.Fields[i].Position < f.Fields[j].Position
	})
}

// FormField is a single question on a form.
type FormField struct {
	base.Model
	FormID    uuid.UUID                   `json:"form_id" gorm:"column:form_id;type:uuid;not null;index"`
	Label     string                      `json:"label" gorm:"column:label;not null"`
	FieldType string                      `json:"field_type" gorm:"column:field_type;not null"`
	Required  bool                        `json:"required" gorm:"column:required;not null"`
	Options   datatypes.JSONSlice[string] `json:"options" gorm:"column:options"`
	Position  int                         `json:"position" gorm:"column:position;not null"`
}

// TableName specifies the table name for FormField model.
func (FormField) TableName() string {
	return "form_fields"
}

// HasOptions reports whether the field type draws its answer from Options.
func (f *FormField) HasOptions() bool {
	return f.FieldType == FieldSelect || f.FieldType == FieldRadio ||
		(f.FieldType == FieldCheckbox && len(f.Options) > 0)
}

// FormSubmission holds one user's answers to an event form, keyed by field id.
type FormSubmission struct {
	base.Model
	FormID    uuid.UUID         `json:"form_id" gorm:"column:form_id;type:uuid;not null;uniqueIndex:idx_form_submissions_form_user"`
	EventID   uuid.UUID         `json:"event_id" gorm:"column:event_id;type:uuid;not null;index"`
	UserID    uuid.UUID         `json:"user_id" gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_form_submissions_form_user"`
	Responses datatypes.JSONMap `json:"responses" gorm:"column:responses"`
}

// TableName specifies the table name for FormSubmission model.
func (FormSubmission) TableName() string {
	return "form_submissions"
}

// IsValidFieldType reports whether t is a supported field type.
func IsValidFieldType(t string) bool {
	for _, ft := range FieldTypes {
		if ft == t {
			return true
		}
	}
	return false
}
