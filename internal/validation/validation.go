// Package validation registers the domain-specific validator tags used in request bindings.
package validation

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	eventModel "github.com/festy23/eventhub/internal/event/model"
	formModel "github.com/festy23/eventhub/internal/form/model"
)

// Tag names.
const (
	TagEventType = "eventtype"
	TagEventMode = "eventmode"
	TagFieldType = "fieldtype"
)

// ErrUnsupportedEngine is returned when gin is not backed by validator/v10.
var ErrUnsupportedEngine = errors.New("binding validator is not validator/v10")

// Register adds the custom tags to v.
func Register(v *validator.Validate) error {
	tags := map[string]validator.Func{
		TagEventType: func(fl validator.FieldLevel) bool {
			return eventModel.IsValidType(fl.Field().String())
		},
		TagEventMode: func(fl validator.FieldLevel) bool {
			return eventModel.IsValidMode(fl.Field().String())
		},
		TagFieldType: func(fl validator.FieldLevel) bool {
			return formModel.IsValidFieldType(fl.Field().String())
		},
	}

	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

// RegisterGin adds the custom tags to gin's default binding validator.
func RegisterGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return ErrUnsupportedEngine
	}
	return Register(v)
}
