package validation

import (
	"fmt"
	"strings"

	errors "github.com/frahmantamala/workspace-booking/internal"
)

type ValidatorFunc func(interface{}) *errors.AppError

type FieldValidator struct {
	FieldName  string
	Value      interface{}
	Validators []ValidatorFunc
}

type ValidationBuilder struct {
	fields []FieldValidator
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{
		fields: make([]FieldValidator, 0),
	}
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	v.fields = append(v.fields, FieldValidator{
		FieldName:  name,
		Value:      value,
		Validators: make([]ValidatorFunc, 0),
	})
	return &v.fields[len(v.fields)-1]
}

func (fv *FieldValidator) fail(message string, code errors.ErrorCode) *errors.AppError {
	return errors.NewValidationFieldError(fv.FieldName, message, code)
}

// Required rejects blank strings and empty slices.
func (fv *FieldValidator) Required() *FieldValidator {
	return fv.RequiredWithCode(errors.ErrCodeValidationFailed)
}

func (fv *FieldValidator) RequiredWithCode(code errors.ErrorCode) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		missing := false
		switch v := value.(type) {
		case string:
			missing = strings.TrimSpace(v) == ""
		case *string:
			missing = v == nil || strings.TrimSpace(*v) == ""
		case []string:
			missing = len(v) == 0
		}
		if missing {
			return fv.fail(fmt.Sprintf("%s is required", fv.FieldName), code)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MinInt(min int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(int); ok && v < min {
			return fv.fail(fmt.Sprintf("%s must be at least %d", fv.FieldName, min), errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MinLength(min int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok && len(v) < min {
			return fv.fail(fmt.Sprintf("%s must be at least %d characters", fv.FieldName, min), errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MaxLength(max int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok && len(v) > max {
			return fv.fail(fmt.Sprintf("%s must not exceed %d characters", fv.FieldName, max), errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Custom(validator func(interface{}) *errors.AppError) *FieldValidator {
	fv.Validators = append(fv.Validators, validator)
	return fv
}

// Validate runs every rule and collects all field failures. The first
// failure's message becomes the error message. It returns a plain nil error
// when everything passes.
func (v *ValidationBuilder) Validate() error {
	var validationErrors []errors.ValidationError

	for _, field := range v.fields {
		for _, validator := range field.Validators {
			appErr := validator(field.Value)
			if appErr == nil {
				continue
			}
			if details, ok := appErr.Details.(errors.ValidationErrors); ok {
				validationErrors = append(validationErrors, details.Errors...)
				continue
			}
			validationErrors = append(validationErrors, errors.ValidationError{
				Field:   field.FieldName,
				Message: appErr.Message,
				Code:    string(appErr.Code),
			})
		}
	}

	if len(validationErrors) == 0 {
		return nil
	}
	return errors.NewValidationError(validationErrors[0].Message, errors.ErrorCode(validationErrors[0].Code)).
		WithDetails(errors.ValidationErrors{Errors: validationErrors})
}
