package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	errors "github.com/frahmantamala/order-admin/internal"
)

type ValidatorFunc func(interface{}) *errors.AppError

type FieldValidator struct {
	FieldName  string
	Label      string
	Value      interface{}
	Validators []ValidatorFunc
}

type ValidationBuilder struct {
	fields []*FieldValidator
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{
		fields: make([]*FieldValidator, 0),
	}
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := &FieldValidator{
		FieldName:  name,
		Label:      name,
		Value:      value,
		Validators: make([]ValidatorFunc, 0),
	}
	v.fields = append(v.fields, fv)
	return fv
}

// Named sets the label used in messages shown to users.
func (fv *FieldValidator) Named(label string) *FieldValidator {
	fv.Label = label
	return fv
}

func (fv *FieldValidator) Required() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		missing := false
		switch v := value.(type) {
		case string:
			missing = strings.TrimSpace(v) == ""
		case *string:
			missing = v == nil || strings.TrimSpace(*v) == ""
		case int64:
			missing = v == 0
		case nil:
			missing = true
		}
		if missing {
			return errors.NewValidationFieldError(fv.FieldName, fmt.Sprintf("%s gereklidir", fv.Label), errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MaxLength(max int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := stringValue(value); ok && utf8.RuneCountInString(v) > max {
			message := fmt.Sprintf("%s en fazla %d karakter olabilir", fv.Label, max)
			return errors.NewValidationFieldError(fv.FieldName, message, errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

// MaxBytes limits the encoded size of a string, not its rune count.
func (fv *FieldValidator) MaxBytes(max int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := stringValue(value); ok && len(v) > max {
			message := fmt.Sprintf("%s en fazla %d bayt olabilir", fv.Label, max)
			return errors.NewValidationFieldError(fv.FieldName, message, errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

// Email accepts an empty value; anything else must parse as an address.
func (fv *FieldValidator) Email() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		v, ok := stringValue(value)
		if !ok || v == "" {
			return nil
		}
		if _, err := mail.ParseAddress(v); err != nil {
			message := fmt.Sprintf("%s geçerli bir e-posta adresi değil", fv.Label)
			return errors.NewValidationFieldError(fv.FieldName, message, errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Custom(validator func(interface{}) *errors.AppError) *FieldValidator {
	fv.Validators = append(fv.Validators, validator)
	return fv
}

func (v *ValidationBuilder) Validate() *errors.AppError {
	var validationErrors []errors.ValidationError

	for _, field := range v.fields {
		for _, validator := range field.Validators {
			appErr := validator(field.Value)
			if appErr == nil {
				continue
			}

			if details, ok := appErr.Details.(errors.ValidationErrors); ok {
				validationErrors = append(validationErrors, details.Errors...)
			} else {
				validationErrors = append(validationErrors, errors.ValidationError{
					Field:   field.FieldName,
					Message: appErr.Message,
					Code:    string(appErr.Code),
				})
			}
			// first failure per field is enough
			break
		}
	}

	if len(validationErrors) > 0 {
		return errors.NewValidationError("Validation failed", errors.ErrCodeValidationFailed).
			WithDetails(errors.ValidationErrors{Errors: validationErrors})
	}

	return nil
}

func stringValue(value interface{}) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case *string:
		if v == nil {
			return "", false
		}
		return *v, true
	}
	return "", false
}

func ValidateCredentials(username, password string) *errors.AppError {
	validator := NewValidator()
	validator.Field("username", username).Named("Kullanıcı adı").Required()
	validator.Field("password", password).Named("Şifre").Required()
	return validator.Validate()
}

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

func ValidatePassword(password string) *errors.AppError {
	validator := NewValidator()
	validator.Field("password", password).Named("Şifre").MaxBytes(MaxPasswordBytes)
	return validator.Validate()
}
