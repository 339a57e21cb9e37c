package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Register custom validations
	registerCustomValidations()
}

func registerCustomValidations() {
	// Boat type validation
	validate.RegisterValidation("boat_type", func(fl validator.FieldLevel) bool {
		boatType := fl.Field().String()
		validTypes := []string{"sale", "rental", ""}
		for _, t := range validTypes {
			if boatType == t {
				return true
			}
		}
		return false
	})

	// Boat condition validation
	validate.RegisterValidation("boat_condition", func(fl validator.FieldLevel) bool {
		condition := fl.Field().String()
		validConditions := []string{"new", "used", ""}
		for _, c := range validConditions {
			if condition == c {
				return true
			}
		}
		return false
	})

	// Booking status validation
	validate.RegisterValidation("booking_status", func(fl validator.FieldLevel) bool {
		status := fl.Field().String()
		validStatuses := []string{"pending", "confirmed", "cancelled"}
		for _, s := range validStatuses {
			if status == s {
				return true
			}
		}
		return false
	})

	// Half-hour time slot validation (HH:MM, minutes 00 or 30)
	validate.RegisterValidation("halfhour", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		if len(value) != 5 || value[2] != ':' {
			return false
		}
		hour := value[:2]
		minute := value[3:]
		if hour < "00" || hour > "23" {
			return false
		}
		return minute == "00" || minute == "30"
	})
}

// Error aggregates per-field validation failures so services can hand
// them to a rendering layer intact.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	for field, msg := range e.Fields {
		return "validation failed: " + field + ": " + msg
	}
	return "validation failed"
}

// Check validates a struct and wraps any field errors in *Error.
func Check(s interface{}) error {
	if fields := Validate(s); fields != nil {
		return &Error{Fields: fields}
	}
	return nil
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "url":
			errors[field] = "Invalid URL format"
		case "boat_type":
			errors[field] = "Invalid boat type. Must be: sale or rental"
		case "boat_condition":
			errors[field] = "Invalid boat condition. Must be: new or used"
		case "booking_status":
			errors[field] = "Invalid booking status. Must be: pending, confirmed, or cancelled"
		case "halfhour":
			errors[field] = "Invalid time. Must be a half-hour slot in HH:MM format"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
