package validator

import (
	"reflect"
	"strings"

	"github.com/SAP-F-2025/practice-engine/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator is the main validator instance that combines struct tags and
// exercise business rules
type Validator struct {
	structValidator   *validator.Validate
	exerciseValidator *ExerciseValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		exerciseValidator: NewExerciseValidator(),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate performs complete validation (struct + exercise rules)
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		if errs := ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}

	if def, ok := s.(*models.ExerciseDefinition); ok {
		if err := v.exerciseValidator.ValidateContent(def); err != nil {
			return ValidationErrors{{
				Field:   "content",
				Message: err.Error(),
				Value:   def.ID,
				Rule:    "exercise_content",
			}}
		}
	}

	return nil
}

// Exercise returns the exercise validator
func (v *Validator) Exercise() *ExerciseValidator {
	return v.exerciseValidator
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("exercise_type", validateExerciseType)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateExerciseType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, t := range models.ExerciseTypes {
		if string(t) == value {
			return true
		}
	}
	return false
}
